package ast

import "github.com/bits-and-blooms/bitset"

// Flag is a bit position within a node's flags bitset (spec.md §3.1).
type Flag uint

const (
	Public Flag = iota
	Extern
	Const
	Static
	Variadic
	Comptime
	Member
	TopLevelDecl
	Generated
	Inherited
	Closure
	TestContext
	ForwardDecl
	IsTypeAst
	Abstract
	Virtual
	Reference
	Move
	ReferenceMembers
	BlockReturns
	Imported
)

// Flags is the 64-bit flag set carried on every AST node. It is backed
// by bits-and-blooms/bitset rather than a raw uint64 so that flag names
// read as set operations (Set/Clear/Test) instead of hand-rolled shifts,
// and so a future flag beyond bit 63 costs nothing.
type Flags struct {
	bits *bitset.BitSet
}

// NewFlags returns an empty flag set.
func NewFlags() Flags {
	return Flags{bits: bitset.New(64)}
}

func (f *Flags) ensure() {
	if f.bits == nil {
		f.bits = bitset.New(64)
	}
}

// Set turns the given flag on and returns the receiver for chaining.
func (f *Flags) Set(flag Flag) Flags {
	f.ensure()
	f.bits.Set(uint(flag))
	return *f
}

// Clear turns the given flag off.
func (f *Flags) Clear(flag Flag) {
	f.ensure()
	f.bits.Clear(uint(flag))
}

// Has reports whether the given flag is set.
func (f Flags) Has(flag Flag) bool {
	if f.bits == nil {
		return false
	}
	return f.bits.Test(uint(flag))
}

// Union returns the bitwise-or of two flag sets.
func (f Flags) Union(other Flags) Flags {
	f.ensure()
	other.ensure()
	out := Flags{bits: f.bits.Union(other.bits)}
	return out
}
</content>
