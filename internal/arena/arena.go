// Package arena implements the string interner shared by one Cxy
// compilation unit (spec.md §3, component 2).
//
// The Arena holds interned strings only. It has no allocation API: AST
// nodes and types are ordinary Go heap values that the garbage
// collector owns, and the blocks field is never filled.
package arena

import "sync"

// Arena owns a string interning table; it does not bump-allocate
// anything. It is not safe for concurrent use without external
// synchronization (the compiler is single-threaded per spec.md §5),
// except the string intern table which guards itself for callers that
// share one Arena's interner across helper goroutines in tests.
type Arena struct {
	strings   map[string]*string
	stringsMu sync.Mutex

	blocks [][]byte
}

// New creates an empty Arena.
func New() *Arena {
	return &Arena{strings: make(map[string]*string, 256)}
}

// Intern returns a canonical, hash-consed pointer for s: repeated calls
// with an equal string return the identical pointer so that identifier
// comparison can use pointer equality (spec.md's "hash-consing" idiom
// applied to identifier strings, not just types).
func (a *Arena) Intern(s string) *string {
	a.stringsMu.Lock()
	defer a.stringsMu.Unlock()
	if p, ok := a.strings[s]; ok {
		return p
	}
	cp := s
	a.strings[s] = &cp
	return &cp
}

// Reset drops every interned string, releasing the intern table's
// memory in one shot the way spec.md §5 describes ("freed as
// one block at the end of the unit").
func (a *Arena) Reset() {
	a.strings = make(map[string]*string, 256)
	a.blocks = nil
}

// Len reports how many distinct strings have been interned, useful for
// diagnostics/metrics.
func (a *Arena) Len() int {
	a.stringsMu.Lock()
	defer a.stringsMu.Unlock()
	return len(a.strings)
}
</content>
