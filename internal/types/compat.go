package types

// integerRank orders integer primitives by width for promotion rules
// (spec.md §4.7 "promotion/assignability"); signed and unsigned of the
// same width are not implicitly convertible into each other.
var integerRank = map[Primitive]int{
	PI8: 1, PU8: 1,
	PI16: 2, PU16: 2,
	PI32: 3, PU32: 3,
	PI64: 4, PU64: 4,
}

func isSignedInt(p Primitive) bool {
	switch p {
	case PI8, PI16, PI32, PI64:
		return true
	}
	return false
}

func isUnsignedInt(p Primitive) bool {
	switch p {
	case PU8, PU16, PU32, PU64:
		return true
	}
	return false
}

func isInteger(p Primitive) bool { return isSignedInt(p) || isUnsignedInt(p) }
func isFloat(p Primitive) bool   { return p == PF32 || p == PF64 }

// CanPromote reports whether a value of type from may be implicitly
// widened to type to without a cast (spec.md §4.7): wider integer of
// the same signedness, integer to a same-or-wider float, f32 to f64,
// or identical types.
func CanPromote(from, to *Type) bool {
	if from == to {
		return true
	}
	if from.Kind != KPrimitive || to.Kind != KPrimitive {
		return false
	}
	fp, tp := from.Primitive, to.Primitive
	if isInteger(fp) && isInteger(tp) {
		if isSignedInt(fp) != isSignedInt(tp) {
			return false
		}
		return integerRank[fp] <= integerRank[tp]
	}
	if isInteger(fp) && isFloat(tp) {
		floatRank := integerRank[PI32]
		if tp == PF64 {
			floatRank = integerRank[PI64]
		}
		return integerRank[fp] <= floatRank
	}
	if fp == PF32 && tp == PF64 {
		return true
	}
	return false
}

// Assignable reports whether a value of type from may be assigned (or
// passed as an argument) to a location of type to, considering
// promotion, pointer/reference compatibility, and Result/Union
// membership (spec.md §4.7).
func Assignable(from, to *Type) bool {
	if from == to {
		return true
	}
	if to.Kind == KAuto {
		return true
	}
	if CanPromote(from, to) {
		return true
	}
	switch to.Kind {
	case KUnion:
		for _, member := range to.Elems {
			if Assignable(from, member) {
				return true
			}
		}
		return false
	case KPointer:
		return from.Kind == KPointer && Assignable(from.Elem, to.Elem)
	case KReference:
		return from.Kind == KReference && Assignable(from.Elem, to.Elem)
	case KResult:
		return Assignable(from, to.Ok)
	case KInterface:
		return from.Kind == KClass && implementsInterface(from, to)
	}
	if from.Kind == KClass && to.Kind == KClass {
		return isSubclass(from, to)
	}
	return false
}

func isSubclass(from, to *Type) bool {
	for c := from; c != nil; c = c.Base {
		if c == to {
			return true
		}
	}
	return false
}

func implementsInterface(class, iface *Type) bool {
	for _, impl := range class.Ifaces {
		if impl == iface {
			return true
		}
	}
	if class.Base != nil {
		return implementsInterface(class.Base, iface)
	}
	return false
}
</content>
