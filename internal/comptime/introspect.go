package comptime

import "github.com/dccarter/cxy/internal/types"

// introspect is one entry of spec.md §4.5's "dispatch table keyed on
// member name": a function from a type to the Value a `T.<member>`
// expression folds to.
type introspectFn func(t *types.Type) Value

// introspectors is the builtin type-introspection table. Every member
// spec.md §4.5 lists is a single key here; unknown members are
// reported by the evaluator as CTM002 (ErrorValue), not a missing-key
// panic.
var introspectors = map[string]introspectFn{
	"name": func(t *types.Type) Value { return StringValue{V: t.String()} },
	"members": func(t *types.Type) Value {
		out := make([]Value, len(t.Members))
		for i, m := range t.Members {
			out[i] = StringValue{V: m.Name}
		}
		return ListValue{Elements: out}
	},
	"attributes": func(t *types.Type) Value { return ListValue{} },
	"Tinfo":      func(t *types.Type) Value { return TypeValue{T: t} },
	"elementType": func(t *types.Type) Value {
		if t.Elem == nil {
			return ErrorValue{Message: "type has no element type"}
		}
		return TypeValue{T: t.Elem}
	},
	"pointedType": func(t *types.Type) Value {
		if t.Kind != types.KPointer || t.Elem == nil {
			return ErrorValue{Message: "type is not a pointer"}
		}
		return TypeValue{T: t.Elem}
	},
	"targetType": func(t *types.Type) Value {
		if t.Target == nil {
			return ErrorValue{Message: "type has no target type"}
		}
		return TypeValue{T: t.Target}
	},
	"returnType": func(t *types.Type) Value {
		if t.Kind != types.KFunc || t.Return == nil {
			return ErrorValue{Message: "type is not a function"}
		}
		return TypeValue{T: t.Return}
	},
	"baseType": func(t *types.Type) Value {
		if t.Base == nil {
			return ErrorValue{Message: "type has no base"}
		}
		return TypeValue{T: t.Base}
	},
	"params": func(t *types.Type) Value {
		out := make([]Value, len(t.Params))
		for i, p := range t.Params {
			out[i] = TypeValue{T: p}
		}
		return ListValue{Elements: out}
	},
	"value": func(t *types.Type) Value {
		if t.Kind != types.KLiteral {
			return ErrorValue{Message: "type is not a literal"}
		}
		return StringValue{V: t.LiteralText}
	},

	"isInteger":          func(t *types.Type) Value { return BoolValue{V: isIntegerType(t)} },
	"isSigned":           func(t *types.Type) Value { return BoolValue{V: isSignedType(t)} },
	"isFloat":            func(t *types.Type) Value { return BoolValue{V: isFloatType(t)} },
	"isPointer":          func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KPointer} },
	"isReference":        func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KReference} },
	"isStruct":           func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KStruct} },
	"isClass":            func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KClass} },
	"isEnum":             func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KEnum} },
	"isOptional":         func(t *types.Type) Value { return BoolValue{V: isOptionalType(t)} },
	"isUnion":            func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KUnion} },
	"isTuple":            func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KTuple} },
	"isSlice":            func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KOpaque && t.Name == "Slice"} },
	"isArray":            func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KArray} },
	"isString":           func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KString} },
	"isBoolean":          func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KPrimitive && t.Primitive == types.PBool} },
	"isChar":             func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KPrimitive && t.Primitive == types.PChar} },
	"isVoid":             func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KPrimitive && t.Primitive == types.PVoid} },
	"isClosure":          func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KFunc} },
	"isFunction":         func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KFunc} },
	"isFuncTypeParam":    func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KGeneric} },
	"isAnonymousStruct":  func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KStruct && t.Name == ""} },
	"isResultType":       func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KResult} },
	"isLiteral":          func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KLiteral} },
	"isPrimitive":        func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KPrimitive} },
	"isField":            func(t *types.Type) Value { return BoolValue{V: false} },
	"isCover":            func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KWrapped} },
	"isDestructible":     func(t *types.Type) Value { return BoolValue{V: hasMethod(t, "op_destructor") || hasMethod(t, "op_deinit")} },
	"isUnresolved":       func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KError} },
	"hasBase":            func(t *types.Type) Value { return BoolValue{V: t.Base != nil} },
	"hasDeinit":          func(t *types.Type) Value { return BoolValue{V: hasMethod(t, "op_deinit")} },
	"hasVoidReturnType":  func(t *types.Type) Value { return BoolValue{V: t.Kind == types.KFunc && t.Return != nil && t.Return.Kind == types.KPrimitive && t.Return.Primitive == types.PVoid} },
	"hasReferenceMembers": func(t *types.Type) Value {
		for _, m := range t.Members {
			if m.Type != nil && m.Type.Kind == types.KReference {
				return BoolValue{V: true}
			}
		}
		return BoolValue{V: false}
	},
}

func hasMethod(t *types.Type, name string) bool {
	for _, m := range t.Members {
		if m.Method && m.Name == name {
			return true
		}
	}
	return false
}

func isIntegerType(t *types.Type) bool {
	if t.Kind != types.KPrimitive {
		return false
	}
	switch t.Primitive {
	case types.PI8, types.PI16, types.PI32, types.PI64,
		types.PU8, types.PU16, types.PU32, types.PU64:
		return true
	default:
		return false
	}
}

func isSignedType(t *types.Type) bool {
	if t.Kind != types.KPrimitive {
		return false
	}
	switch t.Primitive {
	case types.PI8, types.PI16, types.PI32, types.PI64:
		return true
	default:
		return false
	}
}

func isFloatType(t *types.Type) bool {
	return t.Kind == types.KPrimitive && (t.Primitive == types.PF32 || t.Primitive == types.PF64)
}

// isOptionalType treats a two-member union with one member the void
// primitive as `T?`'s lowered shape (spec.md §3.2's Union is the only
// representation; the parser keeps `T?` as an OptionalTypeAst and the
// checker resolves it to a union against void).
func isOptionalType(t *types.Type) bool {
	if t.Kind != types.KUnion || len(t.Elems) != 2 {
		return false
	}
	for _, e := range t.Elems {
		if e.Kind == types.KPrimitive && e.Primitive == types.PVoid {
			return true
		}
	}
	return false
}

// Introspect looks up member on t's dispatch table entry, spec.md
// §4.5's required response to an unknown member name or a type that
// does not support it.
func Introspect(t *types.Type, member string) Value {
	fn, ok := introspectors[member]
	if !ok {
		return ErrorValue{Message: "unknown introspection member " + member}
	}
	return fn(t)
}
</content>
