package types

import "strings"

// Apply instantiates a KGeneric type with concrete Args, memoized by
// (generic, args) so repeated instantiation requests for the same
// generic/argument pair return the identical *Type (spec.md §4.5
// "Applied(generic, args) memoization"), and so the comptime
// evaluator's reentrancy guard can key off pointer identity.
func (tb *Table) Apply(generic *Type, args []*Type) *Type {
	key := appliedKey(generic, args)
	tb.mu.Lock()
	if existing, ok := tb.cache[key]; ok {
		tb.mu.Unlock()
		return existing
	}
	tb.mu.Unlock()

	body := substitute(generic, generic.GenericParams, args)
	t := &Type{Kind: KApplied, Generic: generic, Args: args, Target: body}
	t.key = key
	tb.mu.Lock()
	// Re-check under lock in case of a concurrent identical Apply.
	if existing, ok := tb.cache[key]; ok {
		tb.mu.Unlock()
		return existing
	}
	tb.cache[key] = t
	tb.mu.Unlock()
	return t
}

func appliedKey(generic *Type, args []*Type) string {
	var sb strings.Builder
	sb.WriteString("applied:")
	sb.WriteString(generic.key)
	for _, a := range args {
		sb.WriteByte('|')
		sb.WriteString(a.key)
	}
	return sb.String()
}

// substitute replaces every occurrence of a generic parameter inside
// body with its corresponding argument, producing the concrete shape
// an Applied type exposes to the checker. It descends into pointer,
// reference, array, tuple, union, func, struct, class and interface
// types; any other kind, an alias included, is returned unchanged.
func substitute(generic *Type, params []GenericParam, args []*Type) *Type {
	subst := make(map[string]*Type, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p.Name] = args[i]
		}
	}
	return substituteType(generic.Body, subst)
}

func substituteType(t *Type, subst map[string]*Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KGeneric:
		// A bare reference to one of the enclosing generic's own
		// parameters is modeled as a single-param KGeneric alias; look
		// it up directly.
		if replacement, ok := subst[t.Name]; ok {
			return replacement
		}
		return t
	case KPointer:
		return &Type{Kind: KPointer, Elem: substituteType(t.Elem, subst)}
	case KReference:
		return &Type{Kind: KReference, Elem: substituteType(t.Elem, subst)}
	case KArray:
		return &Type{Kind: KArray, Elem: substituteType(t.Elem, subst), Len: t.Len}
	case KTuple:
		return &Type{Kind: KTuple, Elems: substituteAll(t.Elems, subst)}
	case KUnion:
		return &Type{Kind: KUnion, Elems: substituteAll(t.Elems, subst)}
	case KFunc:
		return &Type{Kind: KFunc, Params: substituteAll(t.Params, subst), Return: substituteType(t.Return, subst), Variadic: t.Variadic}
	case KStruct, KClass, KInterface:
		members := make([]Member, len(t.Members))
		for i, m := range t.Members {
			members[i] = Member{Name: m.Name, Type: substituteType(m.Type, subst), Method: m.Method, Public: m.Public, Virtual: m.Virtual}
		}
		return &Type{Kind: t.Kind, Name: t.Name, Members: members, Base: t.Base, Ifaces: t.Ifaces, Abstract: t.Abstract}
	default:
		return t
	}
}

func substituteAll(ts []*Type, subst map[string]*Type) []*Type {
	out := make([]*Type, len(ts))
	for i, t := range ts {
		out[i] = substituteType(t, subst)
	}
	return out
}
</content>
