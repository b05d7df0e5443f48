package types

// Resolve chases alias targets until a non-alias type is reached. Broken
// alias chains resolve to the last valid TypeID seen.
func (in *Interner) Resolve(id TypeID) TypeID {
	for depth := 0; depth < 32; depth++ {
		tt, ok := in.Lookup(id)
		if !ok || tt.Kind != KindAlias {
			return id
		}
		target, ok := in.AliasTarget(id)
		if !ok {
			return id
		}
		id = target
	}
	return id
}

// Identical reports whether two TypeIDs denote the same type after alias
// resolution. Interning makes this an ID comparison: same constructor and
// same type arguments imply the same TypeID.
func (in *Interner) Identical(a, b TypeID) bool {
	if a == NoTypeID || b == NoTypeID {
		return false
	}
	return in.Resolve(a) == in.Resolve(b)
}

// Peel strips one layer of reference indirection. Non-reference types are
// returned unchanged.
func (in *Interner) Peel(id TypeID) TypeID {
	tt, ok := in.Lookup(in.Resolve(id))
	if !ok || tt.Kind != KindReference {
		return id
	}
	return tt.Elem
}

// IsReference reports whether id (after alias resolution) is &T or &mut T.
func (in *Interner) IsReference(id TypeID) bool {
	tt, ok := in.Lookup(in.Resolve(id))
	return ok && tt.Kind == KindReference
}

// HasUnresolvedParams reports whether any of the given type arguments still
// contains a generic parameter anywhere in its structure. Instance
// resolution is only sound once this returns false.
func (in *Interner) HasUnresolvedParams(args []TypeID) bool {
	seen := make(map[TypeID]bool, len(args))
	for _, id := range args {
		if in.hasParam(id, seen) {
			return true
		}
	}
	return false
}

func (in *Interner) hasParam(id TypeID, seen map[TypeID]bool) bool {
	if id == NoTypeID || seen[id] {
		return false
	}
	seen[id] = true

	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindGenericParam:
		return true
	case KindArray, KindReference, KindOwn:
		return in.hasParam(tt.Elem, seen)
	case KindAlias:
		if target, ok := in.AliasTarget(id); ok {
			return in.hasParam(target, seen)
		}
		return false
	case KindStruct:
		info, ok := in.StructInfo(id)
		if !ok {
			return false
		}
		for _, arg := range info.TypeArgs {
			if in.hasParam(arg, seen) {
				return true
			}
		}
		for _, field := range info.Fields {
			if in.hasParam(field.Type, seen) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
