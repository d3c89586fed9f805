package typecheck

import (
	"pyrite/internal/cache"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Instantiate produces a fresh, independently-unifiable copy of a generic
// type skeleton for one use site. When parent is a concrete class or
// function instance, its generic bindings seed the instantiation table
// (instantiating List[int].append ensures T=int for the method).
func (c *Context) Instantiate(at source.Span, t types.TypeID, parent types.TypeID) types.TypeID {
	var generics map[types.GenericKey]types.TypeID
	if parent.IsValid() {
		generics = make(map[types.GenericKey]types.TypeID)
		c.arena.GenericMap(parent, generics)
	}
	return c.arena.Instantiate(at, t, generics, c.TypecheckLevel)
}

// InstantiateGeneric specializes root for a direct syntactic generic
// application (`Pair[int, str]`), matching the provided types positionally
// against root's own generic parameters.
func (c *Context) InstantiateGeneric(at source.Span, root types.TypeID, generics []types.TypeID) (types.TypeID, error) {
	var own []types.GenericSlot
	if info, ok := c.arena.Class(root); ok {
		own = info.Generics
	} else if info, ok := c.arena.Func(root); ok {
		own = info.Generics
	}
	if len(generics) > len(own) {
		return types.NoTypeID, diag.Errorf(diag.CallTooManyArgs, at,
			"%s takes %d generic parameters, %d given",
			c.arena.String(root), len(own), len(generics))
	}
	table := make(map[types.GenericKey]types.TypeID, len(generics))
	for i, g := range generics {
		key := own[i].Key
		if info, ok := c.arena.Generic(own[i].Type); ok {
			key = info.Key
		}
		table[key] = g
	}
	return c.arena.Instantiate(at, root, table, c.TypecheckLevel), nil
}

// FindMethod returns all overloads visible for typeName.method, newest
// first. Overloads younger than the current statement age are hidden, as
// are (when hideShadowed is set) overloads shadowed by a same-named,
// closer-declared one.
func (c *Context) FindMethod(typeName, method string, hideShadowed bool) []cache.Overload {
	cls := c.cache.Class(typeName)
	if cls == nil {
		return nil
	}
	registered := cls.Methods[method]
	out := make([]cache.Overload, 0, len(registered))
	seen := make(map[string]struct{}, len(registered))
	for i := len(registered) - 1; i >= 0; i-- {
		ov := registered[i]
		if ov.Age > c.Age {
			continue
		}
		if hideShadowed && ov.Key != "" {
			if _, shadowed := seen[ov.Key]; shadowed {
				continue
			}
			seen[ov.Key] = struct{}{}
		}
		out = append(out, ov)
	}
	return out
}

// FindMember resolves typeName.member to its generic type, or NoTypeID.
// Built-in virtual members take precedence over declared fields.
func (c *Context) FindMember(typeName, member string) types.TypeID {
	switch member {
	case "__elemsize__":
		return c.arena.Builtins().Int
	case "__atomic__":
		return c.arena.Builtins().Bool
	case "__name__":
		return c.arena.Builtins().Str
	}
	cls := c.cache.Class(typeName)
	if cls == nil {
		return types.NoTypeID
	}
	for _, f := range cls.Fields {
		if f.Name == member {
			return f.Type
		}
	}
	return types.NoTypeID
}
