package types

import (
	"pyrite/internal/source"
)

// Instantiate deep-copies a generic type skeleton. Every generic-parameter
// slot is replaced by the concrete type registered under its key in
// generics, or by a fresh placeholder at the given level when no mapping
// exists. Unbound placeholders are always replaced by fresh ones, so two
// instantiations of the same skeleton never share placeholders.
func (a *Arena) Instantiate(at source.Span, t TypeID, generics map[GenericKey]TypeID, level int) TypeID {
	seen := make(map[TypeID]TypeID)
	return a.instantiate(at, t, generics, level, seen)
}

func (a *Arena) instantiate(at source.Span, t TypeID, generics map[GenericKey]TypeID, level int, seen map[TypeID]TypeID) TypeID {
	t = a.Find(t)
	if mapped, ok := seen[t]; ok {
		return mapped
	}
	n := a.Get(t)
	if n == nil {
		return t
	}
	switch n.Kind {
	case KindUnbound:
		fresh := a.NewUnbound(at, level)
		seen[t] = fresh
		return fresh
	case KindGeneric:
		info := a.generics[n.Payload]
		if concrete, ok := generics[info.Key]; ok {
			seen[t] = concrete
			return concrete
		}
		fresh := a.NewUnbound(at, level)
		seen[t] = fresh
		return fresh
	case KindClass:
		info := a.classes[n.Payload]
		changed := false
		slots := make([]GenericSlot, len(info.Generics))
		for i, g := range info.Generics {
			slots[i] = GenericSlot{Key: g.Key, Type: a.instantiate(at, g.Type, generics, level, seen)}
			changed = changed || slots[i].Type != a.Find(g.Type)
		}
		if !changed {
			seen[t] = t
			return t
		}
		fresh := a.NewClass(at, info.Name, slots, info.Record)
		seen[t] = fresh
		return fresh
	case KindFunc:
		info := a.funcs[n.Payload]
		changed := false
		out := FuncInfo{Name: info.Name}
		if info.Parent.IsValid() {
			out.Parent = a.instantiate(at, info.Parent, generics, level, seen)
			changed = changed || out.Parent != a.Find(info.Parent)
		}
		out.Generics = make([]GenericSlot, len(info.Generics))
		for i, g := range info.Generics {
			out.Generics[i] = GenericSlot{Key: g.Key, Type: a.instantiate(at, g.Type, generics, level, seen)}
			changed = changed || out.Generics[i].Type != a.Find(g.Type)
		}
		out.Params = make([]Param, len(info.Params))
		for i, p := range info.Params {
			out.Params[i] = p
			out.Params[i].Type = a.instantiate(at, p.Type, generics, level, seen)
			changed = changed || out.Params[i].Type != a.Find(p.Type)
		}
		out.Ret = a.instantiate(at, info.Ret, generics, level, seen)
		changed = changed || out.Ret != a.Find(info.Ret)
		if !changed {
			seen[t] = t
			return t
		}
		fresh := a.NewFunc(at, out)
		seen[t] = fresh
		return fresh
	default:
		return t
	}
}

// GenericMap builds an instantiation table from an already-instantiated
// parent (e.g. when resolving List[int].append, the parent List[int] binds
// T=int for the method skeleton).
func (a *Arena) GenericMap(parent TypeID, out map[GenericKey]TypeID) {
	parent = a.Find(parent)
	n := a.Get(parent)
	if n == nil {
		return
	}
	switch n.Kind {
	case KindClass:
		for _, g := range a.classes[n.Payload].Generics {
			out[g.Key] = g.Type
		}
	case KindFunc:
		info := a.funcs[n.Payload]
		for _, g := range info.Generics {
			out[g.Key] = g.Type
		}
		if info.Parent.IsValid() {
			a.GenericMap(info.Parent, out)
		}
	}
}

// HasUnbound reports whether t still contains unresolved placeholders.
func (a *Arena) HasUnbound(t TypeID) bool {
	t = a.Find(t)
	n := a.Get(t)
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindUnbound:
		return true
	case KindClass:
		for _, g := range a.classes[n.Payload].Generics {
			if a.HasUnbound(g.Type) {
				return true
			}
		}
	case KindFunc:
		info := a.funcs[n.Payload]
		for _, p := range info.Params {
			if a.HasUnbound(p.Type) {
				return true
			}
		}
		return a.HasUnbound(info.Ret)
	}
	return false
}
