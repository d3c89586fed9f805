package types

import (
	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// Union merges two type nodes. This is the hook the external constraint
// solver drives; the arena itself only handles the structural cases the
// resolver needs (linking placeholders, matching identical shapes) and
// reports a mismatch otherwise.
func (a *Arena) Union(at source.Span, x, y TypeID) *diag.Error {
	x, y = a.Find(x), a.Find(y)
	if x == y {
		return nil
	}
	nx, ny := a.Get(x), a.Get(y)
	if nx == nil || ny == nil {
		return diag.Errorf(diag.TypeUnifyMismatch, at, "cannot unify unresolved type references")
	}

	// Prefer linking the unbound side; link the younger placeholder when both
	// are unbound so levels stay monotone.
	if nx.Kind == KindUnbound && ny.Kind == KindUnbound {
		if a.unbounds[nx.Payload].ID < a.unbounds[ny.Payload].ID {
			x, y = y, x
			nx, ny = ny, nx
		}
	} else if ny.Kind == KindUnbound {
		x, y = y, x
		nx, ny = ny, nx
	}
	if nx.Kind == KindUnbound {
		if a.occurs(x, y) {
			return diag.Errorf(diag.TypeOccursCheck, at,
				"type %s would contain itself", a.String(x))
		}
		a.clampLevel(y, a.unbounds[nx.Payload].Level)
		nx.Kind = KindLink
		nx.Target = y
		return nil
	}

	switch {
	case nx.Kind == KindGeneric && ny.Kind == KindGeneric:
		if a.generics[nx.Payload].Key == a.generics[ny.Payload].Key {
			return nil
		}
	case nx.Kind == KindStatic && ny.Kind == KindStatic:
		sx, sy := a.statics[nx.Payload], a.statics[ny.Payload]
		if sx == sy {
			return nil
		}
	case nx.Kind == KindClass && ny.Kind == KindClass:
		cx, cy := a.classes[nx.Payload], a.classes[ny.Payload]
		if cx.Name == cy.Name && len(cx.Generics) == len(cy.Generics) {
			for i := range cx.Generics {
				if err := a.Union(at, cx.Generics[i].Type, cy.Generics[i].Type); err != nil {
					return err
				}
			}
			return nil
		}
	case nx.Kind == KindFunc && ny.Kind == KindFunc:
		fx, fy := a.funcs[nx.Payload], a.funcs[ny.Payload]
		if fx.Name == fy.Name && len(fx.Params) == len(fy.Params) {
			for i := range fx.Params {
				if err := a.Union(at, fx.Params[i].Type, fy.Params[i].Type); err != nil {
					return err
				}
			}
			return a.Union(at, fx.Ret, fy.Ret)
		}
	}

	err := diag.Errorf(diag.TypeUnifyMismatch, at,
		"cannot unify %s and %s", a.String(x), a.String(y))
	err.Diag = err.Diag.WithNote(a.Get(y).Span, "conflicting type originates here")
	return err
}

// occurs reports whether placeholder u appears inside t.
func (a *Arena) occurs(u, t TypeID) bool {
	t = a.Find(t)
	if t == u {
		return true
	}
	n := a.Get(t)
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindClass:
		for _, g := range a.classes[n.Payload].Generics {
			if a.occurs(u, g.Type) {
				return true
			}
		}
	case KindFunc:
		info := a.funcs[n.Payload]
		for _, p := range info.Params {
			if a.occurs(u, p.Type) {
				return true
			}
		}
		for _, g := range info.Generics {
			if a.occurs(u, g.Type) {
				return true
			}
		}
		return a.occurs(u, info.Ret)
	}
	return false
}

// clampLevel lowers every unbound inside t to at most level, so placeholders
// escaping into an outer scope are not over-generalized.
func (a *Arena) clampLevel(t TypeID, level int) {
	t = a.Find(t)
	n := a.Get(t)
	if n == nil {
		return
	}
	switch n.Kind {
	case KindUnbound:
		if a.unbounds[n.Payload].Level > level {
			a.unbounds[n.Payload].Level = level
		}
	case KindClass:
		for _, g := range a.classes[n.Payload].Generics {
			a.clampLevel(g.Type, level)
		}
	case KindFunc:
		info := a.funcs[n.Payload]
		for _, p := range info.Params {
			a.clampLevel(p.Type, level)
		}
		a.clampLevel(info.Ret, level)
	}
}
