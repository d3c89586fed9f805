package typecheck

import (
	"pyrite/internal/source"
	"pyrite/internal/symbols"
)

// FindDominating resolves name the way the source language's dynamic
// scoping rules demand, using only scope-path bookkeeping.
//
// If the innermost binding was declared in a sibling or now-closed
// conditional branch, a new binding is synthesized at the nearest common
// ancestor scope of the conflicting declarations, their types are unified
// into it, and a definite-assignment hoist is queued against the ancestor
// block. Subsequent lookups across the same join resolve to the synthesized
// binding directly, so the hoist is emitted exactly once.
//
// Globals never trigger hoisting; domination-exempt bindings (comprehension
// loop variables) resolve by plain lexical lookup. Resolving a binding from
// an enclosing function records a capture instead.
func (c *Context) FindDominating(name string, at source.Span) (*symbols.Binding, error) {
	stack := c.table.Stack(name)
	if len(stack) == 0 {
		return nil, nil
	}
	innermost := stack[len(stack)-1]
	if !innermost.CanDominate() {
		return innermost, nil
	}

	cur := c.scope.blocks
	prefix := len(cur)
	var dominated []*symbols.Binding
	var found *symbols.Binding
	for i := len(stack) - 1; i >= 0; i-- {
		b := stack[i]
		if b.IsGeneric() {
			continue
		}
		if b.IsGlobal() || b.BaseName != c.BaseName() {
			// Bindings below this point belong to enclosing bases or the
			// unit toplevel; they are never hoisted from here.
			if c.visible(b) {
				found = b
			}
			break
		}
		p := symbols.CommonPrefixLen(b.Scope, cur)
		if p < prefix {
			prefix = p
		}
		if len(b.Scope) <= prefix {
			// b is declared on every path leading to the current point.
			found = b
			break
		}
		dominated = append(dominated, b)
	}

	// A name read inside a loop before being (re)assigned must be defined
	// on the first iteration too: once seen, a binding declared inside the
	// loop body is forced out to the loop entry.
	base := c.CurrentBase()
	var lp *Loop
	if base != nil {
		lp = base.CurrentLoop()
	}
	if lp != nil {
		if _, seen := lp.Seen[name]; seen && len(dominated) == 0 &&
			found != nil && !found.IsGlobal() && found.BaseName == c.BaseName() &&
			len(found.Scope) > len(lp.Scope) {
			dominated = append(dominated, found)
			found = nil
			if p := symbols.CommonPrefixLen(lp.Scope, cur); p < prefix {
				prefix = p
			}
		}
		lp.Seen[name] = struct{}{}
	}

	if len(dominated) == 0 {
		if found == nil {
			return nil, nil
		}
		if c.IsOuter(found) {
			c.recordCapture(name, found)
		}
		return found, nil
	}

	target := found
	if target == nil || target.BaseName != c.BaseName() {
		// No same-base binding exists at the join ancestor: synthesize one
		// and queue its initializing assignment against the ancestor block.
		canonical := c.cache.GenerateCanonicalName(c.BaseName(), name)
		target = &symbols.Binding{
			Kind:          symbols.KindVar,
			BaseName:      c.BaseName(),
			CanonicalName: canonical,
			Module:        c.module,
			Scope:         clonePath(cur[:prefix]),
			Type:          c.arena.NewUnbound(at, c.TypecheckLevel),
			Span:          at,
		}
		c.table.Push(name, target)
		c.queueStmt(cur[prefix-1], HoistStmt{
			Name:      name,
			Canonical: canonical,
			Binding:   target,
			Span:      at,
		})
		if target.IsGlobal() {
			c.cache.AddGlobal(canonical)
		}
	}
	for _, d := range dominated {
		target.AddAccessChecked(d.Scope)
		if err := c.arena.Union(d.Span, target.Type, d.Type); err != nil {
			return nil, err
		}
	}
	return target, nil
}
