package typecheck

import (
	"fmt"

	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// CallArg is one argument at a call site. Name is empty for positional
// arguments; Index points back into the caller's argument list.
type CallArg struct {
	Name  string
	Index int
	Span  source.Span
}

// ReorderResult reports how a call's arguments bind to a signature.
// Reordering never raises: a failure carries a score of -1 and a
// diagnostic, and the caller decides whether that means "try the next
// overload" or "surface to the user".
type ReorderResult struct {
	// Score rates the match: 1.0 per slot bound by an actual argument,
	// 0.5 per slot satisfied only by its default. -1 on failure.
	Score float64
	// Slots maps each parameter to the argument indexes bound to it.
	// Star/kw-star parameters group all their collected arguments.
	Slots [][]int
	// Star and KwStar are the indexes of the variadic catch-all
	// parameters, or -1.
	Star   int
	KwStar int
	// Failure is nil on success.
	Failure *diag.Diagnostic
}

func (r ReorderResult) OK() bool { return r.Failure == nil }

func reorderFail(code diag.Code, at source.Span, format string, args ...any) ReorderResult {
	d := diag.NewError(code, at, fmt.Sprintf(format, args...))
	return ReorderResult{Score: -1, Star: -1, KwStar: -1, Failure: &d}
}

// ReorderNamedArgs matches a call's arguments against a function signature.
// known marks parameter slots already bound by partial application; those
// slots cannot be filled again.
//
// Positional arguments fill remaining unknown slots left to right, spilling
// into a *-parameter when present. Named arguments bind by exact parameter
// name, spilling into a **-parameter when present.
func (c *Context) ReorderNamedArgs(sig *types.FuncInfo, args []CallArg, known []bool, at source.Span) ReorderResult {
	params := sig.Params
	slots := make([][]int, len(params))
	star, kwStar := -1, -1
	for i, p := range params {
		switch p.Star {
		case types.StarArgs:
			star = i
		case types.StarKwArgs:
			kwStar = i
		}
	}
	isKnown := func(i int) bool { return i < len(known) && known[i] }

	next := 0
	for _, arg := range args {
		if arg.Name != "" {
			continue
		}
		for next < len(params) &&
			(isKnown(next) || next == kwStar || params[next].Star == types.StarArgs) {
			if next == star {
				break
			}
			next++
		}
		switch {
		case next < len(params) && next != star:
			slots[next] = append(slots[next], arg.Index)
			next++
		case star >= 0:
			slots[star] = append(slots[star], arg.Index)
		default:
			return reorderFail(diag.CallTooManyArgs, arg.Span,
				"%s takes %d arguments, more given", sig.Name, len(params))
		}
	}

	for _, arg := range args {
		if arg.Name == "" {
			continue
		}
		idx := -1
		for i, p := range params {
			if p.Star == types.StarNone && p.Name == arg.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			if kwStar >= 0 {
				slots[kwStar] = append(slots[kwStar], arg.Index)
				continue
			}
			return reorderFail(diag.CallUnknownArgName, arg.Span,
				"%s has no argument named '%s'", sig.Name, arg.Name)
		}
		if isKnown(idx) || len(slots[idx]) > 0 {
			return reorderFail(diag.CallDuplicateArg, arg.Span,
				"argument '%s' of %s is bound more than once", arg.Name, sig.Name)
		}
		slots[idx] = append(slots[idx], arg.Index)
	}

	score := 0.0
	for i, p := range params {
		if i == star || i == kwStar {
			if len(slots[i]) > 0 {
				score += 1.0
			}
			continue
		}
		switch {
		case len(slots[i]) > 0 || isKnown(i):
			score += 1.0
		case p.HasDefault:
			score += 0.5
		default:
			return reorderFail(diag.CallMissingArg, at,
				"%s misses required argument '%s'", sig.Name, p.Name)
		}
	}
	return ReorderResult{Score: score, Slots: slots, Star: star, KwStar: kwStar}
}
