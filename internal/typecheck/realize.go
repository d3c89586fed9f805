package typecheck

import (
	"strings"

	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Realization is one open generic/recursive function specialization.
type Realization struct {
	// Name of the specialization being realized.
	Name string
	// Type of the function being realized.
	Type types.TypeID
	// Return is filled by the first encountered return statement;
	// subsequent returns unify against it.
	Return types.TypeID
	// Iteration counts fixpoint re-typechecking passes over this frame.
	Iteration int
}

// EnterRealization opens a specialization frame. Exceeding the configured
// depth is fatal and reports the full nested-realization chain. The
// returned release must run on every exit path.
func (c *Context) EnterRealization(name string, fnType types.TypeID, at source.Span) (func(), error) {
	if len(c.realizations) >= c.limits.MaxRealizationDepth {
		return nil, diag.Errorf(diag.RealizeLimitExceeded, at,
			"maximum realization depth (%d) exceeded while realizing %s",
			c.limits.MaxRealizationDepth, c.chainName(name))
	}
	c.realizations = append(c.realizations, &Realization{Name: name, Type: fnType})
	released := false
	return func() {
		if released {
			return
		}
		released = true
		c.realizations = c.realizations[:len(c.realizations)-1]
	}, nil
}

// Realization returns the current specialization frame, or nil.
func (c *Context) Realization() *Realization {
	if len(c.realizations) == 0 {
		return nil
	}
	return c.realizations[len(c.realizations)-1]
}

// RealizationDepth reports the number of nested realizations.
func (c *Context) RealizationDepth() int { return len(c.realizations) }

// RealizationStackName renders the enclosing specialization chain
// (`f:g:h`), used in realization failure reports.
func (c *Context) RealizationStackName() string {
	names := make([]string, 0, len(c.realizations))
	for _, r := range c.realizations {
		names = append(names, r.Name)
	}
	return strings.Join(names, ":")
}

func (c *Context) chainName(name string) string {
	if chain := c.RealizationStackName(); chain != "" {
		return chain + ":" + name
	}
	return name
}

// BumpIteration advances the fixpoint counter of the current frame. Generic
// or mutually recursive code may need several passes before every
// placeholder resolves; running out of iterations is fatal.
func (c *Context) BumpIteration(at source.Span) error {
	r := c.Realization()
	if r == nil {
		return nil
	}
	r.Iteration++
	if r.Iteration > c.limits.MaxTypecheckIterations {
		return diag.Errorf(diag.RealizeLimitExceeded, at,
			"typechecking of %s did not converge after %d iterations",
			c.RealizationStackName(), c.limits.MaxTypecheckIterations)
	}
	return nil
}

// SetReturnType records a return statement's type on the current frame.
// The first return sets the expected shape; later ones must agree.
func (c *Context) SetReturnType(at source.Span, t types.TypeID) error {
	r := c.Realization()
	if r == nil {
		return diag.Errorf(diag.ResolveInternal, at, "return outside of a realization")
	}
	if !r.Return.IsValid() {
		r.Return = t
		return nil
	}
	if err := c.arena.Union(at, r.Return, t); err != nil {
		err.Diag.Code = diag.RealizeReturnMismatch
		return err
	}
	return nil
}

// EnterDefaultCall guards evaluation of a default-argument expression that
// constructs values (e.g. `def __init__(a: A = A())`). A self-referential
// cycle or exceeding the nesting bound aborts instead of recursing forever.
func (c *Context) EnterDefaultCall(canonical string, at source.Span) (func(), error) {
	if _, open := c.defaultCalls[canonical]; open {
		return nil, diag.Errorf(diag.RealizeDefaultCallCycle, at,
			"default argument of %s recursively constructs itself (%s)",
			canonical, c.chainName(canonical))
	}
	if len(c.defaultCalls) >= c.limits.MaxDefaultCallDepth {
		return nil, diag.Errorf(diag.RealizeLimitExceeded, at,
			"maximum default-argument call depth (%d) exceeded at %s",
			c.limits.MaxDefaultCallDepth, c.chainName(canonical))
	}
	c.defaultCalls[canonical] = struct{}{}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		delete(c.defaultCalls, canonical)
	}, nil
}
