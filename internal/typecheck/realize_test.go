package typecheck

import (
	"errors"
	"strings"
	"testing"

	"pyrite/internal/cache"
	"pyrite/internal/diag"
	"pyrite/internal/project"
	"pyrite/internal/types"
)

func TestRealizationDepthLimit(t *testing.T) {
	limits := project.DefaultLimits()
	limits.MaxRealizationDepth = 3
	c := New(cache.New(), types.NewArena(), cache.MainModule, nil, limits)

	for _, name := range []string{"a", "b", "c"} {
		release, err := c.EnterRealization(name, types.NoTypeID, sp(0))
		if err != nil {
			t.Fatalf("EnterRealization(%s): %v", name, err)
		}
		defer release()
	}
	if c.RealizationDepth() != 3 {
		t.Fatalf("depth = %d, want 3", c.RealizationDepth())
	}

	_, err := c.EnterRealization("d", types.NoTypeID, sp(10))
	mustCode(t, err, diag.RealizeLimitExceeded)
	var de *diag.Error
	errors.As(err, &de)
	if !strings.Contains(de.Diag.Message, "a:b:c:d") {
		t.Fatalf("limit error should report the chain, got %q", de.Diag.Message)
	}
}

func TestRealizationReleaseUnwinds(t *testing.T) {
	c := newTestContext()
	release, err := c.EnterRealization("f", types.NoTypeID, sp(0))
	if err != nil {
		t.Fatalf("EnterRealization: %v", err)
	}
	if c.Realization() == nil || c.Realization().Name != "f" {
		t.Fatalf("current frame not tracked")
	}
	release()
	release() // idempotent
	if c.RealizationDepth() != 0 {
		t.Fatalf("depth after release = %d, want 0", c.RealizationDepth())
	}
	if c.Realization() != nil {
		t.Fatalf("no current frame expected")
	}
}

func TestReturnTypeFillThenUnify(t *testing.T) {
	c := newTestContext()
	release, _ := c.EnterRealization("f", types.NoTypeID, sp(0))
	defer release()
	a := c.Arena()

	if err := c.SetReturnType(sp(10), a.Builtins().Int); err != nil {
		t.Fatalf("first return fills: %v", err)
	}
	u := a.NewUnbound(sp(20), 0)
	if err := c.SetReturnType(sp(20), u); err != nil {
		t.Fatalf("unbound return unifies: %v", err)
	}
	if got := a.String(u); got != "int" {
		t.Fatalf("second return resolved to %s, want int", got)
	}
	err := c.SetReturnType(sp(30), a.Builtins().Str)
	mustCode(t, err, diag.RealizeReturnMismatch)
}

func TestReturnOutsideRealization(t *testing.T) {
	c := newTestContext()
	err := c.SetReturnType(sp(0), c.Arena().Builtins().Int)
	mustCode(t, err, diag.ResolveInternal)
}

func TestIterationBound(t *testing.T) {
	limits := project.DefaultLimits()
	limits.MaxTypecheckIterations = 2
	c := New(cache.New(), types.NewArena(), cache.MainModule, nil, limits)
	release, _ := c.EnterRealization("f", types.NoTypeID, sp(0))
	defer release()

	if err := c.BumpIteration(sp(0)); err != nil {
		t.Fatalf("iteration 1: %v", err)
	}
	if err := c.BumpIteration(sp(0)); err != nil {
		t.Fatalf("iteration 2: %v", err)
	}
	err := c.BumpIteration(sp(0))
	mustCode(t, err, diag.RealizeLimitExceeded)
}

func TestDefaultCallCycle(t *testing.T) {
	c := newTestContext()
	release, err := c.EnterDefaultCall("A.__init__", sp(0))
	if err != nil {
		t.Fatalf("EnterDefaultCall: %v", err)
	}
	_, err = c.EnterDefaultCall("A.__init__", sp(10))
	mustCode(t, err, diag.RealizeDefaultCallCycle)

	release()
	// Once the frame closes the same default may evaluate again.
	release2, err := c.EnterDefaultCall("A.__init__", sp(20))
	if err != nil {
		t.Fatalf("re-entry after release: %v", err)
	}
	release2()
}

func TestDefaultCallDepth(t *testing.T) {
	limits := project.DefaultLimits()
	limits.MaxDefaultCallDepth = 2
	c := New(cache.New(), types.NewArena(), cache.MainModule, nil, limits)

	r1, _ := c.EnterDefaultCall("A.__init__", sp(0))
	defer r1()
	r2, _ := c.EnterDefaultCall("B.__init__", sp(1))
	defer r2()
	_, err := c.EnterDefaultCall("C.__init__", sp(2))
	mustCode(t, err, diag.RealizeLimitExceeded)
}
