package types

import (
	"testing"

	"pyrite/internal/source"
)

func TestFindCompressesLinks(t *testing.T) {
	a := NewArena()
	u1 := a.NewUnbound(source.Span{}, 0)
	u2 := a.NewUnbound(source.Span{}, 0)
	if err := a.Union(source.Span{}, u1, u2); err != nil {
		t.Fatalf("union: %v", err)
	}
	if err := a.Union(source.Span{}, u2, a.Builtins().Int); err != nil {
		t.Fatalf("union with int: %v", err)
	}
	if a.Find(u1) != a.Builtins().Int {
		t.Fatalf("u1 should resolve to int, got %s", a.String(u1))
	}
	if n := a.Get(u1); n.Kind != KindLink || n.Target != a.Builtins().Int {
		t.Fatalf("path not compressed: kind=%v target=%v", n.Kind, n.Target)
	}
}

func TestUnionMismatch(t *testing.T) {
	a := NewArena()
	if err := a.Union(source.Span{}, a.Builtins().Int, a.Builtins().Str); err == nil {
		t.Fatalf("expected mismatch between int and str")
	}
}

func TestUnionOccursCheck(t *testing.T) {
	a := NewArena()
	u := a.NewUnbound(source.Span{}, 0)
	list := a.NewClass(source.Span{}, "List", []GenericSlot{{Key: 1, Type: u}}, false)
	if err := a.Union(source.Span{}, u, list); err == nil {
		t.Fatalf("expected occurs check to reject u = List[u]")
	}
}

func TestUnionClampsLevels(t *testing.T) {
	a := NewArena()
	outer := a.NewUnbound(source.Span{}, 1)
	inner := a.NewUnbound(source.Span{}, 5)
	list := a.NewClass(source.Span{}, "List", []GenericSlot{{Key: 1, Type: inner}}, false)
	if err := a.Union(source.Span{}, outer, list); err != nil {
		t.Fatalf("union: %v", err)
	}
	info, ok := a.Unbound(inner)
	if !ok {
		t.Fatalf("inner should still be unbound")
	}
	if info.Level != 1 {
		t.Fatalf("inner level should be clamped to 1, got %d", info.Level)
	}
}

func TestStringRendering(t *testing.T) {
	a := NewArena()
	tp := a.NewGenericParam(source.Span{}, "T")
	key, _ := a.Generic(tp)
	list := a.NewClass(source.Span{}, "List", []GenericSlot{{Key: key.Key, Type: tp}}, false)
	if got := a.String(list); got != "List[T]" {
		t.Fatalf("got %q", got)
	}
}
