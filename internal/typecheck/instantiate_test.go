package typecheck

import (
	"testing"

	"pyrite/internal/cache"
	"pyrite/internal/diag"
	"pyrite/internal/types"
)

func TestFindMethodAgeGating(t *testing.T) {
	c := newTestContext()
	c.Cache().AddMethod("List", "append", cache.Overload{Canonical: "List.append", Age: 1})
	c.Cache().AddMethod("List", "append", cache.Overload{Canonical: "List.append:1", Age: 5})

	c.Age = 3
	got := c.FindMethod("List", "append", false)
	if len(got) != 1 || got[0].Canonical != "List.append" {
		t.Fatalf("age 3 should hide the younger overload, got %v", got)
	}

	c.Age = 10
	got = c.FindMethod("List", "append", false)
	if len(got) != 2 || got[0].Canonical != "List.append:1" {
		t.Fatalf("age 10 should see both, newest first: %v", got)
	}
}

func TestFindMethodHideShadowed(t *testing.T) {
	c := newTestContext()
	c.Cache().AddMethod("A", "m", cache.Overload{Canonical: "A.m", Key: "m", Age: 1})
	c.Cache().AddMethod("A", "m", cache.Overload{Canonical: "B.m", Key: "m", Age: 2})
	c.Age = 10

	got := c.FindMethod("A", "m", true)
	if len(got) != 1 || got[0].Canonical != "B.m" {
		t.Fatalf("shadowed base overload should be hidden, got %v", got)
	}
	got = c.FindMethod("A", "m", false)
	if len(got) != 2 {
		t.Fatalf("without hiding both overloads are visible, got %v", got)
	}
}

func TestFindMemberVirtuals(t *testing.T) {
	c := newTestContext()
	b := c.Arena().Builtins()
	cls := c.Cache().AddClass("Vec", cache.MainModule)
	cls.Fields = append(cls.Fields, cache.Field{Name: "n", Type: b.Int})

	cases := []struct {
		member string
		want   types.TypeID
	}{
		{"__elemsize__", b.Int},
		{"__atomic__", b.Bool},
		{"__name__", b.Str},
		{"n", b.Int},
		{"missing", types.NoTypeID},
	}
	for _, tc := range cases {
		if got := c.FindMember("Vec", tc.member); got != tc.want {
			t.Fatalf("FindMember(Vec, %s) = %v, want %v", tc.member, got, tc.want)
		}
	}
}

func TestInstantiateGenericPositional(t *testing.T) {
	c := newTestContext()
	a := c.Arena()
	tParam := a.NewGenericParam(sp(0), "T")
	key := mustGenericKey(t, a, tParam)
	pair := a.NewClass(sp(0), "Pair", []types.GenericSlot{{Key: key, Type: tParam}}, false)

	got, err := c.InstantiateGeneric(sp(10), pair, []types.TypeID{a.Builtins().Int})
	if err != nil {
		t.Fatalf("InstantiateGeneric: %v", err)
	}
	if s := a.String(got); s != "Pair[int]" {
		t.Fatalf("instantiated to %s, want Pair[int]", s)
	}

	_, err = c.InstantiateGeneric(sp(20), pair, []types.TypeID{a.Builtins().Int, a.Builtins().Str})
	mustCode(t, err, diag.CallTooManyArgs)
}

func TestInstantiateMethodThroughParent(t *testing.T) {
	c := newTestContext()
	a := c.Arena()
	tParam := a.NewGenericParam(sp(0), "T")
	key := mustGenericKey(t, a, tParam)
	list := a.NewClass(sp(0), "List", []types.GenericSlot{{Key: key, Type: tParam}}, false)

	// List[int] as the receiver.
	parent, err := c.InstantiateGeneric(sp(5), list, []types.TypeID{a.Builtins().Int})
	if err != nil {
		t.Fatalf("InstantiateGeneric: %v", err)
	}

	// append(x: T) picks up T=int from the receiver instance.
	method := a.NewFunc(sp(10), types.FuncInfo{
		Name:     "List.append",
		Parent:   list,
		Generics: []types.GenericSlot{{Key: key, Type: tParam}},
		Params:   []types.Param{{Name: "x", Type: tParam}},
		Ret:      a.Builtins().NoneType,
	})
	inst := c.Instantiate(sp(20), method, parent)
	info, ok := a.Func(inst)
	if !ok {
		t.Fatalf("instantiation lost the function shape")
	}
	if s := a.String(info.Params[0].Type); s != "int" {
		t.Fatalf("parameter type = %s, want int from the receiver", s)
	}
}

func mustGenericKey(t *testing.T, a *types.Arena, id types.TypeID) types.GenericKey {
	t.Helper()
	info, ok := a.Generic(id)
	if !ok {
		t.Fatalf("type %v is not a generic parameter", id)
	}
	return info.Key
}
