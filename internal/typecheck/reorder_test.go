package typecheck

import (
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/types"
)

func sigOf(name string, params ...types.Param) *types.FuncInfo {
	return &types.FuncInfo{Name: name, Params: params}
}

func arg(i int, name string) CallArg {
	return CallArg{Name: name, Index: i, Span: sp(uint32(i))}
}

func TestReorderPositionalAndDefault(t *testing.T) {
	c := newTestContext()
	sig := sigOf("f",
		types.Param{Name: "x"},
		types.Param{Name: "y", HasDefault: true},
	)

	res := c.ReorderNamedArgs(sig, []CallArg{arg(0, "")}, nil, sp(0))
	if !res.OK() {
		t.Fatalf("f(1) should reorder: %v", res.Failure)
	}
	if res.Score != 1.5 {
		t.Fatalf("score = %v, want 1.0 bound + 0.5 default", res.Score)
	}
	if len(res.Slots[0]) != 1 || res.Slots[0][0] != 0 || len(res.Slots[1]) != 0 {
		t.Fatalf("slots = %v, want x bound to arg 0 and y empty", res.Slots)
	}
}

func TestReorderNamedBinding(t *testing.T) {
	c := newTestContext()
	sig := sigOf("f",
		types.Param{Name: "x"},
		types.Param{Name: "y", HasDefault: true},
	)

	res := c.ReorderNamedArgs(sig, []CallArg{arg(0, "y"), arg(1, "x")}, nil, sp(0))
	if !res.OK() {
		t.Fatalf("f(y=.., x=..) should reorder: %v", res.Failure)
	}
	if res.Score != 2.0 {
		t.Fatalf("score = %v, want 2.0", res.Score)
	}
	if res.Slots[0][0] != 1 || res.Slots[1][0] != 0 {
		t.Fatalf("slots = %v, want x<-1 y<-0", res.Slots)
	}
}

func TestReorderFailures(t *testing.T) {
	c := newTestContext()
	sig := sigOf("f",
		types.Param{Name: "x"},
		types.Param{Name: "y", HasDefault: true},
	)

	cases := []struct {
		name string
		args []CallArg
		code diag.Code
	}{
		{"duplicate", []CallArg{arg(0, ""), arg(1, "x")}, diag.CallDuplicateArg},
		{"unknown", []CallArg{arg(0, "z")}, diag.CallUnknownArgName},
		{"too many", []CallArg{arg(0, ""), arg(1, ""), arg(2, "")}, diag.CallTooManyArgs},
		{"missing", nil, diag.CallMissingArg},
	}
	for _, tc := range cases {
		res := c.ReorderNamedArgs(sig, tc.args, nil, sp(0))
		if res.OK() {
			t.Fatalf("%s: expected failure", tc.name)
		}
		if res.Score != -1 {
			t.Fatalf("%s: failure score = %v, want -1", tc.name, res.Score)
		}
		if res.Failure.Code != tc.code {
			t.Fatalf("%s: code = %s, want %s", tc.name, res.Failure.Code, tc.code)
		}
	}
}

func TestReorderStarSpill(t *testing.T) {
	c := newTestContext()
	sig := sigOf("g",
		types.Param{Name: "x"},
		types.Param{Name: "args", Star: types.StarArgs},
		types.Param{Name: "kwargs", Star: types.StarKwArgs},
	)

	args := []CallArg{arg(0, ""), arg(1, ""), arg(2, ""), arg(3, "k")}
	res := c.ReorderNamedArgs(sig, args, nil, sp(0))
	if !res.OK() {
		t.Fatalf("g(1,2,3,k=4) should reorder: %v", res.Failure)
	}
	if res.Star != 1 || res.KwStar != 2 {
		t.Fatalf("star/kwstar = %d/%d, want 1/2", res.Star, res.KwStar)
	}
	if len(res.Slots[0]) != 1 || len(res.Slots[1]) != 2 || len(res.Slots[2]) != 1 {
		t.Fatalf("slots = %v, want x:1 args:2 kwargs:1", res.Slots)
	}
	if res.Score != 3.0 {
		t.Fatalf("score = %v, want 3.0", res.Score)
	}
}

func TestReorderEmptyStarsScoreNothing(t *testing.T) {
	c := newTestContext()
	sig := sigOf("g",
		types.Param{Name: "x"},
		types.Param{Name: "args", Star: types.StarArgs},
	)

	res := c.ReorderNamedArgs(sig, []CallArg{arg(0, "")}, nil, sp(0))
	if !res.OK() {
		t.Fatalf("g(1): %v", res.Failure)
	}
	if res.Score != 1.0 {
		t.Fatalf("score = %v, an empty *args adds nothing", res.Score)
	}
}

func TestReorderKnownSlots(t *testing.T) {
	c := newTestContext()
	sig := sigOf("f",
		types.Param{Name: "x"},
		types.Param{Name: "y"},
	)

	// x is already bound by partial application: one positional goes to y.
	res := c.ReorderNamedArgs(sig, []CallArg{arg(0, "")}, []bool{true, false}, sp(0))
	if !res.OK() {
		t.Fatalf("partial f(1): %v", res.Failure)
	}
	if len(res.Slots[0]) != 0 || len(res.Slots[1]) != 1 {
		t.Fatalf("slots = %v, positional must skip the known slot", res.Slots)
	}
	if res.Score != 2.0 {
		t.Fatalf("score = %v, known slots count as bound", res.Score)
	}

	// Naming a known slot again is a duplicate.
	res = c.ReorderNamedArgs(sig, []CallArg{arg(0, "x"), arg(1, "")}, []bool{true, false}, sp(0))
	if res.OK() || res.Failure.Code != diag.CallDuplicateArg {
		t.Fatalf("rebinding a known slot must fail, got %+v", res)
	}
}
