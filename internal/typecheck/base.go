package typecheck

import (
	"pyrite/internal/cache"
	"pyrite/internal/symbols"
)

// BaseKind distinguishes function bases from class bases.
type BaseKind uint8

const (
	BaseFunc BaseKind = iota
	BaseClass
)

// Attrs track function attributes that change resolution behavior.
type Attrs uint16

const (
	// AttrTest marks unit-test functions (assert lowering differs).
	AttrTest Attrs = 1 << iota
	// AttrAtomic marks functions compiled with atomic operations.
	AttrAtomic
)

func (a Attrs) Has(flag Attrs) bool { return a&flag != 0 }

// Loop is one open loop frame inside a base, used for break-else lowering
// and for dominating names updated within the loop.
type Loop struct {
	// BreakVar is the synthesized "did we break" flag name; empty when the
	// loop has no else clause.
	BreakVar string
	Scope    []symbols.BlockID
	// Seen collects names read before being (re)assigned inside the loop
	// body. An assignment to a seen name must be dominated to the loop
	// entry so the first iteration reads a defined value.
	Seen map[string]struct{}
}

// Base is one currently-open function or class body.
type Base struct {
	Name  string // canonical name of the owning function or class
	Kind  BaseKind
	Attrs Attrs // functions only

	// Deduced lists auto-deduced class fields in traversal order. Set only
	// for class bases marked for deduction; shared by reference with the
	// cache record so repeated passes accumulate consistently.
	Deduced *[]string
	// SelfName is the canonical name of the receiver parameter used for
	// field deduction.
	SelfName string

	// Captures maps captured canonical identifiers to their implicit
	// parameters. Shared with the cache function record across passes.
	Captures map[string]cache.Capture
	// PyCaptures collects names resolved through the foreign
	// dynamic-runtime bridge.
	PyCaptures map[string]struct{}

	Scope []symbols.BlockID
	loops []Loop
}

// IsType reports whether the base is a class base.
func (b *Base) IsType() bool { return b.Kind == BaseClass }

// CurrentLoop returns the innermost open loop frame, or nil.
func (b *Base) CurrentLoop() *Loop {
	if len(b.loops) == 0 {
		return nil
	}
	return &b.loops[len(b.loops)-1]
}

// EnterFunctionBase opens a function body: pushes a base recording the
// current scope path and opens a fresh conditional scope. The returned
// release must run on every exit path, including error propagation:
//
//	leave := ctx.EnterFunctionBase(name, attrs)
//	defer leave(nil)
//
// The happy path may call leave(&stmts) to collect the hoist statements
// queued against the body block; the deferred call then no-ops.
func (c *Context) EnterFunctionBase(name string, attrs Attrs) func(*[]HoistStmt) {
	fn := c.cache.AddFunction(name, c.module)
	base := &Base{
		Name:       name,
		Kind:       BaseFunc,
		Attrs:      attrs,
		Captures:   fn.Captures,
		PyCaptures: fn.PyCaptures,
		Scope:      c.ScopePath(),
	}
	return c.pushBase(base)
}

// EnterClassBase opens a class body. When deduce is set, field writes
// through selfName accumulate into the class's deduced-field list.
func (c *Context) EnterClassBase(name string, deduce bool, selfName string) func(*[]HoistStmt) {
	cls := c.cache.AddClass(name, c.module)
	base := &Base{
		Name:     name,
		Kind:     BaseClass,
		SelfName: selfName,
		Scope:    c.ScopePath(),
	}
	if deduce {
		if cls.Deduced == nil {
			cls.Deduced = new([]string)
		}
		base.Deduced = cls.Deduced
	}
	return c.pushBase(base)
}

func (c *Context) pushBase(base *Base) func(*[]HoistStmt) {
	c.bases = append(c.bases, base)
	c.table.PushBlock()
	c.EnterConditionalBlock()
	released := false
	return func(stmts *[]HoistStmt) {
		if released {
			return
		}
		released = true
		c.LeaveConditionalBlock(stmts)
		c.table.PopBlock()
		c.bases = c.bases[:len(c.bases)-1]
	}
}

// CurrentBase returns the innermost base, or nil at toplevel.
func (c *Context) CurrentBase() *Base {
	if len(c.bases) == 0 {
		return nil
	}
	return c.bases[len(c.bases)-1]
}

// BaseName returns the canonical name of the current base; "" at toplevel.
func (c *Context) BaseName() string {
	if b := c.CurrentBase(); b != nil {
		return b.Name
	}
	return ""
}

// BaseDepth reports the function/class nesting depth.
func (c *Context) BaseDepth() int { return len(c.bases) }

// InFunction reports whether the current base is a function.
func (c *Context) InFunction() bool {
	b := c.CurrentBase()
	return b != nil && b.Kind == BaseFunc
}

// InClass reports whether the current base is a class.
func (c *Context) InClass() bool {
	b := c.CurrentBase()
	return b != nil && b.Kind == BaseClass
}

// ClassBase returns the nearest enclosing class base, or nil.
func (c *Context) ClassBase() *Base {
	for i := len(c.bases) - 1; i >= 0; i-- {
		if c.bases[i].Kind == BaseClass {
			return c.bases[i]
		}
	}
	return nil
}

// IsOuter reports whether b is defined outside the current base: the
// capture-candidate test. Globals and imports are reachable directly and
// never captured. A binding owned by another module is always outer, even
// when the base names happen to coincide.
func (c *Context) IsOuter(b *symbols.Binding) bool {
	if b.IsGlobal() || b.IsImport() {
		return false
	}
	return b.BaseName != c.BaseName() || b.Module != c.module
}

// recordCapture promotes an outer binding to an implicit parameter of the
// current function. Repeated resolution across passes is idempotent because
// the capture table is shared through the cache.
func (c *Context) recordCapture(name string, b *symbols.Binding) {
	base := c.CurrentBase()
	if base == nil || base.Kind != BaseFunc || base.Captures == nil {
		return
	}
	if _, ok := base.Captures[b.CanonicalName]; ok {
		return
	}
	base.Captures[b.CanonicalName] = cache.Capture{
		Param: c.cache.GenerateCanonicalName(base.Name, name),
		Kind:  b.Kind,
		Type:  b.Type,
	}
}

// AddPyCapture routes name through the foreign dynamic-runtime bridge.
func (c *Context) AddPyCapture(name string) bool {
	base := c.CurrentBase()
	if base == nil || base.PyCaptures == nil {
		return false
	}
	base.PyCaptures[name] = struct{}{}
	return true
}

// DeduceFieldWrite records a write through the deduction receiver
// (self.<member> = ...). Fields accumulate in first-seen order; duplicates
// are ignored. Reports whether the write was recorded.
func (c *Context) DeduceFieldWrite(receiver, member string) bool {
	base := c.ClassBase()
	if base == nil || base.Deduced == nil || receiver != base.SelfName {
		return false
	}
	for _, f := range *base.Deduced {
		if f == member {
			return true
		}
	}
	*base.Deduced = append(*base.Deduced, member)
	return true
}

// EnterLoop opens a loop frame on the current base. breakVar is empty for
// loops without an else clause.
func (c *Context) EnterLoop(breakVar string) *Loop {
	base := c.CurrentBase()
	if base == nil {
		return nil
	}
	base.loops = append(base.loops, Loop{
		BreakVar: breakVar,
		Scope:    c.ScopePath(),
		Seen:     make(map[string]struct{}),
	})
	return base.CurrentLoop()
}

// LeaveLoop closes the innermost loop frame and hands it to the caller for
// break-else lowering.
func (c *Context) LeaveLoop() (Loop, bool) {
	base := c.CurrentBase()
	if base == nil || len(base.loops) == 0 {
		return Loop{}, false
	}
	frame := base.loops[len(base.loops)-1]
	base.loops = base.loops[:len(base.loops)-1]
	return frame, true
}

// LoopSeen reports whether name was read before assignment in the innermost
// loop of the current base.
func (c *Context) LoopSeen(name string) bool {
	base := c.CurrentBase()
	if base == nil {
		return false
	}
	lp := base.CurrentLoop()
	if lp == nil {
		return false
	}
	_, ok := lp.Seen[name]
	return ok
}
