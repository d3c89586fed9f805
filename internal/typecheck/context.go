// Package typecheck implements the identifier-resolution core of the
// checker: conditional-scope tracking with domination, base (function/class)
// tracking with closures and field deduction, realization bounding, generic
// instantiation, and call-argument reordering.
//
// One Context lives for one compilation unit and is threaded by reference
// through the whole tree-walking traversal. It is strictly single-threaded;
// every Enter* has a paired release that must run on all exit paths.
package typecheck

import (
	"fmt"
	"io"

	"pyrite/internal/cache"
	"pyrite/internal/diag"
	"pyrite/internal/project"
	"pyrite/internal/source"
	"pyrite/internal/symbols"
	"pyrite/internal/types"
)

type scopeState struct {
	counter symbols.BlockID
	blocks  []symbols.BlockID
	// stmts queues synthesized hoist statements per open block, drained by
	// LeaveConditionalBlock.
	stmts map[symbols.BlockID][]HoistStmt
}

// Context tracks identifiers during typechecking of one compilation unit.
type Context struct {
	cache  *cache.Cache
	arena  *types.Arena
	table  *symbols.Table
	rep    diag.Reporter
	limits project.Limits

	module string

	scope        scopeState
	bases        []*Base
	realizations []*Realization
	defaultCalls map[string]struct{}

	// seenGlobals records globals referenced in this unit, so a later local
	// declaration of the same name is rejected instead of silently shadowing.
	seenGlobals map[string]source.Span

	// TypecheckLevel is the current generalization level for instantiation.
	TypecheckLevel int
	// Age of the currently checked statement; gates method visibility.
	Age int
	// BlockLevel counts nested suites (0 at toplevel).
	BlockLevel int
	// ReturnEarly is set once an early return makes the rest of a suite
	// unreachable for this pass.
	ReturnEarly bool
	// AvoidDomination exempts all bindings added while set
	// (comprehension headers).
	AvoidDomination bool
	// InConditionalExpr is set inside the dependent part of a
	// short-circuiting expression, where assignment expressions are
	// disallowed.
	InConditionalExpr bool
	// AllowTypeOf gates type() expressions (disallowed in class and
	// function signatures).
	AllowTypeOf bool
}

// New creates a context for one compilation unit. The cache and arena are
// shared with the rest of the program being checked.
func New(cc *cache.Cache, arena *types.Arena, module string, rep diag.Reporter, limits project.Limits) *Context {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	c := &Context{
		cache:        cc,
		arena:        arena,
		table:        symbols.NewTable(),
		rep:          rep,
		limits:       limits,
		module:       module,
		defaultCalls: make(map[string]struct{}),
		seenGlobals:  make(map[string]source.Span),
		AllowTypeOf:  true,
	}
	c.scope.stmts = make(map[symbols.BlockID][]HoistStmt)
	// The unit root is block 1; it never closes.
	c.scope.counter = 1
	c.scope.blocks = []symbols.BlockID{1}
	c.table.PushBlock()
	return c
}

// Cache returns the shared compilation cache.
func (c *Context) Cache() *cache.Cache { return c.cache }

// Arena returns the shared type arena.
func (c *Context) Arena() *types.Arena { return c.arena }

// Module returns the module owning this compilation unit.
func (c *Context) Module() string { return c.module }

// Reporter returns the sink for non-fatal diagnostics. The lowering layer
// shares it when it emits diagnostics of its own.
func (c *Context) Reporter() diag.Reporter { return c.rep }

// ReportUndefined emits an undefined-identifier diagnostic. Find returns nil
// instead of raising; callers that decide the miss is a user error (rather
// than, say, a forward reference to retry next pass) report it here.
func (c *Context) ReportUndefined(name string, at source.Span) {
	diag.ReportError(c.rep, diag.ResolveUndefinedIdentifier, at,
		fmt.Sprintf("name '%s' is not defined", name))
}

// ScopePath returns a copy of the currently open block-id chain.
func (c *Context) ScopePath() []symbols.BlockID {
	return clonePath(c.scope.blocks)
}

// IsGlobal reports whether resolution is currently at the unit toplevel.
func (c *Context) IsGlobal() bool {
	return len(c.bases) == 0 && len(c.scope.blocks) == 1
}

// IsConditional reports whether the current statement sits inside a block
// that might not execute at runtime.
func (c *Context) IsConditional() bool { return len(c.scope.blocks) > 1 }

// Add pushes b onto name's shadow-stack. It fails with Redefinition when a
// visible non-shadowable binding of the same name exists, and when a local
// would shadow a same-module global already referenced in this unit.
// Shadowing a referenced global from another module is legal but suspicious,
// so it is reported as a warning instead.
func (c *Context) Add(name string, b *symbols.Binding) error {
	if existing := c.Find(name); existing != nil && existing != b {
		if !existing.CanShadow() {
			return diag.Errorf(diag.ResolveRedefinition, b.Span,
				"cannot redefine '%s': it is marked non-shadowable", name)
		}
		if use, seen := c.seenGlobals[name]; seen && existing.IsGlobal() && !b.IsGlobal() {
			if existing.Module == c.module {
				err := diag.Errorf(diag.ResolveShadowedGlobal, b.Span,
					"local '%s' would shadow a global already used in this unit", name)
				err.Diag = err.Diag.WithNote(use, "global use is here")
				return err
			}
			d := diag.New(diag.SevWarning, diag.ResolveShadowedGlobal, b.Span,
				fmt.Sprintf("local '%s' shadows a global from module '%s' already used in this unit",
					name, existing.Module))
			c.rep.Report(d.WithNote(use, "global use is here"))
		}
	}
	c.table.Push(name, b)
	return nil
}

// AddVar declares a variable binding at the current scope.
func (c *Context) AddVar(name, canonical string, at source.Span, t types.TypeID) (*symbols.Binding, error) {
	return c.add(symbols.KindVar, name, canonical, at, t)
}

// AddType declares a type binding at the current scope.
func (c *Context) AddType(name, canonical string, at source.Span, t types.TypeID) (*symbols.Binding, error) {
	return c.add(symbols.KindType, name, canonical, at, t)
}

// AddFunc declares a function binding at the current scope.
func (c *Context) AddFunc(name, canonical string, at source.Span, t types.TypeID) (*symbols.Binding, error) {
	return c.add(symbols.KindFunc, name, canonical, at, t)
}

func (c *Context) add(kind symbols.Kind, name, canonical string, at source.Span, t types.TypeID) (*symbols.Binding, error) {
	b := &symbols.Binding{
		Kind:          kind,
		BaseName:      c.BaseName(),
		CanonicalName: canonical,
		Module:        c.module,
		Scope:         c.ScopePath(),
		Type:          t,
		Span:          at,
	}
	if c.AvoidDomination {
		b.Flags |= symbols.FlagAvoidDomination
	}
	if err := c.Add(name, b); err != nil {
		return nil, err
	}
	if b.IsGlobal() {
		c.cache.AddGlobal(canonical)
	}
	return b, nil
}

// AddAlwaysVisible registers a standard-library binding reachable from every
// module regardless of the current scope.
func (c *Context) AddAlwaysVisible(name string, b *symbols.Binding) *symbols.Binding {
	b.Module = cache.StdlibModule
	b.BaseName = ""
	b.Scope = []symbols.BlockID{1}
	c.table.PushToRoot(name, b)
	c.cache.AddGlobal(b.CanonicalName)
	return b
}

// Find returns the innermost visible binding for name, or nil. An undefined
// identifier is not an error here; callers decide how to react.
func (c *Context) Find(name string) *symbols.Binding {
	stack := c.table.Stack(name)
	for i := len(stack) - 1; i >= 0; i-- {
		b := stack[i]
		if c.visible(b) {
			if b.IsGlobal() && len(c.bases) > 0 {
				c.seenGlobals[name] = b.Span
			}
			return b
		}
	}
	return nil
}

// ForceFind returns the binding for a name that the caller has already
// established must exist. A miss is an internal-consistency fault.
func (c *Context) ForceFind(name string) (*symbols.Binding, error) {
	if b := c.Find(name); b != nil {
		return b, nil
	}
	return nil, diag.Errorf(diag.ResolveInternal, source.Span{},
		"internal error: identifier '%s' is not defined", name)
}

func (c *Context) visible(b *symbols.Binding) bool {
	if b.IsGlobal() {
		return true
	}
	// While the standard library loads, its symbols are reachable from
	// everywhere.
	if c.cache.StdlibLoading && b.Module == cache.StdlibModule {
		return true
	}
	return symbols.PathHasPrefix(c.scope.blocks, b.Scope)
}

// Dump pretty-prints the context state (debugging aid).
func (c *Context) Dump(w io.Writer) {
	fmt.Fprintf(w, "module %s, scope %v, bases %d, realizations %d\n",
		c.module, c.scope.blocks, len(c.bases), len(c.realizations))
	for _, name := range c.table.Names() {
		for _, b := range c.table.Stack(name) {
			fmt.Fprintf(w, "  %-20s %-5s %-28s scope=%v type=%s\n",
				name, b.Kind, b.CanonicalName, b.Scope, c.arena.String(b.Type))
		}
	}
}

func clonePath(p []symbols.BlockID) []symbols.BlockID {
	out := make([]symbols.BlockID, len(p))
	copy(out, p)
	return out
}
