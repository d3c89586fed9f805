// Package cache holds state shared by every typechecking pass over one
// program: canonical-name minting, module identity, and the class/function
// registries that survive between passes.
package cache

import (
	"fmt"

	"pyrite/internal/symbols"
	"pyrite/internal/types"
)

// Module records the identity of an imported module.
type Module struct {
	Name string // dotted module name; "__main__" for the entry module
	Path string // file path the module was loaded from
}

// MainModule is the name of the entry module.
const MainModule = "__main__"

// StdlibModule is the module that holds always-visible symbols.
const StdlibModule = "std"

// Capture maps a captured identifier to the implicit parameter that will
// carry it into the nested function.
type Capture struct {
	Param string // fresh canonical parameter name
	Kind  symbols.Kind
	Type  types.TypeID
}

// Field is one declared class field.
type Field struct {
	Name string
	Type types.TypeID
}

// Overload is one registered method overload.
type Overload struct {
	Canonical string
	Key       string // signature key; a newer overload with the same key shadows older ones
	Age       int    // statement age at definition; younger callers cannot see it
	Type      types.TypeID
}

// Class is the registry record for one class.
type Class struct {
	Name    string
	Module  string
	Fields  []Field
	Methods map[string][]Overload // oldest first
	// Deduced collects auto-deduced field names in first-seen order for
	// classes marked for field deduction. Shared by reference with every
	// Base opened for this class body.
	Deduced *[]string
}

// Function is the registry record for one function.
type Function struct {
	Name   string
	Module string
	// Captures accumulate monotonically across repeated typechecking passes.
	Captures   map[string]Capture
	PyCaptures map[string]struct{}
}

// Cache is the shared compilation cache. One instance lives for the whole
// program; contexts for individual compilation units borrow it.
type Cache struct {
	counts    map[string]uint32
	tempCount uint32

	Modules   map[string]Module
	Classes   map[string]*Class
	Functions map[string]*Function
	Globals   map[string]struct{}

	// StdlibLoading relaxes visibility rules while the standard library is
	// being typechecked, so its symbols become reachable from every module.
	StdlibLoading bool
}

func New() *Cache {
	c := &Cache{
		counts:    make(map[string]uint32),
		Modules:   make(map[string]Module),
		Classes:   make(map[string]*Class),
		Functions: make(map[string]*Function),
		Globals:   make(map[string]struct{}),
	}
	c.Modules[MainModule] = Module{Name: MainModule}
	return c
}

// GenerateCanonicalName mints a unique canonical name for name declared
// under base (base may be empty for toplevel). Names are unique for the
// whole program once minted.
func (c *Cache) GenerateCanonicalName(base, name string) string {
	key := name
	if base != "" {
		key = base + "." + name
	}
	n := c.counts[key]
	c.counts[key]++
	if n == 0 {
		return key
	}
	return fmt.Sprintf("%s:%d", key, n)
}

// TemporaryName mints a compiler-internal variable name that cannot clash
// with user identifiers.
func (c *Cache) TemporaryName(tag string) string {
	c.tempCount++
	return fmt.Sprintf("%%_%s:%d", tag, c.tempCount)
}

// AddModule registers a module identity, keeping the first registration.
func (c *Cache) AddModule(name, path string) Module {
	if m, ok := c.Modules[name]; ok {
		return m
	}
	m := Module{Name: name, Path: path}
	c.Modules[name] = m
	return m
}

// AddClass registers (or returns) the record for a canonical class name.
func (c *Cache) AddClass(name, module string) *Class {
	if cls, ok := c.Classes[name]; ok {
		return cls
	}
	cls := &Class{Name: name, Module: module, Methods: make(map[string][]Overload)}
	c.Classes[name] = cls
	return cls
}

// Class returns the registry record for a canonical class name, or nil.
func (c *Cache) Class(name string) *Class {
	return c.Classes[name]
}

// AddMethod appends an overload for typeName.method.
func (c *Cache) AddMethod(typeName, method string, ov Overload) {
	cls := c.AddClass(typeName, "")
	cls.Methods[method] = append(cls.Methods[method], ov)
}

// AddFunction registers (or returns) the record for a canonical function
// name. The capture tables it owns are shared with every Base opened for
// this function, so captures persist across passes.
func (c *Cache) AddFunction(name, module string) *Function {
	if fn, ok := c.Functions[name]; ok {
		return fn
	}
	fn := &Function{
		Name:       name,
		Module:     module,
		Captures:   make(map[string]Capture),
		PyCaptures: make(map[string]struct{}),
	}
	c.Functions[name] = fn
	return fn
}

// Function returns the registry record for a canonical function name, or nil.
func (c *Cache) Function(name string) *Function {
	return c.Functions[name]
}

// AddGlobal marks a canonical name as a program global.
func (c *Cache) AddGlobal(name string) {
	c.Globals[name] = struct{}{}
}
