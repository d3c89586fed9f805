package types

import (
	"fmt"

	"pyrite/internal/source"
)

// TypeID uniquely identifies a type node inside the arena.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// IsValid reports whether the ID refers to an allocated node.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of type nodes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnbound // unresolved placeholder awaiting unification
	KindLink    // union-find parent edge to another node
	KindGeneric // a generic parameter slot (bound by instantiation)
	KindClass
	KindFunc
	KindStatic // compile-time int or string value
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnbound:
		return "unbound"
	case KindLink:
		return "link"
	case KindGeneric:
		return "generic"
	case KindClass:
		return "class"
	case KindFunc:
		return "func"
	case KindStatic:
		return "static"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Node is a compact descriptor for any type. Per-kind metadata lives in the
// arena side tables addressed by Payload.
type Node struct {
	Kind    Kind
	Span    source.Span
	Target  TypeID // links only
	Payload uint32
}

// UnboundInfo stores placeholder metadata.
type UnboundInfo struct {
	ID    uint32 // display number (?1, ?2, ...)
	Level int    // generalization level at mint time
}

// GenericKey identifies a generic parameter independent of its uses.
type GenericKey uint32

// GenericInfo stores metadata for a generic parameter slot.
type GenericInfo struct {
	Key  GenericKey
	Name string
}

// GenericSlot pairs a generic parameter identity with its (possibly still
// generic) argument in a class or function instance.
type GenericSlot struct {
	Key  GenericKey
	Type TypeID
}

// ClassInfo stores metadata for class types.
type ClassInfo struct {
	Name     string // canonical class name
	Generics []GenericSlot
	Record   bool // by-value tuple-like class
}

// StarKind marks variadic parameters.
type StarKind uint8

const (
	StarNone   StarKind = iota
	StarArgs            // *args catch-all for leftover positionals
	StarKwArgs          // **kwargs catch-all for leftover named arguments
)

// Param describes one slot of a function signature.
type Param struct {
	Name       string
	Type       TypeID
	HasDefault bool
	Star       StarKind
}

// FuncInfo stores metadata for function types.
type FuncInfo struct {
	Name     string // canonical function name
	Parent   TypeID // enclosing class instance, if a method
	Generics []GenericSlot
	Params   []Param
	Ret      TypeID
}

// StaticInfo stores a compile-time constant carried by a static type.
type StaticInfo struct {
	IsStr bool
	Int   int64
	Str   string
}
