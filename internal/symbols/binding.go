package symbols

import (
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Kind classifies what a name refers to.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFunc
	KindType
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindType:
		return "type"
	case KindVar:
		return "var"
	default:
		return "invalid"
	}
}

// StaticKind marks bindings whose value is a compile-time constant.
type StaticKind uint8

const (
	NotStatic StaticKind = iota
	StaticInt
	StaticStr
)

// BlockID identifies one conditional block within a compilation unit.
// Blocks are numbered by a monotonically increasing counter.
type BlockID uint32

// Flags encode misc binding attributes for quick checks.
type Flags uint16

const (
	// FlagNoShadow is set on bindings that cannot be shadowed
	// (e.g. global-marked variables).
	FlagNoShadow Flags = 1 << iota
	// FlagGeneric is set on class or function generic parameters.
	FlagGeneric
	// FlagAvoidDomination exempts a binding from hoisting
	// (e.g. a comprehension loop variable).
	FlagAvoidDomination
)

// Binding is one named, typed entity visible within a bounded scope range.
// The Type handle is shared with every other reference to this binding and
// resolves in place as unification proceeds.
type Binding struct {
	Kind          Kind
	BaseName      string // canonical name of the owning function/class, "" at toplevel
	CanonicalName string // compilation-unit-unique identifier
	Module        string
	Scope         []BlockID // chain of open block ids at declaration time
	ImportPath    string    // non-empty for import variables
	AccessChecked [][]BlockID
	Flags         Flags
	Static        StaticKind
	Type          types.TypeID
	Span          source.Span
}

func (b *Binding) IsVar() bool  { return b.Kind == KindVar }
func (b *Binding) IsFunc() bool { return b.Kind == KindFunc }
func (b *Binding) IsType() bool { return b.Kind == KindType }

func (b *Binding) IsImport() bool { return b.ImportPath != "" }

// IsGlobal reports whether the binding lives at the compilation-unit root.
func (b *Binding) IsGlobal() bool { return len(b.Scope) == 1 && b.BaseName == "" }

// IsConditional reports whether the binding sits inside a block that might
// not execute at runtime.
func (b *Binding) IsConditional() bool { return len(b.Scope) > 1 }

func (b *Binding) IsGeneric() bool { return b.Flags&FlagGeneric != 0 }

// CanDominate reports whether hoisting may be applied to this binding.
func (b *Binding) CanDominate() bool { return b.Flags&FlagAvoidDomination == 0 }

// CanShadow reports whether a newer binding may shadow this one.
func (b *Binding) CanShadow() bool { return b.Flags&FlagNoShadow == 0 }

// AddAccessChecked waives the definedness check for scope path.
func (b *Binding) AddAccessChecked(scope []BlockID) {
	path := make([]BlockID, len(scope))
	copy(path, scope)
	b.AccessChecked = append(b.AccessChecked, path)
}

// IsAccessChecked reports whether the definedness check is waived at path.
func (b *Binding) IsAccessChecked(path []BlockID) bool {
	for _, p := range b.AccessChecked {
		if PathHasPrefix(path, p) {
			return true
		}
	}
	return false
}

// PathHasPrefix reports whether prefix is a prefix of path.
func PathHasPrefix(path, prefix []BlockID) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

// CommonPrefixLen returns the length of the longest common prefix.
func CommonPrefixLen(a, b []BlockID) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
