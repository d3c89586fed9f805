package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"pyrite/internal/source"
)

// Builtins stores TypeIDs for primitive classes every compilation unit needs.
type Builtins struct {
	Int      TypeID
	Float    TypeID
	Bool     TypeID
	Str      TypeID
	NoneType TypeID
}

// Arena stores all type nodes of one compilation unit in a compact
// slice-based store. Shared mutation happens through union-find Link nodes,
// never through aliased pointers.
type Arena struct {
	nodes    []Node // index 0 reserved for NoTypeID
	unbounds []UnboundInfo
	generics []GenericInfo
	classes  []ClassInfo
	funcs    []FuncInfo
	statics  []StaticInfo

	builtins    Builtins
	nextUnbound uint32
	nextKey     GenericKey
}

// NewArena constructs an arena seeded with built-in primitive classes.
func NewArena() *Arena {
	a := &Arena{
		nodes:    make([]Node, 1, 64),
		unbounds: make([]UnboundInfo, 1),
		generics: make([]GenericInfo, 1),
		classes:  make([]ClassInfo, 1),
		funcs:    make([]FuncInfo, 1),
		statics:  make([]StaticInfo, 1),
	}
	a.builtins.Int = a.NewClass(source.Span{}, "int", nil, true)
	a.builtins.Float = a.NewClass(source.Span{}, "float", nil, true)
	a.builtins.Bool = a.NewClass(source.Span{}, "bool", nil, true)
	a.builtins.Str = a.NewClass(source.Span{}, "str", nil, true)
	a.builtins.NoneType = a.NewClass(source.Span{}, "NoneType", nil, true)
	return a
}

// Builtins returns TypeIDs for the primitive classes.
func (a *Arena) Builtins() Builtins { return a.builtins }

// Len reports the number of allocated nodes excluding the sentinel.
func (a *Arena) Len() int { return len(a.nodes) - 1 }

func (a *Arena) newNode(n Node) TypeID {
	value, err := safecast.Conv[uint32](len(a.nodes))
	if err != nil {
		panic(fmt.Errorf("type arena overflow: %w", err))
	}
	id := TypeID(value)
	a.nodes = append(a.nodes, n)
	return id
}

// Get returns the node pointer or nil if the ID is invalid.
func (a *Arena) Get(id TypeID) *Node {
	if !id.IsValid() || int(id) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[id]
}

// NewUnbound mints a fresh placeholder at the given generalization level.
func (a *Arena) NewUnbound(at source.Span, level int) TypeID {
	a.nextUnbound++
	slot := a.appendUnbound(UnboundInfo{ID: a.nextUnbound, Level: level})
	return a.newNode(Node{Kind: KindUnbound, Span: at, Payload: slot})
}

// NewGenericParam mints a generic parameter with a fresh identity key.
func (a *Arena) NewGenericParam(at source.Span, name string) TypeID {
	a.nextKey++
	slot := a.appendGeneric(GenericInfo{Key: a.nextKey, Name: name})
	return a.newNode(Node{Kind: KindGeneric, Span: at, Payload: slot})
}

// NewClass allocates a class instance node.
func (a *Arena) NewClass(at source.Span, name string, generics []GenericSlot, record bool) TypeID {
	slot := a.appendClass(ClassInfo{Name: name, Generics: cloneSlots(generics), Record: record})
	return a.newNode(Node{Kind: KindClass, Span: at, Payload: slot})
}

// NewFunc allocates a function type node.
func (a *Arena) NewFunc(at source.Span, info FuncInfo) TypeID {
	info.Generics = cloneSlots(info.Generics)
	info.Params = cloneParams(info.Params)
	slot := a.appendFunc(info)
	return a.newNode(Node{Kind: KindFunc, Span: at, Payload: slot})
}

// NewStaticInt allocates a compile-time integer value type.
func (a *Arena) NewStaticInt(at source.Span, v int64) TypeID {
	slot := a.appendStatic(StaticInfo{Int: v})
	return a.newNode(Node{Kind: KindStatic, Span: at, Payload: slot})
}

// NewStaticStr allocates a compile-time string value type.
func (a *Arena) NewStaticStr(at source.Span, v string) TypeID {
	slot := a.appendStatic(StaticInfo{IsStr: true, Str: v})
	return a.newNode(Node{Kind: KindStatic, Span: at, Payload: slot})
}

// Find resolves an ID to its union-find representative, compressing Link
// chains along the way.
func (a *Arena) Find(id TypeID) TypeID {
	n := a.Get(id)
	if n == nil || n.Kind != KindLink {
		return id
	}
	root := a.Find(n.Target)
	n.Target = root
	return root
}

// Unbound returns placeholder metadata for a (resolved) node.
func (a *Arena) Unbound(id TypeID) (*UnboundInfo, bool) {
	n := a.Get(a.Find(id))
	if n == nil || n.Kind != KindUnbound {
		return nil, false
	}
	return &a.unbounds[n.Payload], true
}

// Generic returns generic-parameter metadata.
func (a *Arena) Generic(id TypeID) (*GenericInfo, bool) {
	n := a.Get(a.Find(id))
	if n == nil || n.Kind != KindGeneric {
		return nil, false
	}
	return &a.generics[n.Payload], true
}

// Class returns class metadata.
func (a *Arena) Class(id TypeID) (*ClassInfo, bool) {
	n := a.Get(a.Find(id))
	if n == nil || n.Kind != KindClass {
		return nil, false
	}
	return &a.classes[n.Payload], true
}

// Func returns function metadata.
func (a *Arena) Func(id TypeID) (*FuncInfo, bool) {
	n := a.Get(a.Find(id))
	if n == nil || n.Kind != KindFunc {
		return nil, false
	}
	return &a.funcs[n.Payload], true
}

// Static returns static-value metadata.
func (a *Arena) Static(id TypeID) (*StaticInfo, bool) {
	n := a.Get(a.Find(id))
	if n == nil || n.Kind != KindStatic {
		return nil, false
	}
	return &a.statics[n.Payload], true
}

// String renders a type for diagnostics (e.g. `List[?1]`, `f(x: int) -> ?2`).
func (a *Arena) String(id TypeID) string {
	id = a.Find(id)
	n := a.Get(id)
	if n == nil {
		return "<none>"
	}
	switch n.Kind {
	case KindUnbound:
		return fmt.Sprintf("?%d", a.unbounds[n.Payload].ID)
	case KindGeneric:
		return a.generics[n.Payload].Name
	case KindClass:
		info := a.classes[n.Payload]
		if len(info.Generics) == 0 {
			return info.Name
		}
		parts := make([]string, 0, len(info.Generics))
		for _, g := range info.Generics {
			parts = append(parts, a.String(g.Type))
		}
		return info.Name + "[" + strings.Join(parts, ",") + "]"
	case KindFunc:
		info := a.funcs[n.Payload]
		parts := make([]string, 0, len(info.Params))
		for _, p := range info.Params {
			parts = append(parts, p.Name+": "+a.String(p.Type))
		}
		return info.Name + "(" + strings.Join(parts, ", ") + ") -> " + a.String(info.Ret)
	case KindStatic:
		info := a.statics[n.Payload]
		if info.IsStr {
			return fmt.Sprintf("Static[%q]", info.Str)
		}
		return fmt.Sprintf("Static[%d]", info.Int)
	default:
		return n.Kind.String()
	}
}

func (a *Arena) appendUnbound(info UnboundInfo) uint32 {
	a.unbounds = append(a.unbounds, info)
	return mustSlot(len(a.unbounds) - 1)
}

func (a *Arena) appendGeneric(info GenericInfo) uint32 {
	a.generics = append(a.generics, info)
	return mustSlot(len(a.generics) - 1)
}

func (a *Arena) appendClass(info ClassInfo) uint32 {
	a.classes = append(a.classes, info)
	return mustSlot(len(a.classes) - 1)
}

func (a *Arena) appendFunc(info FuncInfo) uint32 {
	a.funcs = append(a.funcs, info)
	return mustSlot(len(a.funcs) - 1)
}

func (a *Arena) appendStatic(info StaticInfo) uint32 {
	a.statics = append(a.statics, info)
	return mustSlot(len(a.statics) - 1)
}

func mustSlot(n int) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("side table overflow: %w", err))
	}
	return slot
}

func cloneSlots(slots []GenericSlot) []GenericSlot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]GenericSlot, len(slots))
	copy(out, slots)
	return out
}

func cloneParams(params []Param) []Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]Param, len(params))
	copy(out, params)
	return out
}
