package symbols

import (
	"sort"
)

// Table maps names to shadow-stacks of bindings. Bindings are pushed at
// declaration and popped in LIFO order when the base block that owns them
// closes; conditional blocks never pop (assignments in a branch outlive the
// branch, which is what domination compensates for).
type Table struct {
	stacks  map[string][]*Binding // oldest first; innermost binding is last
	journal [][]string            // names pushed per open base block
}

func NewTable() *Table {
	return &Table{
		stacks:  make(map[string][]*Binding),
		journal: make([][]string, 0, 8),
	}
}

// PushBlock opens a new base block. Bindings added afterwards are owned by
// this block until PopBlock.
func (t *Table) PushBlock() {
	t.journal = append(t.journal, nil)
}

// PopBlock closes the innermost base block, removing its bindings in
// reverse declaration order.
func (t *Table) PopBlock() {
	if len(t.journal) == 0 {
		return
	}
	names := t.journal[len(t.journal)-1]
	t.journal = t.journal[:len(t.journal)-1]
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		stack := t.stacks[name]
		if len(stack) == 0 {
			continue
		}
		if len(stack) == 1 {
			delete(t.stacks, name)
		} else {
			t.stacks[name] = stack[:len(stack)-1]
		}
	}
}

// Depth reports the number of open base blocks.
func (t *Table) Depth() int { return len(t.journal) }

// Push shadows name with b.
func (t *Table) Push(name string, b *Binding) {
	t.stacks[name] = append(t.stacks[name], b)
	if len(t.journal) > 0 {
		top := len(t.journal) - 1
		t.journal[top] = append(t.journal[top], name)
	}
}

// PushToRoot adds b beneath every existing binding of name, owned by the
// outermost block. Used for always-visible standard-library symbols.
func (t *Table) PushToRoot(name string, b *Binding) {
	t.stacks[name] = append([]*Binding{b}, t.stacks[name]...)
	if len(t.journal) > 0 {
		t.journal[0] = append(t.journal[0], name)
	}
}

// Front returns the innermost binding for name, or nil.
func (t *Table) Front(name string) *Binding {
	stack := t.stacks[name]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// Stack returns the shadow-stack for name, oldest binding first. The slice
// is the table's own storage; callers must not modify it.
func (t *Table) Stack(name string) []*Binding {
	return t.stacks[name]
}

// Names returns all bound names in sorted order (for state dumps).
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.stacks))
	for name := range t.stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
