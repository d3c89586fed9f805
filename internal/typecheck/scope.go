package typecheck

import (
	"pyrite/internal/source"
	"pyrite/internal/symbols"
)

// HoistStmt is a synthesized definite-assignment record queued against a
// block during domination. The lowering layer turns it into an initializing
// assignment at the head of that block, so a name assigned on some paths is
// defined on every path at the join point.
type HoistStmt struct {
	Name      string
	Canonical string
	Binding   *symbols.Binding
	Span      source.Span
}

// EnterConditionalBlock opens a new conditional scope (an if/while/for/try
// body). Every block gets a fresh id from a unit-wide counter.
func (c *Context) EnterConditionalBlock() symbols.BlockID {
	c.scope.counter++
	id := c.scope.counter
	c.scope.blocks = append(c.scope.blocks, id)
	return id
}

// LeaveConditionalBlock closes the innermost conditional scope. When stmts
// is non-nil it is populated with the hoist statements queued against the
// closing block. Bindings declared in the block stay on their stacks (a
// branch assignment outlives the branch); visibility rules hide them once
// the block id leaves the active path.
func (c *Context) LeaveConditionalBlock(stmts *[]HoistStmt) {
	if len(c.scope.blocks) <= 1 {
		// The unit root never closes; unbalanced leave is a traversal bug.
		return
	}
	id := c.scope.blocks[len(c.scope.blocks)-1]
	c.scope.blocks = c.scope.blocks[:len(c.scope.blocks)-1]
	if queued, ok := c.scope.stmts[id]; ok {
		if stmts != nil {
			*stmts = append(*stmts, queued...)
		}
		delete(c.scope.stmts, id)
	}
}

// PendingStmts reports how many hoist statements are queued for block id.
func (c *Context) PendingStmts(id symbols.BlockID) int {
	return len(c.scope.stmts[id])
}

func (c *Context) queueStmt(id symbols.BlockID, st HoistStmt) {
	c.scope.stmts[id] = append(c.scope.stmts[id], st)
}
