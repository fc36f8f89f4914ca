// Package ast defines the abstract syntax tree for the Loxinas programming
// language.
//
// The tree is a node-per-variant shape: every expression and statement form
// is its own Go struct rather than a single generic node with a kind tag.
// Expression nodes carry ResultType/OperandType fields that the resolver
// fills in and the compiler later reads; the two type tags live directly on
// the node instead of in a side table keyed by node identity, so a node is
// self-describing once resolved.
package ast

import (
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// Pos returns the source range the node was parsed from.
	Pos() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of the tree: the ordered list of top-level function
// declarations in a source file. Loxinas has no global statements other
// than function declarations (spec's "misplaced global statement" error
// fires on anything else at the top level).
type Program struct {
	Functions []*StmtFunc
}

// Param is one formal parameter of a function declaration.
type Param struct {
	Name    string
	NamePos token.Position
	Type    types.Type
	IsRef   bool
}
