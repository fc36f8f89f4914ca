package ast

import (
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// LitKind distinguishes the five literal forms the lexer can produce.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
)

// ExprLiteral is a literal value: an integer, float, bool, char or string.
// Typ is the literal's own type as determined lexically by its suffix (or
// its default when absent) — the resolver copies it straight into
// ResultType/OperandType since a literal needs no further inference.
//
// Integer literals wider than 64 bits (ExtInt/UExtInt) carry their value
// split across IntLo/IntHi, low 64 bits first, matching the VM's Oword
// representation.
type ExprLiteral struct {
	Token token.Token

	Kind LitKind
	Typ  types.Type

	IntLo  uint64
	IntHi  uint64
	Float  float64
	Bool   bool
	Char   rune
	String string

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprLiteral) Pos() token.Position { return e.Token.Pos }
func (e *ExprLiteral) exprNode()           {}

// ExprVariable is a reference to a named binding.
type ExprVariable struct {
	Token token.Token
	Name  string

	// Slot is the byte offset the resolver assigned the binding this
	// reference resolves to.
	Slot int

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprVariable) Pos() token.Position { return e.Token.Pos }
func (e *ExprVariable) exprNode()           {}

// ExprGrouping is a parenthesized expression, kept as its own node (rather
// than collapsed away by the parser) so that source positions and any
// future precedence-sensitive passes see the grouping explicitly.
type ExprGrouping struct {
	LParen token.Token
	Inner  Expr
	RParen token.Token

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprGrouping) Pos() token.Position {
	return token.Bind(e.LParen.Pos, e.RParen.Pos)
}
func (e *ExprGrouping) exprNode() {}

// ExprUnary is a prefix operator application: `-x`, `~x`, or `not x`.
type ExprUnary struct {
	Op      token.Token
	Operand Expr

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprUnary) Pos() token.Position {
	return token.Bind(e.Op.Pos, e.Operand.Pos())
}
func (e *ExprUnary) exprNode() {}

// ExprBinary is a binary operator application. Op.Type is one of the
// arithmetic, comparison, bitwise, shift (SHL/SHR keywords) or logical
// (AND/OR keywords) tokens.
type ExprBinary struct {
	Op    token.Token
	Left  Expr
	Right Expr

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprBinary) Pos() token.Position {
	return token.Bind(e.Left.Pos(), e.Right.Pos())
}
func (e *ExprBinary) exprNode() {}

// ExprAs is an `expr as T` cast. Target is the resolved type the type tag
// named; TargetPos locates the type tag itself for diagnostics distinct
// from the inner expression's position.
type ExprAs struct {
	Inner     Expr
	AsTok     token.Token
	Target    types.Type
	TargetPos token.Position

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprAs) Pos() token.Position {
	return token.Bind(e.Inner.Pos(), e.TargetPos)
}
func (e *ExprAs) exprNode() {}

// ExprCall is a function call `callee(args...)`. Loxinas has no first-class
// function values, so the callee is a bare name resolved against the
// function table rather than a general sub-expression.
type ExprCall struct {
	Callee    string
	CalleePos token.Position
	Args      []Expr
	RParen    token.Token

	// Symbol is filled in once overload resolution picks a concrete
	// function record (set by the resolver, read by the compiler).
	Symbol string

	ResultType  types.Type
	OperandType types.Type
}

func (e *ExprCall) Pos() token.Position {
	return token.Bind(e.CalleePos, e.RParen.Pos)
}
func (e *ExprCall) exprNode() {}
