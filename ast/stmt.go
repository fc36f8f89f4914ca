package ast

import (
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// StmtExpr is an expression evaluated for its side effect; the compiler
// pops the value it leaves behind.
type StmtExpr struct {
	Semi token.Token
	X    Expr
}

func (s *StmtExpr) Pos() token.Position { return token.Bind(s.X.Pos(), s.Semi.Pos) }
func (s *StmtExpr) stmtNode()           {}

// StmtLet declares a new variable: `let name [: T] [= E];`. VarType is nil
// when the type tag was omitted (inferred from Init's result type); Init is
// nil when the `= E` part was omitted (the variable is left uninitialized,
// to be finalized later by a matching StmtInit).
type StmtLet struct {
	LetTok  token.Token
	Name    string
	NamePos token.Position
	VarType *types.Type
	IsRef   bool
	Init    Expr
	Semi    token.Token

	// Slot is the byte offset assigned by the resolver.
	Slot int

	// ResolvedType is the variable's final type: VarType if given, else
	// Init's result type, reconciled by the resolver's resolveLet. The
	// compiler reads this rather than re-deriving it from VarType/Init.
	ResolvedType types.Type
}

func (s *StmtLet) Pos() token.Position { return token.Bind(s.LetTok.Pos, s.Semi.Pos) }
func (s *StmtLet) stmtNode()           {}

// StmtInit finalizes a previously predefined-but-uninitialized variable:
// `init name = E;` where name was introduced by a bare `let name;`.
type StmtInit struct {
	Name    string
	NamePos token.Position
	Init    Expr
	Semi    token.Token

	Slot int

	// ResolvedType is the variable's type, set by the resolver.
	ResolvedType types.Type
}

func (s *StmtInit) Pos() token.Position { return token.Bind(s.NamePos, s.Semi.Pos) }
func (s *StmtInit) stmtNode()           {}

// StmtAssign reassigns an already-initialized variable, optionally via a
// compound operator (`+=`, `-=`, ...). Op is token.ASSIGN for a plain `=`.
type StmtAssign struct {
	Name    string
	NamePos token.Position
	Op      token.Token
	Value   Expr
	Semi    token.Token

	Slot int

	// ResolvedType is the variable's type, set by the resolver.
	ResolvedType types.Type
}

func (s *StmtAssign) Pos() token.Position { return token.Bind(s.NamePos, s.Semi.Pos) }
func (s *StmtAssign) stmtNode()           {}

// StmtBlock is a brace-delimited sequence of statements, and the unit of
// lexical scope: entering a block snapshots the resolver's slot cursor,
// leaving it restores that snapshot.
type StmtBlock struct {
	LBrace     token.Token
	Statements []Stmt
	RBrace     token.Token

	// ShrinkBy is the total byte size of every variable declared directly
	// in this block (not in a nested block), set by the resolver's
	// leaveScope. The compiler emits a matching StackShrink at the end of
	// the block's bytecode so slots it freed can be reused afterward.
	ShrinkBy int
}

func (s *StmtBlock) Pos() token.Position { return token.Bind(s.LBrace.Pos, s.RBrace.Pos) }
func (s *StmtBlock) stmtNode()           {}

// CondBranch pairs a condition with the block it guards, used for both the
// leading `if` and any `elif` clauses of a StmtIf.
type CondBranch struct {
	Cond Expr
	Body *StmtBlock
}

// StmtIf is `if C {..} elif C {..}* else {..}?`. Else is nil when there is
// no trailing `else` clause.
type StmtIf struct {
	IfTok    token.Token
	Branches []CondBranch
	Else     *StmtBlock
}

func (s *StmtIf) Pos() token.Position {
	end := s.Branches[len(s.Branches)-1].Body.Pos()
	if s.Else != nil {
		end = s.Else.Pos()
	}
	return token.Bind(s.IfTok.Pos, end)
}
func (s *StmtIf) stmtNode() {}

// StmtWhile is `while C {..}`.
type StmtWhile struct {
	WhileTok token.Token
	Cond     Expr
	Body     *StmtBlock
}

func (s *StmtWhile) Pos() token.Position { return token.Bind(s.WhileTok.Pos, s.Body.Pos()) }
func (s *StmtWhile) stmtNode()           {}

// StmtFor is a C-style `for (init; cond; update) {..}`. Init and Update may
// each be nil for the corresponding omitted clause.
type StmtFor struct {
	ForTok token.Token
	Init   Stmt
	Cond   Expr
	Update Stmt
	Body   *StmtBlock

	// ShrinkBy is the byte size of the init clause's own variable (if any),
	// freed once when the whole loop exits; Body carries its own ShrinkBy
	// for the per-iteration shrink.
	ShrinkBy int
}

func (s *StmtFor) Pos() token.Position { return token.Bind(s.ForTok.Pos, s.Body.Pos()) }
func (s *StmtFor) stmtNode()           {}

// StmtReturn is `return E?;`. Value is nil for a bare `return;`, which
// returns Unit.
type StmtReturn struct {
	ReturnTok token.Token
	Value     Expr
	Semi      token.Token

	// ReturnType is the enclosing function's declared return type, set by
	// the resolver so the compiler can convert Value to it.
	ReturnType types.Type
}

func (s *StmtReturn) Pos() token.Position { return token.Bind(s.ReturnTok.Pos, s.Semi.Pos) }
func (s *StmtReturn) stmtNode()           {}

// StmtFunc is a top-level function declaration: `func name(params) [-> T] {
// body }`. ReturnType is nil for a procedure returning Unit.
//
// Symbol is the mangled name (`name#p1#p2$ret`, or the fixed `main$unit`)
// computed by the resolver once every overload's signature is known. Index
// is the function-reference-table index the global compiler assigns.
type StmtFunc struct {
	FuncTok    token.Token
	Name       string
	NamePos    token.Position
	Params     []Param
	ReturnType *types.Type
	Body       *StmtBlock

	Symbol string
	Index  int
}

func (s *StmtFunc) Pos() token.Position { return token.Bind(s.FuncTok.Pos, s.Body.Pos()) }
func (s *StmtFunc) stmtNode()           {}
