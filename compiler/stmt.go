package compiler

import (
	"fmt"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

func (c *Compiler) compileStatements(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.StmtExpr:
		return c.compileExprStmt(n)
	case *ast.StmtLet:
		return c.compileLet(n)
	case *ast.StmtInit:
		return c.compileInit(n)
	case *ast.StmtAssign:
		return c.compileAssign(n)
	case *ast.StmtBlock:
		return c.compileBlock(n)
	case *ast.StmtIf:
		return c.compileIf(n)
	case *ast.StmtWhile:
		return c.compileWhile(n)
	case *ast.StmtFor:
		return c.compileFor(n)
	case *ast.StmtReturn:
		return c.compileReturn(n)
	default:
		return fmt.Errorf("compiler: unhandled statement node %T", s)
	}
}

// compileExprStmt compiles e for its side effect, then discards whatever
// value it left on the stack; a Unit-typed expression (a bare call to a
// unit-returning function) pushes nothing and needs no pop.
func (c *Compiler) compileExprStmt(s *ast.StmtExpr) error {
	if err := c.compileExpr(s.X); err != nil {
		return err
	}
	t := resultTypeOf(s.X)
	if !t.IsUnit() {
		c.emit(popFamily[t.Width()])
	}
	return nil
}

// compileLet implements spec.md §4.5's `let` rules. A bare `let name;`
// pushes a zero placeholder sized to the variable's type, reserving its
// slot until a matching StmtInit supplies the real value; `let name = E;`
// emits E converted to the declared type and leaves it at the slot.
func (c *Compiler) compileLet(s *ast.StmtLet) error {
	if s.Init == nil {
		c.emitZero(s.ResolvedType)
		return nil
	}
	if err := c.compileExpr(s.Init); err != nil {
		return err
	}
	return c.convert(resultTypeOf(s.Init), s.ResolvedType)
}

// emitZero pushes a zero-valued literal of t's width, used for the
// uninitialized `let` placeholder.
func (c *Compiler) emitZero(t types.Type) {
	if t.IsInteger() && (t.Integer == types.ExtInt || t.Integer == types.UExtInt) {
		c.emitWide128(code.OpPushOword, 0, 0)
		return
	}
	c.emit(pushFamily[t.Width()], 0)
}

// compileInit lowers `init name = E;`, finalizing a previously bare `let`: emit
// E, convert to the variable's type, store it at the reserved slot.
func (c *Compiler) compileInit(s *ast.StmtInit) error {
	if err := c.compileExpr(s.Init); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(s.Init), s.ResolvedType); err != nil {
		return err
	}
	c.emit(setLocalFamily[s.ResolvedType.Width()], s.Slot)
	return nil
}

// compoundOp maps a compound-assignment token to the plain binary operator
// it abbreviates, so compileAssign can reuse emitBinaryOp.
var compoundOp = map[token.Type]token.Type{
	token.PLUS_EQ:  token.PLUS,
	token.MINUS_EQ: token.MINUS,
	token.STAR_EQ:  token.STAR,
	token.SLASH_EQ: token.SLASH,
	token.PCT_EQ:   token.PERCENT,
	token.AMP_EQ:   token.AMP,
	token.PIPE_EQ:  token.PIPE,
	token.CARET_EQ: token.CARET,
}

// compileAssign lowers `name = E;` and its compound forms. A compound
// assignment reads the current value, computes the binary op against the
// converted right-hand side, then stores — mirroring the expression
// lowering discipline of §4.4 rather than introducing a separate family.
func (c *Compiler) compileAssign(s *ast.StmtAssign) error {
	if s.Op.Type == token.ASSIGN {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		if err := c.convert(resultTypeOf(s.Value), s.ResolvedType); err != nil {
			return err
		}
		c.emit(setLocalFamily[s.ResolvedType.Width()], s.Slot)
		return nil
	}

	plainOp, ok := compoundOp[s.Op.Type]
	if !ok {
		return fmt.Errorf("compiler: unhandled assignment operator %q", s.Op.Literal)
	}
	c.emit(getLocalFamily[s.ResolvedType.Width()], s.Slot)
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(s.Value), s.ResolvedType); err != nil {
		return err
	}
	if err := c.emitBinaryOp(token.Token{Type: plainOp}, s.ResolvedType); err != nil {
		return err
	}
	c.emit(setLocalFamily[s.ResolvedType.Width()], s.Slot)
	return nil
}

// compileBlock compiles a nested block's statements and emits the matching
// StackShrink the resolver computed for it, reclaiming every slot the
// block's own `let`s occupied.
func (c *Compiler) compileBlock(b *ast.StmtBlock) error {
	if err := c.compileStatements(b.Statements); err != nil {
		return err
	}
	if b.ShrinkBy != 0 {
		c.emit(code.OpStackShrink, b.ShrinkBy)
	}
	return nil
}

// compileIf lowers `if C {..} elif C {..}* else {..}?` as a chain of
// JumpFalsePop-guarded blocks, each jumping past the rest on completion.
func (c *Compiler) compileIf(s *ast.StmtIf) error {
	var endJumps []int

	for i, branch := range s.Branches {
		if err := c.compileExpr(branch.Cond); err != nil {
			return err
		}
		falseJump := c.emit(code.OpJumpFalsePop, 0)
		if err := c.compileBlock(branch.Body); err != nil {
			return err
		}
		isLast := i == len(s.Branches)-1 && s.Else == nil
		if !isLast {
			endJumps = append(endJumps, c.emit(code.OpJump, 0))
		}
		c.patchJump(falseJump, c.currentPos())
	}

	if s.Else != nil {
		if err := c.compileBlock(s.Else); err != nil {
			return err
		}
	}

	for _, pos := range endJumps {
		c.patchJump(pos, c.currentPos())
	}
	return nil
}

// compileWhile lowers `while C {..}` as a condition test, a body, and a
// backward jump, with a per-iteration StackShrink for the body's own `let`s
// so a loop that declares a local doesn't grow the stack without bound.
func (c *Compiler) compileWhile(s *ast.StmtWhile) error {
	loopStart := c.currentPos()
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	exitJump := c.emit(code.OpJumpFalsePop, 0)
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	c.emitJumpTo(code.OpJump, loopStart)
	c.patchJump(exitJump, c.currentPos())
	return nil
}

// compileFor lowers the C-style `for (init; cond; update) {..}`: init runs
// once, then cond/body/update repeat with the backward jump landing right
// before cond is re-tested. The body's StackShrink fires every iteration;
// the for-statement's own ShrinkBy (the init clause's variable, if any)
// fires once after the loop exits.
func (c *Compiler) compileFor(s *ast.StmtFor) error {
	if s.Init != nil {
		if err := c.compileStmt(s.Init); err != nil {
			return err
		}
	}

	loopStart := c.currentPos()
	var exitJump int
	hasCond := s.Cond != nil
	if hasCond {
		if err := c.compileExpr(s.Cond); err != nil {
			return err
		}
		exitJump = c.emit(code.OpJumpFalsePop, 0)
	}

	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	if s.Update != nil {
		if err := c.compileStmt(s.Update); err != nil {
			return err
		}
	}
	c.emitJumpTo(code.OpJump, loopStart)
	if hasCond {
		c.patchJump(exitJump, c.currentPos())
	}

	if s.ShrinkBy != 0 {
		c.emit(code.OpStackShrink, s.ShrinkBy)
	}
	return nil
}

// compileReturn lowers `return E?;`: a bare return pushes nothing and
// emits ReturnUnit; otherwise the value is converted to the function's
// declared return type (s.ReturnType, set by the resolver) before the
// matching Return<width> pops it back out. No StackShrink is emitted here
// for locals still live at this point: Return<Width>/ReturnUnit already
// release the whole frame back to its frame_start (spec.md §4.7), so
// whatever the enclosing scopes pushed since the call is discarded
// regardless of how deep the return sits.
func (c *Compiler) compileReturn(s *ast.StmtReturn) error {
	if s.Value == nil {
		c.emit(code.OpReturnUnit)
		return nil
	}
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(s.Value), s.ReturnType); err != nil {
		return err
	}
	c.emit(returnFamily[s.ReturnType.Width()])
	return nil
}
