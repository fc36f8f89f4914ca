package compiler

import (
	"fmt"
	"math"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// signedFamily picks one of two width-indexed opcode families by the
// operand's signedness, mirroring original_source's sign_integer_code.
type signedFamily struct {
	signed, unsigned [5]code.Opcode
}

func (f signedFamily) pick(signed bool, w types.Width) code.Opcode {
	if signed {
		return f.signed[w]
	}
	return f.unsigned[w]
}

var addFamily = [5]code.Opcode{code.OpIAddByte, code.OpIAddWord, code.OpIAddDword, code.OpIAddQword, code.OpIAddOword}
var subFamily = [5]code.Opcode{code.OpISubByte, code.OpISubWord, code.OpISubDword, code.OpISubQword, code.OpISubOword}
var mulFamily = [5]code.Opcode{code.OpIMulByte, code.OpIMulWord, code.OpIMulDword, code.OpIMulQword, code.OpIMulOword}
var andFamily = [5]code.Opcode{code.OpIAndByte, code.OpIAndWord, code.OpIAndDword, code.OpIAndQword, code.OpIAndOword}
var orFamily = [5]code.Opcode{code.OpIOrByte, code.OpIOrWord, code.OpIOrDword, code.OpIOrQword, code.OpIOrOword}
var xorFamily = [5]code.Opcode{code.OpIXorByte, code.OpIXorWord, code.OpIXorDword, code.OpIXorQword, code.OpIXorOword}
var eqFamily = [5]code.Opcode{code.OpIEqByte, code.OpIEqWord, code.OpIEqDword, code.OpIEqQword, code.OpIEqOword}
var neqFamily = [5]code.Opcode{code.OpINeqByte, code.OpINeqWord, code.OpINeqDword, code.OpINeqQword, code.OpINeqOword}
var negFamily = [5]code.Opcode{code.OpINegByte, code.OpINegWord, code.OpINegDword, code.OpINegQword, code.OpINegOword}
var notFamily = [5]code.Opcode{code.OpBNotByte, code.OpBNotWord, code.OpBNotDword, code.OpBNotQword, code.OpBNotOword}
var shlFamily = [5]code.Opcode{code.OpShlByte, code.OpShlWord, code.OpShlDword, code.OpShlQword, code.OpShlOword}

var divFamily = signedFamily{signed: [5]code.Opcode{code.OpIDivSByte, code.OpIDivSWord, code.OpIDivSDword, code.OpIDivSQword, code.OpIDivSOword}, unsigned: [5]code.Opcode{code.OpIDivUByte, code.OpIDivUWord, code.OpIDivUDword, code.OpIDivUQword, code.OpIDivUOword}}
var modFamily = signedFamily{signed: [5]code.Opcode{code.OpIModSByte, code.OpIModSWord, code.OpIModSDword, code.OpIModSQword, code.OpIModSOword}, unsigned: [5]code.Opcode{code.OpIModUByte, code.OpIModUWord, code.OpIModUDword, code.OpIModUQword, code.OpIModUOword}}
var ltFamily = signedFamily{signed: [5]code.Opcode{code.OpILtSByte, code.OpILtSWord, code.OpILtSDword, code.OpILtSQword, code.OpILtSOword}, unsigned: [5]code.Opcode{code.OpILtUByte, code.OpILtUWord, code.OpILtUDword, code.OpILtUQword, code.OpILtUOword}}
var leFamily = signedFamily{signed: [5]code.Opcode{code.OpILeSByte, code.OpILeSWord, code.OpILeSDword, code.OpILeSQword, code.OpILeSOword}, unsigned: [5]code.Opcode{code.OpILeUByte, code.OpILeUWord, code.OpILeUDword, code.OpILeUQword, code.OpILeUOword}}
var gtFamily = signedFamily{signed: [5]code.Opcode{code.OpIGtSByte, code.OpIGtSWord, code.OpIGtSDword, code.OpIGtSQword, code.OpIGtSOword}, unsigned: [5]code.Opcode{code.OpIGtUByte, code.OpIGtUWord, code.OpIGtUDword, code.OpIGtUQword, code.OpIGtUOword}}
var geFamily = signedFamily{signed: [5]code.Opcode{code.OpIGeSByte, code.OpIGeSWord, code.OpIGeSDword, code.OpIGeSQword, code.OpIGeSOword}, unsigned: [5]code.Opcode{code.OpIGeUByte, code.OpIGeUWord, code.OpIGeUDword, code.OpIGeUQword, code.OpIGeUOword}}
var shrFamily = signedFamily{signed: [5]code.Opcode{code.OpShrSByte, code.OpShrSWord, code.OpShrSDword, code.OpShrSQword, code.OpShrSOword}, unsigned: [5]code.Opcode{code.OpShrUByte, code.OpShrUWord, code.OpShrUDword, code.OpShrUQword, code.OpShrUOword}}

// float{Add,Sub,Mul,Div,Eq,Neq,Lt,Le,Gt,Ge,Neg} are indexed by
// types.FloatType (Float32=0, Float64=1).
var floatAddFamily = [2]code.Opcode{code.OpFAddFloat, code.OpFAddDouble}
var floatSubFamily = [2]code.Opcode{code.OpFSubFloat, code.OpFSubDouble}
var floatMulFamily = [2]code.Opcode{code.OpFMulFloat, code.OpFMulDouble}
var floatDivFamily = [2]code.Opcode{code.OpFDivFloat, code.OpFDivDouble}
var floatEqFamily = [2]code.Opcode{code.OpFEqFloat, code.OpFEqDouble}
var floatNeqFamily = [2]code.Opcode{code.OpFNeqFloat, code.OpFNeqDouble}
var floatLtFamily = [2]code.Opcode{code.OpFLtFloat, code.OpFLtDouble}
var floatLeFamily = [2]code.Opcode{code.OpFLeFloat, code.OpFLeDouble}
var floatGtFamily = [2]code.Opcode{code.OpFGtFloat, code.OpFGtDouble}
var floatGeFamily = [2]code.Opcode{code.OpFGeFloat, code.OpFGeDouble}
var floatNegFamily = [2]code.Opcode{code.OpFNegFloat, code.OpFNegDouble}

// pushFamily/getLocalFamily/setLocalFamily/getRefFamily/setRefFamily are
// indexed by types.Width.
var pushFamily = [5]code.Opcode{code.OpPushByte, code.OpPushWord, code.OpPushDword, code.OpPushQword, code.OpPushOword}
var popFamily = [5]code.Opcode{code.OpPopByte, code.OpPopWord, code.OpPopDword, code.OpPopQword, code.OpPopOword}
var getLocalFamily = [5]code.Opcode{code.OpGetLocalByte, code.OpGetLocalWord, code.OpGetLocalDword, code.OpGetLocalQword, code.OpGetLocalOword}
var setLocalFamily = [5]code.Opcode{code.OpSetLocalByte, code.OpSetLocalWord, code.OpSetLocalDword, code.OpSetLocalQword, code.OpSetLocalOword}
var getReferenceFamily = [5]code.Opcode{code.OpGetReferenceByte, code.OpGetReferenceWord, code.OpGetReferenceDword, code.OpGetReferenceQword, code.OpGetReferenceOword}
var setReferenceFamily = [5]code.Opcode{code.OpSetReferenceByte, code.OpSetReferenceWord, code.OpSetReferenceDword, code.OpSetReferenceQword, code.OpSetReferenceOword}
var returnFamily = [5]code.Opcode{code.OpReturnByte, code.OpReturnWord, code.OpReturnDword, code.OpReturnQword, code.OpReturnOword}

func (c *Compiler) compileExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.ExprLiteral:
		return c.compileLiteral(n)
	case *ast.ExprVariable:
		return c.compileVariable(n)
	case *ast.ExprGrouping:
		return c.compileExpr(n.Inner)
	case *ast.ExprUnary:
		return c.compileUnary(n)
	case *ast.ExprBinary:
		return c.compileBinary(n)
	case *ast.ExprAs:
		return c.compileAs(n)
	case *ast.ExprCall:
		return c.compileCall(n)
	default:
		return fmt.Errorf("compiler: unhandled expression node %T", e)
	}
}

func (c *Compiler) compileLiteral(e *ast.ExprLiteral) error {
	switch e.Kind {
	case ast.LitInt:
		if e.Typ.Integer == types.ExtInt || e.Typ.Integer == types.UExtInt {
			c.emitWide128(code.OpPushOword, e.IntLo, e.IntHi)
			return nil
		}
		c.emit(pushFamily[e.Typ.Width()], int(e.IntLo))
		return nil
	case ast.LitFloat:
		if e.Typ.Float == types.Float32 {
			c.emit(code.OpPushDword, int(math.Float32bits(float32(e.Float))))
		} else {
			c.emit(code.OpPushQword, int(math.Float64bits(e.Float)))
		}
		return nil
	case ast.LitBool:
		v := 0
		if e.Bool {
			v = 1
		}
		c.emit(code.OpPushByte, v)
		return nil
	case ast.LitChar:
		c.emit(code.OpPushDword, int(e.Char))
		return nil
	case ast.LitString:
		return fmt.Errorf("compiler: string-valued expressions have no bytecode representation (no heap, no constant pool)")
	default:
		return fmt.Errorf("compiler: unhandled literal kind %d", e.Kind)
	}
}

func (c *Compiler) compileVariable(e *ast.ExprVariable) error {
	c.emit(getLocalFamily[e.ResultType.Width()], e.Slot)
	return nil
}

func (c *Compiler) compileAs(e *ast.ExprAs) error {
	if err := c.compileExpr(e.Inner); err != nil {
		return err
	}
	return c.convert(e.OperandType, e.ResultType)
}

func (c *Compiler) compileUnary(e *ast.ExprUnary) error {
	if err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(e.Operand), e.OperandType); err != nil {
		return err
	}
	switch e.Op.Type {
	case token.MINUS:
		if e.OperandType.IsFloat() {
			c.emit(floatNegFamily[e.OperandType.Float])
		} else {
			c.emit(negFamily[e.OperandType.Width()])
		}
	case token.TILDE:
		c.emit(notFamily[e.OperandType.Width()])
	case token.NOT:
		c.emit(code.OpBoolNot)
	default:
		return fmt.Errorf("compiler: unhandled unary operator %q", e.Op.Literal)
	}
	return nil
}

func (c *Compiler) compileBinary(e *ast.ExprBinary) error {
	if e.Op.Type == token.SHL || e.Op.Type == token.SHR {
		return c.compileShift(e)
	}

	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(e.Left), e.OperandType); err != nil {
		return err
	}
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(e.Right), e.OperandType); err != nil {
		return err
	}

	return c.emitBinaryOp(e.Op, e.OperandType)
}

// compileShift handles shl/shr separately: the right operand (the shift
// count) is always narrowed to a plain byte regardless of e.OperandType,
// which here names only the shifted value's type (spec.md's VM always pops
// the count as a byte, then the value at its own width).
func (c *Compiler) compileShift(e *ast.ExprBinary) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(e.Left), e.OperandType); err != nil {
		return err
	}
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	if err := c.convert(resultTypeOf(e.Right), types.TInt(types.Byte)); err != nil {
		return err
	}
	w := e.OperandType.Width()
	if e.Op.Type == token.SHL {
		c.emit(shlFamily[w])
	} else {
		c.emit(shrFamily.pick(e.OperandType.Integer.Signed(), w))
	}
	return nil
}

func (c *Compiler) emitBinaryOp(op token.Token, operand types.Type) error {
	w := operand.Width()
	isFloat := operand.IsFloat()
	signed := operand.IsInteger() && operand.Integer.Signed()

	switch op.Type {
	case token.PLUS:
		if operand.IsString() || operand.IsChar() {
			return fmt.Errorf("compiler: char/String concatenation has no bytecode representation (no heap, no constant pool)")
		}
		if isFloat {
			c.emit(floatAddFamily[operand.Float])
		} else {
			c.emit(addFamily[w])
		}
	case token.MINUS:
		if isFloat {
			c.emit(floatSubFamily[operand.Float])
		} else {
			c.emit(subFamily[w])
		}
	case token.STAR:
		if isFloat {
			c.emit(floatMulFamily[operand.Float])
		} else {
			c.emit(mulFamily[w])
		}
	case token.SLASH:
		if isFloat {
			c.emit(floatDivFamily[operand.Float])
		} else {
			c.emit(divFamily.pick(signed, w))
		}
	case token.PERCENT:
		c.emit(modFamily.pick(signed, w))
	case token.AMP:
		c.emit(andFamily[w])
	case token.PIPE:
		c.emit(orFamily[w])
	case token.CARET:
		c.emit(xorFamily[w])
	case token.EQ:
		if isFloat {
			c.emit(floatEqFamily[operand.Float])
		} else {
			c.emit(eqFamily[w])
		}
	case token.NOT_EQ:
		if isFloat {
			c.emit(floatNeqFamily[operand.Float])
		} else {
			c.emit(neqFamily[w])
		}
	case token.LT:
		if isFloat {
			c.emit(floatLtFamily[operand.Float])
		} else {
			c.emit(ltFamily.pick(signed, w))
		}
	case token.LTE:
		if isFloat {
			c.emit(floatLeFamily[operand.Float])
		} else {
			c.emit(leFamily.pick(signed, w))
		}
	case token.GT:
		if isFloat {
			c.emit(floatGtFamily[operand.Float])
		} else {
			c.emit(gtFamily.pick(signed, w))
		}
	case token.GTE:
		if isFloat {
			c.emit(floatGeFamily[operand.Float])
		} else {
			c.emit(geFamily.pick(signed, w))
		}
	case token.AND:
		c.emit(andFamily[w])
	case token.OR:
		c.emit(orFamily[w])
	default:
		return fmt.Errorf("compiler: unhandled binary operator %q", op.Literal)
	}
	return nil
}

// resultTypeOf reads the ResultType annotation the resolver left on e,
// without needing a type switch at every call site.
func resultTypeOf(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.ExprLiteral:
		return n.ResultType
	case *ast.ExprVariable:
		return n.ResultType
	case *ast.ExprGrouping:
		return n.ResultType
	case *ast.ExprUnary:
		return n.ResultType
	case *ast.ExprBinary:
		return n.ResultType
	case *ast.ExprAs:
		return n.ResultType
	case *ast.ExprCall:
		return n.ResultType
	default:
		panic(fmt.Sprintf("compiler: unhandled expression node %T", e))
	}
}

// compileCall lowers a user-function call: every argument is pushed at its
// own width (overload resolution already required an exact type match, so
// no conversion is needed), then the caller pushes the total argument
// byte size as a Word immediately before Call — the VM pops that word to
// find the new frame's frame_start (spec.md §4.7/§9).
func (c *Compiler) compileCall(e *ast.ExprCall) error {
	if e.Symbol == "" {
		return c.compileBuiltinCall(e)
	}
	argSize := 0
	for _, arg := range e.Args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
		argSize += resultTypeOf(arg).Size()
	}
	c.emit(code.OpPushWord, argSize)
	c.emit(code.OpCall, int(c.symbolIndex(e.Symbol)))
	return nil
}
