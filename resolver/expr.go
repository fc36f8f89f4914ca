package resolver

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// resolveExpr type-checks e, records ResultType/OperandType on the node,
// and returns the result type for the caller's convenience.
func (r *Resolver) resolveExpr(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.ExprLiteral:
		return r.resolveLiteral(n)
	case *ast.ExprVariable:
		return r.resolveVariable(n)
	case *ast.ExprGrouping:
		return r.resolveGrouping(n)
	case *ast.ExprUnary:
		return r.resolveUnary(n)
	case *ast.ExprBinary:
		return r.resolveBinary(n)
	case *ast.ExprAs:
		return r.resolveAs(n)
	case *ast.ExprCall:
		t := r.resolveCall(n)
		n.ResultType, n.OperandType = t, t
		return t
	default:
		panic("resolver: unhandled expression node")
	}
}

func (r *Resolver) resolveLiteral(e *ast.ExprLiteral) types.Type {
	e.ResultType = e.Typ
	e.OperandType = e.Typ
	return e.Typ
}

func (r *Resolver) resolveVariable(e *ast.ExprVariable) types.Type {
	v := r.findVariable(e.Name)
	if v == nil {
		r.errorf(e.Token.Pos, "undefined variable %q", e.Name)
		e.ResultType, e.OperandType = types.TUnit(), types.TUnit()
		return types.TUnit()
	}
	if !v.Defined || !v.Initialized {
		r.errorf(e.Token.Pos, "use of %q before it is initialized", e.Name)
	}
	vt := types.TUnit()
	if v.VarType != nil {
		vt = *v.VarType
	}
	e.Slot = v.Slot
	e.ResultType, e.OperandType = vt, vt
	return vt
}

func (r *Resolver) resolveGrouping(e *ast.ExprGrouping) types.Type {
	inner := r.resolveExpr(e.Inner)
	e.ResultType, e.OperandType = inner, inner
	return inner
}

func (r *Resolver) resolveAs(e *ast.ExprAs) types.Type {
	src := r.resolveExpr(e.Inner)
	if e.Target.IsObject() {
		r.errorf(e.TargetPos, "cannot convert a value to an object by using 'as'")
	}
	e.ResultType = e.Target
	e.OperandType = src
	return e.Target
}

func (r *Resolver) resolveUnary(e *ast.ExprUnary) types.Type {
	operand := r.resolveExpr(e.Operand)
	result := r.unaryResult(e.Op, operand)
	e.ResultType, e.OperandType = result, result
	return result
}

func (r *Resolver) unaryResult(op token.Token, operand types.Type) types.Type {
	switch {
	case operand.IsInteger():
		if op.Type == token.NOT {
			r.errorf(op.Pos, "cannot use operator %q on an integer", operatorText(op))
			return types.TUnit()
		}
		if op.Type == token.MINUS && !operand.Integer.Signed() {
			r.errorf(op.Pos, "cannot use operator '-' on an unsigned integer")
			return types.TUnit()
		}
		return operand
	case operand.IsFloat():
		if op.Type == token.NOT || op.Type == token.TILDE {
			r.errorf(op.Pos, "cannot use operator %q on a floating-point number", operatorText(op))
			return types.TUnit()
		}
		return operand
	case operand.IsBool():
		if op.Type == token.NOT {
			return types.TBool()
		}
		r.errorf(op.Pos, "cannot use operator %q on a bool", operatorText(op))
		return types.TUnit()
	default:
		r.errorf(op.Pos, "cannot use operator %q on a %s", operatorText(op), operand)
		return types.TUnit()
	}
}

var comparisonOps = map[token.Type]bool{
	token.EQ: true, token.NOT_EQ: true,
	token.LT: true, token.LTE: true, token.GT: true, token.GTE: true,
}

func operatorText(tok token.Token) string {
	switch tok.Type {
	case token.AND:
		return "and"
	case token.OR:
		return "or"
	case token.NOT:
		return "not"
	case token.SHL:
		return "shl"
	case token.SHR:
		return "shr"
	default:
		return string(tok.Type)
	}
}

func (r *Resolver) resolveBinary(e *ast.ExprBinary) types.Type {
	left := r.resolveExpr(e.Left)
	right := r.resolveExpr(e.Right)
	result, operand := r.binaryResult(e.Op, left, right)
	e.ResultType = result
	e.OperandType = operand
	return result
}

// binaryResult implements spec.md §4.1's full operator-compatibility and
// promotion table, grounded on original_source's resolver_expr.rs match on
// (left type, right type).
func (r *Resolver) binaryResult(op token.Token, left, right types.Type) (result, operand types.Type) {
	isLogic := op.Type == token.AND || op.Type == token.OR
	isCompare := comparisonOps[op.Type]

	switch {
	case left.IsChar() && right.IsChar():
		switch {
		case op.Type == token.PLUS:
			return types.TString(), types.TChar()
		case isCompare:
			return types.TBool(), types.TChar()
		default:
			r.errorf(op.Pos, "cannot use operator %q between chars", operatorText(op))
			return types.TUnit(), types.TUnit()
		}

	case left.IsInteger() && right.IsInteger():
		if isLogic || op.Type == token.NOT {
			r.errorf(op.Pos, "cannot use operator %q between integers", operatorText(op))
			return types.TUnit(), types.TUnit()
		}
		// shl/shr take their shift count as a separate byte-width operand
		// (the VM always pops it as a byte) rather than promoting with the
		// shifted value, so the result/operand type is the left side alone.
		if op.Type == token.SHL || op.Type == token.SHR {
			return left, left
		}
		promoted, ok := types.PromoteIntegers(left.Integer, right.Integer)
		if !ok {
			r.errorf(op.Pos, "cannot operate on two integers with different signs")
			return types.TUnit(), types.TUnit()
		}
		pt := types.TInt(promoted)
		if isCompare {
			return types.TBool(), pt
		}
		return pt, pt

	case (left.IsInteger() && right.IsFloat()) || (left.IsFloat() && right.IsInteger()):
		if isLogic {
			r.errorf(op.Pos, "cannot use operator %q between numbers", operatorText(op))
			return types.TUnit(), types.TUnit()
		}
		ft := left.Float
		if left.IsInteger() {
			ft = right.Float
		}
		if isCompare {
			return types.TBool(), types.TFloat(ft)
		}
		if op.Type == token.PERCENT {
			r.errorf(op.Pos, "cannot use operator '%%' on a floating-point number")
			return types.TUnit(), types.TUnit()
		}
		return types.TFloat(ft), types.TFloat(ft)

	case left.IsFloat() && right.IsFloat():
		if isLogic {
			r.errorf(op.Pos, "cannot use operator %q between floating-point numbers", operatorText(op))
			return types.TUnit(), types.TUnit()
		}
		promoted := types.PromoteFloats(left.Float, right.Float)
		if isCompare {
			return types.TBool(), types.TFloat(promoted)
		}
		if op.Type == token.PERCENT {
			r.errorf(op.Pos, "cannot use operator '%%' between floating-point numbers")
			return types.TUnit(), types.TUnit()
		}
		return types.TFloat(promoted), types.TFloat(promoted)

	case left.IsBool() && right.IsBool():
		if isLogic || op.Type == token.EQ || op.Type == token.NOT_EQ {
			return types.TBool(), types.TBool()
		}
		r.errorf(op.Pos, "cannot use operator %q between bools", operatorText(op))
		return types.TUnit(), types.TUnit()

	case left.IsString() && right.IsString():
		switch {
		case op.Type == token.PLUS:
			return types.TString(), types.TString()
		case isCompare:
			return types.TBool(), types.TString()
		default:
			r.errorf(op.Pos, "cannot use operator %q between strings", operatorText(op))
			return types.TUnit(), types.TUnit()
		}

	case left.IsObject() && right.IsObject():
		r.errorf(op.Pos, "cannot operate on two objects")
		return types.TUnit(), types.TUnit()

	default:
		r.errorf(op.Pos, "cannot use operator %q between %q and %q", operatorText(op), left, right)
		return types.TUnit(), types.TUnit()
	}
}
