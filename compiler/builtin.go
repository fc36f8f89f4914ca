package compiler

import (
	"fmt"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/types"
)

// printSelector maps a resolved argument type to the SpecialFunction byte
// that prints it, grounded on original_source's builtin_functions.rs table.
func printSelector(t types.Type) (code.SpecialFunction, error) {
	switch {
	case t.IsBool():
		return code.PrintBool, nil
	case t.IsChar():
		return code.PrintChar, nil
	case t.IsFloat():
		if t.Float == types.Float32 {
			return code.PrintFloat, nil
		}
		return code.PrintDouble, nil
	case t.IsInteger():
		switch t.Integer {
		case types.Byte:
			return code.PrintByte, nil
		case types.SByte:
			return code.PrintSByte, nil
		case types.Short:
			return code.PrintShort, nil
		case types.UShort:
			return code.PrintUShort, nil
		case types.Int:
			return code.PrintInt, nil
		case types.UInt:
			return code.PrintUInt, nil
		case types.Long:
			return code.PrintLong, nil
		case types.ULong:
			return code.PrintULong, nil
		case types.ExtInt:
			return code.PrintExtInt, nil
		case types.UExtInt:
			return code.PrintUExtInt, nil
		}
	}
	return 0, fmt.Errorf("compiler: %q has no bytecode print form (no heap, no constant pool)", t)
}

// compileBuiltinCall lowers a print/println call (e.Symbol == "" marks a
// builtin per the resolver's resolveCall) directly to OpSpecialFunction,
// with no OpCall/frame overhead, per spec.md §4.1's Design Notes.
func (c *Compiler) compileBuiltinCall(e *ast.ExprCall) error {
	if e.Callee == "println" && len(e.Args) == 0 {
		c.emit(code.OpSpecialFunction, int(code.PrintNewLine))
		return nil
	}

	arg := e.Args[0]
	if err := c.compileExpr(arg); err != nil {
		return err
	}
	sel, err := printSelector(resultTypeOf(arg))
	if err != nil {
		return err
	}
	c.emit(code.OpSpecialFunction, int(sel))
	if e.Callee == "println" {
		c.emit(code.OpSpecialFunction, int(code.PrintNewLine))
	}
	return nil
}
