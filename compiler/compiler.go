// Package compiler lowers a resolved Loxinas function body into bytecode.
//
// A Compiler instance compiles exactly one function: the resolver has
// already annotated every expression node with its ResultType/OperandType
// and every declaration with its stack slot, so compilation is a single
// linear pass with no symbol-table lookups of its own — it reads the
// annotations the resolver left behind and emits code.Instructions.
package compiler

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/code"
)

// Compiler accumulates one function's instruction stream.
type Compiler struct {
	ins code.Instructions

	lastOp code.Opcode
	hasOp  bool

	// symbolIndex maps a call's Symbol to the function-reference-table
	// index the global compiler assigned it; the compiler itself never
	// decides indices, it only asks for them.
	symbolIndex func(symbol string) uint32
}

// New creates a Compiler for one function body. symbolIndex resolves a
// callee's mangled Symbol to its function-reference-table index, supplied
// by the globalcompiler package once every function's index is known.
func New(symbolIndex func(symbol string) uint32) *Compiler {
	return &Compiler{symbolIndex: symbolIndex}
}

// CompileFunction compiles fn's body. Parameters need no prologue: the
// caller has already pushed them at fn's frame_start per the resolver's
// slot assignment, so the body's instructions begin directly.
func (c *Compiler) CompileFunction(fn *ast.StmtFunc) (code.Instructions, error) {
	if err := c.compileStatements(fn.Body.Statements); err != nil {
		return nil, err
	}
	// A Return<width>/ReturnUnit already releases the whole frame (spec.md
	// §4.7), so a function body whose last statement is a `return` needs
	// neither the body's own StackShrink nor a synthesized trailing ReturnUnit.
	if n := len(fn.Body.Statements); n > 0 && isReturnOpcode(c.lastOp) && c.hasOp {
		if _, ok := fn.Body.Statements[n-1].(*ast.StmtReturn); ok {
			return c.ins, nil
		}
	}
	if fn.Body.ShrinkBy != 0 {
		c.emit(code.OpStackShrink, fn.Body.ShrinkBy)
	}
	c.emit(code.OpReturnUnit)
	return c.ins, nil
}

func isReturnOpcode(op code.Opcode) bool {
	switch op {
	case code.OpReturnUnit, code.OpReturnByte, code.OpReturnWord,
		code.OpReturnDword, code.OpReturnQword, code.OpReturnOword:
		return true
	default:
		return false
	}
}

// emit encodes one instruction and appends it to the function's stream.
// Oword-operand opcodes (OpPushOword) must go through emitWide128 instead,
// since emit's operand is a plain int.
func (c *Compiler) emit(op code.Opcode, operands ...int) int {
	ins := code.Make(op, operands...)
	pos := len(c.ins)
	c.ins = append(c.ins, ins...)
	c.lastOp = op
	c.hasOp = true
	return pos
}

func (c *Compiler) emitWide128(op code.Opcode, lo, hi uint64) int {
	ins := code.MakeWide128(op, lo, hi)
	pos := len(c.ins)
	c.ins = append(c.ins, ins...)
	c.lastOp = op
	c.hasOp = true
	return pos
}

// currentPos returns the offset the next emitted instruction will start at.
func (c *Compiler) currentPos() int { return len(c.ins) }

// emitJumpTo emits a jump whose target is already known (a loop's backward
// edge), computing the same jumpPos+5-relative offset patchJump computes for
// a forward jump patched later.
func (c *Compiler) emitJumpTo(op code.Opcode, target int) int {
	pos := c.currentPos()
	offset := int32(target - (pos + 5))
	return c.emit(op, int(offset))
}

// patchJump overwrites a previously emitted jump's i32 offset operand once
// its target is known, computed relative to the byte immediately after the
// jump instruction (spec.md §4.7's "ip that points at the byte immediately
// after the instruction" — one opcode byte plus the four operand bytes).
func (c *Compiler) patchJump(jumpPos, target int) {
	offset := int32(target - (jumpPos + 5))
	b := code.Make(code.Opcode(c.ins[jumpPos]), int(offset))
	copy(c.ins[jumpPos:], b)
}
