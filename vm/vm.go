// Package vm executes a compiled Loxinas object file: a byte stack, an
// instruction pointer, and a dispatch loop over the code package's opcode
// set (spec.md §4.7). It has no notion of source syntax — everything it
// sees has already been resolved, compiled, and linked.
package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/objfile"
)

// callFrame is one saved return context: spec.md §4.7 describes three
// parallel stacks (saved ip, saved frame_start, saved argument-region
// size); collapsing them into a single struct slice keeps every push/pop
// paired by construction instead of relying on three slices staying in
// lockstep.
type callFrame struct {
	ip         int
	frameStart int
	argSize    int
}

// VM runs one loaded object file to completion.
type VM struct {
	stack      []byte
	frameStart int
	calls      []callFrame
	ip         int

	code     []byte
	funcRefs []objfile.FuncRef

	out io.Writer
}

// New creates a VM ready to run file's code section. out receives every
// print/println write; callers typically pass os.Stdout. It returns an
// error without running anything if file has no `main` (spec.md §4.7's
// startup check: "verify main symbol length > 0").
func New(file *objfile.File, out io.Writer) (*VM, error) {
	if !file.HasMain() {
		return nil, fmt.Errorf("runtime error: object file has no main")
	}
	return &VM{
		code:     file.Code,
		funcRefs: file.Refs,
		out:      out,
	}, nil
}

// Run executes from code offset 0 until the outermost ReturnUnit/Return
// pops an empty call stack, or a runtime error occurs. A Loxinas program
// that runs to completion this way corresponds to exit code 0 (spec.md §6);
// the caller is responsible for mapping a returned error to exit code 70.
func (v *VM) Run() error {
	for {
		halted, err := v.Step()
		if err != nil || halted {
			return err
		}
	}
}

// Step decodes and executes exactly one instruction at the current
// instruction pointer, reporting whether that instruction halted the
// program (the outermost ReturnUnit/Return, or running off the end of the
// code section). debugtui drives the VM one Step at a time instead of
// calling Run, so it can render the stack and call depth between
// instructions.
func (v *VM) Step() (halted bool, err error) {
	if v.ip >= len(v.code) {
		return true, nil
	}
	op := code.Opcode(v.code[v.ip])
	next, halt, err := v.exec(op, v.ip+1)
	if err != nil {
		return false, err
	}
	v.ip = next
	return halt, nil
}

// IP returns the offset of the instruction Step will execute next.
func (v *VM) IP() int { return v.ip }

// Code returns the object file's code section, for disassembly.
func (v *VM) Code() code.Instructions { return v.code }

// StackBytes returns the live operand stack, top-last. Callers must treat
// it as read-only: it aliases the VM's own backing array.
func (v *VM) StackBytes() []byte { return v.stack }

// CallDepth returns the number of saved call frames (the VM's current
// function-call nesting, main excluded).
func (v *VM) CallDepth() int { return len(v.calls) }

// FrameStart returns the stack offset the active frame's locals begin at.
func (v *VM) FrameStart() int { return v.frameStart }

func (v *VM) runtimeErr(format string, args ...any) error {
	return fmt.Errorf("runtime error: "+format, args...)
}

// --- operand decoding -------------------------------------------------

func (v *VM) u8At(ip int) uint8   { return v.code[ip] }
func (v *VM) u16At(ip int) uint16 { return binary.LittleEndian.Uint16(v.code[ip:]) }
func (v *VM) u32At(ip int) uint32 { return binary.LittleEndian.Uint32(v.code[ip:]) }
func (v *VM) i32At(ip int) int32  { return int32(v.u32At(ip)) }

// --- stack primitives ---------------------------------------------------

func (v *VM) push(b []byte) { v.stack = append(v.stack, b...) }

func (v *VM) pop(width int) []byte {
	n := len(v.stack)
	b := make([]byte, width)
	copy(b, v.stack[n-width:])
	v.stack = v.stack[:n-width]
	return b
}

func (v *VM) peek(width int) []byte {
	n := len(v.stack)
	return v.stack[n-width : n]
}

func (v *VM) pushBool(value bool) {
	if value {
		v.stack = append(v.stack, 1)
	} else {
		v.stack = append(v.stack, 0)
	}
}

func (v *VM) popBool() bool { return v.pop(1)[0] != 0 }
func (v *VM) peekBool() bool { return v.peek(1)[0] != 0 }

func (v *VM) slotAt(slot, width int) []byte {
	base := v.frameStart + slot
	return v.stack[base : base+width]
}

func (v *VM) getSlot(slot, width int) []byte {
	b := make([]byte, width)
	copy(b, v.slotAt(slot, width))
	return b
}

func (v *VM) setSlot(slot, width int, b []byte) {
	copy(v.slotAt(slot, width), b)
}

// decodeUint reads a little-endian unsigned integer of up to 8 bytes.
func decodeUint(b []byte) uint64 {
	var x uint64
	for i := len(b) - 1; i >= 0; i-- {
		x = x<<8 | uint64(b[i])
	}
	return x
}

// encodeUint writes the low width bytes of x, little-endian; wrapping
// happens implicitly by discarding any bits above width*8.
func encodeUint(x uint64, width int) []byte {
	b := make([]byte, width)
	for i := 0; i < width; i++ {
		b[i] = byte(x)
		x >>= 8
	}
	return b
}

func signExtend(x uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(x))
	case 2:
		return int64(int16(x))
	case 4:
		return int64(int32(x))
	default:
		return int64(x)
	}
}

// widthSizes maps a 0..4 width index to its byte count.
var widthSizes = [5]int{1, 2, 4, 8, 16}

func widthIndexOf(op, base code.Opcode) int { return int(op - base) }

// exec runs one instruction starting with opcode op already consumed at
// position ip-1; it returns the next ip, whether the program has halted,
// and any runtime error.
func (v *VM) exec(op code.Opcode, ip int) (next int, halt bool, err error) {
	switch {
	case op >= code.OpIAddByte && op <= code.OpIAddOword:
		return v.execIntBinary(op, code.OpIAddByte, ip, intAdd, u128Add)
	case op >= code.OpISubByte && op <= code.OpISubOword:
		return v.execIntBinary(op, code.OpISubByte, ip, intSub, u128Sub)
	case op >= code.OpIMulByte && op <= code.OpIMulOword:
		return v.execIntBinary(op, code.OpIMulByte, ip, intMul, u128Mul)
	case op >= code.OpIAndByte && op <= code.OpIAndOword:
		return v.execIntBinary(op, code.OpIAndByte, ip, intAnd, u128And)
	case op >= code.OpIOrByte && op <= code.OpIOrOword:
		return v.execIntBinary(op, code.OpIOrByte, ip, intOr, u128Or)
	case op >= code.OpIXorByte && op <= code.OpIXorOword:
		return v.execIntBinary(op, code.OpIXorByte, ip, intXor, u128Xor)

	case op >= code.OpIDivSByte && op <= code.OpIDivSOword:
		return v.execIntDivMod(op, code.OpIDivSByte, ip, true, false)
	case op >= code.OpIDivUByte && op <= code.OpIDivUOword:
		return v.execIntDivMod(op, code.OpIDivUByte, ip, false, false)
	case op >= code.OpIModSByte && op <= code.OpIModSOword:
		return v.execIntDivMod(op, code.OpIModSByte, ip, true, true)
	case op >= code.OpIModUByte && op <= code.OpIModUOword:
		return v.execIntDivMod(op, code.OpIModUByte, ip, false, true)

	case op >= code.OpShlByte && op <= code.OpShlOword:
		return v.execShift(op, code.OpShlByte, ip, shiftLeft, u128Shl)
	case op >= code.OpShrSByte && op <= code.OpShrSOword:
		return v.execShift(op, code.OpShrSByte, ip, shiftRightSigned, u128ShrS)
	case op >= code.OpShrUByte && op <= code.OpShrUOword:
		return v.execShift(op, code.OpShrUByte, ip, shiftRightUnsigned, u128ShrU)

	case op >= code.OpIEqByte && op <= code.OpIEqOword:
		return v.execIntCompare(op, code.OpIEqByte, ip, false, func(c int) bool { return c == 0 })
	case op >= code.OpINeqByte && op <= code.OpINeqOword:
		return v.execIntCompare(op, code.OpINeqByte, ip, false, func(c int) bool { return c != 0 })
	case op >= code.OpILtSByte && op <= code.OpILtSOword:
		return v.execIntCompare(op, code.OpILtSByte, ip, true, func(c int) bool { return c < 0 })
	case op >= code.OpILtUByte && op <= code.OpILtUOword:
		return v.execIntCompare(op, code.OpILtUByte, ip, false, func(c int) bool { return c < 0 })
	case op >= code.OpILeSByte && op <= code.OpILeSOword:
		return v.execIntCompare(op, code.OpILeSByte, ip, true, func(c int) bool { return c <= 0 })
	case op >= code.OpILeUByte && op <= code.OpILeUOword:
		return v.execIntCompare(op, code.OpILeUByte, ip, false, func(c int) bool { return c <= 0 })
	case op >= code.OpIGtSByte && op <= code.OpIGtSOword:
		return v.execIntCompare(op, code.OpIGtSByte, ip, true, func(c int) bool { return c > 0 })
	case op >= code.OpIGtUByte && op <= code.OpIGtUOword:
		return v.execIntCompare(op, code.OpIGtUByte, ip, false, func(c int) bool { return c > 0 })
	case op >= code.OpIGeSByte && op <= code.OpIGeSOword:
		return v.execIntCompare(op, code.OpIGeSByte, ip, true, func(c int) bool { return c >= 0 })
	case op >= code.OpIGeUByte && op <= code.OpIGeUOword:
		return v.execIntCompare(op, code.OpIGeUByte, ip, false, func(c int) bool { return c >= 0 })

	case op == code.OpFAddFloat || op == code.OpFAddDouble:
		return v.execFloatBinary(op, code.OpFAddFloat, ip, func(a, b float64) float64 { return a + b })
	case op == code.OpFSubFloat || op == code.OpFSubDouble:
		return v.execFloatBinary(op, code.OpFSubFloat, ip, func(a, b float64) float64 { return a - b })
	case op == code.OpFMulFloat || op == code.OpFMulDouble:
		return v.execFloatBinary(op, code.OpFMulFloat, ip, func(a, b float64) float64 { return a * b })
	case op == code.OpFDivFloat || op == code.OpFDivDouble:
		return v.execFloatBinary(op, code.OpFDivFloat, ip, func(a, b float64) float64 { return a / b })

	case op == code.OpFEqFloat || op == code.OpFEqDouble:
		return v.execFloatCompare(op, code.OpFEqFloat, ip, func(a, b float64) bool { return a == b })
	case op == code.OpFNeqFloat || op == code.OpFNeqDouble:
		return v.execFloatCompare(op, code.OpFNeqFloat, ip, func(a, b float64) bool { return a != b })
	case op == code.OpFLtFloat || op == code.OpFLtDouble:
		return v.execFloatCompare(op, code.OpFLtFloat, ip, func(a, b float64) bool { return a < b })
	case op == code.OpFLeFloat || op == code.OpFLeDouble:
		return v.execFloatCompare(op, code.OpFLeFloat, ip, func(a, b float64) bool { return a <= b })
	case op == code.OpFGtFloat || op == code.OpFGtDouble:
		return v.execFloatCompare(op, code.OpFGtFloat, ip, func(a, b float64) bool { return a > b })
	case op == code.OpFGeFloat || op == code.OpFGeDouble:
		return v.execFloatCompare(op, code.OpFGeFloat, ip, func(a, b float64) bool { return a >= b })

	case op >= code.OpINegByte && op <= code.OpINegOword:
		return v.execIntUnary(op, code.OpINegByte, ip, intNeg, u128Neg)
	case op == code.OpFNegFloat || op == code.OpFNegDouble:
		return v.execFloatUnary(op, code.OpFNegFloat, ip, func(a float64) float64 { return -a })
	case op >= code.OpBNotByte && op <= code.OpBNotOword:
		return v.execIntUnary(op, code.OpBNotByte, ip, intNot, u128Not)
	case op == code.OpBoolNot:
		v.pushBool(!v.popBool())
		return ip, false, nil

	case op >= code.OpZeroExtendByteToWord && op <= code.OpZeroExtendQwordToOword:
		return v.execZeroExtend(op, ip)
	case op >= code.OpSignExtendByteToWord && op <= code.OpSignExtendQwordToOword:
		return v.execSignExtend(op, ip)
	case op >= code.OpTruncateWordToByte && op <= code.OpTruncateOwordToQword:
		return v.execTruncate(op, ip)

	case op >= code.OpConvertSWordToFloat && op <= code.OpConvertUOwordToDouble:
		return v.execIntToFloat(op, ip)
	case op >= code.OpConvertFloatToSWord && op <= code.OpConvertDoubleToUOword:
		return v.execFloatToInt(op, ip)
	case op == code.OpConvertFloatToDouble:
		f := math.Float32frombits(uint32(decodeUint(v.pop(4))))
		v.push(encodeUint(math.Float64bits(float64(f)), 8))
		return ip, false, nil
	case op == code.OpConvertDoubleToFloat:
		d := math.Float64frombits(decodeUint(v.pop(8)))
		v.push(encodeUint(uint64(math.Float32bits(float32(d))), 4))
		return ip, false, nil
	case op >= code.OpConvertByteToBool && op <= code.OpConvertOwordToBool:
		w := widthSizes[widthIndexOf(op, code.OpConvertByteToBool)]
		b := v.pop(w)
		nonZero := false
		for _, byt := range b {
			if byt != 0 {
				nonZero = true
				break
			}
		}
		v.pushBool(nonZero)
		return ip, false, nil

	case op >= code.OpPushByte && op <= code.OpPushOword:
		w := widthSizes[widthIndexOf(op, code.OpPushByte)]
		v.push(v.code[ip : ip+w])
		return ip + w, false, nil
	case op >= code.OpPopByte && op <= code.OpPopOword:
		w := widthSizes[widthIndexOf(op, code.OpPopByte)]
		v.pop(w)
		return ip, false, nil

	case op >= code.OpGetLocalByte && op <= code.OpGetLocalOword:
		w := widthSizes[widthIndexOf(op, code.OpGetLocalByte)]
		slot := int(v.u32At(ip))
		v.push(v.getSlot(slot, w))
		return ip + 4, false, nil
	case op >= code.OpSetLocalByte && op <= code.OpSetLocalOword:
		w := widthSizes[widthIndexOf(op, code.OpSetLocalByte)]
		slot := int(v.u32At(ip))
		v.setSlot(slot, w, v.pop(w))
		return ip + 4, false, nil
	case op >= code.OpGetReferenceByte && op <= code.OpGetReferenceOword:
		w := widthSizes[widthIndexOf(op, code.OpGetReferenceByte)]
		slot := int(v.u32At(ip))
		refSlot := int(decodeUint(v.getSlot(slot, 4)))
		v.push(v.getSlot(refSlot, w))
		return ip + 4, false, nil
	case op >= code.OpSetReferenceByte && op <= code.OpSetReferenceOword:
		w := widthSizes[widthIndexOf(op, code.OpSetReferenceByte)]
		slot := int(v.u32At(ip))
		refSlot := int(decodeUint(v.getSlot(slot, 4)))
		v.setSlot(refSlot, w, v.pop(w))
		return ip + 4, false, nil

	case op == code.OpJump:
		target := ip + 4 + int(v.i32At(ip))
		return target, false, nil
	case op == code.OpJumpTrue:
		target := ip + 4 + int(v.i32At(ip))
		if v.peekBool() {
			return target, false, nil
		}
		return ip + 4, false, nil
	case op == code.OpJumpFalse:
		target := ip + 4 + int(v.i32At(ip))
		if !v.peekBool() {
			return target, false, nil
		}
		return ip + 4, false, nil
	case op == code.OpJumpTruePop:
		target := ip + 4 + int(v.i32At(ip))
		cond := v.popBool()
		if cond {
			return target, false, nil
		}
		return ip + 4, false, nil
	case op == code.OpJumpFalsePop:
		target := ip + 4 + int(v.i32At(ip))
		cond := v.popBool()
		if !cond {
			return target, false, nil
		}
		return ip + 4, false, nil

	case op == code.OpCall:
		return v.execCall(ip)
	case op == code.OpReturnUnit:
		return v.execReturn(ip, -1)
	case op >= code.OpReturnByte && op <= code.OpReturnOword:
		w := widthSizes[widthIndexOf(op, code.OpReturnByte)]
		return v.execReturn(ip, w)

	case op == code.OpStackExtend:
		n := int(v.u32At(ip))
		v.stack = append(v.stack, make([]byte, n)...)
		return ip + 4, false, nil
	case op == code.OpStackShrink:
		n := int(v.u32At(ip))
		v.stack = v.stack[:len(v.stack)-n]
		return ip + 4, false, nil

	case op == code.OpSpecialFunction:
		sel := code.SpecialFunction(v.u8At(ip))
		if err := v.execSpecial(sel); err != nil {
			return 0, false, err
		}
		return ip + 1, false, nil
	}

	return 0, false, v.runtimeErr("unknown opcode %d", op)
}

// execCall implements spec.md §4.7's Call: the idx operand indexes the
// function-reference table, not the symbol table directly; a reference
// still tagged Symbol (never patched to Direct by the global compiler) is
// a linker bug, not something the VM can run.
func (v *VM) execCall(ip int) (int, bool, error) {
	idx := int(v.u32At(ip))
	ip += 4
	if idx < 0 || idx >= len(v.funcRefs) {
		return 0, false, v.runtimeErr("call to undefined function reference #%d", idx)
	}
	ref := v.funcRefs[idx]
	if !ref.Direct {
		return 0, false, v.runtimeErr("call to unresolved symbolic function reference #%d", idx)
	}

	argSize := int(decodeUint(v.pop(2)))
	v.calls = append(v.calls, callFrame{ip: ip, frameStart: v.frameStart, argSize: argSize})
	v.frameStart = len(v.stack) - argSize
	return int(ref.Value), false, nil
}

// execReturn implements ReturnUnit (width == -1) and Return<width>: an
// empty call stack means the outermost (main) frame is returning, which
// ends the program successfully.
func (v *VM) execReturn(ip, width int) (int, bool, error) {
	var ret []byte
	if width >= 0 {
		ret = v.pop(width)
	}

	if len(v.calls) == 0 {
		return 0, true, nil
	}

	top := v.calls[len(v.calls)-1]
	v.calls = v.calls[:len(v.calls)-1]

	// Release the callee's whole frame — its arguments plus every local it
	// pushed since frame_start — not just the caller's original arg_size:
	// the callee may have grown the stack with its own locals in between.
	v.stack = v.stack[:v.frameStart]
	if width >= 0 {
		v.push(ret)
	}
	v.frameStart = top.frameStart
	return top.ip, false, nil
}

func (v *VM) execSpecial(sel code.SpecialFunction) error {
	switch sel {
	case code.PrintBool:
		v.fprint(v.popBool())
	case code.PrintByte:
		v.fprint(uint8(decodeUint(v.pop(1))))
	case code.PrintSByte:
		v.fprint(int8(decodeUint(v.pop(1))))
	case code.PrintShort:
		v.fprint(int16(decodeUint(v.pop(2))))
	case code.PrintUShort:
		v.fprint(uint16(decodeUint(v.pop(2))))
	case code.PrintInt:
		v.fprint(int32(decodeUint(v.pop(4))))
	case code.PrintUInt:
		v.fprint(uint32(decodeUint(v.pop(4))))
	case code.PrintLong:
		v.fprint(int64(decodeUint(v.pop(8))))
	case code.PrintULong:
		v.fprint(decodeUint(v.pop(8)))
	case code.PrintExtInt:
		v.fprint(u128FromBytes(v.pop(16)).toBigInt(true))
	case code.PrintUExtInt:
		v.fprint(u128FromBytes(v.pop(16)).toBigInt(false))
	case code.PrintFloat:
		v.fprint(math.Float32frombits(uint32(decodeUint(v.pop(4)))))
	case code.PrintDouble:
		v.fprint(math.Float64frombits(decodeUint(v.pop(8))))
	case code.PrintChar:
		r := rune(decodeUint(v.pop(4)))
		if r < 0 || r > 0x10FFFF {
			return v.runtimeErr("invalid Unicode code point U+%X", r)
		}
		v.fprint(string(r))
	case code.PrintNewLine:
		fmt.Fprintln(v.out)
	default:
		return v.runtimeErr("unknown special function selector %d", sel)
	}
	return nil
}

func (v *VM) fprint(a any) { fmt.Fprint(v.out, a) }
