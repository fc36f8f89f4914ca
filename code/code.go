// Package code enumerates the Loxinas bytecode instruction set: a closed,
// width- and signedness-indexed family of opcodes, plus the encode/decode
// helpers the compiler, disassembler, and vm packages share.
//
// Every arithmetic, comparison, and conversion operator in the source
// language lowers to one member of a fixed instruction family selected by
// operand width (Byte/Word/Dword/Qword/Oword) and, where the operation cares,
// signedness. All multi-byte immediates are little-endian.
package code

import (
	"encoding/binary"
	"fmt"
)

// Instructions is a contiguous buffer of encoded bytecode.
type Instructions []byte

// Opcode identifies one bytecode instruction.
type Opcode byte

const (
	OpIAddByte Opcode = iota
	OpIAddWord
	OpIAddDword
	OpIAddQword
	OpIAddOword
	OpISubByte
	OpISubWord
	OpISubDword
	OpISubQword
	OpISubOword
	OpIMulByte
	OpIMulWord
	OpIMulDword
	OpIMulQword
	OpIMulOword
	OpIAndByte
	OpIAndWord
	OpIAndDword
	OpIAndQword
	OpIAndOword
	OpIOrByte
	OpIOrWord
	OpIOrDword
	OpIOrQword
	OpIOrOword
	OpIXorByte
	OpIXorWord
	OpIXorDword
	OpIXorQword
	OpIXorOword
	OpIDivSByte
	OpIDivSWord
	OpIDivSDword
	OpIDivSQword
	OpIDivSOword
	OpIDivUByte
	OpIDivUWord
	OpIDivUDword
	OpIDivUQword
	OpIDivUOword
	OpIModSByte
	OpIModSWord
	OpIModSDword
	OpIModSQword
	OpIModSOword
	OpIModUByte
	OpIModUWord
	OpIModUDword
	OpIModUQword
	OpIModUOword
	OpShlByte
	OpShlWord
	OpShlDword
	OpShlQword
	OpShlOword
	OpShrSByte
	OpShrSWord
	OpShrSDword
	OpShrSQword
	OpShrSOword
	OpShrUByte
	OpShrUWord
	OpShrUDword
	OpShrUQword
	OpShrUOword
	OpIEqByte
	OpIEqWord
	OpIEqDword
	OpIEqQword
	OpIEqOword
	OpINeqByte
	OpINeqWord
	OpINeqDword
	OpINeqQword
	OpINeqOword
	OpILtSByte
	OpILtSWord
	OpILtSDword
	OpILtSQword
	OpILtSOword
	OpILtUByte
	OpILtUWord
	OpILtUDword
	OpILtUQword
	OpILtUOword
	OpILeSByte
	OpILeSWord
	OpILeSDword
	OpILeSQword
	OpILeSOword
	OpILeUByte
	OpILeUWord
	OpILeUDword
	OpILeUQword
	OpILeUOword
	OpIGtSByte
	OpIGtSWord
	OpIGtSDword
	OpIGtSQword
	OpIGtSOword
	OpIGtUByte
	OpIGtUWord
	OpIGtUDword
	OpIGtUQword
	OpIGtUOword
	OpIGeSByte
	OpIGeSWord
	OpIGeSDword
	OpIGeSQword
	OpIGeSOword
	OpIGeUByte
	OpIGeUWord
	OpIGeUDword
	OpIGeUQword
	OpIGeUOword
	OpFAddFloat
	OpFAddDouble
	OpFSubFloat
	OpFSubDouble
	OpFMulFloat
	OpFMulDouble
	OpFDivFloat
	OpFDivDouble
	OpFEqFloat
	OpFEqDouble
	OpFNeqFloat
	OpFNeqDouble
	OpFLtFloat
	OpFLtDouble
	OpFLeFloat
	OpFLeDouble
	OpFGtFloat
	OpFGtDouble
	OpFGeFloat
	OpFGeDouble
	OpINegByte
	OpINegWord
	OpINegDword
	OpINegQword
	OpINegOword
	OpFNegFloat
	OpFNegDouble
	OpBNotByte
	OpBNotWord
	OpBNotDword
	OpBNotQword
	OpBNotOword
	OpZeroExtendByteToWord
	OpZeroExtendWordToDword
	OpZeroExtendDwordToQword
	OpZeroExtendQwordToOword
	OpSignExtendByteToWord
	OpSignExtendWordToDword
	OpSignExtendDwordToQword
	OpSignExtendQwordToOword
	OpTruncateWordToByte
	OpTruncateDwordToWord
	OpTruncateQwordToDword
	OpTruncateOwordToQword
	OpConvertSWordToFloat
	OpConvertUWordToFloat
	OpConvertSQwordToFloat
	OpConvertUQwordToFloat
	OpConvertSOwordToFloat
	OpConvertUOwordToFloat
	OpConvertSWordToDouble
	OpConvertUWordToDouble
	OpConvertSQwordToDouble
	OpConvertUQwordToDouble
	OpConvertSOwordToDouble
	OpConvertUOwordToDouble
	OpConvertFloatToSWord
	OpConvertFloatToUWord
	OpConvertFloatToSQword
	OpConvertFloatToUQword
	OpConvertFloatToSOword
	OpConvertFloatToUOword
	OpConvertDoubleToSWord
	OpConvertDoubleToUWord
	OpConvertDoubleToSQword
	OpConvertDoubleToUQword
	OpConvertDoubleToSOword
	OpConvertDoubleToUOword
	OpConvertFloatToDouble
	OpConvertDoubleToFloat
	OpConvertByteToBool
	OpConvertWordToBool
	OpConvertDwordToBool
	OpConvertQwordToBool
	OpConvertOwordToBool
	OpPushByte
	OpPushWord
	OpPushDword
	OpPushQword
	OpPushOword
	OpPopByte
	OpPopWord
	OpPopDword
	OpPopQword
	OpPopOword
	OpGetLocalByte
	OpGetLocalWord
	OpGetLocalDword
	OpGetLocalQword
	OpGetLocalOword
	OpSetLocalByte
	OpSetLocalWord
	OpSetLocalDword
	OpSetLocalQword
	OpSetLocalOword
	OpGetReferenceByte
	OpGetReferenceWord
	OpGetReferenceDword
	OpGetReferenceQword
	OpGetReferenceOword
	OpSetReferenceByte
	OpSetReferenceWord
	OpSetReferenceDword
	OpSetReferenceQword
	OpSetReferenceOword
	OpJump
	OpJumpTrue
	OpJumpFalse
	OpJumpTruePop
	OpJumpFalsePop
	OpCall
	OpReturnUnit
	OpReturnByte
	OpReturnWord
	OpReturnDword
	OpReturnQword
	OpReturnOword
	OpStackExtend
	OpStackShrink
	OpSpecialFunction
	OpBoolNot
)

// SpecialFunction selects the builtin an OpSpecialFunction instruction
// invokes, encoded as the single byte immediately following the opcode.
// Each Print* variant pops one operand of the matching width/signedness and
// writes it to standard output; PrintNewLine takes no operand.
type SpecialFunction byte

const (
	PrintBool SpecialFunction = iota
	PrintChar
	PrintByte
	PrintSByte
	PrintShort
	PrintUShort
	PrintInt
	PrintUInt
	PrintLong
	PrintULong
	PrintExtInt
	PrintUExtInt
	PrintFloat
	PrintDouble
	PrintNewLine
)

var specialFunctionNames = [...]string{
	PrintBool: "PrintBool", PrintChar: "PrintChar",
	PrintByte: "PrintByte", PrintSByte: "PrintSByte",
	PrintShort: "PrintShort", PrintUShort: "PrintUShort",
	PrintInt: "PrintInt", PrintUInt: "PrintUInt",
	PrintLong: "PrintLong", PrintULong: "PrintULong",
	PrintExtInt: "PrintExtInt", PrintUExtInt: "PrintUExtInt",
	PrintFloat: "PrintFloat", PrintDouble: "PrintDouble",
	PrintNewLine: "PrintNewLine",
}

func (s SpecialFunction) String() string {
	if int(s) < len(specialFunctionNames) {
		return specialFunctionNames[s]
	}
	return fmt.Sprintf("SpecialFunction(%d)", byte(s))
}

// Definition names an opcode and the byte width of each of its immediate
// operands, in encoding order.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpIAddByte: {"IAddByte", nil},
	OpIAddWord: {"IAddWord", nil},
	OpIAddDword: {"IAddDword", nil},
	OpIAddQword: {"IAddQword", nil},
	OpIAddOword: {"IAddOword", nil},
	OpISubByte: {"ISubByte", nil},
	OpISubWord: {"ISubWord", nil},
	OpISubDword: {"ISubDword", nil},
	OpISubQword: {"ISubQword", nil},
	OpISubOword: {"ISubOword", nil},
	OpIMulByte: {"IMulByte", nil},
	OpIMulWord: {"IMulWord", nil},
	OpIMulDword: {"IMulDword", nil},
	OpIMulQword: {"IMulQword", nil},
	OpIMulOword: {"IMulOword", nil},
	OpIAndByte: {"IAndByte", nil},
	OpIAndWord: {"IAndWord", nil},
	OpIAndDword: {"IAndDword", nil},
	OpIAndQword: {"IAndQword", nil},
	OpIAndOword: {"IAndOword", nil},
	OpIOrByte: {"IOrByte", nil},
	OpIOrWord: {"IOrWord", nil},
	OpIOrDword: {"IOrDword", nil},
	OpIOrQword: {"IOrQword", nil},
	OpIOrOword: {"IOrOword", nil},
	OpIXorByte: {"IXorByte", nil},
	OpIXorWord: {"IXorWord", nil},
	OpIXorDword: {"IXorDword", nil},
	OpIXorQword: {"IXorQword", nil},
	OpIXorOword: {"IXorOword", nil},
	OpIDivSByte: {"IDivSByte", nil},
	OpIDivSWord: {"IDivSWord", nil},
	OpIDivSDword: {"IDivSDword", nil},
	OpIDivSQword: {"IDivSQword", nil},
	OpIDivSOword: {"IDivSOword", nil},
	OpIDivUByte: {"IDivUByte", nil},
	OpIDivUWord: {"IDivUWord", nil},
	OpIDivUDword: {"IDivUDword", nil},
	OpIDivUQword: {"IDivUQword", nil},
	OpIDivUOword: {"IDivUOword", nil},
	OpIModSByte: {"IModSByte", nil},
	OpIModSWord: {"IModSWord", nil},
	OpIModSDword: {"IModSDword", nil},
	OpIModSQword: {"IModSQword", nil},
	OpIModSOword: {"IModSOword", nil},
	OpIModUByte: {"IModUByte", nil},
	OpIModUWord: {"IModUWord", nil},
	OpIModUDword: {"IModUDword", nil},
	OpIModUQword: {"IModUQword", nil},
	OpIModUOword: {"IModUOword", nil},
	// Shift instructions always pop the shift count as a byte, then the
	// shifted value at its own width; neither carries an immediate operand.
	OpShlByte:   {"ShlByte", nil},
	OpShlWord:   {"ShlWord", nil},
	OpShlDword:  {"ShlDword", nil},
	OpShlQword:  {"ShlQword", nil},
	OpShlOword:  {"ShlOword", nil},
	OpShrSByte:  {"ShrSByte", nil},
	OpShrSWord:  {"ShrSWord", nil},
	OpShrSDword: {"ShrSDword", nil},
	OpShrSQword: {"ShrSQword", nil},
	OpShrSOword: {"ShrSOword", nil},
	OpShrUByte:  {"ShrUByte", nil},
	OpShrUWord:  {"ShrUWord", nil},
	OpShrUDword: {"ShrUDword", nil},
	OpShrUQword: {"ShrUQword", nil},
	OpShrUOword: {"ShrUOword", nil},
	OpIEqByte: {"IEqByte", nil},
	OpIEqWord: {"IEqWord", nil},
	OpIEqDword: {"IEqDword", nil},
	OpIEqQword: {"IEqQword", nil},
	OpIEqOword: {"IEqOword", nil},
	OpINeqByte: {"INeqByte", nil},
	OpINeqWord: {"INeqWord", nil},
	OpINeqDword: {"INeqDword", nil},
	OpINeqQword: {"INeqQword", nil},
	OpINeqOword: {"INeqOword", nil},
	OpILtSByte: {"ILtSByte", nil},
	OpILtSWord: {"ILtSWord", nil},
	OpILtSDword: {"ILtSDword", nil},
	OpILtSQword: {"ILtSQword", nil},
	OpILtSOword: {"ILtSOword", nil},
	OpILtUByte: {"ILtUByte", nil},
	OpILtUWord: {"ILtUWord", nil},
	OpILtUDword: {"ILtUDword", nil},
	OpILtUQword: {"ILtUQword", nil},
	OpILtUOword: {"ILtUOword", nil},
	OpILeSByte: {"ILeSByte", nil},
	OpILeSWord: {"ILeSWord", nil},
	OpILeSDword: {"ILeSDword", nil},
	OpILeSQword: {"ILeSQword", nil},
	OpILeSOword: {"ILeSOword", nil},
	OpILeUByte: {"ILeUByte", nil},
	OpILeUWord: {"ILeUWord", nil},
	OpILeUDword: {"ILeUDword", nil},
	OpILeUQword: {"ILeUQword", nil},
	OpILeUOword: {"ILeUOword", nil},
	OpIGtSByte: {"IGtSByte", nil},
	OpIGtSWord: {"IGtSWord", nil},
	OpIGtSDword: {"IGtSDword", nil},
	OpIGtSQword: {"IGtSQword", nil},
	OpIGtSOword: {"IGtSOword", nil},
	OpIGtUByte: {"IGtUByte", nil},
	OpIGtUWord: {"IGtUWord", nil},
	OpIGtUDword: {"IGtUDword", nil},
	OpIGtUQword: {"IGtUQword", nil},
	OpIGtUOword: {"IGtUOword", nil},
	OpIGeSByte: {"IGeSByte", nil},
	OpIGeSWord: {"IGeSWord", nil},
	OpIGeSDword: {"IGeSDword", nil},
	OpIGeSQword: {"IGeSQword", nil},
	OpIGeSOword: {"IGeSOword", nil},
	OpIGeUByte: {"IGeUByte", nil},
	OpIGeUWord: {"IGeUWord", nil},
	OpIGeUDword: {"IGeUDword", nil},
	OpIGeUQword: {"IGeUQword", nil},
	OpIGeUOword: {"IGeUOword", nil},
	OpFAddFloat: {"FAddFloat", nil},
	OpFAddDouble: {"FAddDouble", nil},
	OpFSubFloat: {"FSubFloat", nil},
	OpFSubDouble: {"FSubDouble", nil},
	OpFMulFloat: {"FMulFloat", nil},
	OpFMulDouble: {"FMulDouble", nil},
	OpFDivFloat: {"FDivFloat", nil},
	OpFDivDouble: {"FDivDouble", nil},
	OpFEqFloat: {"FEqFloat", nil},
	OpFEqDouble: {"FEqDouble", nil},
	OpFNeqFloat: {"FNeqFloat", nil},
	OpFNeqDouble: {"FNeqDouble", nil},
	OpFLtFloat: {"FLtFloat", nil},
	OpFLtDouble: {"FLtDouble", nil},
	OpFLeFloat: {"FLeFloat", nil},
	OpFLeDouble: {"FLeDouble", nil},
	OpFGtFloat: {"FGtFloat", nil},
	OpFGtDouble: {"FGtDouble", nil},
	OpFGeFloat: {"FGeFloat", nil},
	OpFGeDouble: {"FGeDouble", nil},
	OpINegByte: {"INegByte", nil},
	OpINegWord: {"INegWord", nil},
	OpINegDword: {"INegDword", nil},
	OpINegQword: {"INegQword", nil},
	OpINegOword: {"INegOword", nil},
	OpFNegFloat: {"FNegFloat", nil},
	OpFNegDouble: {"FNegDouble", nil},
	OpBNotByte: {"BNotByte", nil},
	OpBNotWord: {"BNotWord", nil},
	OpBNotDword: {"BNotDword", nil},
	OpBNotQword: {"BNotQword", nil},
	OpBNotOword: {"BNotOword", nil},
	OpZeroExtendByteToWord: {"ZeroExtendByteToWord", nil},
	OpZeroExtendWordToDword: {"ZeroExtendWordToDword", nil},
	OpZeroExtendDwordToQword: {"ZeroExtendDwordToQword", nil},
	OpZeroExtendQwordToOword: {"ZeroExtendQwordToOword", nil},
	OpSignExtendByteToWord: {"SignExtendByteToWord", nil},
	OpSignExtendWordToDword: {"SignExtendWordToDword", nil},
	OpSignExtendDwordToQword: {"SignExtendDwordToQword", nil},
	OpSignExtendQwordToOword: {"SignExtendQwordToOword", nil},
	OpTruncateWordToByte: {"TruncateWordToByte", nil},
	OpTruncateDwordToWord: {"TruncateDwordToWord", nil},
	OpTruncateQwordToDword: {"TruncateQwordToDword", nil},
	OpTruncateOwordToQword: {"TruncateOwordToQword", nil},
	OpConvertSWordToFloat: {"ConvertSWordToFloat", nil},
	OpConvertUWordToFloat: {"ConvertUWordToFloat", nil},
	OpConvertSQwordToFloat: {"ConvertSQwordToFloat", nil},
	OpConvertUQwordToFloat: {"ConvertUQwordToFloat", nil},
	OpConvertSOwordToFloat: {"ConvertSOwordToFloat", nil},
	OpConvertUOwordToFloat: {"ConvertUOwordToFloat", nil},
	OpConvertSWordToDouble: {"ConvertSWordToDouble", nil},
	OpConvertUWordToDouble: {"ConvertUWordToDouble", nil},
	OpConvertSQwordToDouble: {"ConvertSQwordToDouble", nil},
	OpConvertUQwordToDouble: {"ConvertUQwordToDouble", nil},
	OpConvertSOwordToDouble: {"ConvertSOwordToDouble", nil},
	OpConvertUOwordToDouble: {"ConvertUOwordToDouble", nil},
	OpConvertFloatToSWord: {"ConvertFloatToSWord", nil},
	OpConvertFloatToUWord: {"ConvertFloatToUWord", nil},
	OpConvertFloatToSQword: {"ConvertFloatToSQword", nil},
	OpConvertFloatToUQword: {"ConvertFloatToUQword", nil},
	OpConvertFloatToSOword: {"ConvertFloatToSOword", nil},
	OpConvertFloatToUOword: {"ConvertFloatToUOword", nil},
	OpConvertDoubleToSWord: {"ConvertDoubleToSWord", nil},
	OpConvertDoubleToUWord: {"ConvertDoubleToUWord", nil},
	OpConvertDoubleToSQword: {"ConvertDoubleToSQword", nil},
	OpConvertDoubleToUQword: {"ConvertDoubleToUQword", nil},
	OpConvertDoubleToSOword: {"ConvertDoubleToSOword", nil},
	OpConvertDoubleToUOword: {"ConvertDoubleToUOword", nil},
	OpConvertFloatToDouble: {"ConvertFloatToDouble", nil},
	OpConvertDoubleToFloat: {"ConvertDoubleToFloat", nil},
	OpConvertByteToBool: {"ConvertByteToBool", nil},
	OpConvertWordToBool: {"ConvertWordToBool", nil},
	OpConvertDwordToBool: {"ConvertDwordToBool", nil},
	OpConvertQwordToBool: {"ConvertQwordToBool", nil},
	OpConvertOwordToBool: {"ConvertOwordToBool", nil},
	OpPushByte: {"PushByte", []int{1}},
	OpPushWord: {"PushWord", []int{2}},
	OpPushDword: {"PushDword", []int{4}},
	OpPushQword: {"PushQword", []int{8}},
	OpPushOword: {"PushOword", []int{16}},
	OpPopByte: {"PopByte", nil},
	OpPopWord: {"PopWord", nil},
	OpPopDword: {"PopDword", nil},
	OpPopQword: {"PopQword", nil},
	OpPopOword: {"PopOword", nil},
	OpGetLocalByte: {"GetLocalByte", []int{4}},
	OpGetLocalWord: {"GetLocalWord", []int{4}},
	OpGetLocalDword: {"GetLocalDword", []int{4}},
	OpGetLocalQword: {"GetLocalQword", []int{4}},
	OpGetLocalOword: {"GetLocalOword", []int{4}},
	OpSetLocalByte: {"SetLocalByte", []int{4}},
	OpSetLocalWord: {"SetLocalWord", []int{4}},
	OpSetLocalDword: {"SetLocalDword", []int{4}},
	OpSetLocalQword: {"SetLocalQword", []int{4}},
	OpSetLocalOword: {"SetLocalOword", []int{4}},
	OpGetReferenceByte: {"GetReferenceByte", []int{4}},
	OpGetReferenceWord: {"GetReferenceWord", []int{4}},
	OpGetReferenceDword: {"GetReferenceDword", []int{4}},
	OpGetReferenceQword: {"GetReferenceQword", []int{4}},
	OpGetReferenceOword: {"GetReferenceOword", []int{4}},
	OpSetReferenceByte: {"SetReferenceByte", []int{4}},
	OpSetReferenceWord: {"SetReferenceWord", []int{4}},
	OpSetReferenceDword: {"SetReferenceDword", []int{4}},
	OpSetReferenceQword: {"SetReferenceQword", []int{4}},
	OpSetReferenceOword: {"SetReferenceOword", []int{4}},
	OpJump: {"Jump", []int{4}},
	OpJumpTrue: {"JumpTrue", []int{4}},
	OpJumpFalse: {"JumpFalse", []int{4}},
	OpJumpTruePop: {"JumpTruePop", []int{4}},
	OpJumpFalsePop: {"JumpFalsePop", []int{4}},
	OpCall: {"Call", []int{4}},
	OpReturnUnit: {"ReturnUnit", nil},
	OpReturnByte: {"ReturnByte", nil},
	OpReturnWord: {"ReturnWord", nil},
	OpReturnDword: {"ReturnDword", nil},
	OpReturnQword: {"ReturnQword", nil},
	OpReturnOword: {"ReturnOword", nil},
	OpStackExtend: {"StackExtend", []int{4}},
	OpStackShrink: {"StackShrink", []int{4}},
	OpSpecialFunction: {"SpecialFunction", []int{1}},
	// BoolNot pops a canonical 0/1 byte and pushes its logical complement;
	// unlike BNotByte it cannot be reused here since a bitwise complement of
	// a 0/1 byte (0xFF/0xFE) would no longer be a canonical Bool.
	OpBoolNot: {"BoolNot", nil},
}

// Lookup returns the Definition for op, or an error if op is not a valid opcode.
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("code: opcode %d is undefined", op)
	}
	return def, nil
}

// Make encodes one instruction (opcode plus little-endian operands) into a
// fresh byte slice.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}

	instructionLen := 1
	for _, w := range def.OperandWidths {
		instructionLen += w
	}

	instruction := make([]byte, instructionLen)
	instruction[0] = byte(op)

	offset := 1
	for i, o := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 1:
			instruction[offset] = byte(o)
		case 2:
			binary.LittleEndian.PutUint16(instruction[offset:], uint16(o))
		case 4:
			binary.LittleEndian.PutUint32(instruction[offset:], uint32(o))
		case 8:
			binary.LittleEndian.PutUint64(instruction[offset:], uint64(o))
		case 16:
			putUint128(instruction[offset:], uint64(o), 0)
		}
		offset += width
	}

	return instruction
}

// MakeWide128 encodes an Oword-operand instruction (OpPushOword) from its
// low/high 64-bit halves directly, since Make's variadic int operands cannot
// carry a full 128-bit value.
func MakeWide128(op Opcode, lo, hi uint64) []byte {
	def, ok := definitions[op]
	if !ok || len(def.OperandWidths) != 1 || def.OperandWidths[0] != 16 {
		return []byte{}
	}
	instruction := make([]byte, 17)
	instruction[0] = byte(op)
	putUint128(instruction[1:], lo, hi)
	return instruction
}

func putUint128(dst []byte, lo, hi uint64) {
	binary.LittleEndian.PutUint64(dst[0:8], lo)
	binary.LittleEndian.PutUint64(dst[8:16], hi)
}

// ReadUint128 decodes a little-endian 16-byte operand into its low/high halves.
func ReadUint128(ins Instructions) (lo, hi uint64) {
	lo = binary.LittleEndian.Uint64(ins[0:8])
	hi = binary.LittleEndian.Uint64(ins[8:16])
	return lo, hi
}

// ReadUint64 decodes a little-endian 8-byte operand.
func ReadUint64(ins Instructions) uint64 { return binary.LittleEndian.Uint64(ins) }

// ReadUint32 decodes a little-endian 4-byte operand.
func ReadUint32(ins Instructions) uint32 { return binary.LittleEndian.Uint32(ins) }

// ReadInt32 decodes a little-endian signed 4-byte operand (jump offsets).
func ReadInt32(ins Instructions) int32 { return int32(binary.LittleEndian.Uint32(ins)) }

// ReadUint16 decodes a little-endian 2-byte operand.
func ReadUint16(ins Instructions) uint16 { return binary.LittleEndian.Uint16(ins) }

// ReadUint8 decodes a single-byte operand.
func ReadUint8(ins Instructions) uint8 { return ins[0] }

// ReadOperands decodes all operands of def starting at the first immediate
// byte of ins, returning the decoded values (widened to uint64/lo-hi pairs
// for the 16-byte case isn't attempted here — callers needing Oword operands
// use ReadUint128 directly) and the number of bytes consumed.
func ReadOperands(def *Definition, ins Instructions) (operands []int, n int) {
	operands = make([]int, len(def.OperandWidths))
	offset := 0
	for i, width := range def.OperandWidths {
		switch width {
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		case 4:
			operands[i] = int(ReadUint32(ins[offset:]))
		case 8:
			operands[i] = int(ReadUint64(ins[offset:]))
		case 16:
			lo, _ := ReadUint128(ins[offset:])
			operands[i] = int(lo)
		}
		offset += width
	}
	return operands, offset
}

// String disassembles ins into one mnemonic line per instruction, mainly for
// tests and quick debugging; the disasm package provides the full annotated
// CLI disassembly.
func (ins Instructions) String() string {
	result := ""
	i := 0
	for i < len(ins) {
		def, err := Lookup(ins[i])
		if err != nil {
			result += fmt.Sprintf("ERROR: %s\n", err)
			i++
			continue
		}

		operands, read := ReadOperands(def, ins[i+1:])
		result += fmt.Sprintf("%04d %s\n", i, fmtInstruction(def, operands))

		i += 1 + read
	}
	return result
}

func fmtInstruction(def *Definition, operands []int) string {
	operandCount := len(def.OperandWidths)
	if len(operands) != operandCount {
		return fmt.Sprintf("ERROR: operand len %d does not match defined %d\n", len(operands), operandCount)
	}

	switch operandCount {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	}
	return fmt.Sprintf("ERROR: unhandled operandCount for %s\n", def.Name)
}
