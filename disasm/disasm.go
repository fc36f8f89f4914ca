// Package disasm decodes a Loxinas code section into mnemonic text:
// one address-prefixed line per instruction, annotating jump targets and
// OpSpecialFunction selectors. Decoding is best-effort — it stops at the
// first byte that doesn't name a known opcode or whose operands run past
// the end of the stream, rather than erroring out the whole listing
// (spec.md §9's "preserve... best-effort decode, stop at first garbage").
package disasm

import (
	"fmt"
	"strings"

	"github.com/dr8co/loxinas/code"
)

// Disassemble decodes ins and returns its annotated listing.
func Disassemble(ins code.Instructions) string {
	var b strings.Builder
	i := 0

	for i < len(ins) {
		def, err := code.Lookup(ins[i])
		if err != nil {
			fmt.Fprintf(&b, "%08x  ERROR: %s\n", i, err)
			return b.String()
		}

		width := operandsWidth(def)
		if i+1+width > len(ins) {
			fmt.Fprintf(&b, "%08x  ERROR: %s: truncated operand\n", i, def.Name)
			return b.String()
		}

		opcode := code.Opcode(ins[i])
		line := formatLine(opcode, def, i, ins[i+1:i+1+width])
		fmt.Fprintf(&b, "%08x  %s\n", i, line)
		i += 1 + width
	}
	return b.String()
}

// DisassembleAt decodes exactly one instruction at offset pos in ins,
// returning its formatted line (without the address prefix Disassemble
// adds) and the offset of the following instruction. debugtui uses this to
// render the single instruction the VM is about to execute, rather than
// the whole code section.
func DisassembleAt(ins code.Instructions, pos int) (line string, next int, err error) {
	if pos >= len(ins) {
		return "", pos, fmt.Errorf("offset %d past end of code (%d bytes)", pos, len(ins))
	}
	def, err := code.Lookup(ins[pos])
	if err != nil {
		return "", pos, err
	}
	width := operandsWidth(def)
	if pos+1+width > len(ins) {
		return "", pos, fmt.Errorf("%s: truncated operand", def.Name)
	}
	opcode := code.Opcode(ins[pos])
	line = formatLine(opcode, def, pos, ins[pos+1:pos+1+width])
	return line, pos + 1 + width, nil
}

func operandsWidth(def *code.Definition) int {
	total := 0
	for _, w := range def.OperandWidths {
		total += w
	}
	return total
}

// formatLine renders one decoded instruction, special-casing the two
// opcodes whose raw operand int isn't the whole story: OpPushOword (a
// 128-bit immediate, not just ReadOperands' truncated low word) and
// OpSpecialFunction (a print-builtin selector byte, not a bare integer).
func formatLine(op code.Opcode, def *code.Definition, pos int, raw code.Instructions) string {
	switch op {
	case code.OpPushOword:
		lo, hi := code.ReadUint128(raw)
		return fmt.Sprintf("%-16s 0x%016x%016x", def.Name, hi, lo)
	case code.OpSpecialFunction:
		sel := code.SpecialFunction(raw[0])
		return fmt.Sprintf("%-16s %d (%s)", def.Name, raw[0], sel)
	}

	operands, _ := code.ReadOperands(def, raw)
	switch len(operands) {
	case 0:
		return def.Name
	case 1:
		if isJump(op) {
			// The operand is an i32 offset relative to the byte right after
			// this instruction.
			offset := int(int32(uint32(operands[0])))
			target := pos + 1 + len(raw) + offset
			return fmt.Sprintf("%-16s %d (-> %08x)", def.Name, offset, target)
		}
		return fmt.Sprintf("%-16s %d", def.Name, operands[0])
	default:
		return fmt.Sprintf("%-16s %v", def.Name, operands)
	}
}

func isJump(op code.Opcode) bool {
	switch op {
	case code.OpJump, code.OpJumpTrue, code.OpJumpFalse, code.OpJumpTruePop, code.OpJumpFalsePop:
		return true
	default:
		return false
	}
}
