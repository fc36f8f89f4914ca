package disasm

import (
	"strings"
	"testing"

	"github.com/dr8co/loxinas/code"
)

func TestDisassembleSimpleSequence(t *testing.T) {
	var ins code.Instructions
	ins = append(ins, code.Make(code.OpPushDword, 42)...)
	ins = append(ins, code.Make(code.OpPushDword, 8)...)
	ins = append(ins, code.Make(code.OpIAddDword)...)
	ins = append(ins, code.Make(code.OpPopDword)...)
	ins = append(ins, code.Make(code.OpReturnUnit)...)

	out := Disassemble(ins)
	for _, want := range []string{"PushDword", "42", "IAddDword", "PopDword", "ReturnUnit"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected disassembly to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDisassembleAnnotatesJumpTarget(t *testing.T) {
	ins := code.Make(code.OpJumpFalsePop, 17)
	out := Disassemble(ins)
	if !strings.Contains(out, "-> 00000016") {
		t.Errorf("expected a decoded jump target, got:\n%s", out)
	}
}

func TestDisassembleAnnotatesSpecialFunctionSelector(t *testing.T) {
	ins := code.Make(code.OpSpecialFunction, int(code.PrintInt))
	out := Disassemble(ins)
	if !strings.Contains(out, "PrintInt") {
		t.Errorf("expected the selector name PrintInt, got:\n%s", out)
	}
}

func TestDisassemblePrintsFullOwordImmediate(t *testing.T) {
	ins := code.MakeWide128(code.OpPushOword, 1, 2)
	out := Disassemble(ins)
	if !strings.Contains(out, "0x00000000000000020000000000000001") {
		t.Errorf("expected the full 128-bit immediate, got:\n%s", out)
	}
}

func TestDisassembleStopsAtUnknownOpcode(t *testing.T) {
	ins := code.Instructions{0xFF}
	out := Disassemble(ins)
	if !strings.Contains(out, "ERROR") {
		t.Errorf("expected an ERROR line for an undefined opcode, got:\n%s", out)
	}
}

func TestDisassembleStopsAtTruncatedOperand(t *testing.T) {
	ins := code.Instructions{byte(code.OpPushDword), 0x01}
	out := Disassemble(ins)
	if !strings.Contains(out, "ERROR") {
		t.Errorf("expected an ERROR line for a truncated operand, got:\n%s", out)
	}
}
