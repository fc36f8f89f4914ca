package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/globalcompiler"
	"github.com/dr8co/loxinas/lexer"
	"github.com/dr8co/loxinas/objfile"
	"github.com/dr8co/loxinas/parser"
	"github.com/dr8co/loxinas/resolver"
)

func mustResolve(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	r := resolver.New()
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	return prog
}

// run compiles src end to end and executes it, returning everything written
// to stdout.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	prog := mustResolve(t, src)

	data, err := globalcompiler.New(prog).Compile()
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	f, err := objfile.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	var out bytes.Buffer
	machine, err := New(f, &out)
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}
	err = machine.Run()
	return out.String(), err
}

func TestRunArithmeticAndPrintln(t *testing.T) {
	out, err := run(t, `
		func main() {
			let x = 1 + 2 * 3;
			println(x);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "7\n" {
		t.Errorf("expected %q, got %q", "7\n", out)
	}
}

func TestRunFunctionCallWithReturnValue(t *testing.T) {
	out, err := run(t, `
		func add(a: int, b: int) -> int {
			return a + b;
		}
		func main() {
			println(add(3, 4));
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "7\n" {
		t.Errorf("expected %q, got %q", "7\n", out)
	}
}

func TestRunRecursiveFunctionCall(t *testing.T) {
	out, err := run(t, `
		func fact(n: int) -> int {
			if n <= 1 {
				return 1;
			}
			return n * fact(n - 1);
		}
		func main() {
			println(fact(5));
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "120\n" {
		t.Errorf("expected %q, got %q", "120\n", out)
	}
}

func TestRunWhileLoop(t *testing.T) {
	out, err := run(t, `
		func main() {
			let i = 0;
			let sum = 0;
			while i < 5 {
				sum += i;
				i += 1;
			}
			println(sum);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "10\n" {
		t.Errorf("expected %q, got %q", "10\n", out)
	}
}

func TestRunForLoop(t *testing.T) {
	out, err := run(t, `
		func main() {
			let sum = 0;
			for (let i = 0; i < 10; i += 1) {
				sum += i;
			}
			println(sum);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "45\n" {
		t.Errorf("expected %q, got %q", "45\n", out)
	}
}

func TestRunIfElifElse(t *testing.T) {
	src := `
		func classify(n: int) -> int {
			if n < 0 {
				return -1;
			} elif n == 0 {
				return 0;
			} else {
				return 1;
			}
		}
		func main() {
			println(classify(-5));
			println(classify(0));
			println(classify(5));
		}
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "-1\n0\n1\n" {
		t.Errorf("expected %q, got %q", "-1\n0\n1\n", out)
	}
}

// A `ref` parameter is still passed and stored by value: the compiler emits
// the ordinary GetLocal/SetLocal family for it, so the caller's variable is
// left unchanged.
func TestRunRefParameterDoesNotAliasCaller(t *testing.T) {
	out, err := run(t, `
		func increment(ref x: int) {
			x += 1;
		}
		func main() {
			let n = 41;
			increment(n);
			println(n);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "41\n" {
		t.Errorf("expected %q, got %q", "41\n", out)
	}
}

func TestRunExtIntArithmetic(t *testing.T) {
	out, err := run(t, `
		func main() {
			let x = 170141183460469231731687303715884105727e;
			println(x);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if strings.TrimSpace(out) != "170141183460469231731687303715884105727" {
		t.Errorf("expected the full 128-bit value, got %q", out)
	}
}

func TestRunIntegerDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		func main() {
			let z = 0;
			let x = 1 / z;
			println(x);
		}
	`)
	if err == nil {
		t.Fatalf("expected a division-by-zero runtime error")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("expected a division-by-zero message, got: %v", err)
	}
}

func TestRunAsCastWidensAndConverts(t *testing.T) {
	out, err := run(t, `
		func main() {
			let x = 1b;
			let y = x as long;
			println(y);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "1\n" {
		t.Errorf("expected %q, got %q", "1\n", out)
	}
}

func TestRunBooleanAndComparisonOps(t *testing.T) {
	out, err := run(t, `
		func main() {
			println(3 < 5 and 5 < 3 or not false);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "true\n" {
		t.Errorf("expected %q, got %q", "true\n", out)
	}
}

func TestRunLocalSurvivesBeneathReturnValue(t *testing.T) {
	out, err := run(t, `
		func g() -> int {
			let x: int = 1;
			return 2;
		}
		func main() {
			println(g());
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "2\n" {
		t.Errorf("expected %q, got %q", "2\n", out)
	}
}

func TestRunDoubleDivision(t *testing.T) {
	out, err := run(t, `
		func main() {
			let x: int = 5;
			let y: double = 2.0;
			println(x as double / y);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "2.5\n" {
		t.Errorf("expected %q, got %q", "2.5\n", out)
	}
}

func TestRunByteToShortCastThenAdd(t *testing.T) {
	out, err := run(t, `
		func main() {
			let b: byte = 200;
			let s: short = b as short + 100;
			println(s);
		}
	`)
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out != "300\n" {
		t.Errorf("expected %q, got %q", "300\n", out)
	}
}

// --- hand-assembled bytecode: runtime error paths not reachable from
// ordinary Loxinas source --------------------------------------------------

func newObjFile(ins code.Instructions) *objfile.File {
	return &objfile.File{
		Symbols: []objfile.Symbol{{Name: "main", Location: 0}},
		Refs:    nil,
		Code:    ins,
	}
}

func TestExecSpecialPrintCharRejectsInvalidCodePoint(t *testing.T) {
	var ins code.Instructions
	ins = append(ins, code.Make(code.OpPushDword, 0x110000)...) // past U+10FFFF
	ins = append(ins, code.Make(code.OpSpecialFunction, int(code.PrintChar))...)
	ins = append(ins, code.Make(code.OpReturnUnit)...)

	var out bytes.Buffer
	machine, err := New(newObjFile(ins), &out)
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}
	if err := machine.Run(); err == nil {
		t.Fatalf("expected an invalid code point runtime error")
	}
}

func TestNewRejectsObjectFileWithoutMain(t *testing.T) {
	f := &objfile.File{Symbols: []objfile.Symbol{{Name: ""}}}
	if _, err := New(f, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected an error for an object file with no main")
	}
}

func TestShiftWrapsCountModuloWidth(t *testing.T) {
	// ShlByte with a shift count equal to the byte's own width (8) must be a
	// no-op, not zero the value: Rust's wrapping_shl masks the count modulo
	// the operand's bit width rather than overflowing to zero.
	var ins code.Instructions
	ins = append(ins, code.Make(code.OpPushByte, 1)...)
	ins = append(ins, code.Make(code.OpPushByte, 8)...)
	ins = append(ins, code.Make(code.OpShlByte)...)
	ins = append(ins, code.Make(code.OpSpecialFunction, int(code.PrintByte))...)
	ins = append(ins, code.Make(code.OpReturnUnit)...)

	var out bytes.Buffer
	machine, err := New(newObjFile(ins), &out)
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}
	if err := machine.Run(); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out.String() != "1" {
		t.Errorf("expected the shift to be a no-op (1), got %q", out.String())
	}
}

func TestOwordArithmeticWraps(t *testing.T) {
	// UExtInt max + 1 wraps to zero.
	var ins code.Instructions
	ins = append(ins, code.MakeWide128(code.OpPushOword, ^uint64(0), ^uint64(0))...)
	ins = append(ins, code.MakeWide128(code.OpPushOword, 1, 0)...)
	ins = append(ins, code.Make(code.OpIAddOword)...)
	ins = append(ins, code.Make(code.OpSpecialFunction, int(code.PrintUExtInt))...)
	ins = append(ins, code.Make(code.OpReturnUnit)...)

	var out bytes.Buffer
	machine, err := New(newObjFile(ins), &out)
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}
	if err := machine.Run(); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if out.String() != "0" {
		t.Errorf("expected wraparound to 0, got %q", out.String())
	}
}
