package globalcompiler

import (
	"strings"
	"testing"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/disasm"
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

func TestCompileSingleMainProducesValidObjectFile(t *testing.T) {
	prog := mustResolve(t, `
		func main() {
			let x: int = 1;
			println(x);
		}
	`)

	data, err := New(prog).Compile()
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	f, err := objfile.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if !f.HasMain() {
		t.Fatalf("expected the assembled object file to have a main function")
	}
	if f.Symbols[0].Location != 0 {
		t.Errorf("expected main to be compiled at code offset 0, got %d", f.Symbols[0].Location)
	}
	if len(f.Code) == 0 {
		t.Errorf("expected a non-empty code section")
	}
}

func TestCompileWithHelperFunctionPatchesReference(t *testing.T) {
	prog := mustResolve(t, `
		func add(a: int, b: int) -> int {
			return a + b;
		}

		func main() {
			println(add(1, 2));
		}
	`)

	data, err := New(prog).Compile()
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	f, err := objfile.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	var addSym *objfile.Symbol
	var addRef *objfile.FuncRef
	for i, s := range f.Symbols {
		if s.Name == "add#int#int$int" {
			addSym = &f.Symbols[i]
			addRef = &f.Refs[i]
		}
	}
	if addSym == nil {
		t.Fatalf("expected a symbol-table entry for add#int#int$int")
	}
	if !addRef.Direct {
		t.Errorf("expected add's function reference to be patched to Direct after compilation")
	}
	if addSym.Location < 0 {
		t.Errorf("expected add's location to be resolved, got %d", addSym.Location)
	}
}

// A return statement releases its function's whole frame through
// Return<Width>/ReturnUnit's own frame_start truncation (vm.execReturn),
// not through a compile-time StackShrink squeezed in between the local's
// push and the return value's: that ordering would shrink the return
// value itself, since StackShrink only ever truncates the current top of
// the stack. This pins the emitted sequence so a future change doesn't
// reintroduce one.
func TestCompileReturnEmitsNoStackShrinkBeforeReturnValue(t *testing.T) {
	prog := mustResolve(t, `
		func g() -> int {
			let x: int = 1;
			return 2;
		}
		func main() {
			println(g());
		}
	`)

	data, err := New(prog).Compile()
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	f, err := objfile.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	listing := disasm.Disassemble(f.Code)
	if strings.Contains(listing, "StackShrink") {
		t.Errorf("expected no StackShrink in g's body, got listing:\n%s", listing)
	}
	if !strings.Contains(listing, "ReturnDword") {
		t.Errorf("expected a ReturnDword in the listing, got:\n%s", listing)
	}
}

func TestCompileWithNoMainLeavesEntryZeroEmpty(t *testing.T) {
	prog := mustResolve(t, `
		func helper() {
		}
	`)

	data, err := New(prog).Compile()
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	f, err := objfile.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if f.HasMain() {
		t.Errorf("expected no main function to be reported")
	}
}
