package resolver

import (
	"testing"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/lexer"
	"github.com/dr8co/loxinas/parser"
	"github.com/dr8co/loxinas/types"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

func TestResolveSimpleProgramNoErrors(t *testing.T) {
	prog := mustParse(t, `
		func add(a: int, b: int) -> int {
			return a + b;
		}
		func main() {
			let x = add(1, 2);
			println(x);
		}
	`)
	errs := New().Resolve(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
}

func TestResolveIntegerPromotion(t *testing.T) {
	prog := mustParse(t, `func main() { let x = 1l + 2; }`)
	New().Resolve(prog)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	bin := let.Init.(*ast.ExprBinary)
	if !bin.ResultType.Equal(types.TInt(types.Long)) {
		t.Fatalf("expected promoted type Long, got %v", bin.ResultType)
	}
}

func TestResolveMixedSignednessIsError(t *testing.T) {
	prog := mustParse(t, `func main() { let x = 1 + 1u; }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected an error mixing signed and unsigned integers")
	}
}

func TestResolveComparisonResultIsBool(t *testing.T) {
	prog := mustParse(t, `func main() { let x = 1 < 2; }`)
	New().Resolve(prog)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	bin := let.Init.(*ast.ExprBinary)
	if !bin.ResultType.IsBool() {
		t.Fatalf("expected comparison result type Bool, got %v", bin.ResultType)
	}
	if !bin.OperandType.Equal(types.TInt(types.Int)) {
		t.Fatalf("expected comparison operand type Int, got %v", bin.OperandType)
	}
}

func TestResolveBoolArithmeticIsError(t *testing.T) {
	prog := mustParse(t, `func main() { let x = true - false; }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected an error using '-' between bools")
	}
}

func TestResolveUnaryMinusOnUnsignedIsError(t *testing.T) {
	prog := mustParse(t, `func main() { let x = -1u; }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected an error negating an unsigned integer")
	}
}

func TestResolveUndefinedVariableIsError(t *testing.T) {
	prog := mustParse(t, `func main() { let x = y + 1; }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected an undefined-variable error")
	}
}

func TestResolveUseBeforeInitIsError(t *testing.T) {
	prog := mustParse(t, `func main() { let x: int; let y = x; }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected a use-before-init error")
	}
}

func TestResolveInitFinalizesVariable(t *testing.T) {
	prog := mustParse(t, `func main() { let x: int; init x = 5; let y = x; }`)
	errs := New().Resolve(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolveDuplicateOverloadIsError(t *testing.T) {
	prog := mustParse(t, `
		func f(a: int) -> int { return a; }
		func f(a: int) -> int { return a; }
		func main() {}
	`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected a duplicate-overload error")
	}
}

func TestResolveOverloadSelection(t *testing.T) {
	prog := mustParse(t, `
		func f(a: int) -> int { return a; }
		func f(a: double) -> double { return a; }
		func main() {
			let x = f(1);
			let y = f(1.0);
		}
	`)
	errs := New().Resolve(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	body := prog.Functions[2].Body.Statements
	xCall := body[0].(*ast.StmtLet).Init.(*ast.ExprCall)
	yCall := body[1].(*ast.StmtLet).Init.(*ast.ExprCall)
	if xCall.Symbol == yCall.Symbol {
		t.Fatalf("expected distinct overloads to resolve to distinct symbols, got %q twice", xCall.Symbol)
	}
}

func TestResolveCharConcatenationProducesString(t *testing.T) {
	prog := mustParse(t, `func main() { let x = 'a' + 'b'; }`)
	errs := New().Resolve(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	bin := let.Init.(*ast.ExprBinary)
	if !bin.ResultType.IsString() {
		t.Fatalf("expected char+char to produce String, got %v", bin.ResultType)
	}
}

func TestResolveCastToObjectIsError(t *testing.T) {
	prog := mustParse(t, `func main() { let x = 1 as String; }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected an error casting to an object type")
	}
}

func TestResolveMainWithParamsIsError(t *testing.T) {
	prog := mustParse(t, `func main(a: int) { }`)
	errs := New().Resolve(prog)
	if !errs.HasErrors() {
		t.Fatalf("expected an error for 'main' taking parameters")
	}
}

func TestResolveBlockScopeSlotRestoration(t *testing.T) {
	prog := mustParse(t, `
		func main() {
			let a = 1;
			{
				let b = 2;
			}
			let c = 3;
		}
	`)
	New().Resolve(prog)
	stmts := prog.Functions[0].Body.Statements
	block := stmts[1].(*ast.StmtBlock)
	b := block.Statements[0].(*ast.StmtLet)
	c := stmts[2].(*ast.StmtLet)
	if b.Slot != c.Slot {
		t.Fatalf("expected block-scoped 'b' slot to be reclaimed by 'c', b.Slot=%d c.Slot=%d", b.Slot, c.Slot)
	}
}
