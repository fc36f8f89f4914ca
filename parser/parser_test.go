package parser

import (
	"testing"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/lexer"
	"github.com/dr8co/loxinas/token"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := New(l)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return prog
}

func TestParsePrecedenceLadder(t *testing.T) {
	prog := parse(t, `func main() {
		let x = 1 + 2 * 3 ** 2 as ext and true or false == not true;
	}`)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	body := prog.Functions[0].Body
	if len(body.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(body.Statements))
	}
	let, ok := body.Statements[0].(*ast.StmtLet)
	if !ok {
		t.Fatalf("expected StmtLet, got %T", body.Statements[0])
	}
	top, ok := let.Init.(*ast.ExprBinary)
	if !ok || top.Op.Type != token.OR {
		t.Fatalf("expected top-level 'or' binary, got %#v", let.Init)
	}
}

func TestParseArithmeticAssociativity(t *testing.T) {
	prog := parse(t, `func main() { let x = 1 - 2 - 3; }`)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	bin := let.Init.(*ast.ExprBinary)
	// left-associative: (1 - 2) - 3, so the outer Right is the literal 3.
	if _, ok := bin.Right.(*ast.ExprLiteral); !ok {
		t.Fatalf("expected right operand to be literal 3, got %T", bin.Right)
	}
	if _, ok := bin.Left.(*ast.ExprBinary); !ok {
		t.Fatalf("expected left operand to be nested binary, got %T", bin.Left)
	}
}

func TestParseIfElifElse(t *testing.T) {
	prog := parse(t, `func main() {
		if x == 1 {
			return;
		} elif x == 2 {
			return;
		} else {
			return;
		}
	}`)
	stmt := prog.Functions[0].Body.Statements[0].(*ast.StmtIf)
	if len(stmt.Branches) != 2 {
		t.Fatalf("expected 2 branches (if+elif), got %d", len(stmt.Branches))
	}
	if stmt.Else == nil {
		t.Fatalf("expected an else block")
	}
}

func TestParseForLoop(t *testing.T) {
	prog := parse(t, `func main() {
		for (let i = 0; i < 10; i += 1) {
			println(i);
		}
	}`)
	stmt := prog.Functions[0].Body.Statements[0].(*ast.StmtFor)
	if stmt.Init == nil || stmt.Cond == nil || stmt.Update == nil {
		t.Fatalf("expected all three for-clauses to be present, got %+v", stmt)
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := parse(t, `func main() {
		while x < 10 {
			x += 1;
		}
	}`)
	stmt := prog.Functions[0].Body.Statements[0].(*ast.StmtWhile)
	if _, ok := stmt.Body.Statements[0].(*ast.StmtAssign); !ok {
		t.Fatalf("expected compound assignment in body, got %T", stmt.Body.Statements[0])
	}
}

func TestParseFuncWithParamsAndReturnType(t *testing.T) {
	prog := parse(t, `func add(ref a: int, b: int) -> int {
		return a + b;
	}`)
	fn := prog.Functions[0]
	if fn.Name != "add" {
		t.Fatalf("expected function named add, got %s", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if !fn.Params[0].IsRef {
		t.Fatalf("expected first param to be ref")
	}
	if fn.ReturnType == nil {
		t.Fatalf("expected a return type")
	}
}

func TestParseCallExpression(t *testing.T) {
	prog := parse(t, `func main() {
		let x = abs(-7);
	}`)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	call, ok := let.Init.(*ast.ExprCall)
	if !ok {
		t.Fatalf("expected ExprCall, got %T", let.Init)
	}
	if call.Callee != "abs" {
		t.Fatalf("expected callee abs, got %s", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
}

func TestParseQualifiedTypeTag(t *testing.T) {
	prog := parse(t, `func main() {
		let x: io::Reader;
	}`)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	if let.VarType == nil {
		t.Fatalf("expected a var type")
	}
	if let.VarType.ClassName != "io::Reader" {
		t.Fatalf("expected qualified class name io::Reader, got %q", let.VarType.ClassName)
	}
}

func TestParseInitStatement(t *testing.T) {
	prog := parse(t, `func main() {
		let x;
		init x = 5;
	}`)
	stmts := prog.Functions[0].Body.Statements
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if _, ok := stmts[1].(*ast.StmtInit); !ok {
		t.Fatalf("expected StmtInit, got %T", stmts[1])
	}
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	l := lexer.New(`func main() {
		let x = ;
		let y = 2;
	}`)
	p := New(l)
	prog := p.ParseProgram()
	if !p.Errors().HasErrors() {
		t.Fatalf("expected at least one parse error")
	}
	body := prog.Functions[0].Body
	if len(body.Statements) == 0 {
		t.Fatalf("expected parser to recover and parse trailing statements")
	}
}

func TestParseIntLiteralSuffixWidth(t *testing.T) {
	prog := parse(t, `func main() { let x = 200b; }`)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	lit := let.Init.(*ast.ExprLiteral)
	if lit.IntLo != 200 {
		t.Fatalf("expected literal value 200, got %d", lit.IntLo)
	}
}

func TestParseIntLiteralOverflowReportsError(t *testing.T) {
	l := lexer.New(`func main() { let x = 999b; }`)
	p := New(l)
	p.ParseProgram()
	if !p.Errors().HasErrors() {
		t.Fatalf("expected an overflow diagnostic for 999b")
	}
}

func TestParseBeyond64BitIntLiteral(t *testing.T) {
	prog := parse(t, `func main() { let x = 340282366920938463463374607431768211455ue; }`)
	let := prog.Functions[0].Body.Statements[0].(*ast.StmtLet)
	lit := let.Init.(*ast.ExprLiteral)
	if lit.IntLo != ^uint64(0) || lit.IntHi != ^uint64(0) {
		t.Fatalf("expected max uint128 split into all-ones words, got lo=%x hi=%x", lit.IntLo, lit.IntHi)
	}
}
