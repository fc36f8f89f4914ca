package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dr8co/loxinas/globalcompiler"
	"github.com/dr8co/loxinas/lexer"
	"github.com/dr8co/loxinas/objfile"
	"github.com/dr8co/loxinas/parser"
	"github.com/dr8co/loxinas/resolver"
)

// compileToFile compiles src end to end and writes the resulting object
// file into dir, returning its path.
func compileToFile(t *testing.T, dir, name, src string) string {
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
	data, err := globalcompiler.New(prog).Compile()
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	if _, err := objfile.Parse(data); err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunExecutesObjectFileSuccessfully(t *testing.T) {
	dir := t.TempDir()
	path := compileToFile(t, dir, "ok.loxc", `
		func main() {
			println(1 + 2);
		}
	`)

	if code := run([]string{path}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestRunReturns70OnDivisionByZero(t *testing.T) {
	dir := t.TempDir()
	path := compileToFile(t, dir, "divzero.loxc", `
		func main() {
			let a: int = 10;
			let b: int = 0;
			println(a / b);
		}
	`)

	if code := run([]string{path}); code != 70 {
		t.Fatalf("expected exit 70 for a division-by-zero runtime error, got %d", code)
	}
}

func TestRunReturns1OnMissingFile(t *testing.T) {
	if code := run([]string{filepath.Join(t.TempDir(), "nope.loxc")}); code != 1 {
		t.Fatalf("expected exit 1 for a missing object file, got %d", code)
	}
}

func TestRunReturns1OnBadArgument(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("expected exit 1 when no object file is given, got %d", code)
	}
}
