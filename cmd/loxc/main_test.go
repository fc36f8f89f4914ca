package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunCompilesValidProgramAndWritesObjectFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.lox", `
		func main() {
			println(1 + 2);
		}
	`)
	out := filepath.Join(dir, "hello.loxc")

	code := run([]string{"-o", out, src})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected object file to exist: %v", err)
	}
}

func TestRunDefaultsOutputToSourceStem(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "prog.lox", `
		func main() {
			println(1);
		}
	`)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	code := run([]string{src})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "prog.loxc")); err != nil {
		t.Fatalf("expected prog.loxc next to the source: %v", err)
	}
}

func TestRunReturns64OnDuplicateMain(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "dup.lox", `
		func main() {
			println(1);
		}
		func main() {
			println(2);
		}
	`)

	if code := run([]string{src}); code != 64 {
		t.Fatalf("expected exit 64 for a duplicate main, got %d", code)
	}
}

func TestRunReturns64OnSyntaxError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bad.lox", `
		func main() {
			let x = ;
		}
	`)

	if code := run([]string{src}); code != 64 {
		t.Fatalf("expected exit 64 for a syntax error, got %d", code)
	}
}

func TestRunReturns1OnMissingFile(t *testing.T) {
	if code := run([]string{filepath.Join(t.TempDir(), "nope.lox")}); code != 1 {
		t.Fatalf("expected exit 1 for a missing source file, got %d", code)
	}
}

func TestRunReturns1OnBadArgument(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("expected exit 1 when no source file is given, got %d", code)
	}
}
