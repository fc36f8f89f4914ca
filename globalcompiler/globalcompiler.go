// Package globalcompiler is the whole-program driver: given a resolved
// ast.Program (every StmtFunc already carries its mangled Symbol), it
// compiles main first at code offset 0, then every other function,
// patching each one's function-reference-table entry from a symbolic
// placeholder to a direct code offset as it's compiled, and assembles the
// result into an objfile.File (spec.md §4.6).
package globalcompiler

import (
	"fmt"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/compiler"
	"github.com/dr8co/loxinas/objfile"
)

// GlobalCompiler accumulates the symbol table, function-reference table,
// and code section for one compilation unit.
type GlobalCompiler struct {
	prog *ast.Program

	symbols []objfile.Symbol
	refs    []objfile.FuncRef
	code    []byte

	// symbolToRef maps a function's mangled Symbol to its index in refs —
	// the index an OpCall instruction actually names (spec.md §9: "Call
	// idx(u32)" indexes the function-reference table, not the symbol
	// table directly).
	symbolToRef map[string]int
}

// New seeds a GlobalCompiler with entry 0 of both tables reserved for
// `main`, mirroring original_source/src/global_compiler/mod.rs's
// `GlobalCompiler::new`.
func New(prog *ast.Program) *GlobalCompiler {
	return &GlobalCompiler{
		prog:        prog,
		symbols:     []objfile.Symbol{{Position: 0, Name: "", Location: -1}},
		refs:        []objfile.FuncRef{{Direct: false, Value: 0}},
		symbolToRef: make(map[string]int),
	}
}

// Compile compiles every function in prog and returns the assembled
// object-file bytes. The resolver must already have run (every fn.Symbol
// set, every expression annotated) — this package does no type-checking.
func (gc *GlobalCompiler) Compile() ([]byte, error) {
	gc.predefine()

	var main *ast.StmtFunc
	var rest []*ast.StmtFunc
	for _, fn := range gc.prog.Functions {
		if fn.Symbol == "main$unit" {
			main = fn
		} else {
			rest = append(rest, fn)
		}
	}

	if main != nil {
		if err := gc.compileAt(main, 0); err != nil {
			return nil, err
		}
		gc.symbols[0].Name = main.Symbol
		gc.symbols[0].Location = 0
		gc.refs[0] = objfile.FuncRef{Direct: true, Value: 0}
	}

	for _, fn := range rest {
		location := len(gc.code)
		if err := gc.compileAt(fn, location); err != nil {
			return nil, err
		}
		idx := gc.symbolToRef[fn.Symbol]
		gc.symbols[idx].Location = int32(location)
		gc.refs[idx] = objfile.FuncRef{Direct: true, Value: uint32(location)}
	}

	file := &objfile.File{Symbols: gc.symbols, Refs: gc.refs, Code: gc.code}
	return file.Bytes(), nil
}

// predefine reserves a symbol-table entry and a symbolic function-reference
// entry for every non-main function before any body is compiled, so a call
// to a function declared later in the source still resolves.
func (gc *GlobalCompiler) predefine() {
	for _, fn := range gc.prog.Functions {
		if fn.Symbol == "main$unit" {
			continue
		}
		linkIdx := len(gc.symbols)
		gc.symbols = append(gc.symbols, objfile.Symbol{Position: 0, Name: fn.Symbol, Location: -1})
		refIdx := len(gc.refs)
		gc.refs = append(gc.refs, objfile.FuncRef{Direct: false, Value: uint32(linkIdx)})
		gc.symbolToRef[fn.Symbol] = refIdx
		fn.Index = refIdx
	}
}

// compileAt compiles fn's body and appends it to gc.code. location is the
// byte offset the caller has already decided fn.Index's code will start at
// (0 for main, len(gc.code) as of the call for everything else).
func (gc *GlobalCompiler) compileAt(fn *ast.StmtFunc, location int) error {
	c := compiler.New(func(symbol string) uint32 {
		if idx, ok := gc.symbolToRef[symbol]; ok {
			return uint32(idx)
		}
		if symbol == "main$unit" {
			return 0
		}
		panic(fmt.Sprintf("globalcompiler: call to unresolved symbol %q", symbol))
	})

	ins, err := c.CompileFunction(fn)
	if err != nil {
		return fmt.Errorf("compiling %q: %w", fn.Symbol, err)
	}
	if location != len(gc.code) {
		return fmt.Errorf("globalcompiler: internal error: %q expected at offset %d, code is at %d", fn.Symbol, location, len(gc.code))
	}
	gc.code = append(gc.code, ins...)
	return nil
}
