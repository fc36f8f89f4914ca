// Package resolver implements Loxinas's semantic analysis pass: it walks
// the AST the parser produced, assigns a result type and operand type to
// every expression node, checks operator/operand compatibility, and
// allocates byte-stack slots to local variables.
//
// Like the parser, the resolver collects every diagnostic it finds rather
// than aborting at the first one, so a single compile reports every type
// error in the program at once.
package resolver

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/diag"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// Resolver holds the scope stack, the function table, and the accumulated
// diagnostics for one compilation unit.
type Resolver struct {
	scopes  []*Scope
	topSlot int

	funcs       map[string]*FuncRecord
	funcsByName map[string][]*FuncRecord

	// currentReturnType is the return type of the function currently being
	// resolved, checked against every `return` statement in its body.
	currentReturnType types.Type

	errors diag.List
}

// New creates a Resolver with its builtin function table (print, println)
// already registered.
func New() *Resolver {
	r := &Resolver{
		funcs:       make(map[string]*FuncRecord),
		funcsByName: make(map[string][]*FuncRecord),
	}
	r.registerBuiltins()
	return r
}

func (r *Resolver) errorf(pos token.Position, format string, args ...any) {
	r.errors = append(r.errors, diag.New(diag.Compile, pos, format, args...))
}

// Resolve type-checks every function in prog and returns every diagnostic
// found. It mutates prog's nodes in place: ResultType/OperandType fields on
// expressions, Slot fields on statements, and the Symbol field on StmtFunc
// (StmtFunc.Index is left to the global compiler).
func (r *Resolver) Resolve(prog *ast.Program) diag.List {
	r.registerFunctions(prog)
	for _, fn := range prog.Functions {
		r.resolveFunction(fn)
	}
	return r.errors
}

// checkTypeParse reports whether a value of type from may be used where a
// value of type to is expected, per spec.md §4.2: numeric/bool conversions
// are allowed (because the compiler's conversion-sequence table in §4.3
// covers every such pair), object conversions are rejected unless the
// object types are already identical, and Char/Unit only match themselves
// (the conversion table defines no Char or Unit family).
func checkTypeParse(from, to types.Type) bool {
	if from.Equal(to) {
		return true
	}
	if from.IsObject() || to.IsObject() {
		return false
	}
	if from.IsChar() || to.IsChar() {
		return false
	}
	if from.IsUnit() || to.IsUnit() {
		return false
	}
	return true
}
