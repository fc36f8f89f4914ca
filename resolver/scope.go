package resolver

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// Variable tracks one binding's resolution state through its lexical
// scope, matching original_source's resolver::Variable shape (defined,
// initialized, slot, var_type, is_ref) but keyed in a Go map instead of
// carrying a raw statement pointer.
type Variable struct {
	Name      string
	DefinedAt token.Position

	Defined     bool
	Initialized bool

	VarType *types.Type
	IsRef   bool
	Slot    int
}

// Scope is one lexical scope's variable table, plus the stack-slot cursor
// snapshotted on entry so leaving the scope can restore it.
type Scope struct {
	Variables   map[string]*Variable
	SlotAtEntry int
}

// enterScope pushes a new scope snapshotting the current slot cursor.
func (r *Resolver) enterScope() {
	r.scopes = append(r.scopes, &Scope{
		Variables:   make(map[string]*Variable),
		SlotAtEntry: r.topSlot,
	})
}

// leaveScope pops the current scope, restores the slot cursor to what it
// was on entry, and reports the net stack growth the caller must emit a
// matching shrink for (spec.md §4.2).
func (r *Resolver) leaveScope() (shrinkBy int) {
	n := len(r.scopes)
	top := r.scopes[n-1]
	r.scopes = r.scopes[:n-1]
	shrinkBy = r.topSlot - top.SlotAtEntry
	r.topSlot = top.SlotAtEntry
	return shrinkBy
}

func (r *Resolver) currentScope() *Scope {
	return r.scopes[len(r.scopes)-1]
}

// predefine inserts an uninitialized Variable record for every `let` in
// stmts' own scope (not nested blocks), matching spec.md §4.2's predefine
// rule. Redeclaring a name already predefined in the same scope is an
// error.
func (r *Resolver) predefine(stmts []ast.Stmt) {
	scope := r.currentScope()
	for _, stmt := range stmts {
		let, ok := stmt.(*ast.StmtLet)
		if !ok {
			continue
		}
		if _, exists := scope.Variables[let.Name]; exists {
			r.errorf(let.NamePos, "redefinition of variable %q", let.Name)
			continue
		}
		scope.Variables[let.Name] = &Variable{Name: let.Name, DefinedAt: let.NamePos}
	}
}

// findVariable looks up name from the innermost scope outward.
func (r *Resolver) findVariable(name string) *Variable {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if v, ok := r.scopes[i].Variables[name]; ok {
			return v
		}
	}
	return nil
}

// findVariableInCurrentScope looks up name in only the innermost scope.
func (r *Resolver) findVariableInCurrentScope(name string) *Variable {
	v, ok := r.currentScope().Variables[name]
	if !ok {
		return nil
	}
	return v
}
