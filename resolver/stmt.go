package resolver

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/types"
)

// resolveFunction resolves one top-level function: a fresh scope seeded
// with its parameters, followed by its body.
func (r *Resolver) resolveFunction(fn *ast.StmtFunc) {
	r.topSlot = 0
	ret := types.TUnit()
	if fn.ReturnType != nil {
		ret = *fn.ReturnType
	}
	r.currentReturnType = ret
	r.enterScope()
	for _, p := range fn.Params {
		pt := p.Type
		scope := r.currentScope()
		scope.Variables[p.Name] = &Variable{
			Name: p.Name, DefinedAt: p.NamePos,
			Defined: true, Initialized: true,
			VarType: &pt, IsRef: p.IsRef, Slot: r.topSlot,
		}
		r.topSlot += pt.Size()
	}
	r.resolveBlock(fn.Body)
	r.leaveScope()
}

// resolveBlock resolves a nested block: a scope of its own, predefined,
// then its statements in order.
func (r *Resolver) resolveBlock(b *ast.StmtBlock) {
	r.enterScope()
	r.resolveStatements(b.Statements)
	b.ShrinkBy = r.leaveScope()
}

func (r *Resolver) resolveStatements(stmts []ast.Stmt) {
	r.predefine(stmts)
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.StmtExpr:
		r.resolveExpr(n.X)
	case *ast.StmtLet:
		r.resolveLet(n)
	case *ast.StmtInit:
		r.resolveInit(n)
	case *ast.StmtAssign:
		r.resolveAssign(n)
	case *ast.StmtBlock:
		r.resolveBlock(n)
	case *ast.StmtIf:
		r.resolveIf(n)
	case *ast.StmtWhile:
		r.resolveWhile(n)
	case *ast.StmtFor:
		r.resolveFor(n)
	case *ast.StmtReturn:
		r.resolveReturn(n)
	default:
		panic("resolver: unhandled statement node")
	}
}

// resolveLet implements spec.md §4.2's `let` rule: a variable must already
// be predefined in the current scope (by resolveStatements' predefine
// pass); this finalizes its type and slot.
func (r *Resolver) resolveLet(s *ast.StmtLet) {
	v := r.findVariableInCurrentScope(s.Name)
	if v == nil {
		// Redeclaration already reported by predefine; still resolve the
		// initializer so later diagnostics stay accurate.
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		return
	}
	v.Defined = true
	v.IsRef = s.IsRef

	var declared *types.Type
	if s.VarType != nil {
		if s.VarType.IsObject() && s.VarType.Object == types.ClassUser {
			r.errorf(s.NamePos, "unknown type %q", s.VarType.ClassName)
		}
		declared = s.VarType
	}

	var initType *types.Type
	if s.Init != nil {
		t := r.resolveExpr(s.Init)
		initType = &t
		v.Initialized = true
	}

	switch {
	case declared != nil && initType != nil:
		if !checkTypeParse(*initType, *declared) {
			r.errorf(s.NamePos, "cannot convert %q to %q", *initType, *declared)
		}
		v.VarType = declared
	case declared != nil:
		v.VarType = declared
	case initType != nil:
		v.VarType = initType
	default:
		r.errorf(s.LetTok.Pos, "cannot infer a type for %q; give it a type tag or an initializer", s.Name)
		unit := types.TUnit()
		v.VarType = &unit
	}

	v.Slot = r.topSlot
	if !v.VarType.IsObject() {
		// Object types are compile-time markers with no runtime width.
		r.topSlot += v.VarType.Size()
	}
	s.Slot = v.Slot
	s.ResolvedType = *v.VarType
}

// resolveInit implements spec.md §4.2's `init` rule: name must refer to an
// already-predefined-but-uninitialized variable.
func (r *Resolver) resolveInit(s *ast.StmtInit) {
	v := r.findVariable(s.Name)
	if v == nil || !v.Defined {
		r.errorf(s.NamePos, "cannot initialize undeclared variable %q", s.Name)
		r.resolveExpr(s.Init)
		return
	}
	if v.Initialized {
		r.errorf(s.NamePos, "variable %q is already initialized", s.Name)
	}
	initType := r.resolveExpr(s.Init)
	if v.VarType != nil && !checkTypeParse(initType, *v.VarType) {
		r.errorf(s.NamePos, "cannot convert %q to %q", initType, *v.VarType)
	}
	v.Initialized = true
	s.Slot = v.Slot
	if v.VarType != nil {
		s.ResolvedType = *v.VarType
	}
}

func (r *Resolver) resolveAssign(s *ast.StmtAssign) {
	v := r.findVariable(s.Name)
	valueType := r.resolveExpr(s.Value)
	if v == nil {
		r.errorf(s.NamePos, "undefined variable %q", s.Name)
		return
	}
	if !v.Defined || !v.Initialized {
		r.errorf(s.NamePos, "use of %q before it is initialized", s.Name)
		return
	}
	if v.VarType != nil && !checkTypeParse(valueType, *v.VarType) {
		r.errorf(s.NamePos, "cannot assign %q to variable of type %q", valueType, *v.VarType)
	}
	s.Slot = v.Slot
	if v.VarType != nil {
		s.ResolvedType = *v.VarType
	}
}

func (r *Resolver) resolveIf(s *ast.StmtIf) {
	for _, branch := range s.Branches {
		r.checkBoolCondition(branch.Cond)
		r.resolveBlock(branch.Body)
	}
	if s.Else != nil {
		r.resolveBlock(s.Else)
	}
}

func (r *Resolver) resolveWhile(s *ast.StmtWhile) {
	r.checkBoolCondition(s.Cond)
	r.resolveBlock(s.Body)
}

// resolveFor gives the init clause its own scope (so the loop counter lives
// for the whole statement) and the body its own nested scope (so any
// variable the body declares is reclaimed every iteration rather than
// growing the stack without bound — the compiler mirrors this by emitting a
// StackShrink at the bottom of the body on every pass through the loop).
func (r *Resolver) resolveFor(s *ast.StmtFor) {
	r.enterScope()
	if s.Init != nil {
		r.resolveStatements([]ast.Stmt{s.Init})
	}
	if s.Cond != nil {
		r.checkBoolCondition(s.Cond)
	}
	r.resolveBlock(s.Body)
	if s.Update != nil {
		r.resolveStmt(s.Update)
	}
	s.ShrinkBy = r.leaveScope()
}

func (r *Resolver) resolveReturn(s *ast.StmtReturn) {
	s.ReturnType = r.currentReturnType
	if s.Value == nil {
		if !r.currentReturnType.IsUnit() {
			r.errorf(s.ReturnTok.Pos, "missing return value; function returns %q", r.currentReturnType)
		}
		return
	}
	valueType := r.resolveExpr(s.Value)
	if !checkTypeParse(valueType, r.currentReturnType) {
		r.errorf(s.Value.Pos(), "cannot convert %q to %q", valueType, r.currentReturnType)
	}
}

func (r *Resolver) checkBoolCondition(cond ast.Expr) {
	t := r.resolveExpr(cond)
	if !t.IsBool() {
		r.errorf(cond.Pos(), "condition must be a bool, got %q", t)
	}
}
