package resolver

import (
	"strings"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// FuncKind distinguishes a mangled user function from a builtin spliced
// inline by the compiler as a SpecialFunction opcode (spec.md's
// print/println, supplemented per SPEC_FULL.md §4.1).
type FuncKind int

const (
	FuncNormal FuncKind = iota
	FuncBuiltin
)

// FuncRecord is one resolved function signature, keyed by its mangled
// Symbol. Builtins have no Symbol (the compiler emits them inline) but
// still carry Name/Params for call resolution.
type FuncRecord struct {
	Name       string
	Params     []types.Type
	ReturnType types.Type
	Symbol     string
	Kind       FuncKind
}

// registerBuiltins seeds the function table with print/println, the only
// builtins SPEC_FULL.md's §4.1 supplement allows: each accepts exactly one
// argument of any non-Unit, non-object-other-than-String type, and println
// also accepts no argument at all.
func (r *Resolver) registerBuiltins() {
	for _, name := range []string{"print", "println"} {
		rec := &FuncRecord{Name: name, Kind: FuncBuiltin, ReturnType: types.TUnit()}
		r.funcsByName[name] = append(r.funcsByName[name], rec)
	}
}

// mangle renders a function's linker symbol per spec.md §4.6:
// `name#param1#param2$return`, types rendered by their lowercase keyword.
func mangle(name string, params []types.Type, ret types.Type) string {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range params {
		b.WriteByte('#')
		b.WriteString(p.Keyword())
	}
	b.WriteByte('$')
	b.WriteString(ret.Keyword())
	return b.String()
}

// overloadPrefix is the part of a mangled symbol before the final `$`,
// used to detect duplicate overloads per spec.md §4.6 ("two overloads are
// duplicates if their pre-$ prefixes match").
func overloadPrefix(symbol string) string {
	if i := strings.LastIndexByte(symbol, '$'); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// registerFunctions predefines every top-level function's signature before
// any body is resolved, so forward references and recursion work, and
// assigns each its mangled Symbol.
func (r *Resolver) registerFunctions(prog *ast.Program) {
	sawMain := false
	prefixes := make(map[string]token.Position)

	for _, fn := range prog.Functions {
		ret := types.TUnit()
		if fn.ReturnType != nil {
			ret = *fn.ReturnType
		}
		params := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}

		if fn.Name == "main" {
			if sawMain {
				r.errorf(fn.NamePos, "'main' may not be overloaded")
				continue
			}
			sawMain = true
			if len(fn.Params) != 0 {
				r.errorf(fn.NamePos, "'main' must not take parameters")
			}
			if fn.ReturnType != nil && !fn.ReturnType.IsUnit() {
				r.errorf(fn.NamePos, "'main' must return unit")
			}
			fn.Symbol = "main$unit"
			rec := &FuncRecord{Name: "main", Params: params, ReturnType: types.TUnit(), Symbol: fn.Symbol, Kind: FuncNormal}
			r.funcs[fn.Symbol] = rec
			r.funcsByName[fn.Name] = append(r.funcsByName[fn.Name], rec)
			continue
		}

		symbol := mangle(fn.Name, params, ret)
		prefix := overloadPrefix(symbol)
		if prevPos, dup := prefixes[prefix]; dup {
			r.errorf(fn.NamePos, "duplicate overload of %q (first declared at line %d)", fn.Name, prevPos.StartLine)
			continue
		}
		prefixes[prefix] = fn.NamePos
		fn.Symbol = symbol

		rec := &FuncRecord{Name: fn.Name, Params: params, ReturnType: ret, Symbol: symbol, Kind: FuncNormal}
		r.funcs[symbol] = rec
		r.funcsByName[fn.Name] = append(r.funcsByName[fn.Name], rec)
	}
}

// resolveCall type-checks a call expression against the function table,
// picking the overload whose parameter types the argument types each match
// exactly.
func (r *Resolver) resolveCall(e *ast.ExprCall) types.Type {
	argTypes := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = r.resolveExpr(arg)
	}

	candidates, ok := r.funcsByName[e.Callee]
	if !ok {
		r.errorf(e.CalleePos, "undefined function %q", e.Callee)
		return types.TUnit()
	}

	if candidates[0].Kind == FuncBuiltin {
		if e.Callee == "println" && len(e.Args) == 0 {
			e.Symbol = ""
			return types.TUnit()
		}
		if len(e.Args) != 1 {
			r.errorf(e.CalleePos, "%q takes exactly one argument", e.Callee)
			return types.TUnit()
		}
		argType := argTypes[0]
		if argType.IsUnit() || (argType.IsObject() && !argType.IsString()) {
			r.errorf(e.CalleePos, "cannot pass a value of type %q to %q", argType, e.Callee)
		}
		e.Symbol = ""
		return types.TUnit()
	}

	// Overload candidates are matched by exact argument-type equality, not
	// by checkTypeParse's wider let/init/assign compatibility: the latter
	// allows any numeric type to convert to any other, which would make
	// nearly every numeric overload ambiguous for a bare literal argument.
	var match *FuncRecord
	ambiguous := false
	for _, cand := range candidates {
		if len(cand.Params) != len(argTypes) {
			continue
		}
		fits := true
		for i, pt := range cand.Params {
			if !argTypes[i].Equal(pt) {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}
		if match != nil {
			ambiguous = true
			break
		}
		match = cand
	}

	if ambiguous {
		r.errorf(e.CalleePos, "ambiguous call to overloaded function %q", e.Callee)
		return types.TUnit()
	}
	if match == nil {
		r.errorf(e.CalleePos, "no matching overload of %q for the given arguments", e.Callee)
		return types.TUnit()
	}

	e.Symbol = match.Symbol
	return match.ReturnType
}
