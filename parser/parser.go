// Package parser implements the syntactic analyzer for the Loxinas
// programming language.
//
// The parser takes the token stream the lexer produces and builds the
// node-per-variant AST the resolver and compiler consume. Expressions are
// parsed by a fixed ladder of precedence-level methods (one method per
// precedence class, each calling down into the next-tighter level) rather
// than a Pratt/precedence-table dispatch, since Loxinas's operator set maps
// directly onto such a ladder. Statements and top-level function
// declarations are parsed by ordinary recursive descent.
//
// Parse errors are collected rather than aborting the first syntax error:
// after a bad statement, the parser synchronizes to the next `;` or
// statement-starting keyword and keeps going, so a single `loxc` invocation
// can report every syntax error in the file at once.
package parser

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/diag"
	"github.com/dr8co/loxinas/lexer"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors diag.List
}

// New creates a Parser reading from l and primes the first two tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Errors returns every diagnostic collected during parsing.
func (p *Parser) Errors() diag.List { return p.errors }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) check(t token.Type) bool { return p.cur.Type == t }

func (p *Parser) checkAny(ts ...token.Type) bool {
	for _, t := range ts {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

// match consumes the current token and returns true if it has type t;
// otherwise leaves the token stream untouched.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchAny(ts ...token.Type) bool {
	if p.checkAny(ts...) {
		p.advance()
		return true
	}
	return false
}

// consume requires the current token to have type t, reporting msg as a
// syntax error at the current token's position otherwise.
func (p *Parser) consume(t token.Type, msg string) (token.Token, bool) {
	if p.check(t) {
		tok := p.cur
		p.advance()
		return tok, true
	}
	p.errorf(p.cur.Pos, "%s", msg)
	return token.Token{}, false
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, diag.New(diag.Syntactic, pos, format, args...))
}

// errorfKind reports a diagnostic under an explicit kind, for the handful of
// parser-phase errors (numeric literal overflow, stray suffixes) that
// spec.md classifies as Lexical even though they're caught while parsing a
// literal token rather than while scanning it.
func (p *Parser) errorfKind(kind diag.Kind, pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, diag.New(kind, pos, format, args...))
}

// synchronize discards tokens until a statement boundary, so parsing can
// resume after a syntax error instead of cascading into bogus follow-on
// diagnostics.
func (p *Parser) synchronize() {
	p.advance()
	for !p.check(token.EOF) {
		if p.cur.Type == token.SEMICOLON {
			p.advance()
			return
		}
		switch p.cur.Type {
		case token.IF, token.ELIF, token.ELSE, token.FOR, token.WHILE, token.LET, token.FUNC:
			return
		}
		p.advance()
	}
}

// ParseProgram parses the whole source as a sequence of top-level function
// declarations. Any other top-level statement is a syntax error (Loxinas
// has no global statements besides function declarations).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.check(token.EOF) {
		if !p.check(token.FUNC) {
			p.errorf(p.cur.Pos, "expected a function declaration, got %q", p.cur.Literal)
			p.synchronize()
			continue
		}
		if fn := p.funcDecl(); fn != nil {
			prog.Functions = append(prog.Functions, fn)
		} else {
			p.synchronize()
		}
	}
	return prog
}

// parseTypeTag parses a (possibly `::`-qualified) type name and resolves it
// against the primitive type table. An unresolved qualified name is kept as
// a user-class marker under its joined name; the resolver is what rejects
// it if no matching class exists.
func (p *Parser) parseTypeTag() (types.Type, token.Position, bool) {
	nameTok, ok := p.consume(token.IDENT, "expected type name")
	if !ok {
		return types.Type{}, token.Position{}, false
	}
	name := nameTok.Literal
	pos := nameTok.Pos
	for p.match(token.DCOLON) {
		part, ok := p.consume(token.IDENT, "expected type name")
		if !ok {
			return types.Type{}, token.Position{}, false
		}
		name += "::" + part.Literal
		pos = token.Bind(pos, part.Pos)
	}
	if t, ok := types.LookupPrimitive(name); ok {
		return t, pos, true
	}
	return types.TClass(name), pos, true
}
