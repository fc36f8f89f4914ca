package parser

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// statement parses a single statement inside a function body.
func (p *Parser) statement() ast.Stmt {
	switch p.cur.Type {
	case token.LET:
		return p.letStmt()
	case token.INIT:
		return p.initStmt()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.FOR:
		return p.forStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.LBRACE:
		return p.block()
	default:
		if p.check(token.IDENT) && p.isAssignAhead() {
			return p.assignStmt()
		}
		return p.exprStmt()
	}
}

// isAssignAhead reports whether the upcoming tokens are `ident <assign-op>`,
// distinguishing a bare assignment statement from an expression statement
// that merely starts with an identifier.
func (p *Parser) isAssignAhead() bool {
	switch p.peek.Type {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PCT_EQ, token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ:
		return true
	default:
		return false
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	x := p.parseExpression()
	semi, _ := p.consume(token.SEMICOLON, "expected ';' after statement")
	return &ast.StmtExpr{X: x, Semi: semi}
}

func (p *Parser) assignStmt() ast.Stmt {
	name := p.cur
	p.advance()
	op := p.cur
	p.advance()
	value := p.parseExpression()
	semi, _ := p.consume(token.SEMICOLON, "expected ';' after statement")
	return &ast.StmtAssign{Name: name.Literal, NamePos: name.Pos, Op: op, Value: value, Semi: semi}
}

func (p *Parser) letStmt() ast.Stmt {
	letTok := p.cur
	p.advance()
	isRef := p.match(token.REF)
	nameTok, ok := p.consume(token.IDENT, "expected variable name")
	if !ok {
		return nil
	}

	var varType *types.Type
	if p.match(token.COLON) {
		t, _, ok := p.parseTypeTag()
		if ok {
			varType = &t
		}
	}

	var init ast.Expr
	if p.match(token.ASSIGN) {
		init = p.parseExpression()
	}

	semi, _ := p.consume(token.SEMICOLON, "expected ';' after statement")
	return &ast.StmtLet{
		LetTok: letTok, Name: nameTok.Literal, NamePos: nameTok.Pos,
		VarType: varType, IsRef: isRef, Init: init, Semi: semi,
	}
}

func (p *Parser) initStmt() ast.Stmt {
	p.advance() // consume 'init'
	nameTok, ok := p.consume(token.IDENT, "expected variable name")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.ASSIGN, "expected '='"); !ok {
		return nil
	}
	init := p.parseExpression()
	semi, _ := p.consume(token.SEMICOLON, "expected ';' after statement")
	return &ast.StmtInit{Name: nameTok.Literal, NamePos: nameTok.Pos, Init: init, Semi: semi}
}

func (p *Parser) block() *ast.StmtBlock {
	lbrace, _ := p.consume(token.LBRACE, "expected '{'")
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if s := p.statement(); s != nil {
			stmts = append(stmts, s)
		} else {
			p.synchronize()
		}
	}
	rbrace, _ := p.consume(token.RBRACE, "expected '}'")
	return &ast.StmtBlock{LBrace: lbrace, Statements: stmts, RBrace: rbrace}
}

func (p *Parser) ifStmt() ast.Stmt {
	ifTok := p.cur
	p.advance()
	cond := p.parseExpression()
	body := p.block()
	branches := []ast.CondBranch{{Cond: cond, Body: body}}

	for p.check(token.ELIF) {
		p.advance()
		c := p.parseExpression()
		b := p.block()
		branches = append(branches, ast.CondBranch{Cond: c, Body: b})
	}

	var elseBody *ast.StmtBlock
	if p.match(token.ELSE) {
		elseBody = p.block()
	}

	return &ast.StmtIf{IfTok: ifTok, Branches: branches, Else: elseBody}
}

func (p *Parser) whileStmt() ast.Stmt {
	whileTok := p.cur
	p.advance()
	cond := p.parseExpression()
	body := p.block()
	return &ast.StmtWhile{WhileTok: whileTok, Cond: cond, Body: body}
}

func (p *Parser) forStmt() ast.Stmt {
	forTok := p.cur
	p.advance()
	_, _ = p.consume(token.LPAREN, "expected '(' after 'for'")

	var init ast.Stmt
	if !p.check(token.SEMICOLON) {
		if p.check(token.LET) {
			init = p.letStmt()
		} else {
			init = p.exprStmt()
		}
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.parseExpression()
	}
	_, _ = p.consume(token.SEMICOLON, "expected ';' after loop condition")

	var update ast.Stmt
	if !p.check(token.RPAREN) {
		if p.check(token.IDENT) && p.isAssignAhead() {
			name := p.cur
			p.advance()
			op := p.cur
			p.advance()
			value := p.parseExpression()
			update = &ast.StmtAssign{Name: name.Literal, NamePos: name.Pos, Op: op, Value: value}
		} else {
			update = &ast.StmtExpr{X: p.parseExpression()}
		}
	}
	_, _ = p.consume(token.RPAREN, "expected ')' after for clauses")

	body := p.block()
	return &ast.StmtFor{ForTok: forTok, Init: init, Cond: cond, Update: update, Body: body}
}

func (p *Parser) returnStmt() ast.Stmt {
	returnTok := p.cur
	p.advance()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.parseExpression()
	}
	semi, _ := p.consume(token.SEMICOLON, "expected ';' after statement")
	return &ast.StmtReturn{ReturnTok: returnTok, Value: value, Semi: semi}
}

// funcDecl parses `func name(params) [-> T] { body }`.
func (p *Parser) funcDecl() *ast.StmtFunc {
	funcTok := p.cur
	p.advance()
	nameTok, ok := p.consume(token.IDENT, "expected function name")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.LPAREN, "expected '(' after function name"); !ok {
		return nil
	}

	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			isRef := p.match(token.REF)
			pname, ok := p.consume(token.IDENT, "expected parameter name")
			if !ok {
				return nil
			}
			if _, ok := p.consume(token.COLON, "expected ':' after parameter name"); !ok {
				return nil
			}
			ptype, _, ok := p.parseTypeTag()
			if !ok {
				return nil
			}
			params = append(params, ast.Param{Name: pname.Literal, NamePos: pname.Pos, Type: ptype, IsRef: isRef})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RPAREN, "expected ')' after parameters"); !ok {
		return nil
	}

	var retType *types.Type
	if p.match(token.ARROW) {
		t, _, ok := p.parseTypeTag()
		if ok {
			retType = &t
		}
	}

	body := p.block()
	return &ast.StmtFunc{
		FuncTok: funcTok, Name: nameTok.Literal, NamePos: nameTok.Pos,
		Params: params, ReturnType: retType, Body: body,
	}
}
