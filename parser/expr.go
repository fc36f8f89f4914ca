package parser

import (
	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// parseExpression is the entry point of the precedence ladder:
// logicOr -> logicAnd -> equality -> comparison -> binaryShift -> binaryBit
// -> term -> factor -> power -> unary -> asCast -> primary.
func (p *Parser) parseExpression() ast.Expr {
	return p.logicOr()
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.check(token.OR) {
		op := p.cur
		p.advance()
		right := p.logicAnd()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.check(token.AND) {
		op := p.cur
		p.advance()
		right := p.equality()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.checkAny(token.EQ, token.NOT_EQ) {
		op := p.cur
		p.advance()
		right := p.comparison()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.binaryShift()
	for p.checkAny(token.LT, token.LTE, token.GT, token.GTE) {
		op := p.cur
		p.advance()
		right := p.binaryShift()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) binaryShift() ast.Expr {
	expr := p.binaryBit()
	for p.checkAny(token.SHL, token.SHR) {
		op := p.cur
		p.advance()
		right := p.binaryBit()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) binaryBit() ast.Expr {
	expr := p.term()
	for p.checkAny(token.PIPE, token.AMP, token.CARET) {
		op := p.cur
		p.advance()
		right := p.term()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.checkAny(token.PLUS, token.MINUS) {
		op := p.cur
		p.advance()
		right := p.factor()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.power()
	for p.checkAny(token.STAR, token.SLASH, token.PERCENT) {
		op := p.cur
		p.advance()
		right := p.power()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) power() ast.Expr {
	expr := p.unary()
	for p.check(token.POWER) {
		op := p.cur
		p.advance()
		right := p.unary()
		expr = &ast.ExprBinary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.checkAny(token.MINUS, token.TILDE, token.NOT) {
		op := p.cur
		p.advance()
		operand := p.unary()
		return &ast.ExprUnary{Op: op, Operand: operand}
	}
	return p.asCast()
}

func (p *Parser) asCast() ast.Expr {
	expr := p.primary()
	for p.check(token.AS) {
		asTok := p.cur
		p.advance()
		target, targetPos, ok := p.parseTypeTag()
		if !ok {
			return expr
		}
		expr = &ast.ExprAs{Inner: expr, AsTok: asTok, Target: target, TargetPos: targetPos}
	}
	return expr
}

func (p *Parser) primary() ast.Expr {
	switch p.cur.Type {
	case token.TRUE:
		lit := &ast.ExprLiteral{Token: p.cur, Kind: ast.LitBool, Typ: types.TBool(), Bool: true}
		p.advance()
		return lit
	case token.FALSE:
		lit := &ast.ExprLiteral{Token: p.cur, Kind: ast.LitBool, Typ: types.TBool(), Bool: false}
		p.advance()
		return lit
	case token.INT:
		lit := p.parseIntLiteral(p.cur)
		p.advance()
		return lit
	case token.FLOAT:
		lit := p.parseFloatLiteral(p.cur)
		p.advance()
		return lit
	case token.CHAR:
		lit := p.parseCharLiteral(p.cur)
		p.advance()
		return lit
	case token.STRING:
		lit := &ast.ExprLiteral{Token: p.cur, Kind: ast.LitString, Typ: types.TString(), String: p.cur.Literal}
		p.advance()
		return lit
	case token.LPAREN:
		lparen := p.cur
		p.advance()
		inner := p.parseExpression()
		rparen, ok := p.consume(token.RPAREN, "expected ')' after expression")
		if !ok {
			rparen = p.cur
		}
		return &ast.ExprGrouping{LParen: lparen, Inner: inner, RParen: rparen}
	case token.IDENT:
		name := p.cur
		p.advance()
		if p.check(token.LPAREN) {
			return p.finishCall(name)
		}
		return &ast.ExprVariable{Token: name, Name: name.Literal}
	default:
		p.errorf(p.cur.Pos, "unexpected token %q in expression", p.cur.Literal)
		bad := &ast.ExprLiteral{Token: p.cur, Kind: ast.LitBool}
		p.advance()
		return bad
	}
}

func (p *Parser) finishCall(name token.Token) ast.Expr {
	p.advance() // consume '('
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		args = append(args, p.parseExpression())
		for p.match(token.COMMA) {
			args = append(args, p.parseExpression())
		}
	}
	rparen, ok := p.consume(token.RPAREN, "expected ')' after call arguments")
	if !ok {
		rparen = p.cur
	}
	return &ast.ExprCall{Callee: name.Literal, CalleePos: name.Pos, Args: args, RParen: rparen}
}
