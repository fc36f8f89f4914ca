package ast

import (
	"testing"

	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

func TestExprPositionsSpanChildren(t *testing.T) {
	left := &ExprLiteral{Token: token.Token{Pos: token.Position{StartLine: 1, StartCol: 0, EndLine: 1, EndCol: 1}}}
	right := &ExprLiteral{Token: token.Token{Pos: token.Position{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 5}}}
	bin := &ExprBinary{Op: token.Token{Type: token.PLUS}, Left: left, Right: right}

	pos := bin.Pos()
	if pos.StartCol != 0 || pos.EndCol != 5 {
		t.Fatalf("expected span [0,5), got [%d,%d)", pos.StartCol, pos.EndCol)
	}
}

func TestStmtIfPositionUsesElseWhenPresent(t *testing.T) {
	ifTok := token.Token{Pos: token.Position{StartLine: 1, StartCol: 0, EndLine: 1, EndCol: 2}}
	body := &StmtBlock{
		LBrace: token.Token{Pos: token.Position{StartLine: 1, StartCol: 3, EndLine: 1, EndCol: 4}},
		RBrace: token.Token{Pos: token.Position{StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 6}},
	}
	elseBody := &StmtBlock{
		LBrace: token.Token{Pos: token.Position{StartLine: 2, StartCol: 0, EndLine: 2, EndCol: 1}},
		RBrace: token.Token{Pos: token.Position{StartLine: 2, StartCol: 8, EndLine: 2, EndCol: 9}},
	}
	stmt := &StmtIf{
		IfTok:    ifTok,
		Branches: []CondBranch{{Cond: &ExprVariable{Name: "x"}, Body: body}},
		Else:     elseBody,
	}

	pos := stmt.Pos()
	if pos.EndLine != 2 || pos.EndCol != 9 {
		t.Fatalf("expected position to extend through else block, got %+v", pos)
	}
}

func TestExprLiteralCarriesOwnType(t *testing.T) {
	lit := &ExprLiteral{Kind: LitInt, Typ: types.TInt(types.Byte), IntLo: 200}
	if !lit.Typ.Equal(types.TInt(types.Byte)) {
		t.Fatalf("expected literal type Byte, got %v", lit.Typ)
	}
}
