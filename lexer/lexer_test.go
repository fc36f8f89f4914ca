package lexer

import (
	"testing"

	"github.com/dr8co/loxinas/token"
)

// TestNextToken exercises the lexer across operators, width-suffixed
// numeric literals, strings (plain and raw), char literals, and the
// `->`/`::` multi-character tokens.
func TestNextToken(t *testing.T) {
	input := `let x: int = 5;
init x = 10b;
func abs(x: int) -> int {
    return x;
}
"foo\nbar"
r"raw\n"
'a'
200b + 100s
a::b
x += 1;
x <= 10 and y >= 2 or not z;
`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "int"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.INIT, "init"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "10b"},
		{token.SEMICOLON, ";"},
		{token.FUNC, "func"},
		{token.IDENT, "abs"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "int"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "int"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.STRING, "foo\nbar"},
		{token.STRING, `raw\n`},
		{token.CHAR, "a"},
		{token.INT, "200b"},
		{token.PLUS, "+"},
		{token.INT, "100s"},
		{token.IDENT, "a"},
		{token.DCOLON, "::"},
		{token.IDENT, "b"},
		{token.IDENT, "x"},
		{token.PLUS_EQ, "+="},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "10"},
		{token.AND, "and"},
		{token.IDENT, "y"},
		{token.GTE, ">="},
		{token.INT, "2"},
		{token.OR, "or"},
		{token.NOT, "not"},
		{token.IDENT, "z"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestFloatSuffixes(t *testing.T) {
	l := New("3.14 2.5f 10 10.0")
	want := []struct {
		typ token.Type
		lit string
	}{
		{token.FLOAT, "3.14"},
		{token.FLOAT, "2.5f"},
		{token.INT, "10"},
		{token.FLOAT, "10.0"},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("tests[%d]: expected {%q %q}, got {%q %q}", i, w.typ, w.lit, tok.Type, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", tok.Type)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL || tok.Literal != "@" {
		t.Fatalf("expected ILLEGAL '@', got %q %q", tok.Type, tok.Literal)
	}
}
