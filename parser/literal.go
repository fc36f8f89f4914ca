package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dr8co/loxinas/ast"
	"github.com/dr8co/loxinas/diag"
	"github.com/dr8co/loxinas/token"
	"github.com/dr8co/loxinas/types"
)

// intSuffixes maps a literal suffix to its integer type, longest suffix
// first so "ue" isn't mistaken for a bare "u".
var intSuffixes = []struct {
	suffix string
	typ    types.IntegerType
}{
	{"ue", types.UExtInt},
	{"us", types.UShort},
	{"ul", types.ULong},
	{"sb", types.SByte},
	{"u", types.UInt},
	{"b", types.Byte},
	{"s", types.Short},
	{"l", types.Long},
	{"e", types.ExtInt},
}

// parseIntLiteral splits tok's literal into digits and a width suffix (the
// lexer has already validated the shape) and parses the digits with
// math/big so that ExtInt/UExtInt values beyond 64 bits are handled
// uniformly with every narrower width.
func (p *Parser) parseIntLiteral(tok token.Token) *ast.ExprLiteral {
	digits := tok.Literal
	it := types.Int
	for _, s := range intSuffixes {
		if strings.HasSuffix(digits, s.suffix) {
			digits = digits[:len(digits)-len(s.suffix)]
			it = s.typ
			break
		}
	}

	n := new(big.Int)
	if _, ok := n.SetString(digits, 10); !ok {
		p.errorfKind(diag.Lexical, tok.Pos, "invalid integer literal %q", tok.Literal)
		return &ast.ExprLiteral{Token: tok, Kind: ast.LitInt, Typ: types.TInt(it)}
	}

	if !fitsWidth(n, it) {
		p.errorfKind(diag.Lexical, tok.Pos, "integer literal %q overflows %s", tok.Literal, it.Keyword())
	}

	lo, hi := bigToLoHi(n)
	return &ast.ExprLiteral{Token: tok, Kind: ast.LitInt, Typ: types.TInt(it), IntLo: lo, IntHi: hi}
}

// fitsWidth reports whether n's magnitude fits in it's bit width, signed or
// unsigned as appropriate.
func fitsWidth(n *big.Int, it types.IntegerType) bool {
	bits := it.Width().Size() * 8
	if it.Signed() {
		max := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		min := new(big.Int).Neg(max)
		max.Sub(max, big.NewInt(1))
		return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	max.Sub(max, big.NewInt(1))
	return n.Sign() >= 0 && n.Cmp(max) <= 0
}

// bigToLoHi reduces n modulo 2^128 and splits it into low/high 64-bit
// words, two's-complement for negative values.
func bigToLoHi(n *big.Int) (lo, hi uint64) {
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	m := new(big.Int).Mod(n, mod)
	bytes := m.FillBytes(make([]byte, 16))
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(bytes[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(bytes[i])
	}
	return lo, hi
}

// parseFloatLiteral splits tok's literal into digits and an optional `f`
// suffix (Float32) defaulting to Double.
func (p *Parser) parseFloatLiteral(tok token.Token) *ast.ExprLiteral {
	digits := tok.Literal
	ft := types.Float64
	if strings.HasSuffix(digits, "f") {
		digits = digits[:len(digits)-1]
		ft = types.Float32
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		p.errorfKind(diag.Lexical, tok.Pos, "invalid float literal %q", tok.Literal)
	}
	if ft == types.Float32 {
		v = float64(float32(v))
	}
	return &ast.ExprLiteral{Token: tok, Kind: ast.LitFloat, Typ: types.TFloat(ft), Float: v}
}

func (p *Parser) parseCharLiteral(tok token.Token) *ast.ExprLiteral {
	runes := []rune(tok.Literal)
	if len(runes) != 1 {
		p.errorfKind(diag.Lexical, tok.Pos, "char literal %q must be exactly one rune", tok.Literal)
		return &ast.ExprLiteral{Token: tok, Kind: ast.LitChar, Typ: types.TChar()}
	}
	return &ast.ExprLiteral{Token: tok, Kind: ast.LitChar, Typ: types.TChar(), Char: runes[0]}
}
