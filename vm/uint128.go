package vm

import (
	"math/big"
	"math/bits"
)

// uint128 is a fixed-width, two's-complement, wrapping 128-bit integer: the
// representation `ExtInt`/`UExtInt` values take on the byte stack. No pack
// library offers one (math/big.Int is arbitrary-precision and never wraps),
// so wrapping add/sub/mul are built directly on math/bits' carry-propagating
// primitives, the same way the five other integer widths are — this is just
// the one that happens to need two 64-bit limbs instead of one machine word.
type uint128 struct {
	lo, hi uint64
}

func u128FromBytes(b []byte) uint128 {
	return uint128{
		lo: leUint64(b[0:8]),
		hi: leUint64(b[8:16]),
	}
}

func (u uint128) bytes() [16]byte {
	var b [16]byte
	putLeUint64(b[0:8], u.lo)
	putLeUint64(b[8:16], u.hi)
	return b
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putLeUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}

func (u uint128) add(v uint128) uint128 {
	lo, carry := bits.Add64(u.lo, v.lo, 0)
	hi, _ := bits.Add64(u.hi, v.hi, carry)
	return uint128{lo, hi}
}

func (u uint128) sub(v uint128) uint128 {
	lo, borrow := bits.Sub64(u.lo, v.lo, 0)
	hi, _ := bits.Sub64(u.hi, v.hi, borrow)
	return uint128{lo, hi}
}

func (u uint128) neg() uint128 {
	return uint128{}.sub(u)
}

func (u uint128) mul(v uint128) uint128 {
	hi, lo := bits.Mul64(u.lo, v.lo)
	hi += u.lo*v.hi + u.hi*v.lo
	return uint128{lo, hi}
}

func (u uint128) and(v uint128) uint128 { return uint128{u.lo & v.lo, u.hi & v.hi} }
func (u uint128) or(v uint128) uint128  { return uint128{u.lo | v.lo, u.hi | v.hi} }
func (u uint128) xor(v uint128) uint128 { return uint128{u.lo ^ v.lo, u.hi ^ v.hi} }
func (u uint128) not() uint128          { return uint128{^u.lo, ^u.hi} }

func (u uint128) isZero() bool     { return u.lo == 0 && u.hi == 0 }
func (u uint128) isNegative() bool { return u.hi>>63 == 1 }

// cmpU compares u and v as unsigned 128-bit integers.
func (u uint128) cmpU(v uint128) int {
	if u.hi != v.hi {
		if u.hi < v.hi {
			return -1
		}
		return 1
	}
	if u.lo != v.lo {
		if u.lo < v.lo {
			return -1
		}
		return 1
	}
	return 0
}

// cmpS compares u and v as signed (two's complement) 128-bit integers.
func (u uint128) cmpS(v uint128) int {
	un, vn := u.isNegative(), v.isNegative()
	if un != vn {
		if un {
			return -1
		}
		return 1
	}
	return u.cmpU(v)
}

// shl is Rust's wrapping_shl: the count is taken modulo the type's bit
// width (128), never an actual overflow-to-zero shift.
func (u uint128) shl(n uint) uint128 {
	n %= 128
	switch {
	case n == 0:
		return u
	case n >= 64:
		return uint128{0, u.lo << (n - 64)}
	default:
		return uint128{u.lo << n, u.hi<<n | u.lo>>(64-n)}
	}
}

// shrU is Rust's unsigned wrapping_shr.
func (u uint128) shrU(n uint) uint128 {
	n %= 128
	switch {
	case n == 0:
		return u
	case n >= 64:
		return uint128{u.hi >> (n - 64), 0}
	default:
		return uint128{u.lo>>n | u.hi<<(64-n), u.hi >> n}
	}
}

// shrS is an arithmetic (sign-propagating) wrapping_shr.
func (u uint128) shrS(n uint) uint128 {
	if !u.isNegative() {
		return u.shrU(n)
	}
	n %= 128
	if n == 0 {
		return u
	}
	shifted := u.shrU(n)
	ones := uint128{^uint64(0), ^uint64(0)}.shl(128 - n)
	return shifted.or(ones)
}

func (u uint128) toBigInt(signed bool) *big.Int {
	b := u.bytes()
	be := make([]byte, 16)
	for i := range b {
		be[i] = b[15-i]
	}
	v := new(big.Int).SetBytes(be)
	if signed && u.isNegative() {
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		v.Sub(v, mod)
	}
	return v
}

func u128FromBigInt(v *big.Int) uint128 {
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	v = new(big.Int).Mod(v, mod)
	be := v.FillBytes(make([]byte, 16))
	var le [16]byte
	for i := range be {
		le[i] = be[15-i]
	}
	return u128FromBytes(le[:])
}

func (u uint128) divU(v uint128) (uint128, bool) {
	if v.isZero() {
		return uint128{}, false
	}
	q := new(big.Int).Div(u.toBigInt(false), v.toBigInt(false))
	return u128FromBigInt(q), true
}

func (u uint128) modU(v uint128) (uint128, bool) {
	if v.isZero() {
		return uint128{}, false
	}
	m := new(big.Int).Mod(u.toBigInt(false), v.toBigInt(false))
	return u128FromBigInt(m), true
}

func (u uint128) divS(v uint128) (uint128, bool) {
	if v.isZero() {
		return uint128{}, false
	}
	q := new(big.Int).Quo(u.toBigInt(true), v.toBigInt(true))
	return u128FromBigInt(q), true
}

func (u uint128) modS(v uint128) (uint128, bool) {
	if v.isZero() {
		return uint128{}, false
	}
	r := new(big.Int).Rem(u.toBigInt(true), v.toBigInt(true))
	return u128FromBigInt(r), true
}

func (u uint128) toFloat64(signed bool) float64 {
	f := new(big.Float).SetInt(u.toBigInt(signed))
	v, _ := f.Float64()
	return v
}

func u128FromFloat64(v float64, signed bool) uint128 {
	bf := new(big.Float).SetFloat64(v)
	bi, _ := bf.Int(nil)
	if !signed && bi.Sign() < 0 {
		bi.SetInt64(0)
	}
	return u128FromBigInt(bi)
}
