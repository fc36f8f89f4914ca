package vm

import (
	"math"
	"math/big"

	"github.com/dr8co/loxinas/code"
)

// --- plain 64-bit operators ----------------------------------------------
//
// Every fixed-width (Byte/Word/Dword/Qword) arithmetic/bitwise op is decoded
// into a uint64 container, computed with Go's built-in operators, and
// re-encoded into its own width; Go never panics on signed overflow for
// +, -, *, / (the spec guarantees wraparound, not an exception), so no
// width-specific overflow handling is needed here. The container truncation
// on encode reproduces exact-width wrapping for all widths evenly dividing
// 64 bits.

func intAdd(a, b uint64) uint64 { return a + b }
func intSub(a, b uint64) uint64 { return a - b }
func intMul(a, b uint64) uint64 { return a * b }
func intAnd(a, b uint64) uint64 { return a & b }
func intOr(a, b uint64) uint64  { return a | b }
func intXor(a, b uint64) uint64 { return a ^ b }
func intNeg(a uint64) uint64    { return -a }
func intNot(a uint64) uint64    { return ^a }

func u128Add(a, b uint128) uint128 { return a.add(b) }
func u128Sub(a, b uint128) uint128 { return a.sub(b) }
func u128Mul(a, b uint128) uint128 { return a.mul(b) }
func u128And(a, b uint128) uint128 { return a.and(b) }
func u128Or(a, b uint128) uint128  { return a.or(b) }
func u128Xor(a, b uint128) uint128 { return a.xor(b) }
func u128Neg(a uint128) uint128    { return a.neg() }
func u128Not(a uint128) uint128    { return a.not() }

// execIntBinary dispatches one of the five-wide IAdd/ISub/IMul/IAnd/IOr/IXor
// families. Widths Byte..Qword go through fn in a uint64 container; Oword
// goes through fn128, since math/big.Int can't wrap and a 128-bit value
// needs two 64-bit limbs to do it directly (see uint128.go).
func (v *VM) execIntBinary(op, base code.Opcode, ip int, fn func(a, b uint64) uint64, fn128 func(a, b uint128) uint128) (int, bool, error) {
	idx := widthIndexOf(op, base)
	if idx == 4 {
		b := u128FromBytes(v.pop(16))
		a := u128FromBytes(v.pop(16))
		res := fn128(a, b)
		bs := res.bytes()
		v.push(bs[:])
		return ip, false, nil
	}
	w := widthSizes[idx]
	b := decodeUint(v.pop(w))
	a := decodeUint(v.pop(w))
	v.push(encodeUint(fn(a, b), w))
	return ip, false, nil
}

func (v *VM) execIntUnary(op, base code.Opcode, ip int, fn func(uint64) uint64, fn128 func(uint128) uint128) (int, bool, error) {
	idx := widthIndexOf(op, base)
	if idx == 4 {
		a := u128FromBytes(v.pop(16))
		res := fn128(a)
		bs := res.bytes()
		v.push(bs[:])
		return ip, false, nil
	}
	w := widthSizes[idx]
	a := decodeUint(v.pop(w))
	v.push(encodeUint(fn(a), w))
	return ip, false, nil
}

// execIntDivMod implements IDivS/IDivU/IModS/IModU. Go's / and % never
// overflow-panic for signed integers either (the MinInt64/-1 case wraps to
// MinInt64, matching wrapping_div); only a zero divisor needs an explicit
// check, since Go panics on that but spec.md reports it as a runtime error
// rather than a crash.
func (v *VM) execIntDivMod(op, base code.Opcode, ip int, signed, isMod bool) (int, bool, error) {
	idx := widthIndexOf(op, base)
	if idx == 4 {
		b := u128FromBytes(v.pop(16))
		a := u128FromBytes(v.pop(16))
		var res uint128
		var ok bool
		switch {
		case signed && isMod:
			res, ok = a.modS(b)
		case signed && !isMod:
			res, ok = a.divS(b)
		case !signed && isMod:
			res, ok = a.modU(b)
		default:
			res, ok = a.divU(b)
		}
		if !ok {
			return 0, false, v.runtimeErr("division by zero")
		}
		bs := res.bytes()
		v.push(bs[:])
		return ip, false, nil
	}

	w := widthSizes[idx]
	braw := decodeUint(v.pop(w))
	araw := decodeUint(v.pop(w))
	if braw == 0 {
		return 0, false, v.runtimeErr("division by zero")
	}

	var result uint64
	if signed {
		a := signExtend(araw, w)
		b := signExtend(braw, w)
		if isMod {
			result = uint64(a % b)
		} else {
			result = uint64(a / b)
		}
	} else {
		if isMod {
			result = araw % braw
		} else {
			result = araw / braw
		}
	}
	v.push(encodeUint(result, w))
	return ip, false, nil
}

// --- shifts ---------------------------------------------------------------
//
// shiftLeft/shiftRightSigned/shiftRightUnsigned mirror Rust's wrapping_shl/
// wrapping_shr: the shift count is always taken modulo the operand's own bit
// width (never the container's), so a count equal to or past the width
// doesn't zero the value the way Go's native << would.

func shiftLeft(raw uint64, count uint, width int) uint64 {
	n := count % uint(width*8)
	return raw << n
}

func shiftRightUnsigned(raw uint64, count uint, width int) uint64 {
	n := count % uint(width*8)
	return raw >> n
}

func shiftRightSigned(raw uint64, count uint, width int) uint64 {
	n := count % uint(width*8)
	return uint64(signExtend(raw, width) >> n)
}

func u128Shl(u uint128, n uint) uint128  { return u.shl(n) }
func u128ShrS(u uint128, n uint) uint128 { return u.shrS(n) }
func u128ShrU(u uint128, n uint) uint128 { return u.shrU(n) }

// execShift implements Shl/ShrS/ShrU: the shift count is always a Byte,
// regardless of the shifted value's own width.
func (v *VM) execShift(op, base code.Opcode, ip int, fn func(raw uint64, count uint, width int) uint64, fn128 func(u uint128, n uint) uint128) (int, bool, error) {
	idx := widthIndexOf(op, base)
	count := uint(v.pop(1)[0])
	if idx == 4 {
		val := u128FromBytes(v.pop(16))
		res := fn128(val, count%128)
		bs := res.bytes()
		v.push(bs[:])
		return ip, false, nil
	}
	w := widthSizes[idx]
	raw := decodeUint(v.pop(w))
	v.push(encodeUint(fn(raw, count, w), w))
	return ip, false, nil
}

// --- integer comparisons ---------------------------------------------------

func (v *VM) execIntCompare(op, base code.Opcode, ip int, signed bool, pred func(cmp int) bool) (int, bool, error) {
	idx := widthIndexOf(op, base)
	if idx == 4 {
		b := u128FromBytes(v.pop(16))
		a := u128FromBytes(v.pop(16))
		var cmp int
		if signed {
			cmp = a.cmpS(b)
		} else {
			cmp = a.cmpU(b)
		}
		v.pushBool(pred(cmp))
		return ip, false, nil
	}

	w := widthSizes[idx]
	braw := decodeUint(v.pop(w))
	araw := decodeUint(v.pop(w))
	var cmp int
	if signed {
		a, b := signExtend(araw, w), signExtend(braw, w)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		switch {
		case araw < braw:
			cmp = -1
		case araw > braw:
			cmp = 1
		}
	}
	v.pushBool(pred(cmp))
	return ip, false, nil
}

// --- float arithmetic -------------------------------------------------
//
// base is always the Float member of a Float/Double pair (op == base
// selects the 4-byte Float32 path, anything else in the pair is Double).

func (v *VM) execFloatBinary(op, base code.Opcode, ip int, fn func(a, b float64) float64) (int, bool, error) {
	if op == base {
		b := math.Float32frombits(uint32(decodeUint(v.pop(4))))
		a := math.Float32frombits(uint32(decodeUint(v.pop(4))))
		res := float32(fn(float64(a), float64(b)))
		v.push(encodeUint(uint64(math.Float32bits(res)), 4))
		return ip, false, nil
	}
	b := math.Float64frombits(decodeUint(v.pop(8)))
	a := math.Float64frombits(decodeUint(v.pop(8)))
	v.push(encodeUint(math.Float64bits(fn(a, b)), 8))
	return ip, false, nil
}

func (v *VM) execFloatCompare(op, base code.Opcode, ip int, pred func(a, b float64) bool) (int, bool, error) {
	if op == base {
		b := math.Float32frombits(uint32(decodeUint(v.pop(4))))
		a := math.Float32frombits(uint32(decodeUint(v.pop(4))))
		v.pushBool(pred(float64(a), float64(b)))
		return ip, false, nil
	}
	b := math.Float64frombits(decodeUint(v.pop(8)))
	a := math.Float64frombits(decodeUint(v.pop(8)))
	v.pushBool(pred(a, b))
	return ip, false, nil
}

func (v *VM) execFloatUnary(op, base code.Opcode, ip int, fn func(a float64) float64) (int, bool, error) {
	if op == base {
		a := math.Float32frombits(uint32(decodeUint(v.pop(4))))
		res := float32(fn(float64(a)))
		v.push(encodeUint(uint64(math.Float32bits(res)), 4))
		return ip, false, nil
	}
	a := math.Float64frombits(decodeUint(v.pop(8)))
	v.push(encodeUint(math.Float64bits(fn(a)), 8))
	return ip, false, nil
}

// --- widening/narrowing -----------------------------------------------
//
// The byte stack is little-endian, so a value's most significant byte sits
// at the current top. Zero/sign-extend append new high bytes on top;
// truncate pops the current high bytes off, leaving the low bytes in place
// as the narrower result — no shifting of the kept bytes is needed.

func (v *VM) execZeroExtend(op code.Opcode, ip int) (int, bool, error) {
	idx := int(op - code.OpZeroExtendByteToWord)
	n := widthSizes[idx] // bytes appended: 1, 2, 4, 8
	v.push(make([]byte, n))
	return ip, false, nil
}

func (v *VM) execSignExtend(op code.Opcode, ip int) (int, bool, error) {
	idx := int(op - code.OpSignExtendByteToWord)
	n := widthSizes[idx]
	top := v.peek(1)[0]
	fill := byte(0x00)
	if top&0x80 != 0 {
		fill = 0xFF
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	v.push(b)
	return ip, false, nil
}

func (v *VM) execTruncate(op code.Opcode, ip int) (int, bool, error) {
	idx := int(op - code.OpTruncateWordToByte)
	n := widthSizes[idx] // bytes dropped: 1, 2, 4, 8
	v.pop(n)
	return ip, false, nil
}

// --- integer <-> float conversions --------------------------------------
//
// Only Short/UShort, Long/ULong, and ExtInt/UExtInt convert directly to or
// from a float; a Byte/SByte or Int/UInt operand goes through a widening
// conversion first (the compiler's `as`-cast lowering inserts it), so the
// VM only ever sees these three representation widths here.

func (v *VM) execIntToFloat(op code.Opcode, ip int) (int, bool, error) {
	idx := int(op - code.OpConvertSWordToFloat)
	toDouble := idx >= 6
	idx2 := idx % 6
	repIdx := idx2 / 2 // 0 = Word, 1 = Qword, 2 = Oword
	signed := idx2%2 == 0

	var f64 float64
	switch repIdx {
	case 0:
		raw := decodeUint(v.pop(2))
		if signed {
			f64 = float64(int16(raw))
		} else {
			f64 = float64(uint16(raw))
		}
	case 1:
		raw := decodeUint(v.pop(8))
		if signed {
			f64 = float64(int64(raw))
		} else {
			f64 = float64(raw)
		}
	default:
		u := u128FromBytes(v.pop(16))
		f64 = u.toFloat64(signed)
	}

	if toDouble {
		v.push(encodeUint(math.Float64bits(f64), 8))
	} else {
		v.push(encodeUint(uint64(math.Float32bits(float32(f64))), 4))
	}
	return ip, false, nil
}

// floatToIntSat converts f to a bitSize-bit (signed or unsigned) integer,
// saturating on overflow and mapping NaN to zero, matching Rust's `as`
// numeric-cast semantics (the behavior OpConvertFloatTo* compiles down to).
// The result is returned as a uint128 so every width shares one path; the
// caller keeps only the low bitSize/8 bytes.
func floatToIntSat(f float64, bitSize int, signed bool) uint128 {
	if math.IsNaN(f) {
		return uint128{}
	}

	var minV, maxV *big.Int
	one := big.NewInt(1)
	if signed {
		maxV = new(big.Int).Sub(new(big.Int).Lsh(one, uint(bitSize-1)), one)
		minV = new(big.Int).Neg(new(big.Int).Lsh(one, uint(bitSize-1)))
	} else {
		maxV = new(big.Int).Sub(new(big.Int).Lsh(one, uint(bitSize)), one)
		minV = big.NewInt(0)
	}

	if math.IsInf(f, 1) {
		return u128FromBigInt(maxV)
	}
	if math.IsInf(f, -1) {
		return u128FromBigInt(minV)
	}

	bi, _ := new(big.Float).SetFloat64(f).Int(nil) // truncates toward zero
	if bi.Cmp(maxV) > 0 {
		bi = maxV
	}
	if bi.Cmp(minV) < 0 {
		bi = minV
	}
	return u128FromBigInt(bi)
}

func (v *VM) execFloatToInt(op code.Opcode, ip int) (int, bool, error) {
	idx := int(op - code.OpConvertFloatToSWord)
	fromDouble := idx >= 6
	idx2 := idx % 6
	repIdx := idx2 / 2 // 0 = Word, 1 = Qword, 2 = Oword
	signed := idx2%2 == 0

	var f64 float64
	if fromDouble {
		f64 = math.Float64frombits(decodeUint(v.pop(8)))
	} else {
		f64 = float64(math.Float32frombits(uint32(decodeUint(v.pop(4)))))
	}

	bitSizes := [3]int{16, 64, 128}
	byteWidths := [3]int{2, 8, 16}
	result := floatToIntSat(f64, bitSizes[repIdx], signed)
	bs := result.bytes()
	v.push(bs[:byteWidths[repIdx]])
	return ip, false, nil
}
