package compiler

import (
	"fmt"

	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/types"
)

// widenZero/widenSign are indexed by the *source* width (WByte..WQword);
// each is the single-step extend instruction from that width to the next.
// narrowStep is indexed by the *source* width minus one (WWord..WOword)
// and is the single-step truncate back down to the next width below.
var widenZero = [4]code.Opcode{
	code.OpZeroExtendByteToWord, code.OpZeroExtendWordToDword,
	code.OpZeroExtendDwordToQword, code.OpZeroExtendQwordToOword,
}

var widenSign = [4]code.Opcode{
	code.OpSignExtendByteToWord, code.OpSignExtendWordToDword,
	code.OpSignExtendDwordToQword, code.OpSignExtendQwordToOword,
}

var narrowStep = [4]code.Opcode{
	code.OpTruncateWordToByte, code.OpTruncateDwordToWord,
	code.OpTruncateQwordToDword, code.OpTruncateOwordToQword,
}

var boolConvert = [5]code.Opcode{
	code.OpConvertByteToBool, code.OpConvertWordToBool, code.OpConvertDwordToBool,
	code.OpConvertQwordToBool, code.OpConvertOwordToBool,
}

// convert emits the canonical conversion chain from from to to, per
// spec.md §4.3. Emits nothing when the two types are equal.
func (c *Compiler) convert(from, to types.Type) error {
	if from.Equal(to) {
		return nil
	}

	switch {
	case from.IsBool():
		return c.convert(types.TInt(types.Byte), to)

	case to.IsBool():
		c.emit(boolConvert[from.Width()])
		return nil

	case from.IsInteger() && to.IsInteger():
		c.convertIntToInt(from.Integer, to.Integer)
		return nil

	case from.IsInteger() && to.IsFloat():
		c.convertIntToFloat(from.Integer, to.Float)
		return nil

	case from.IsFloat() && to.IsInteger():
		c.convertFloatToInt(from.Float, to.Integer)
		return nil

	case from.IsFloat() && to.IsFloat():
		if from.Float == types.Float32 {
			c.emit(code.OpConvertFloatToDouble)
		} else {
			c.emit(code.OpConvertDoubleToFloat)
		}
		return nil

	default:
		return fmt.Errorf("compiler: no conversion from %s to %s", from, to)
	}
}

func (c *Compiler) convertIntToInt(from, to types.IntegerType) {
	fw, tw := int(from.Width()), int(to.Width())
	switch {
	case fw == tw:
		// e.g. Byte<->SByte: same width, no instruction.
	case fw < tw:
		for w := fw; w < tw; w++ {
			if from.Signed() {
				c.emit(widenSign[w])
			} else {
				c.emit(widenZero[w])
			}
		}
	default:
		for w := fw; w > tw; w-- {
			c.emit(narrowStep[w-1])
		}
	}
}

// intRepWidth is the width an integer source is widened to (if it isn't
// already there) before a single float-convert instruction can handle it:
// Byte/Short-family collapse to Word, Int/Long-family to Qword, the
// 128-bit family stays at Oword.
func intRepWidth(t types.IntegerType) types.Width {
	switch t.Width() {
	case types.WByte:
		return types.WWord
	case types.WDword:
		return types.WQword
	default:
		return t.Width()
	}
}

func (c *Compiler) convertIntToFloat(from types.IntegerType, to types.FloatType) {
	rep := intRepWidth(from)
	if rep != from.Width() {
		if from.Signed() {
			c.emit(widenSign[from.Width()])
		} else {
			c.emit(widenZero[from.Width()])
		}
	}
	c.emit(intToFloatOpcode(rep, from.Signed(), to))
}

func intToFloatOpcode(rep types.Width, signed bool, to types.FloatType) code.Opcode {
	table := map[types.Width][2][2]code.Opcode{
		types.WWord: {
			{code.OpConvertUWordToFloat, code.OpConvertUWordToDouble},
			{code.OpConvertSWordToFloat, code.OpConvertSWordToDouble},
		},
		types.WQword: {
			{code.OpConvertUQwordToFloat, code.OpConvertUQwordToDouble},
			{code.OpConvertSQwordToFloat, code.OpConvertSQwordToDouble},
		},
		types.WOword: {
			{code.OpConvertUOwordToFloat, code.OpConvertUOwordToDouble},
			{code.OpConvertSOwordToFloat, code.OpConvertSOwordToDouble},
		},
	}
	signIdx := 0
	if signed {
		signIdx = 1
	}
	return table[rep][signIdx][to]
}

func (c *Compiler) convertFloatToInt(from types.FloatType, to types.IntegerType) {
	rep := intRepWidth(to)
	c.emit(floatToIntOpcode(from, to.Signed(), rep))
	if rep != to.Width() {
		c.emit(narrowStep[rep-1])
	}
}

func floatToIntOpcode(from types.FloatType, signed bool, rep types.Width) code.Opcode {
	table := map[types.Width][2][2]code.Opcode{
		types.WWord: {
			{code.OpConvertFloatToUWord, code.OpConvertDoubleToUWord},
			{code.OpConvertFloatToSWord, code.OpConvertDoubleToSWord},
		},
		types.WQword: {
			{code.OpConvertFloatToUQword, code.OpConvertDoubleToUQword},
			{code.OpConvertFloatToSQword, code.OpConvertDoubleToSQword},
		},
		types.WOword: {
			{code.OpConvertFloatToUOword, code.OpConvertDoubleToUOword},
			{code.OpConvertFloatToSOword, code.OpConvertDoubleToSOword},
		},
	}
	signIdx := 0
	if signed {
		signIdx = 1
	}
	return table[rep][signIdx][from]
}
