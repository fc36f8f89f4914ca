// Package types enumerates the primitive value types of the Loxinas
// language, their byte widths, and the promotion and conversion rules the
// resolver and compiler packages use to type-check and lower expressions.
//
// Loxinas is statically typed: every value has exactly one of a closed set
// of primitive types, each mapping to exactly one width class. Width classes
// (Byte, Word, Dword, Qword, Oword) are what the bytecode instruction set is
// actually selected on; the primitive type adds signedness and float-vs-int
// on top of that.
package types

import "fmt"

// Width is one of the five instruction-selection width classes.
type Width int

const (
	WByte Width = iota
	WWord
	WDword
	WQword
	WOword
)

// Size returns the number of bytes a width class occupies.
func (w Width) Size() int {
	switch w {
	case WByte:
		return 1
	case WWord:
		return 2
	case WDword:
		return 4
	case WQword:
		return 8
	case WOword:
		return 16
	default:
		panic(fmt.Sprintf("types: invalid width %d", w))
	}
}

// String renders the width class for disassembly and diagnostics.
func (w Width) String() string {
	switch w {
	case WByte:
		return "Byte"
	case WWord:
		return "Word"
	case WDword:
		return "Dword"
	case WQword:
		return "Qword"
	case WOword:
		return "Oword"
	default:
		return "InvalidWidth"
	}
}

// Kind distinguishes the broad category a Type falls into.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindBool
	KindChar
	KindUnit
	KindObject
)

// ObjectClass distinguishes the object-kind type markers. Loxinas objects
// (String, user classes, the generic Object supertype) exist only as
// compile-time type markers — no object is ever allocated at runtime.
type ObjectClass int

const (
	ClassString ObjectClass = iota
	ClassObject
	ClassUser
)

func (c ObjectClass) String() string {
	switch c {
	case ClassString:
		return "String"
	case ClassObject:
		return "Object"
	case ClassUser:
		return "<class>"
	default:
		return "<invalid class>"
	}
}

// Type is a fully resolved Loxinas value type: a primitive integer/float
// variant, Bool, Char, Unit, or an object-kind marker.
//
// Type is a small value type (four int-based fields and a string) so it can be copied
// freely and used as a map key, as spec.md requires for both the
// result-type and operand-type annotations recorded on every AST node.
type Type struct {
	Kind Kind

	// Integer set when Kind == KindInteger.
	Integer IntegerType

	// Float set when Kind == KindFloat.
	Float FloatType

	// Object set when Kind == KindObject.
	Object ObjectClass

	// ClassName names the user class when Object == ClassUser.
	ClassName string
}

// IntegerType enumerates the ten integer primitives, ordered within their
// signed/unsigned family from narrowest to widest.
type IntegerType int

const (
	Byte IntegerType = iota
	SByte
	Short
	UShort
	Int
	UInt
	Long
	ULong
	ExtInt
	UExtInt
)

// Signed reports whether the integer type is in the signed family.
func (t IntegerType) Signed() bool {
	switch t {
	case SByte, Short, Int, Long, ExtInt:
		return true
	default:
		return false
	}
}

// Width returns the width class of the integer type.
func (t IntegerType) Width() Width {
	switch t {
	case Byte, SByte:
		return WByte
	case Short, UShort:
		return WWord
	case Int, UInt:
		return WDword
	case Long, ULong:
		return WQword
	case ExtInt, UExtInt:
		return WOword
	default:
		panic(fmt.Sprintf("types: invalid integer type %d", t))
	}
}

// familyRank orders an integer type within its signed/unsigned family, used
// to pick the "wider of the two" promoted type per spec.md §4.1.
func (t IntegerType) familyRank() int {
	switch t {
	case Byte, SByte:
		return 0
	case Short, UShort:
		return 1
	case Int, UInt:
		return 2
	case Long, ULong:
		return 3
	case ExtInt, UExtInt:
		return 4
	default:
		panic(fmt.Sprintf("types: invalid integer type %d", t))
	}
}

// Keyword renders the lowercase keyword used both in `as` casts and in
// symbol mangling (spec.md §4.6).
func (t IntegerType) Keyword() string {
	switch t {
	case Byte:
		return "byte"
	case SByte:
		return "sbyte"
	case Short:
		return "short"
	case UShort:
		return "ushort"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Long:
		return "long"
	case ULong:
		return "ulong"
	case ExtInt:
		return "extint"
	case UExtInt:
		return "uextint"
	default:
		panic(fmt.Sprintf("types: invalid integer type %d", t))
	}
}

// FloatType enumerates the two float primitives.
type FloatType int

const (
	Float32 FloatType = iota
	Float64
)

// Width returns the width class of the float type.
func (t FloatType) Width() Width {
	switch t {
	case Float32:
		return WDword
	case Float64:
		return WQword
	default:
		panic(fmt.Sprintf("types: invalid float type %d", t))
	}
}

// Keyword renders the lowercase keyword used in `as` casts and mangling.
func (t FloatType) Keyword() string {
	switch t {
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		panic(fmt.Sprintf("types: invalid float type %d", t))
	}
}

// Constructors for the well-known non-parametric types.

func TInt(it IntegerType) Type   { return Type{Kind: KindInteger, Integer: it} }
func TFloat(ft FloatType) Type   { return Type{Kind: KindFloat, Float: ft} }
func TBool() Type                { return Type{Kind: KindBool} }
func TChar() Type                { return Type{Kind: KindChar} }
func TUnit() Type                { return Type{Kind: KindUnit} }
func TString() Type              { return Type{Kind: KindObject, Object: ClassString} }
func TObject() Type              { return Type{Kind: KindObject, Object: ClassObject} }
func TClass(name string) Type    { return Type{Kind: KindObject, Object: ClassUser, ClassName: name} }

// IsInteger, IsFloat, IsNumeric, IsObject report the broad category of t.
func (t Type) IsInteger() bool { return t.Kind == KindInteger }
func (t Type) IsFloat() bool   { return t.Kind == KindFloat }
func (t Type) IsNumeric() bool { return t.Kind == KindInteger || t.Kind == KindFloat }
func (t Type) IsObject() bool  { return t.Kind == KindObject }
func (t Type) IsBool() bool    { return t.Kind == KindBool }
func (t Type) IsChar() bool    { return t.Kind == KindChar }
func (t Type) IsUnit() bool    { return t.Kind == KindUnit }
func (t Type) IsString() bool  { return t.Kind == KindObject && t.Object == ClassString }

// Width returns the width class this type occupies on the byte stack. Unit
// occupies zero bytes.
func (t Type) Width() Width {
	switch t.Kind {
	case KindInteger:
		return t.Integer.Width()
	case KindFloat:
		return t.Float.Width()
	case KindBool:
		return WByte
	case KindChar:
		return WDword
	case KindUnit:
		panic("types: Unit has no width class")
	case KindObject:
		panic("types: object types are compile-time markers only, they have no runtime width")
	default:
		panic(fmt.Sprintf("types: invalid kind %d", t.Kind))
	}
}

// Size returns size_of(t) in bytes, per spec.md's invariant that the emitted
// bytecode grows the byte stack by exactly this much for a well-typed
// expression of this type. Unit is zero-sized.
func (t Type) Size() int {
	if t.Kind == KindUnit {
		return 0
	}
	return t.Width().Size()
}

// Equal reports whether two types are identical.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindInteger:
		return t.Integer == o.Integer
	case KindFloat:
		return t.Float == o.Float
	case KindObject:
		return t.Object == o.Object && (t.Object != ClassUser || t.ClassName == o.ClassName)
	default:
		return true
	}
}

// Keyword renders t the way Loxinas source and symbol mangling do: the
// lowercase type keyword, "bool", "char", "unit", or "String"/a class name.
func (t Type) Keyword() string {
	switch t.Kind {
	case KindInteger:
		return t.Integer.Keyword()
	case KindFloat:
		return t.Float.Keyword()
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindUnit:
		return "unit"
	case KindObject:
		switch t.Object {
		case ClassString:
			return "String"
		case ClassObject:
			return "Object"
		default:
			return t.ClassName
		}
	default:
		panic(fmt.Sprintf("types: invalid kind %d", t.Kind))
	}
}

func (t Type) String() string { return t.Keyword() }

// wider returns whichever of a, b has the greater family rank; a and b must
// be integer types of the same signedness family.
func wider(a, b IntegerType) IntegerType {
	if a.familyRank() >= b.familyRank() {
		return a
	}
	return b
}

// PromoteIntegers implements spec.md §4.1's integer-promotion rule for a
// binary arithmetic or comparison operator. Both operands must share a
// signedness family; ok is false (and the result undefined) when they
// don't, which the resolver turns into a compile diagnostic.
func PromoteIntegers(a, b IntegerType) (promoted IntegerType, ok bool) {
	if a.Signed() != b.Signed() {
		return 0, false
	}
	return wider(a, b), true
}

// PromoteFloats implements spec.md §4.1's float-promotion rule: Double wins
// over Float.
func PromoteFloats(a, b FloatType) FloatType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Float32
}

// LookupPrimitive resolves a Loxinas type keyword (as written in source, in
// `let x: T` or `as T`) to its Type, mirroring the global type table the
// resolver seeds at startup (original_source/src/resolver/mod.rs's
// `init_types`).
func LookupPrimitive(keyword string) (Type, bool) {
	switch keyword {
	case "byte":
		return TInt(Byte), true
	case "sbyte":
		return TInt(SByte), true
	case "short":
		return TInt(Short), true
	case "ushort":
		return TInt(UShort), true
	case "int":
		return TInt(Int), true
	case "uint":
		return TInt(UInt), true
	case "long":
		return TInt(Long), true
	case "ulong":
		return TInt(ULong), true
	case "extint":
		return TInt(ExtInt), true
	case "uextint":
		return TInt(UExtInt), true
	case "float":
		return TFloat(Float32), true
	case "double":
		return TFloat(Float64), true
	case "bool":
		return TBool(), true
	case "char":
		return TChar(), true
	case "unit":
		return TUnit(), true
	case "String":
		return TString(), true
	case "Object":
		return TObject(), true
	default:
		return Type{}, false
	}
}
