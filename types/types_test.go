package types

import "testing"

func TestPromoteIntegersSameFamily(t *testing.T) {
	promoted, ok := PromoteIntegers(SByte, Int)
	if !ok {
		t.Fatalf("expected ok, got not ok")
	}
	if promoted != Int {
		t.Fatalf("expected Int, got %v", promoted)
	}
}

func TestPromoteIntegersMixedSignednessRejected(t *testing.T) {
	_, ok := PromoteIntegers(Byte, SByte)
	if ok {
		t.Fatalf("expected mixed signed/unsigned promotion to be rejected")
	}
}

func TestPromoteFloatsDoubleWins(t *testing.T) {
	if got := PromoteFloats(Float32, Float64); got != Float64 {
		t.Fatalf("expected Double, got %v", got)
	}
	if got := PromoteFloats(Float32, Float32); got != Float32 {
		t.Fatalf("expected Float, got %v", got)
	}
}

func TestSizes(t *testing.T) {
	cases := []struct {
		typ  Type
		size int
	}{
		{TInt(Byte), 1},
		{TInt(SByte), 1},
		{TInt(Short), 2},
		{TInt(UShort), 2},
		{TInt(Int), 4},
		{TInt(UInt), 4},
		{TInt(Long), 8},
		{TInt(ULong), 8},
		{TInt(ExtInt), 16},
		{TInt(UExtInt), 16},
		{TFloat(Float32), 4},
		{TFloat(Float64), 8},
		{TBool(), 1},
		{TChar(), 4},
		{TUnit(), 0},
	}
	for _, c := range cases {
		if got := c.typ.Size(); got != c.size {
			t.Errorf("%v: expected size %d, got %d", c.typ, c.size, got)
		}
	}
}

func TestLookupPrimitiveResolvesStringToObjectType(t *testing.T) {
	typ, ok := LookupPrimitive("String")
	if !ok || !typ.IsString() {
		t.Fatalf("expected String to resolve to an object type")
	}
}

func TestKeywordRoundTrip(t *testing.T) {
	for _, kw := range []string{"byte", "sbyte", "short", "ushort", "int", "uint", "long", "ulong", "extint", "uextint", "float", "double", "bool", "char", "unit", "String", "Object"} {
		typ, ok := LookupPrimitive(kw)
		if !ok {
			t.Fatalf("LookupPrimitive(%q) failed", kw)
		}
		if typ.Keyword() != kw {
			t.Errorf("keyword round-trip: %q -> %q", kw, typ.Keyword())
		}
	}
}
