package objfile

import (
	"bytes"
	"testing"
)

func TestBytesThenParseRoundTrips(t *testing.T) {
	f := &File{
		Symbols: []Symbol{
			{Position: 0, Name: "main$unit", Location: 0},
			{Position: 0, Name: "add#int#int$int", Location: 17},
		},
		Refs: []FuncRef{
			{Direct: true, Value: 0},
			{Direct: false, Value: 1},
		},
		Code: []byte{0x01, 0x02, 0x03, 0x04},
	}

	data := f.Bytes()
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	if len(got.Symbols) != len(f.Symbols) {
		t.Fatalf("expected %d symbols, got %d", len(f.Symbols), len(got.Symbols))
	}
	for i, want := range f.Symbols {
		if got.Symbols[i] != want {
			t.Errorf("symbol %d: expected %+v, got %+v", i, want, got.Symbols[i])
		}
	}
	if len(got.Refs) != len(f.Refs) {
		t.Fatalf("expected %d refs, got %d", len(f.Refs), len(got.Refs))
	}
	for i, want := range f.Refs {
		if got.Refs[i] != want {
			t.Errorf("ref %d: expected %+v, got %+v", i, want, got.Refs[i])
		}
	}
	if !bytes.Equal(got.Code, f.Code) {
		t.Errorf("expected code %v, got %v", f.Code, got.Code)
	}
}

func TestHeaderOffsetsAreConsistent(t *testing.T) {
	f := &File{
		Symbols: []Symbol{{Position: 0, Name: "main$unit", Location: 0}},
		Refs:    []FuncRef{{Direct: true, Value: 0}},
		Code:    []byte{0xAA},
	}
	data := f.Bytes()

	refStart := leUint32(data[4:8])
	codeStart := leUint32(data[8:12])

	symTable := encodeSymbols(f.Symbols)
	refTable := encodeRefs(f.Refs)

	if int(refStart) != 12+len(symTable) {
		t.Errorf("expected function-reference table to start at %d, got %d", 12+len(symTable), refStart)
	}
	if int(codeStart) != 12+len(symTable)+len(refTable) {
		t.Errorf("expected code to start at %d, got %d", 12+len(symTable)+len(refTable), codeStart)
	}
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func TestEntryZeroEmptyNameMeansNoMain(t *testing.T) {
	f := &File{Symbols: []Symbol{{Name: ""}}}
	if f.HasMain() {
		t.Errorf("expected HasMain to be false for an empty entry-0 symbol")
	}

	f.Symbols[0].Name = "main$unit"
	if !f.HasMain() {
		t.Errorf("expected HasMain to be true once entry 0 carries a name")
	}
}

func TestParseRejectsTruncatedHeader(t *testing.T) {
	if _, err := Parse([]byte{0x01, 0x02}); err == nil {
		t.Errorf("expected an error for a file shorter than the header")
	}
}

func TestParseRejectsWrongSymbolTableOffset(t *testing.T) {
	data := make([]byte, 12)
	data[0] = 13 // must always be 12
	if _, err := Parse(data); err == nil {
		t.Errorf("expected an error when the symbol table offset isn't 12")
	}
}
