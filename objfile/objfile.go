// Package objfile encodes and decodes Loxinas's binary object format
// (spec.md §4.6): a three-offset header, a symbol table, a function-
// reference table, and a trailing code section. Every multi-byte field is
// little-endian throughout.
package objfile

import (
	"encoding/binary"
	"fmt"
)

// Symbol is one entry of the symbol table: a linker symbol, the source
// file it's defined in (0 = this file), and the byte offset of its
// function body within the code section (-1 if not yet resolved).
//
// Entry 0 is always the `main` placeholder; an empty Name there means the
// program has no `main` and the VM must refuse to run it.
type Symbol struct {
	Position uint32
	Name     string
	Location int32
}

// FuncRef is one entry of the function-reference table: either a Direct
// reference (a code offset) or a Symbol reference (an index into the
// symbol table awaiting resolution). Both kinds share one 32-bit word,
// whose most significant bit selects which (0 = Symbol, 1 = Direct).
type FuncRef struct {
	Direct bool
	Value  uint32
}

// File is a fully decoded/assembled object file.
type File struct {
	Symbols []Symbol
	Refs    []FuncRef
	Code    []byte
}

// maxRefValue is the largest value a 31-bit low field can hold.
const maxRefValue = 1<<31 - 1

// Bytes assembles f into the on-disk object-file layout described in
// spec.md §4.6: header, symbol table, function-reference table, code.
func (f *File) Bytes() []byte {
	var out []byte

	// Header: symbol table always starts right after the 12-byte header;
	// the other two offsets are patched in once the preceding section's
	// size is known.
	out = append(out, make([]byte, 12)...)
	binary.LittleEndian.PutUint32(out[0:4], 12)

	symTable := encodeSymbols(f.Symbols)
	out = append(out, symTable...)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)))

	refTable := encodeRefs(f.Refs)
	out = append(out, refTable...)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(out)))

	out = append(out, f.Code...)
	return out
}

func encodeSymbols(symbols []Symbol) []byte {
	var out []byte
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(symbols)))
	out = append(out, n[:]...)

	for _, s := range symbols {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s.Name)))
		out = append(out, lenBuf[:]...)
		out = append(out, s.Name...)

		var posBuf [4]byte
		binary.LittleEndian.PutUint32(posBuf[:], s.Position)
		out = append(out, posBuf[:]...)

		var locBuf [4]byte
		binary.LittleEndian.PutUint32(locBuf[:], uint32(s.Location))
		out = append(out, locBuf[:]...)
	}
	return out
}

func encodeRefs(refs []FuncRef) []byte {
	var out []byte
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(refs)))
	out = append(out, n[:]...)

	for _, r := range refs {
		word := r.Value & maxRefValue
		if r.Direct {
			word |= 0x8000_0000
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], word)
		out = append(out, buf[:]...)
	}
	return out
}

// Parse decodes an object file per spec.md §4.6, validating that the three
// header offsets are self-consistent (the code section must start exactly
// where the function-reference table ends, per spec.md §8's universal
// property).
func Parse(data []byte) (*File, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("objfile: file too short for a header (%d bytes)", len(data))
	}
	symStart := binary.LittleEndian.Uint32(data[0:4])
	refStart := binary.LittleEndian.Uint32(data[4:8])
	codeStart := binary.LittleEndian.Uint32(data[8:12])

	if symStart != 12 {
		return nil, fmt.Errorf("objfile: symbol table must start at offset 12, got %d", symStart)
	}
	if refStart < symStart || int(refStart) > len(data) {
		return nil, fmt.Errorf("objfile: function-reference table offset %d out of range", refStart)
	}
	if codeStart < refStart || int(codeStart) > len(data) {
		return nil, fmt.Errorf("objfile: code offset %d out of range", codeStart)
	}

	symbols, err := decodeSymbols(data[symStart:refStart])
	if err != nil {
		return nil, err
	}
	refs, err := decodeRefs(data[refStart:codeStart])
	if err != nil {
		return nil, err
	}

	return &File{
		Symbols: symbols,
		Refs:    refs,
		Code:    data[codeStart:],
	}, nil
}

func decodeSymbols(data []byte) ([]Symbol, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("objfile: symbol table truncated before entry count")
	}
	n := binary.LittleEndian.Uint32(data[0:4])
	offset := 4
	symbols := make([]Symbol, 0, n)

	for i := uint32(0); i < n; i++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("objfile: symbol table truncated at entry %d", i)
		}
		l := binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4

		if offset+int(l) > len(data) {
			return nil, fmt.Errorf("objfile: symbol table truncated reading name of entry %d", i)
		}
		name := string(data[offset : offset+int(l)])
		offset += int(l)

		if offset+8 > len(data) {
			return nil, fmt.Errorf("objfile: symbol table truncated reading position/location of entry %d", i)
		}
		position := binary.LittleEndian.Uint32(data[offset : offset+4])
		location := int32(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8

		symbols = append(symbols, Symbol{Position: position, Name: name, Location: location})
	}
	return symbols, nil
}

func decodeRefs(data []byte) ([]FuncRef, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("objfile: function-reference table truncated before entry count")
	}
	m := binary.LittleEndian.Uint32(data[0:4])
	offset := 4
	refs := make([]FuncRef, 0, m)

	for i := uint32(0); i < m; i++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("objfile: function-reference table truncated at entry %d", i)
		}
		word := binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4
		refs = append(refs, FuncRef{
			Direct: word&0x8000_0000 != 0,
			Value:  word & maxRefValue,
		})
	}
	return refs, nil
}

// HasMain reports whether f's entry 0 (the reserved `main` slot) carries a
// non-empty symbol, per spec.md §4.6's "if absent, its symbol string is
// empty and the VM refuses to run."
func (f *File) HasMain() bool {
	return len(f.Symbols) > 0 && f.Symbols[0].Name != ""
}
