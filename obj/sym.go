// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// A SymID uniquely identifies a symbol within one run. IDs are handed out
// by an Alloc and are never shared between the binaries compared in a run,
// so they can key merged dictionaries and cross references.
type SymID int

// NoSym is a placeholder SymID used to indicate "no symbol".
const NoSym SymID = -1

func (id SymID) String() string {
	if id == NoSym {
		return "NoSym"
	}
	return strconv.Itoa(int(id))
}

// A Sym is a symbol reported by nm and annotated by the later passes.
//
// Syms are created by the symbol extractor and mutated only by the
// instruction and debug-info passes. Once a binary is fully loaded its
// symbols must be treated as read-only.
type Sym struct {
	// ID is the run-unique identifier of this symbol.
	ID SymID
	// Name is the mangled name of this symbol. It is the identity key of
	// the symbol within a binary.
	Name string
	// Display is the name shown to users. It is the demangled name if
	// demangling succeeded and Name otherwise.
	Display string
	// Type is the nm type code of this symbol.
	Type NMType
	// Addr is the address nm reported for this symbol.
	Addr uint64
	// Size is the size of this symbol in bytes.
	Size uint64

	// Insts holds the instruction lines of this symbol as they appeared
	// in the disassembly. Source context lines are embedded between
	// SourceStartTag and SourceEndTag.
	Insts []string

	// Source is the global source file of this symbol, or NoSource.
	Source SourceID
	// Line and Column give the source location, or 0 if unknown.
	Line, Column int
	// CU is the index of the compilation unit this symbol was found in,
	// or NoCU.
	CU int

	// Cpp is the decomposed C++ name of this symbol, or nil if symbols
	// of this binary are not interpreted as C++.
	Cpp *CppName

	// SymFlags stores flags for this symbol. This field is embedded so Sym
	// inherits the methods of SymFlags.
	SymFlags
}

// NoCU indicates a symbol has no known compilation unit.
const NoCU = -1

// Tags bracketing the source context lines embedded in Sym.Insts.
const (
	SourceStartTag = "...ED_SOURCE_START..."
	SourceEndTag   = "...ED_SOURCE_END..."
)

// NewSym returns a symbol with the given identity and no annotations.
func NewSym(id SymID, name string) *Sym {
	return &Sym{ID: id, Name: name, Display: name, Source: NoSource, CU: NoCU}
}

// NMType is a single-character nm symbol type code. Upper case codes are
// global symbols, lower case codes local ones.
type NMType byte

// String returns the nm type character.
func (t NMType) String() string {
	return string([]byte{byte(t)})
}

// Global reports whether t is the type code of a global symbol.
func (t NMType) Global() bool {
	return 'A' <= t && t <= 'Z'
}

// InProgramMemory reports whether symbols of type t occupy program memory.
// Symbols in BSS (B, b) and small BSS (S, s) sections occupy only RAM.
func (t NMType) InProgramMemory() bool {
	switch t {
	case 'B', 'b', 'S', 's':
		return false
	}
	return true
}

// InStaticRAM reports whether symbols of type t occupy static RAM: the
// initialized data (D, d, G, g) and BSS (B, b, S, s) types.
func (t NMType) InStaticRAM() bool {
	switch t {
	case 'D', 'd', 'G', 'g', 'B', 'b', 'S', 's':
		return true
	}
	return false
}

// Text reports whether t is a code symbol type.
func (t NMType) Text() bool {
	switch t {
	case 'T', 't', 'W', 'w', 'i':
		return true
	}
	return false
}

// SymKind classifies a symbol as code or data.
type SymKind uint8

const (
	KindData SymKind = iota
	KindFunction
)

func (k SymKind) String() string {
	if k == KindFunction {
		return "function"
	}
	return "data"
}

// Kind returns whether s is a function or a data symbol. C++ symbols are
// functions if their demangled name has an argument list. Otherwise, the
// nm type decides.
func (s *Sym) Kind() SymKind {
	if s.Cpp != nil {
		return s.Cpp.Kind
	}
	if s.Type.Text() {
		return KindFunction
	}
	return KindData
}

// InProgramMemory reports whether s occupies program memory.
func (s *Sym) InProgramMemory() bool {
	return s.Type.InProgramMemory()
}

// HasInsts reports whether any instruction lines were attached to s.
func (s *Sym) HasInsts() bool {
	return len(s.Insts) != 0
}

// InstsText returns the instruction lines of s joined by newlines.
func (s *Sym) InstsText() string {
	return strings.Join(s.Insts, "\n")
}

// InstsHash returns a hash of the instruction lines of s. Symbols with
// equal instruction lines have equal hashes.
func (s *Sym) InstsHash() uint64 {
	return xxh3.HashString(s.InstsText())
}

// InstsEqual reports whether s and o have element-wise equal instruction
// lines.
func (s *Sym) InstsEqual(o *Sym) bool {
	if len(s.Insts) != len(o.Insts) {
		return false
	}
	for i := range s.Insts {
		if s.Insts[i] != o.Insts[i] {
			return false
		}
	}
	return true
}

// String returns the display name of symbol s.
func (s *Sym) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Display
}

// SymFlags is a set of symbol flags.
type SymFlags struct {
	f symFlags
}

type symFlags uint8

const (
	symFlagDemangled symFlags = 1 << iota
	symFlagConstExpr
	symFlagConflict
)

// Demangled indicates the display name of a symbol was obtained by
// demangling.
func (s SymFlags) Demangled() bool {
	return s.f&symFlagDemangled != 0
}

// SetDemangled sets the Demangled flag to v.
func (s *SymFlags) SetDemangled(v bool) {
	s.set(symFlagDemangled, v)
}

// ConstExpr indicates the debug info declares the symbol constexpr.
func (s SymFlags) ConstExpr() bool {
	return s.f&symFlagConstExpr != 0
}

// SetConstExpr sets the ConstExpr flag to v.
func (s *SymFlags) SetConstExpr(v bool) {
	s.set(symFlagConstExpr, v)
}

// Conflict indicates nm reported the symbol more than once with
// differing sizes or types.
func (s SymFlags) Conflict() bool {
	return s.f&symFlagConflict != 0
}

// SetConflict sets the Conflict flag to v.
func (s *SymFlags) SetConflict(v bool) {
	s.set(symFlagConflict, v)
}

func (s *SymFlags) set(flag symFlags, v bool) {
	if v {
		s.f |= flag
	} else {
		s.f &^= flag
	}
}

// String returns a string representation of the flags set in s.
func (s SymFlags) String() string {
	if s.f == 0 {
		return "{}"
	}
	var buf strings.Builder
	var sep byte = '{'
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.Demangled(), "Demangled"},
		{s.ConstExpr(), "ConstExpr"},
		{s.Conflict(), "Conflict"},
	} {
		if !f.on {
			continue
		}
		buf.WriteByte(sep)
		buf.WriteString(f.name)
		sep = ','
	}
	buf.WriteByte('}')
	return buf.String()
}
