// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arch maps the file formats reported by objdump to basic
// descriptions of CPU architectures.
package arch

import (
	"encoding/binary"
	"strings"
)

// An Arch describes a CPU architecture.
type Arch struct {
	// Name is a short name for this architecture.
	Name string

	// Order is the byte order of this architecture.
	Order binary.ByteOrder

	// WordSize is the pointer size in bytes.
	WordSize int

	// Formats lists the BFD target names objdump prints for binaries
	// of this architecture.
	Formats []string
}

var (
	AMD64 = &Arch{"amd64", binary.LittleEndian, 8, []string{"elf64-x86-64", "pe-x86-64", "pei-x86-64", "mach-o-x86-64"}}
	I386  = &Arch{"386", binary.LittleEndian, 4, []string{"elf32-i386", "pe-i386", "pei-i386"}}
	ARM64 = &Arch{"arm64", binary.LittleEndian, 8, []string{"elf64-littleaarch64", "mach-o-arm64"}}
	ARM   = &Arch{"arm", binary.LittleEndian, 4, []string{"elf32-littlearm"}}
	AVR   = &Arch{"avr", binary.LittleEndian, 2, []string{"elf32-avr"}}
)

var all = []*Arch{AMD64, I386, ARM64, ARM, AVR}

// FromFormat returns the architecture for the objdump file format name,
// or nil if it is not known.
func FromFormat(format string) *Arch {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, a := range all {
		for _, f := range a.Formats {
			if f == format {
				return a
			}
		}
	}
	return nil
}

// Bits returns the word size of a in bits.
func (a *Arch) Bits() int {
	return a.WordSize * 8
}

// String returns the name of a.
func (a *Arch) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Name
}
