// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arch

import "testing"

func TestFromFormat(t *testing.T) {
	check := func(format string, want *Arch) {
		t.Helper()
		if got := FromFormat(format); got != want {
			t.Errorf("FromFormat(%q): want %v, got %v", format, want, got)
		}
	}
	check("elf64-x86-64", AMD64)
	check(" ELF64-X86-64\n", AMD64)
	check("elf32-i386", I386)
	check("elf64-littleaarch64", ARM64)
	check("elf32-littlearm", ARM)
	check("elf32-avr", AVR)
	check("elf32-tricore", nil)
	check("", nil)
}

func TestBits(t *testing.T) {
	for _, a := range all {
		if a.Bits() != a.WordSize*8 {
			t.Errorf("%s: Bits %d, WordSize %d", a, a.Bits(), a.WordSize)
		}
	}
	if AMD64.Bits() != 64 || I386.Bits() != 32 {
		t.Errorf("x86 widths wrong: %d, %d", AMD64.Bits(), I386.Bits())
	}
}

func TestString(t *testing.T) {
	var a *Arch
	if a.String() != "<nil>" {
		t.Errorf("nil Arch: got %q", a.String())
	}
	if AMD64.String() != "amd64" {
		t.Errorf("AMD64: got %q", AMD64.String())
	}
}
