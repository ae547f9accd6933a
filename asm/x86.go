// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// normalizeX86 spells every near return "ret". Older binutils print
// "retq" in 64-bit code, including after rep and bnd prefixes and before
// a stack adjustment operand.
func normalizeX86(i *Inst, bits int) string {
	k := strings.Index(i.Text, "retq")
	if k < 0 || len(i.Bytes) == 0 {
		return i.Line
	}
	inst, err := x86asm.Decode(i.Bytes, bits)
	if err != nil || inst.Op != x86asm.RET || inst.Len != len(i.Bytes) {
		return i.Line
	}
	// Match the mnemonic in the text column.
	j := strings.LastIndex(i.Line, i.Text)
	if j < 0 {
		return i.Line
	}
	// Keep operands in their column.
	ret := "ret"
	if strings.HasPrefix(i.Text[k+len("retq"):], " ") {
		ret = "ret "
	}
	text := i.Text[:k] + ret + i.Text[k+len("retq"):]
	return strings.TrimRight(i.Line[:j]+text, " \t")
}
