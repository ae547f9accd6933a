// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm collects the disassembly of a binary from objdump and
// attaches it to the symbols of the binary.
//
// Instruction text is normalized per architecture so that output of
// different binutils versions compares equal.
package asm

import (
	"encoding/hex"
	"strings"

	"github.com/aclements/go-symdiff/arch"
)

// Inst is a single instruction line of objdump output.
type Inst struct {
	// PC is the address of this instruction.
	PC uint64
	// Bytes is the encoding printed in the byte column.
	Bytes []byte
	// Text is the mnemonic and operands, or "" for a continuation line
	// that only carries bytes.
	Text string
	// Line is the full line as printed by objdump, right-trimmed.
	Line string
}

// Mnemonic returns the first field of i.Text.
func (i *Inst) Mnemonic() string {
	f, _, _ := strings.Cut(strings.TrimSpace(i.Text), " ")
	f, _, _ = strings.Cut(f, "\t")
	return f
}

// elfAMD64 is the only file format whose instruction text is rewritten.
const elfAMD64 = "elf64-x86-64"

// Normalize returns the line to record for i in a binary of the given
// objdump file format.
func Normalize(format string, i *Inst) string {
	if format == elfAMD64 {
		return normalizeX86(i, arch.AMD64.Bits())
	}
	return i.Line
}

// parseBytes decodes a byte column such as "f3 0f 1e fa". For
// architectures that print whole words, such as "b580", the word is
// decoded in printed order.
func parseBytes(col string) []byte {
	var out []byte
	for _, f := range strings.Fields(col) {
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil
		}
		out = append(out, b...)
	}
	return out
}
