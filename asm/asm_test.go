// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/symtab"
)

func TestNormalizeX86(t *testing.T) {
	check := func(format, line, bytes, text, want string) {
		t.Helper()
		i := Inst{Bytes: parseBytes(bytes), Text: text, Line: line}
		if got := Normalize(format, &i); got != want {
			t.Errorf("Normalize(%s, %q): want %q, got %q", format, line, want, got)
		}
	}
	const elf = "elf64-x86-64"
	const retq = "    1140:\tc3                   \tretq"
	check(elf, retq, "c3", "retq", "    1140:\tc3                   \tret")
	check(elf, retq+"   ", "c3", "retq   ", "    1140:\tc3                   \tret")
	check(elf, "    1140:\tf3 c3                \trepz retq", "f3 c3", "repz retq", "    1140:\tf3 c3                \trepz ret")
	check(elf, "    1140:\tf2 c3                \tbnd retq", "f2 c3", "bnd retq", "    1140:\tf2 c3                \tbnd ret")
	check(elf, "    1140:\tc2 08 00             \tretq   $0x8", "c2 08 00", "retq   $0x8", "    1140:\tc2 08 00             \tret    $0x8")

	// Lines that are already "ret" or are not near returns are left alone.
	check(elf, "    1140:\tc3                   \tret", "c3", "ret", "    1140:\tc3                   \tret")
	check(elf, "    1140:\tcb                   \tlretq", "cb", "lretq", "    1140:\tcb                   \tlretq")
	check(elf, "    1140:\t90                   \tretq", "90", "retq", "    1140:\t90                   \tretq")
	check(elf, "    1140:\tc3 90                \tretq", "c3 90", "retq", "    1140:\tc3 90                \tretq")
	check(elf, "    1140:\t                     \tretq", "", "retq", "    1140:\t                     \tretq")

	// Only ELF x86-64 is rewritten.
	for _, format := range []string{"pe-x86-64", "mach-o-x86-64", "elf32-i386", "elf32-littlearm", ""} {
		check(format, retq, "c3", "retq", retq)
	}
}

func TestParseBytes(t *testing.T) {
	if got := parseBytes("f3 0f 1e fa"); !cmp.Equal(got, []byte{0xf3, 0x0f, 0x1e, 0xfa}) {
		t.Errorf("got %x", got)
	}
	if got := parseBytes("b580"); !cmp.Equal(got, []byte{0xb5, 0x80}) {
		t.Errorf("got %x", got)
	}
	if got := parseBytes("zz"); got != nil {
		t.Errorf("want nil, got %x", got)
	}
}

func TestParseFormat(t *testing.T) {
	out := "In archive libfoo.a:\n\nfoo.o:     file format elf64-x86-64\nrw-r--r-- 0/0   1024 Jan  1 00:00 1970 foo.o\n"
	if got := ParseFormat(out); got != "elf64-x86-64" {
		t.Errorf("want elf64-x86-64, got %q", got)
	}
	if got := ParseFormat("garbage"); got != "" {
		t.Errorf("want empty, got %q", got)
	}
}

const S = obj.SourceStartTag
const E = obj.SourceEndTag

const disasm = `
fw.elf:     file format elf64-x86-64


Disassembly of section .text:

0000000000001129 <_Z1ai>:
` + S + `// helper
` + S + `
` + S + `int a(int x)
` + S + `{
    1129:	f3 0f 1e fa          	endbr64
` + S + `  return x + 1;
    112d:	8d 47 01             	lea    0x1(%rdi),%eax
    1130:	c3                   	retq   

0000000000001131 <a_alias>:
    1131:	90                   	nop

0000000000001139 <unknown>:
    1139:	90                   	nop

0000000000002000 <not_in_table>:
    2000:	90                   	nop
`

func newTable(t *testing.T) *symtab.Table {
	t.Helper()
	tab := symtab.New()
	for i, s := range []struct {
		name       string
		addr, size uint64
	}{
		{"_Z1ai", 0x1129, 8},
		{"b", 0x1131, 16},
		{"data", 0x4000, 4},
	} {
		sym := obj.NewSym(obj.SymID(i), s.name)
		sym.Addr, sym.Size = s.addr, s.size
		if err := tab.Add(sym); err != nil {
			t.Fatal(err)
		}
	}
	return tab
}

func TestCollect(t *testing.T) {
	tab := newTable(t)
	st := Collect(disasm, "elf64-x86-64", tab, zerolog.Nop())

	want := []string{
		S + "int a(int x)" + E,
		S + "{" + E,
		"    1129:\tf3 0f 1e fa          \tendbr64",
		S + "  return x + 1;" + E,
		"    112d:\t8d 47 01             \tlea    0x1(%rdi),%eax",
		"    1130:\tc3                   \tret",
	}
	if diff := cmp.Diff(want, tab.Name("_Z1ai").Insts); diff != "" {
		t.Errorf("_Z1ai instructions (-want +got):\n%s", diff)
	}

	// a_alias resolves to b by address; the second header inside b is
	// dropped because b was already seen.
	if diff := cmp.Diff([]string{"    1131:\t90                   \tnop"}, tab.Name("b").Insts); diff != "" {
		t.Errorf("b instructions (-want +got):\n%s", diff)
	}
	if tab.Name("data").HasInsts() {
		t.Errorf("data has instructions")
	}

	wantStats := Stats{Insts: 4, Headers: 4, ByAddr: 1, Unknown: 2}
	if diff := cmp.Diff(wantStats, st); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestCollectNoInstructions(t *testing.T) {
	tab := newTable(t)
	out := "0000000000001129 <_Z1ai>:\n" + S + "int a(int x)\n"
	tab.Name("b").Insts = []string{"stale"}
	st := Collect(out, "elf64-x86-64", tab, zerolog.Nop())
	if st.Insts != 0 {
		t.Fatalf("want no instructions, got %d", st.Insts)
	}
	for _, s := range tab.Syms() {
		if s.HasInsts() {
			t.Errorf("%s has lines %q", s.Name, s.Insts)
		}
	}
}

func TestLastBlock(t *testing.T) {
	check := func(in, want []string) {
		t.Helper()
		if diff := cmp.Diff(want, lastBlock(in), cmp.Comparer(func(a, b []string) bool {
			return len(a) == 0 && len(b) == 0 || cmp.Equal(a, b)
		})); diff != "" {
			t.Errorf("lastBlock(%q) (-want +got):\n%s", in, diff)
		}
	}
	check(nil, nil)
	check([]string{"a", "", "b", "c"}, []string{"b", "c"})
	check([]string{"a", "b", " ", ""}, []string{"a", "b"})
	check([]string{"", ""}, nil)
}

func TestMnemonic(t *testing.T) {
	for text, want := range map[string]string{
		"lea    0x1(%rdi),%eax": "lea",
		"push\t{r7, lr}":        "push",
		"":                      "",
	} {
		i := Inst{Text: text}
		if got := i.Mnemonic(); got != want {
			t.Errorf("Mnemonic(%q): want %q, got %q", text, want, got)
		}
	}
}
