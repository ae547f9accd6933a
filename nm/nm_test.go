// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nm

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclements/go-symdiff/mangle"
	"github.com/aclements/go-symdiff/obj"
)

const mangledOut = `
0000000000016680 0000000000000004 B counter	/home/build/src/main.c:3
0000000000004393 0000000000000010 T _Z1ai	/home/build/src/main.c:5
0000000000004409 0000000000000020 T _ZN2ns3Cls1fEv
0000000000004441 0000000000000030 T __libc_csu_init
`

const demangledOut = `
0000000000016680 0000000000000004 B counter	/home/build/src/main.c:3
0000000000004393 0000000000000010 T a(int)	/home/build/src/main.c:5
0000000000004409 0000000000000020 T ns::Cls::f()
0000000000004441 0000000000000030 T __libc_csu_init
`

func options(alloc *obj.Alloc) Options {
	return Options{
		Alloc:   alloc,
		Sources: obj.NewSources(alloc, []string{"/home/build"}),
		Cpp:     true,
		Log:     zerolog.Nop(),
	}
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{"--print-size", "--size-sort", "--radix=10", "--line-numbers", "fw.elf"}, Args("fw.elf", false))
	assert.Equal(t, []string{"--print-size", "--size-sort", "--radix=10", "--line-numbers", "-C", "fw.elf"}, Args("fw.elf", true))
}

func TestParseLine(t *testing.T) {
	l, ok := ParseLine("0000000000004393 0000000000000010 T a(int, char const*)\t/src/x.cpp:12")
	require.True(t, ok)
	assert.Equal(t, Line{Addr: 4393, Size: 10, Type: 'T', Name: "a(int, char const*)", File: "/src/x.cpp", LineNo: 12}, l)

	l, ok = ParseLine("0000000000016680 0000000000000004 b local_buf")
	require.True(t, ok)
	assert.Equal(t, "local_buf", l.Name)
	assert.Empty(t, l.File)

	l, ok = ParseLine("0000000000000100 0000000000000008 D data\tC:\\src\\d.c:7")
	require.True(t, ok)
	assert.Equal(t, `C:\src\d.c`, l.File)
	assert.Equal(t, 7, l.LineNo)

	for _, s := range []string{"", "main.o:", "                 U printf", "nm: x: no symbols"} {
		_, ok := ParseLine(s)
		assert.False(t, ok, "line %q", s)
	}
}

func TestExtract(t *testing.T) {
	var alloc obj.Alloc
	res, err := Extract(mangledOut, demangledOut, true, options(&alloc))
	require.NoError(t, err)

	tab := res.Table
	require.Equal(t, 4, tab.Len())
	assert.Equal(t, 0, res.Dropped)

	a := tab.Name("_Z1ai")
	require.NotNil(t, a)
	assert.Equal(t, "a(int)", a.Display)
	assert.True(t, a.Demangled())
	assert.Equal(t, uint64(10), a.Size)
	assert.Equal(t, obj.NMType('T'), a.Type)
	assert.Equal(t, 5, a.Line)
	require.NotNil(t, a.Cpp)
	assert.Equal(t, obj.KindFunction, a.Kind())

	// A functional nm -C is trusted even where it changes nothing.
	counter := tab.Name("counter")
	require.NotNil(t, counter)
	assert.Equal(t, "counter", counter.Display)
	assert.True(t, counter.Demangled())
	assert.Equal(t, obj.KindData, counter.Kind())
	assert.False(t, counter.InProgramMemory())
	assert.Equal(t, counter.Source, a.Source, "same file registered twice")

	assert.NotEqual(t, obj.NoSource, counter.Source)

	cls := tab.Name("_ZN2ns3Cls1fEv")
	require.NotNil(t, cls)
	assert.Equal(t, "ns::Cls", cls.Cpp.Namespace)
	assert.Equal(t, "f", cls.Cpp.Name)
	assert.Equal(t, obj.NoSource, cls.Source)

	ids := make(map[obj.SymID]bool)
	for _, s := range tab.Syms() {
		assert.False(t, ids[s.ID], "duplicate ID %d", s.ID)
		ids[s.ID] = true
	}
}

func TestExtract_SourcePrefix(t *testing.T) {
	var alloc obj.Alloc
	opts := options(&alloc)
	res, err := Extract(mangledOut, demangledOut, true, opts)
	require.NoError(t, err)
	f := opts.Sources.Get(res.Table.Name("counter").Source)
	require.NotNil(t, f)
	assert.Equal(t, "src/main.c", f.Stripped)
	assert.Equal(t, "main.c", f.Base)
	assert.Equal(t, 1, opts.Sources.Len())
}

func TestExtract_Selection(t *testing.T) {
	var alloc obj.Alloc
	opts := options(&alloc)
	sel, err := obj.NewSelector("", "__")
	require.NoError(t, err)
	opts.Selector = sel

	res, err := Extract(mangledOut, demangledOut, true, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Table.Len())
	assert.Equal(t, 1, res.Dropped)
	assert.Nil(t, res.Table.Name("__libc_csu_init"))
}

func TestExtract_SelectionUsesDemangledName(t *testing.T) {
	var alloc obj.Alloc
	opts := options(&alloc)
	sel, err := obj.NewSelector("ns::", "")
	require.NoError(t, err)
	opts.Selector = sel

	res, err := Extract(mangledOut, demangledOut, true, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"_ZN2ns3Cls1fEv"}, res.Table.Names())
	assert.Equal(t, 3, res.Dropped)
}

func TestExtract_ManglingTableWins(t *testing.T) {
	const out = "0000000000004393 0000000000000010 T _Zxx\n"
	tab, err := mangle.Parse(strings.NewReader("_Zxx\nns::f()\n"))
	require.NoError(t, err)

	var alloc obj.Alloc
	opts := options(&alloc)
	opts.Mangling = tab
	res, err := Extract(out, out, true, opts)
	require.NoError(t, err)

	s := res.Table.Name("_Zxx")
	require.NotNil(t, s)
	assert.Equal(t, "ns::f()", s.Display)
	assert.True(t, s.Demangled())
}

func TestExtract_NMLeftMangled(t *testing.T) {
	const out = `0000000000000100 0000000000000008 T _Z1bv
0000000000000200 0000000000000008 T _Z12short
`
	var alloc obj.Alloc
	res, err := Extract(out, out, true, options(&alloc))
	require.NoError(t, err)

	b := res.Table.Name("_Z1bv")
	require.NotNil(t, b)
	assert.Equal(t, "b()", b.Display)
	assert.True(t, b.Demangled())

	// Neither demangler understands it, so nm's form is kept as trusted.
	bogus := res.Table.Name("_Z12short")
	require.NotNil(t, bogus)
	assert.Equal(t, "_Z12short", bogus.Display)
	assert.True(t, bogus.Demangled())
}

func TestExtract_NotFunctional(t *testing.T) {
	var alloc obj.Alloc
	res, err := Extract(mangledOut, "", false, options(&alloc))
	require.NoError(t, err)

	// Itanium names are still demangled.
	a := res.Table.Name("_Z1ai")
	require.NotNil(t, a)
	assert.Equal(t, "a(int)", a.Display)
	assert.True(t, a.Demangled())

	c := res.Table.Name("__libc_csu_init")
	require.NotNil(t, c)
	assert.Equal(t, "__libc_csu_init", c.Display)
	assert.False(t, c.Demangled())
}

func TestExtract_OutOfLockstep(t *testing.T) {
	// Equal sizes may sort differently once names are demangled.
	const mangled = `0000000000000100 0000000000000008 T _Z3zzzv
0000000000000200 0000000000000008 T _Z3aaav
`
	const demangled = `0000000000000200 0000000000000008 T aaa()
0000000000000100 0000000000000008 T zzz()
`
	var alloc obj.Alloc
	res, err := Extract(mangled, demangled, true, options(&alloc))
	require.NoError(t, err)
	assert.Equal(t, "zzz()", res.Table.Name("_Z3zzzv").Display)
	assert.Equal(t, "aaa()", res.Table.Name("_Z3aaav").Display)
}

func TestExtract_Conflict(t *testing.T) {
	const out = `0000000000000100 0000000000000008 W dup
0000000000000100 0000000000000008 W dup
0000000000000200 0000000000000012 T dup
`
	var alloc obj.Alloc
	res, err := Extract(out, out, true, options(&alloc))
	require.NoError(t, err)
	s := res.Table.Name("dup")
	require.NotNil(t, s)
	assert.Equal(t, uint64(12), s.Size)
	assert.Equal(t, obj.NMType('T'), s.Type)
	assert.True(t, s.Conflict())
	assert.Equal(t, []string{"dup"}, res.Conflicts)
	assert.Equal(t, 1, res.Table.Len())
}

func TestExtract_NoAlloc(t *testing.T) {
	_, err := Extract("", "", false, Options{})
	assert.Error(t, err)
}
