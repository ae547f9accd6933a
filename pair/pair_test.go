// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pair

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclements/go-symdiff/binary"
	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/symtab"
)

type symDef struct {
	name  string
	size  uint64
	insts []string
}

func newBinary(t *testing.T, alloc *obj.Alloc, syms ...symDef) *binary.Binary {
	t.Helper()
	tab := symtab.New()
	for _, s := range syms {
		sym := obj.NewSym(alloc.Sym(), s.name)
		sym.Size, sym.Type, sym.Insts = s.size, 'T', s.insts
		require.NoError(t, tab.Add(sym))
	}
	return &binary.Binary{Table: tab, InstructionsAvailable: true}
}

func names(syms []*obj.Sym) []string {
	out := []string{}
	for _, s := range syms {
		out = append(out, s.Name)
	}
	return out
}

func TestIdentical(t *testing.T) {
	var alloc obj.Alloc
	syms := []symDef{{"main", 20, []string{"ret"}}, {"a", 10, nil}, {"buf", 4, nil}}
	r := Compare(newBinary(t, &alloc, syms...), newBinary(t, &alloc, syms...), DefaultOptions())

	require.Len(t, r.Persisting, 3)
	assert.Equal(t, "a", r.Persisting[0].Old.Name)
	assert.Equal(t, "main", r.Persisting[2].Old.Name)
	assert.Empty(t, r.Disappeared)
	assert.Empty(t, r.Appeared)
	assert.Empty(t, r.Similar)
	assert.Zero(t, r.SizeChangeCount)
	assert.Zero(t, r.InstsDifferCount)
}

func TestSizeChange(t *testing.T) {
	var alloc obj.Alloc
	old := newBinary(t, &alloc, symDef{"_Z1ai", 10, []string{"lea", "ret"}})
	new := newBinary(t, &alloc, symDef{"_Z1ai", 14, []string{"lea", "add", "ret"}})
	r := Compare(old, new, DefaultOptions())

	require.Len(t, r.Persisting, 1)
	assert.Equal(t, int64(4), r.Persisting[0].SizeDelta())
	assert.True(t, r.Persisting[0].InstsDiffer())
	assert.Equal(t, 1, r.SizeChangeCount)
	assert.Equal(t, 1, r.InstsDifferCount)
	assert.NotSame(t, r.Persisting[0].Old, r.Persisting[0].New)
}

func TestRename(t *testing.T) {
	var alloc obj.Alloc
	old := newBinary(t, &alloc, symDef{"foo", 8, []string{"nop", "ret"}})
	new := newBinary(t, &alloc, symDef{"foo2", 12, []string{"nop", "ret"}})
	r := Compare(old, new, DefaultOptions())

	assert.Equal(t, []string{"foo"}, names(r.Disappeared))
	assert.Equal(t, []string{"foo2"}, names(r.Appeared))
	require.Len(t, r.Similar, 1)
	s := r.Similar[0]
	assert.InDelta(t, 6.0/7.0, s.NameSimilarity, 1e-9)
	assert.GreaterOrEqual(t, s.NameSimilarity, 0.5)
	require.NotNil(t, s.InstSimilarity)
	assert.Equal(t, 1.0, *s.InstSimilarity)
	assert.True(t, s.InstsEqual)
	assert.Equal(t, int64(4), s.SizeDelta())
}

func TestNoInstructions(t *testing.T) {
	var alloc obj.Alloc
	old := newBinary(t, &alloc, symDef{"handler_v1", 8, nil})
	new := newBinary(t, &alloc, symDef{"handler_v2", 8, nil})
	r := Compare(old, new, DefaultOptions())
	require.Len(t, r.Similar, 1)
	assert.Nil(t, r.Similar[0].InstSimilarity)
	assert.True(t, r.Similar[0].InstsEqual)
}

func TestThreshold(t *testing.T) {
	var alloc obj.Alloc
	old := newBinary(t, &alloc, symDef{"abcdef", 8, nil})
	new := newBinary(t, &alloc, symDef{"uvwxyz", 8, nil}, symDef{"abcxyz", 8, nil})

	r := Compare(old, new, DefaultOptions())
	require.Len(t, r.Similar, 1)
	assert.Equal(t, "abcxyz", r.Similar[0].New.Name)

	opts := DefaultOptions()
	opts.Threshold = 0.9
	assert.Empty(t, Compare(old, new, opts).Similar)

	opts = DefaultOptions()
	opts.SkipSimilarities = true
	assert.Empty(t, Compare(old, new, opts).Similar)
}

func TestMaxMatches(t *testing.T) {
	var alloc obj.Alloc
	old := newBinary(t, &alloc, symDef{"handler", 8, nil})
	var appeared []symDef
	for i := 0; i < 8; i++ {
		appeared = append(appeared, symDef{fmt.Sprintf("handler%d", i), 8, nil})
	}
	r := Compare(old, newBinary(t, &alloc, appeared...), DefaultOptions())
	require.Len(t, r.Similar, DefaultMaxMatches)
	// Among equal scores the larger names are kept. They are then
	// listed in name order.
	assert.Equal(t, "handler3", r.Similar[0].New.Name)
	assert.Equal(t, "handler7", r.Similar[4].New.Name)
}

func TestEmptySides(t *testing.T) {
	var alloc obj.Alloc
	old := newBinary(t, &alloc, symDef{"gone", 8, nil})
	r := Compare(old, newBinary(t, &alloc), DefaultOptions())
	assert.Equal(t, []string{"gone"}, names(r.Disappeared))
	assert.Empty(t, r.Similar)
}

func randomName(rng *rand.Rand) string {
	const letters = "abcdef_"
	b := make([]byte, 2+rng.Intn(6))
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

func randomBinary(t *testing.T, rng *rand.Rand, alloc *obj.Alloc) *binary.Binary {
	seen := make(map[string]bool)
	var syms []symDef
	for i := rng.Intn(30); i > 0; i-- {
		n := randomName(rng)
		if seen[n] {
			continue
		}
		seen[n] = true
		var insts []string
		for j := rng.Intn(4); j > 0; j-- {
			insts = append(insts, []string{"nop", "ret", "mov", "add"}[rng.Intn(4)])
		}
		syms = append(syms, symDef{n, uint64(rng.Intn(64)), insts})
	}
	return newBinary(t, alloc, syms...)
}

func TestPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 50; iter++ {
		var alloc obj.Alloc
		old, new := randomBinary(t, rng, &alloc), randomBinary(t, rng, &alloc)
		r := Compare(old, new, DefaultOptions())

		var persisting []string
		for _, p := range r.Persisting {
			assert.Equal(t, p.Old.Name, p.New.Name)
			persisting = append(persisting, p.Old.Name)
		}
		assert.True(t, sort.StringsAreSorted(persisting))
		assert.True(t, sort.StringsAreSorted(names(r.Disappeared)))
		assert.True(t, sort.StringsAreSorted(names(r.Appeared)))

		gotOld := append(append([]string{}, persisting...), names(r.Disappeared)...)
		sort.Strings(gotOld)
		assert.Equal(t, append([]string{}, old.Table.Names()...), append([]string{}, gotOld...))
		gotNew := append(append([]string{}, persisting...), names(r.Appeared)...)
		sort.Strings(gotNew)
		assert.Equal(t, append([]string{}, new.Table.Names()...), append([]string{}, gotNew...))
	}
}

func key(s Similar) [3]float64 {
	inst := math.Inf(-1)
	if s.InstSimilarity != nil {
		inst = *s.InstSimilarity
	}
	return [3]float64{s.NameSimilarity, inst, float64(s.SizeDelta())}
}

func TestSimilarOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for iter := 0; iter < 50; iter++ {
		var alloc obj.Alloc
		r := Compare(randomBinary(t, rng, &alloc), randomBinary(t, rng, &alloc), DefaultOptions())
		for i := 1; i < len(r.Similar); i++ {
			a, b := key(r.Similar[i-1]), key(r.Similar[i])
			assert.False(t, a[0] < b[0] ||
				a[0] == b[0] && (a[1] < b[1] || a[1] == b[1] && a[2] < b[2]),
				"pairs %d and %d out of order: %v < %v", i-1, i, a, b)
		}
		for _, s := range r.Similar {
			assert.GreaterOrEqual(t, s.NameSimilarity, DefaultThreshold)
			assert.Equal(t, NameRatio(s.New.Display, s.Old.Display), s.NameSimilarity)
		}
	}
}

func TestNullInstructionSimilaritySortsLast(t *testing.T) {
	one := 1.0
	half := 0.5
	a := &Similar{Old: obj.NewSym(0, "x"), New: obj.NewSym(1, "y"), NameSimilarity: 0.8, InstSimilarity: &half}
	b := &Similar{Old: obj.NewSym(2, "x"), New: obj.NewSym(3, "z"), NameSimilarity: 0.8}
	c := &Similar{Old: obj.NewSym(4, "x"), New: obj.NewSym(5, "w"), NameSimilarity: 0.8, InstSimilarity: &one}
	assert.True(t, less(a, b))
	assert.False(t, less(b, a))
	assert.True(t, less(c, a))
}
