// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symtab implements the symbol table of one binary, with lookup
// by mangled name and by address.
package symtab

import (
	"fmt"
	"sort"

	"github.com/aclements/go-symdiff/obj"
)

// Table holds the symbols of a binary keyed by mangled name. It remembers
// insertion order.
type Table struct {
	// syms holds the symbols in insertion order.
	syms []*obj.Sym

	// name indexes syms by mangled name.
	name map[string]int

	// addr contains the boundaries of symbols in syms, ordered by
	// address. It is built on the first address lookup after a change
	// and is nil when stale. The boundary from a symbol to no symbol is
	// not explicitly represented, since lookup can check the size of the
	// symbol.
	addr []symAddr
}

type symAddr struct {
	// addr is the address of this symbol boundary. Usually this is
	// beginning of the symbol, except in the case of overlapping
	// symbols.
	addr uint64
	idx  int
}

// New returns an empty table.
func New() *Table {
	return &Table{name: make(map[string]int)}
}

// Add adds s to t. Names are unique within a table, so adding a second
// symbol with the same Name is an error.
func (t *Table) Add(s *obj.Sym) error {
	if _, ok := t.name[s.Name]; ok {
		return fmt.Errorf("duplicate symbol %q", s.Name)
	}
	t.name[s.Name] = len(t.syms)
	t.syms = append(t.syms, s)
	t.addr = nil
	return nil
}

// Len returns the number of symbols in t.
func (t *Table) Len() int {
	return len(t.syms)
}

// Syms returns all symbols in insertion order. The caller must not modify
// the returned slice.
func (t *Table) Syms() []*obj.Sym {
	return t.syms
}

// Name returns the symbol with the given mangled name, or nil.
func (t *Table) Name(name string) *obj.Sym {
	if i, ok := t.name[name]; ok {
		return t.syms[i]
	}
	return nil
}

// Names returns the mangled names of all symbols in ascending order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.syms))
	for _, s := range t.syms {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}

// Addr returns the symbol containing addr, or nil.
//
// If several symbols contain addr, Addr prefers the symbol with the latest
// starting address, followed by the symbol with the smallest size,
// followed by the symbol added first. Symbols of size 0 never contain an
// address.
func (t *Table) Addr(addr uint64) *obj.Sym {
	if t.addr == nil {
		t.addr = makeAddrIndex(t.syms)
	}
	i := sort.Search(len(t.addr), func(i int) bool {
		return addr < t.addr[i].addr
	}) - 1
	if i < 0 {
		return nil
	}
	sym := t.syms[t.addr[i].idx]
	if sym.Addr+sym.Size <= addr {
		// The symbol ends before addr.
		return nil
	}
	return sym
}

func makeAddrIndex(syms []*obj.Sym) []symAddr {
	var ids []int
	for i, s := range syms {
		if s.Size != 0 {
			ids = append(ids, i)
		}
	}
	// Sort by starting address then priority, with low priority symbols
	// before higher priority so the higher priority ones override the
	// lower priority as we loop over the slice.
	sort.Slice(ids, func(i, j int) bool {
		si, sj := syms[ids[i]], syms[ids[j]]
		if si.Addr != sj.Addr {
			return si.Addr < sj.Addr
		}
		if si.Size != sj.Size {
			return si.Size > sj.Size
		}
		return ids[i] > ids[j]
	})

	// Walk every symbol boundary keeping a stack of the symbols open at
	// the current address, lowest end address at the top.
	out := []symAddr{}
	stack := make([]symAddr, 0, 8) // addr is *end* address
	drainStack := func(addr uint64) {
		for len(stack) > 0 {
			endAddr := stack[len(stack)-1].addr
			if endAddr > addr {
				return
			}
			for len(stack) > 0 && stack[len(stack)-1].addr == endAddr {
				stack = stack[:len(stack)-1]
			}
			// At endAddr, we drop to the symbol at top of stack, or to
			// no symbol, which doesn't have an explicit marker.
			if len(stack) > 0 {
				out = append(out, symAddr{endAddr, stack[len(stack)-1].idx})
			}
		}
	}
	for _, id := range ids {
		sym := syms[id]
		drainStack(sym.Addr)
		start := symAddr{sym.Addr, id}
		if len(out) > 0 && out[len(out)-1].addr == sym.Addr {
			out[len(out)-1] = start
		} else {
			out = append(out, start)
		}
		stack = append(stack, symAddr{sym.Addr + sym.Size, id})
		for i := len(stack) - 1; i >= 1 && stack[i].addr > stack[i-1].addr; i-- {
			stack[i], stack[i-1] = stack[i-1], stack[i]
		}
	}
	drainStack(^uint64(0))
	return out
}
