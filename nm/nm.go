// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nm builds the symbol table of a binary from the output of nm.
//
// nm is run twice on the same file, once printing mangled names and once
// printing demangled names (-C). The two outputs are walked in lockstep and
// the table is keyed by mangled name, while symbol selection applies to the
// demangled name.
package nm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ianlancetaylor/demangle"
	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/mangle"
	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/symtab"
)

// Args returns the nm arguments for file. The radix is fixed at 10, so
// both addresses and sizes are decimal.
func Args(file string, demangled bool) []string {
	args := []string{"--print-size", "--size-sort", "--radix=10", "--line-numbers"}
	if demangled {
		args = append(args, "-C")
	}
	return append(args, file)
}

// A Line is one parsed line of nm output.
type Line struct {
	Addr uint64
	Size uint64
	Type obj.NMType
	Name string
	// File and LineNo are the source location appended by --line-numbers,
	// or "" and 0.
	File   string
	LineNo int
}

var lineRe = regexp.MustCompile(`^\s*([0-9]+)\s+([0-9]+)\s+(\S)\s+(.+)$`)
var locRe = regexp.MustCompile(`^(.+):(\d+)$`)

// ParseLine parses a line of "nm --print-size --radix=10" output. Lines
// without a size, such as undefined symbols, and non-symbol lines return
// false.
func ParseLine(s string) (Line, bool) {
	m := lineRe.FindStringSubmatch(strings.TrimRight(s, "\r"))
	if m == nil {
		return Line{}, false
	}
	addr, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Line{}, false
	}
	size, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Line{}, false
	}
	l := Line{Addr: addr, Size: size, Type: obj.NMType(m[3][0]), Name: m[4]}
	if i := strings.LastIndexByte(l.Name, '\t'); i >= 0 {
		if lm := locRe.FindStringSubmatch(l.Name[i+1:]); lm != nil {
			if n, err := strconv.Atoi(lm[2]); err == nil {
				l.File, l.LineNo = lm[1], n
				l.Name = l.Name[:i]
			}
		}
	}
	l.Name = strings.TrimRight(l.Name, " \t")
	return l, true
}

type lineKey struct {
	addr, size uint64
	typ        obj.NMType
}

func (l Line) key() lineKey {
	return lineKey{l.Addr, l.Size, l.Type}
}

// Options controls symbol extraction.
type Options struct {
	// Selector chooses symbols by demangled name. nil selects all.
	Selector *obj.Selector
	// Mangling is consulted before any other demangler. nil is empty.
	Mangling *mangle.Table
	// Cpp attaches the decomposed C++ name to every symbol.
	Cpp bool

	Alloc   *obj.Alloc
	Sources *obj.Sources
	Log     zerolog.Logger
}

// Result is the outcome of Extract.
type Result struct {
	Table *symtab.Table
	// Dropped is the number of distinct symbols rejected by the selector.
	Dropped int
	// Conflicts lists, in order of discovery, the mangled names nm
	// reported more than once with differing size or type.
	Conflicts []string
}

// Extract builds a symbol table from the mangled and demangled nm
// outputs. functional reports whether the demangled run succeeded; if it
// is false, demangled is ignored.
func Extract(mangled, demangled string, functional bool, opts Options) (*Result, error) {
	if opts.Alloc == nil {
		return nil, fmt.Errorf("nm: no ID allocator")
	}
	if opts.Sources == nil {
		opts.Sources = obj.NewSources(opts.Alloc, nil)
	}
	x := &extractor{
		opts:    opts,
		res:     &Result{Table: symtab.New()},
		dropped: make(map[string]bool),
	}

	mLines := strings.Split(mangled, "\n")
	var dLines []string
	if functional {
		dLines = strings.Split(demangled, "\n")
		x.index(dLines)
	}
	mismatched := 0
	for i, ml := range mLines {
		m, ok := ParseLine(ml)
		if !ok {
			continue
		}
		var d Line
		haveD := false
		if i < len(dLines) {
			d, haveD = ParseLine(dLines[i])
			if haveD && d.key() != m.key() {
				haveD = false
			}
			if haveD {
				x.consume(d)
			}
		}
		if functional && !haveD {
			d, haveD = x.lookup(m.key())
			mismatched++
		}
		x.add(m, d.Name, haveD)
	}
	if mismatched > 0 {
		opts.Log.Debug().Int("lines", mismatched).Msg("nm outputs out of lockstep; matched by address")
	}
	x.res.Dropped = len(x.dropped)
	return x.res, nil
}

type extractor struct {
	opts    Options
	res     *Result
	dropped map[string]bool
	// byKey holds the demangled lines not yet consumed, by key.
	byKey map[lineKey][]Line
}

func (x *extractor) index(lines []string) {
	x.byKey = make(map[lineKey][]Line)
	for _, s := range lines {
		if l, ok := ParseLine(s); ok {
			x.byKey[l.key()] = append(x.byKey[l.key()], l)
		}
	}
}

// consume removes l from the unconsumed demangled lines.
func (x *extractor) consume(l Line) {
	ls := x.byKey[l.key()]
	for i := range ls {
		if ls[i].Name == l.Name {
			x.byKey[l.key()] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

func (x *extractor) lookup(k lineKey) (Line, bool) {
	ls := x.byKey[k]
	if len(ls) == 0 {
		return Line{}, false
	}
	x.byKey[k] = ls[1:]
	return ls[0], true
}

func (x *extractor) add(m Line, fromNM string, haveNM bool) {
	tab := x.res.Table
	if s := tab.Name(m.Name); s != nil {
		// Last write wins, but remember disagreements.
		if s.Size != m.Size || s.Type != m.Type {
			if !s.Conflict() {
				x.res.Conflicts = append(x.res.Conflicts, m.Name)
			}
			s.SetConflict(true)
			x.opts.Log.Debug().Str("symbol", m.Name).
				Uint64("size", s.Size).Uint64("new_size", m.Size).
				Str("type", s.Type.String()).Str("new_type", m.Type.String()).
				Msg("conflicting nm entries")
		}
		s.Size, s.Type, s.Addr = m.Size, m.Type, m.Addr
		return
	}

	display, ok := x.demangle(m.Name, fromNM, haveNM)
	if !x.opts.Selector.Selected(display) {
		x.dropped[m.Name] = true
		return
	}
	s := obj.NewSym(x.opts.Alloc.Sym(), m.Name)
	s.Display = display
	s.SetDemangled(ok)
	s.Type, s.Size, s.Addr = m.Type, m.Size, m.Addr
	if m.File != "" {
		f := x.opts.Sources.Add(m.File)
		s.Source, s.Line = f.ID, m.LineNo
	}
	if x.opts.Cpp {
		n := obj.ParseCppName(display)
		s.Cpp = &n
	}
	// The name is new, so Add cannot fail.
	_ = tab.Add(s)
}

// demangle returns the display name for mangled. The mangling table wins.
// A functional nm -C is trusted, including for names it leaves as they
// are, except that Itanium names it left mangled go through the built-in
// demangler first.
func (x *extractor) demangle(mangled, fromNM string, haveNM bool) (string, bool) {
	if d, ok := x.opts.Mangling.Demangle(mangled); ok {
		return d, true
	}
	if haveNM && !strings.HasPrefix(fromNM, "_Z") {
		return fromNM, true
	}
	if strings.HasPrefix(mangled, "_Z") {
		if d, err := demangle.ToString(mangled); err == nil {
			return d, true
		}
	}
	if haveNM {
		return fromNM, true
	}
	return mangled, false
}
