// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbg interprets the DWARF debug info of a binary as dumped by
// readelf. It recovers the compilation units and source files from the
// line tables and stamps source locations from the DIE tree onto symbols.
package dbg

import (
	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/symtab"
)

// Stats summarizes a Collect run.
type Stats struct {
	// Units is the number of compilation units in the line dump.
	Units int
	// Stamped is the number of symbols that received a location.
	Stamped int
	// ConstExpr is the number of symbols marked constexpr.
	ConstExpr int
	// Unmatched is the number of compile unit DIEs with no line table.
	Unmatched int
}

// Collect parses the line dump lineOut and the info dump infoOut and
// stamps compilation unit, source file, line and column onto the
// matching symbols of tab. Source files are registered in sources.
//
// If infoOut has no .debug_info section, Collect only parses the line
// tables.
func Collect(lineOut, infoOut string, tab *symtab.Table, sources *obj.Sources, log zerolog.Logger) ([]*CU, Stats) {
	units := ParseLines(lineOut)
	st := Stats{Units: len(units)}
	if !HasInfo(infoOut) {
		log.Debug().Msg("no .debug_info in dump")
		return units, st
	}

	c := &collector{
		units:    units,
		byOffset: make(map[uint64]*CU),
		tab:      tab,
	}
	for _, cu := range units {
		if _, ok := c.byOffset[cu.Offset]; !ok {
			c.byOffset[cu.Offset] = cu
		}
	}
	ParseInfo(infoOut, c.entry)
	st.Unmatched = c.unmatched
	st.ConstExpr = c.constExpr

	// Resolve local file indexes now that every compilation directory is
	// known.
	for _, s := range c.stamps {
		s.sym.CU = s.cu.Index
		s.sym.Line, s.sym.Column = s.line, s.col
		if p, ok := s.cu.FilePath(s.file); ok {
			s.sym.Source = sources.Add(p).ID
		}
		st.Stamped++
	}
	return units, st
}

type stamp struct {
	sym       *obj.Sym
	cu        *CU
	file      int
	line, col int
}

type collector struct {
	units    []*CU
	byOffset map[uint64]*CU
	tab      *symtab.Table

	cu        *CU
	ordinal   int
	stamps    []stamp
	unmatched int
	constExpr int
	stamped   map[obj.SymID]int
}

func (c *collector) entry(e *Entry) {
	switch e.Tag {
	case TagCompileUnit:
		c.compileUnit(e)
	case TagVariable, TagSubprogram:
		c.symbol(e)
	}
}

func (c *collector) compileUnit(e *Entry) {
	ord := c.ordinal
	c.ordinal++
	c.cu = nil
	if off, ok := e.Int(AttrStmtList); ok {
		c.cu = c.byOffset[uint64(off)]
	}
	if c.cu == nil {
		c.cu = c.lookupPath(e)
	}
	if c.cu == nil && ord < len(c.units) {
		c.cu = c.units[ord]
	}
	if c.cu == nil {
		c.unmatched++
		return
	}
	if dir := e.Val(AttrCompDir); dir != "" {
		c.cu.CompDir = dir
	}
}

// lookupPath finds the first unit whose files include the primary source
// of e. Units without a known compilation directory are resolved against
// the directory of e.
func (c *collector) lookupPath(e *Entry) *CU {
	name := obj.NormalizePath(e.Val(AttrName))
	if name == "" {
		return nil
	}
	dir := e.Val(AttrCompDir)
	if !isAbs(name) && dir != "" {
		name = obj.NormalizePath(dir + "/" + name)
	}
	for _, cu := range c.units {
		probe := *cu
		if probe.CompDir == "" {
			probe.CompDir = dir
		}
		for _, p := range probe.Paths() {
			if p == name {
				return cu
			}
		}
	}
	return nil
}

func (c *collector) symbol(e *Entry) {
	if c.cu == nil {
		return
	}
	key := e.LinkageName()
	if key == "" {
		return
	}
	sym := c.tab.Name(key)
	if sym == nil {
		return
	}
	if v, ok := e.Int(AttrConstExpr); ok && v != 0 {
		sym.SetConstExpr(true)
		c.constExpr++
		return
	}
	file, ok := e.Int(AttrDeclFile)
	if !ok {
		return
	}
	line, _ := e.Int(AttrDeclLine)
	col, _ := e.Int(AttrDeclColumn)
	if c.stamped == nil {
		c.stamped = make(map[obj.SymID]int)
	}
	st := stamp{sym: sym, cu: c.cu, file: int(file), line: int(line), col: int(col)}
	if i, ok := c.stamped[sym.ID]; ok {
		// A later DIE for the same symbol, usually the definition after
		// a declaration, wins.
		c.stamps[i] = st
		return
	}
	c.stamped[sym.ID] = len(c.stamps)
	c.stamps = append(c.stamps, st)
}
