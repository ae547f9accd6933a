// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/symtab"
)

// FormatArgs returns the objdump arguments that print the file format of
// file.
func FormatArgs(file string) []string {
	return []string{"-a", file}
}

// DisasmArgs returns the objdump arguments that print the disassembly of
// file interleaved with source lines.
func DisasmArgs(file string) []string {
	return []string{"-drwS", "--source-comment=" + obj.SourceStartTag, file}
}

var formatRe = regexp.MustCompile(`file format\s+(\S+)`)

// ParseFormat returns the first file format named in the output of
// "objdump -a", or "".
func ParseFormat(out string) string {
	if m := formatRe.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return ""
}

var (
	headerRe = regexp.MustCompile(`^(?:0x)?([0-9A-Fa-f]+) <(.+)>:\s*$`)
	instRe   = regexp.MustCompile(`^\s*([0-9A-Fa-f]+):\t([0-9A-Fa-f]+(?: [0-9A-Fa-f]+)*)[ ]*(?:\t(.*))?$`)
)

// Stats summarizes a Collect run.
type Stats struct {
	// Insts is the number of instruction lines attached to symbols.
	Insts int
	// Headers is the number of symbol headers seen.
	Headers int
	// ByAddr is the number of headers resolved by address because the
	// name was not in the table.
	ByAddr int
	// Unknown is the number of headers that resolved to no symbol.
	Unknown int
}

// Collect parses the disassembly out and appends instruction and source
// context lines to the symbols of tab. format is the objdump file format
// of the binary and selects the normalization.
//
// If out has no instruction line for any symbol, Collect clears the lines
// of every symbol, so a symbol never carries source context without
// instructions.
func Collect(out, format string, tab *symtab.Table, log zerolog.Logger) Stats {
	c := collector{format: format, tab: tab, seen: make(map[obj.SymID]bool)}
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		c.line(strings.TrimRight(sc.Text(), " \t\r"))
	}
	if err := sc.Err(); err != nil {
		log.Warn().Err(err).Msg("disassembly truncated")
	}
	if c.stats.Insts == 0 {
		for _, s := range tab.Syms() {
			s.Insts = nil
		}
	}
	if c.stats.Unknown > 0 {
		log.Debug().Int("headers", c.stats.Unknown).Msg("disassembled symbols not in symbol table")
	}
	return c.stats
}

type collector struct {
	format string
	tab    *symtab.Table
	seen   map[obj.SymID]bool
	stats  Stats

	// cur is the symbol receiving lines, or nil.
	cur *obj.Sym
	// fresh is set from a header until its first instruction.
	fresh bool
	// src buffers source context lines, without the tag.
	src []string
}

func (c *collector) line(l string) {
	switch {
	case strings.HasPrefix(l, obj.SourceStartTag):
		c.src = append(c.src, strings.TrimPrefix(l, obj.SourceStartTag))
		return
	case l == "":
		return
	}
	if m := headerRe.FindStringSubmatch(l); m != nil {
		c.header(m[1], m[2])
		return
	}
	if m := instRe.FindStringSubmatch(l); m != nil {
		c.inst(m, l)
	}
}

func (c *collector) header(addrText, name string) {
	c.stats.Headers++
	c.fresh = true
	c.cur = c.tab.Name(name)
	if c.cur == nil {
		if addr, err := strconv.ParseUint(addrText, 16, 64); err == nil {
			if s := c.tab.Addr(addr); s != nil && !c.seen[s.ID] {
				c.cur = s
				c.stats.ByAddr++
			}
		}
	}
	if c.cur == nil {
		c.stats.Unknown++
		return
	}
	c.seen[c.cur.ID] = true
}

func (c *collector) inst(m []string, l string) {
	if c.cur == nil {
		c.src = c.src[:0]
		return
	}
	if c.fresh {
		c.src = lastBlock(c.src)
		c.fresh = false
	}
	for _, s := range c.src {
		c.cur.Insts = append(c.cur.Insts, obj.SourceStartTag+s+obj.SourceEndTag)
	}
	c.src = c.src[:0]

	pc, _ := strconv.ParseUint(m[1], 16, 64)
	i := Inst{PC: pc, Bytes: parseBytes(m[2]), Text: m[3], Line: l}
	c.cur.Insts = append(c.cur.Insts, Normalize(c.format, &i))
	c.stats.Insts++
}

// lastBlock returns the last run of non-blank lines of src.
func lastBlock(src []string) []string {
	end := len(src)
	for end > 0 && strings.TrimSpace(src[end-1]) == "" {
		end--
	}
	start := end
	for start > 0 && strings.TrimSpace(src[start-1]) != "" {
		start--
	}
	return src[start:end]
}
