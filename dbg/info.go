// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbg

import (
	"regexp"
	"strconv"
	"strings"
)

// InfoArgs returns the readelf arguments that dump the DIE tree.
func InfoArgs(file string) []string {
	return []string{"--debug-dump=info", file}
}

// Tags and attributes used by Collect.
const (
	TagCompileUnit = "DW_TAG_compile_unit"
	TagVariable    = "DW_TAG_variable"
	TagSubprogram  = "DW_TAG_subprogram"

	AttrName            = "DW_AT_name"
	AttrLinkageName     = "DW_AT_linkage_name"
	AttrMIPSLinkageName = "DW_AT_MIPS_linkage_name"
	AttrDeclFile        = "DW_AT_decl_file"
	AttrDeclLine        = "DW_AT_decl_line"
	AttrDeclColumn      = "DW_AT_decl_column"
	AttrConstExpr       = "DW_AT_const_expr"
	AttrCompDir         = "DW_AT_comp_dir"
	AttrStmtList        = "DW_AT_stmt_list"
)

// An Entry is one DIE of the info dump with its attributes as text.
type Entry struct {
	Level  int
	Offset uint64
	// Tag is "" for a null entry.
	Tag   string
	Attrs map[string]string
}

// Val returns the attribute a of e, or "".
func (e *Entry) Val(a string) string {
	return e.Attrs[a]
}

// Int returns the leading integer of attribute a of e. Decimal and 0x
// hexadecimal forms are accepted.
func (e *Entry) Int(a string) (int64, bool) {
	f := strings.Fields(e.Attrs[a])
	if len(f) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(f[0], 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LinkageName returns the linkage name of e if it has one, or its plain
// name.
func (e *Entry) LinkageName() string {
	if n := e.Val(AttrLinkageName); n != "" {
		return n
	}
	if n := e.Val(AttrMIPSLinkageName); n != "" {
		return n
	}
	return e.Val(AttrName)
}

var (
	dieRe  = regexp.MustCompile(`^\s*<(\d+)><([0-9a-fA-F]+)>: Abbrev Number: \d+(?: \((\w+)\))?`)
	attrRe = regexp.MustCompile(`^\s*<[0-9a-fA-F]+>\s+(DW_AT_\w+)\s*:\s?(.*)$`)
)

// HasInfo reports whether out is an info dump with a .debug_info section.
func HasInfo(out string) bool {
	return strings.Contains(out, ".debug_info")
}

// ParseInfo calls fn for every DIE of the output of
// "readelf --debug-dump=info" once all its attributes are read.
func ParseInfo(out string, fn func(e *Entry)) {
	var cur *Entry
	flush := func() {
		if cur != nil {
			fn(cur)
			cur = nil
		}
	}
	for _, l := range strings.Split(out, "\n") {
		l = strings.TrimRight(l, " \t\r")
		if m := dieRe.FindStringSubmatch(l); m != nil {
			flush()
			level, _ := strconv.Atoi(m[1])
			off, _ := strconv.ParseUint(m[2], 16, 64)
			cur = &Entry{Level: level, Offset: off, Tag: m[3], Attrs: make(map[string]string)}
			continue
		}
		if cur == nil {
			continue
		}
		if m := attrRe.FindStringSubmatch(l); m != nil {
			cur.Attrs[m[1]] = stripIndirect(m[2])
		}
	}
	flush()
}
