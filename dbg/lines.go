// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbg

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclements/go-symdiff/obj"
)

// LineArgs returns the readelf arguments that dump the line tables.
func LineArgs(file string) []string {
	return []string{"--debug-dump=line", file}
}

// CU is the line table header of one compilation unit.
type CU struct {
	// Index is the ordinal of this unit in the line dump.
	Index int
	// Offset is the offset of the line program in .debug_line. It
	// matches DW_AT_stmt_list of the compile unit DIE.
	Offset uint64
	// Version is the DWARF version of the line program, or 0.
	Version int
	// Dirs maps directory index to path.
	Dirs map[int]string
	// Files lists the file table entries in dump order.
	Files []File
	// CompDir is the compilation directory, set from the info dump.
	CompDir string
}

// File is a file table entry. Index and Dir are local to the unit.
type File struct {
	Index int
	Dir   int
	Name  string
}

// File returns the entry with the given local index.
func (cu *CU) File(idx int) (File, bool) {
	for _, f := range cu.Files {
		if f.Index == idx {
			return f, true
		}
	}
	return File{}, false
}

// FilePath returns the normalized full path of the file with local index
// idx.
func (cu *CU) FilePath(idx int) (string, bool) {
	f, ok := cu.File(idx)
	if !ok {
		return "", false
	}
	p := obj.NormalizePath(f.Name)
	if isAbs(p) {
		return p, true
	}
	dir, ok := cu.Dirs[f.Dir]
	if !ok && f.Dir == 0 {
		// Before DWARF 5, directory 0 is the compilation directory.
		dir = cu.CompDir
	}
	dir = obj.NormalizePath(dir)
	if dir != "" && !isAbs(dir) && cu.CompDir != "" && dir != obj.NormalizePath(cu.CompDir) {
		dir = path.Join(obj.NormalizePath(cu.CompDir), dir)
	}
	if dir == "" {
		return p, true
	}
	return path.Join(dir, p), true
}

// Paths returns the full paths of all files of cu.
func (cu *CU) Paths() []string {
	var out []string
	for _, f := range cu.Files {
		if p, ok := cu.FilePath(f.Index); ok {
			out = append(out, p)
		}
	}
	return out
}

func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") || len(p) >= 2 && p[1] == ':'
}

// lineState is the position of the line dump parser.
type lineState uint8

const (
	inHeader lineState = iota
	inDirHeader
	inDirLines
	inFileHeader
	inFileLines
)

var (
	unitOffsetRe   = regexp.MustCompile(`^\s*Offset:\s+0x([0-9a-fA-F]+)`)
	unitVersionRe  = regexp.MustCompile(`^\s*DWARF Version:\s+(\d+)`)
	dirTableRe     = regexp.MustCompile(`^\s*The Directory Table`)
	dirColumnsRe   = regexp.MustCompile(`^\s*Entry\s+Name\s*$`)
	numberedRe     = regexp.MustCompile(`^\s*(\d+)\s+(.+)$`)
	fileTableRe    = regexp.MustCompile(`^\s*The File Name Table`)
	fileColumnsRe  = regexp.MustCompile(`^\s*Entry\s+Dir\s`)
	indirectStrRe  = regexp.MustCompile(`^\((?:alt )?indirect (?:line )?string, offset: 0x[0-9a-fA-F]+\):\s*`)
	lineProgramRe  = regexp.MustCompile(`^\s*Line Number Statements`)
	emptyTableText = "is empty"
)

type lineParser struct {
	state lineState
	units []*CU
	cur   *CU

	// offset and version are the header fields of the next unit.
	offset  uint64
	version int
	// nextDir is the implicit index of the next unnumbered directory.
	nextDir int
	// fileCols is the number of columns of the file table.
	fileCols int
}

// ParseLines parses the output of "readelf --debug-dump=line" into the
// compilation units it describes, in dump order.
func ParseLines(out string) []*CU {
	var p lineParser
	for _, l := range strings.Split(out, "\n") {
		p.step(strings.TrimRight(l, " \t\r"))
	}
	return p.units
}

func (p *lineParser) step(l string) {
	if m := unitOffsetRe.FindStringSubmatch(l); m != nil {
		p.offset, _ = strconv.ParseUint(m[1], 16, 64)
		p.version = 0
		p.state = inHeader
		return
	}
	if dirTableRe.MatchString(l) {
		p.startUnit()
		if strings.Contains(l, emptyTableText) {
			p.state = inHeader
		} else {
			p.state = inDirHeader
		}
		return
	}
	if p.cur != nil && fileTableRe.MatchString(l) {
		if strings.Contains(l, emptyTableText) {
			p.state = inHeader
		} else {
			p.state = inFileHeader
		}
		return
	}

	switch p.state {
	case inHeader:
		if m := unitVersionRe.FindStringSubmatch(l); m != nil {
			p.version, _ = strconv.Atoi(m[1])
		}
	case inDirHeader:
		if dirColumnsRe.MatchString(l) {
			p.state = inDirLines
			return
		}
		p.state = inDirLines
		p.dirLine(l)
	case inDirLines:
		p.dirLine(l)
	case inFileHeader:
		if fileColumnsRe.MatchString(l) {
			p.fileCols = len(strings.Fields(l))
			p.state = inFileLines
		}
	case inFileLines:
		if l == "" || lineProgramRe.MatchString(l) {
			p.state = inHeader
			return
		}
		p.fileLine(l)
	}
}

func (p *lineParser) startUnit() {
	p.cur = &CU{
		Index:   len(p.units),
		Offset:  p.offset,
		Version: p.version,
		Dirs:    make(map[int]string),
	}
	p.units = append(p.units, p.cur)
	p.nextDir = 1
	if p.version >= 5 {
		p.nextDir = 0
	}
	p.fileCols = 0
}

func (p *lineParser) dirLine(l string) {
	if l == "" {
		p.state = inHeader
		return
	}
	idx, name := p.nextDir, strings.TrimSpace(l)
	if m := numberedRe.FindStringSubmatch(l); m != nil {
		idx, _ = strconv.Atoi(m[1])
		name = m[2]
	}
	p.cur.Dirs[idx] = stripIndirect(name)
	p.nextDir = idx + 1
}

func (p *lineParser) fileLine(l string) {
	cols := p.fileCols
	if cols < 3 {
		cols = 3
	}
	lead, name := splitLead(l, cols-1)
	if lead == nil {
		return
	}
	idx, err1 := strconv.Atoi(lead[0])
	dir, err2 := strconv.Atoi(lead[1])
	if err1 != nil || err2 != nil {
		return
	}
	p.cur.Files = append(p.cur.Files, File{Index: idx, Dir: dir, Name: stripIndirect(name)})
}

// splitLead splits the first n whitespace-separated fields off s and
// returns them along with the rest of s, which may contain spaces. It
// returns nil if s has fewer than n+1 fields.
func splitLead(s string, n int) ([]string, string) {
	var lead []string
	rest := strings.TrimLeft(s, " \t")
	for len(lead) < n {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			return nil, ""
		}
		lead = append(lead, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	if rest == "" {
		return nil, ""
	}
	return lead, rest
}

// stripIndirect removes the string section reference readelf prints
// before strings stored out of line.
func stripIndirect(s string) string {
	return indirectStrRe.ReplaceAllString(strings.TrimSpace(s), "")
}
