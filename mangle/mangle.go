// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mangle implements auxiliary mangled-to-demangled name tables for
// toolchains whose names the binutils suite cannot demangle.
package mangle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Table maps mangled names to demangled names. The zero Table and a nil
// *Table are empty.
type Table struct {
	m map[string]string
}

// Parse reads a table from r. Lines alternate between a mangled name and
// its demangled form. Trailing blank lines are ignored.
func Parse(r io.Reader) (*Table, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("mangled name %q on line %d has no demangled name", lines[len(lines)-1], len(lines))
	}
	t := &Table{m: make(map[string]string, len(lines)/2)}
	for i := 0; i < len(lines); i += 2 {
		t.m[lines[i]] = lines[i+1]
	}
	return t, nil
}

// Load reads the table file at path. A missing file yields an empty
// table.
func Load(path string) (*Table, error) {
	if path == "" {
		return &Table{}, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Table{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Demangle returns the demangled form of name and true if t has an entry
// for it. Otherwise, it returns name and false.
func (t *Table) Demangle(name string) (string, bool) {
	if t == nil {
		return name, false
	}
	if d, ok := t.m[name]; ok {
		return d, true
	}
	return name, false
}

// Len returns the number of entries in t.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.m)
}
