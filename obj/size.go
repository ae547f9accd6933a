// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Sizes holds the section aggregates reported by the Berkeley form of the
// size tool.
type Sizes struct {
	Text, Data, BSS, Total uint64
}

// Progmem returns the bytes occupying program memory: text and data.
func (s Sizes) Progmem() uint64 {
	return s.Text + s.Data
}

// StaticRAM returns the bytes of statically allocated RAM: data and bss.
func (s Sizes) StaticRAM() uint64 {
	return s.Data + s.BSS
}

var sizeLineRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)

// ParseSizes parses the output of "size <file>". It uses the first line
// that starts with four decimal columns. If there is no such line, it
// returns the zero Sizes and false.
func ParseSizes(out string) (Sizes, bool) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		m := sizeLineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		var v [4]uint64
		ok := true
		for i := range v {
			n, err := strconv.ParseUint(m[i+1], 10, 64)
			if err != nil {
				ok = false
				break
			}
			v[i] = n
		}
		if !ok {
			continue
		}
		return Sizes{Text: v[0], Data: v[1], BSS: v[2], Total: v[3]}, true
	}
	return Sizes{}, false
}
