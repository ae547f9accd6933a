// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"fmt"
	"regexp"
)

// A Selector decides which symbols of a binary are considered, based on
// an optional selection and an optional exclusion regular expression.
// Both match at the start of the name and are case-sensitive.
//
// The zero Selector selects everything.
type Selector struct {
	// Selection and Exclusion are the source patterns, or "" if unset.
	Selection, Exclusion string

	include, exclude *regexp.Regexp
}

// NewSelector compiles the selection and exclusion patterns. Empty
// patterns are unset.
func NewSelector(selection, exclusion string) (*Selector, error) {
	s := &Selector{Selection: selection, Exclusion: exclusion}
	var err error
	if s.include, err = compilePrefix(selection); err != nil {
		return nil, fmt.Errorf("symbol selection regex: %w", err)
	}
	if s.exclude, err = compilePrefix(exclusion); err != nil {
		return nil, fmt.Errorf("symbol exclusion regex: %w", err)
	}
	return s, nil
}

func compilePrefix(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(`^(?:` + pattern + `)`)
}

// Selected reports whether name is selected. Exclusion wins over
// selection.
func (s *Selector) Selected(name string) bool {
	if s == nil {
		return true
	}
	if s.exclude != nil && s.exclude.MatchString(name) {
		return false
	}
	if s.include == nil {
		return true
	}
	return s.include.MatchString(name)
}
