// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"path"
	"sort"
	"strconv"
	"strings"
)

// SourceID identifies a source file within one run.
type SourceID int

// NoSource is a placeholder SourceID used to indicate "no source file".
const NoSource SourceID = -1

func (id SourceID) String() string {
	if id == NoSource {
		return "NoSource"
	}
	return strconv.Itoa(int(id))
}

// A SourceFile is a source file referenced by nm line numbers or by the
// debug info of a binary.
type SourceFile struct {
	ID SourceID
	// Base is the last element of Path.
	Base string
	// Path is the normalized full path of the file.
	Path string
	// Stripped is Path with the first matching source prefix removed.
	Stripped string
}

// Sources is the set of source files of one binary, deduplicated by
// normalized full path.
type Sources struct {
	alloc    *Alloc
	prefixes []string
	byID     map[SourceID]*SourceFile
	byPath   map[string]*SourceFile
}

// NewSources returns an empty source set. IDs come from alloc. prefixes
// are stripped from the beginning of paths to form SourceFile.Stripped.
func NewSources(alloc *Alloc, prefixes []string) *Sources {
	norm := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		norm = append(norm, NormalizePath(p))
	}
	return &Sources{
		alloc:    alloc,
		prefixes: norm,
		byID:     make(map[SourceID]*SourceFile),
		byPath:   make(map[string]*SourceFile),
	}
}

// Add returns the source file for p, registering it if this is the first
// time p (after normalization) was seen.
func (s *Sources) Add(p string) *SourceFile {
	full := NormalizePath(p)
	if f, ok := s.byPath[full]; ok {
		return f
	}
	f := &SourceFile{
		ID:       s.alloc.Source(),
		Base:     path.Base(full),
		Path:     full,
		Stripped: s.strip(full),
	}
	s.byPath[full] = f
	s.byID[f.ID] = f
	return f
}

func (s *Sources) strip(full string) string {
	for _, prefix := range s.prefixes {
		if rest, ok := strings.CutPrefix(full, prefix); ok {
			return strings.TrimPrefix(rest, "/")
		}
	}
	return full
}

// Get returns the source file with the given ID, or nil. A nil Sources
// holds no files.
func (s *Sources) Get(id SourceID) *SourceFile {
	if s == nil {
		return nil
	}
	return s.byID[id]
}

// Lookup returns the source file registered for p, or nil.
func (s *Sources) Lookup(p string) *SourceFile {
	return s.byPath[NormalizePath(p)]
}

// Len returns the number of registered source files.
func (s *Sources) Len() int {
	return len(s.byID)
}

// All returns all source files in ID order.
func (s *Sources) All() []*SourceFile {
	out := make([]*SourceFile, 0, len(s.byID))
	for _, f := range s.byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NormalizePath converts backslashes to forward slashes and cleans p.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}
