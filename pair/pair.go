// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pair compares the symbols of two binaries.
//
// Symbols are partitioned by mangled name into persisting, disappeared
// and appeared sets. Disappeared and appeared symbols with similar names
// are then paired up as likely renamings.
package pair

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/binary"
	"github.com/aclements/go-symdiff/obj"
)

// DefaultThreshold is the default minimum name similarity of a similar
// pair.
const DefaultThreshold = 0.5

// DefaultMaxMatches is the default number of appeared symbols paired with
// each disappeared symbol.
const DefaultMaxMatches = 5

// Options controls the comparison.
type Options struct {
	// Threshold is the minimum name similarity in [0, 1] of a similar
	// pair.
	Threshold float64
	// MaxMatches bounds the matches per disappeared symbol. 0 means
	// DefaultMaxMatches.
	MaxMatches int
	// SkipSimilarities disables similar pair matching.
	SkipSimilarities bool
	Log              zerolog.Logger
}

// DefaultOptions returns the default comparison options.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, MaxMatches: DefaultMaxMatches, Log: zerolog.Nop()}
}

// Persisting is a symbol present in both binaries.
type Persisting struct {
	Old, New *obj.Sym
}

// SizeDelta returns the new size minus the old size.
func (p Persisting) SizeDelta() int64 {
	return int64(p.New.Size) - int64(p.Old.Size)
}

// InstsDiffer reports whether the instruction lines of the two sides
// differ.
func (p Persisting) InstsDiffer() bool {
	return !p.Old.InstsEqual(p.New)
}

// Similar is a disappeared symbol paired with a similarly named appeared
// symbol.
type Similar struct {
	Old, New *obj.Sym
	// NameSimilarity is the similarity of the display names.
	NameSimilarity float64
	// InstSimilarity is the similarity of the instruction lines, or nil
	// if either side has none.
	InstSimilarity *float64
	// InstsEqual reports whether the instruction lines are equal.
	InstsEqual bool
}

// SizeDelta returns the new size minus the old size.
func (s Similar) SizeDelta() int64 {
	return int64(s.New.Size) - int64(s.Old.Size)
}

// Result is the comparison of two binaries. It never modifies the
// symbols of either binary.
type Result struct {
	Old, New *binary.Binary

	// Persisting, Disappeared and Appeared are sorted by mangled name.
	Persisting  []Persisting
	Disappeared []*obj.Sym
	Appeared    []*obj.Sym

	// Similar is sorted by descending name similarity, then descending
	// instruction similarity with nil last, then descending size delta.
	Similar []Similar

	// SizeChangeCount is the number of persisting symbols whose size
	// changed.
	SizeChangeCount int
	// InstsDifferCount is the number of persisting symbols whose
	// instructions differ.
	InstsDifferCount int
}

// Compare compares old and new.
func Compare(old, new *binary.Binary, opts Options) *Result {
	if opts.MaxMatches == 0 {
		opts.MaxMatches = DefaultMaxMatches
	}
	r := &Result{Old: old, New: new}
	for _, name := range old.Table.Names() {
		o := old.Table.Name(name)
		n := new.Table.Name(name)
		if n == nil {
			r.Disappeared = append(r.Disappeared, o)
			continue
		}
		p := Persisting{Old: o, New: n}
		r.Persisting = append(r.Persisting, p)
		if o.Size != n.Size {
			r.SizeChangeCount++
		}
		if p.InstsDiffer() {
			r.InstsDifferCount++
		}
	}
	for _, name := range new.Table.Names() {
		if old.Table.Name(name) == nil {
			r.Appeared = append(r.Appeared, new.Table.Name(name))
		}
	}

	if !opts.SkipSimilarities && len(r.Disappeared) > 0 && len(r.Appeared) > 0 {
		r.Similar = similar(r.Disappeared, r.Appeared, opts)
	}
	opts.Log.Debug().
		Int("persisting", len(r.Persisting)).
		Int("disappeared", len(r.Disappeared)).
		Int("appeared", len(r.Appeared)).
		Int("similar", len(r.Similar)).
		Msg("compared binaries")
	return r
}

func similar(disappeared, appeared []*obj.Sym, opts Options) []Similar {
	names := make([]string, len(appeared))
	for i, s := range appeared {
		names[i] = s.Display
	}
	var out []Similar
	for _, o := range disappeared {
		for _, m := range closeMatches(o.Display, names, opts.MaxMatches, opts.Threshold) {
			n := appeared[m.idx]
			s := Similar{
				Old:            o,
				New:            n,
				NameSimilarity: m.score,
				InstsEqual:     o.InstsEqual(n),
			}
			if o.HasInsts() && n.HasInsts() {
				r := LinesRatio(o.Insts, n.Insts)
				s.InstSimilarity = &r
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

// less orders similar pairs best first. Pairs that tie on every
// similarity key fall back to name order to keep output stable.
func less(a, b *Similar) bool {
	if a.NameSimilarity != b.NameSimilarity {
		return a.NameSimilarity > b.NameSimilarity
	}
	switch {
	case a.InstSimilarity != nil && b.InstSimilarity == nil:
		return true
	case a.InstSimilarity == nil && b.InstSimilarity != nil:
		return false
	case a.InstSimilarity != nil && *a.InstSimilarity != *b.InstSimilarity:
		return *a.InstSimilarity > *b.InstSimilarity
	}
	if da, db := a.SizeDelta(), b.SizeDelta(); da != db {
		return da > db
	}
	if a.Old.Name != b.Old.Name {
		return a.Old.Name < b.Old.Name
	}
	return a.New.Name < b.New.Name
}
