// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pair

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// chars splits s into a sequence of one-character strings.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// NameRatio returns the similarity of the names a and b in [0, 1],
// computed from the longest matching blocks of their characters.
// NameRatio(a, b) == NameRatio(b, a).
func NameRatio(a, b string) float64 {
	return nameRatio(chars(a), chars(b))
}

// nameRatio is the larger of the two matcher orders. The block search
// prefers earlier matches in its first sequence, so one order alone is
// not symmetric.
func nameRatio(a, b []string) float64 {
	r := difflib.NewMatcher(a, b).Ratio()
	if rev := difflib.NewMatcher(b, a).Ratio(); rev > r {
		r = rev
	}
	return r
}

// LinesRatio returns the similarity of the line sequences a and b in
// [0, 1].
func LinesRatio(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}

type match struct {
	idx   int
	score float64
}

// closeMatches returns up to n elements of candidates that are most
// similar to word by NameRatio, best first. Candidates scoring below
// cutoff are never returned. Ties are broken by the larger candidate
// string.
func closeMatches(word string, candidates []string, n int, cutoff float64) []match {
	if n <= 0 {
		return nil
	}
	w := chars(word)
	// Seq2 is cached by the matcher, so hold the word there and vary the
	// candidate. Both quick ratios bound the ratio in either order.
	m := difflib.NewMatcher(nil, w)
	var found []match
	for i, c := range candidates {
		cs := chars(c)
		m.SetSeq1(cs)
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := nameRatio(w, cs); r >= cutoff {
			found = append(found, match{i, r})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.score != b.score {
			return a.score > b.score
		}
		return strings.Compare(candidates[a.idx], candidates[b.idx]) > 0
	})
	if len(found) > n {
		found = found[:n]
	}
	return found
}

// Tags bracketing the differing spans of a highlighted name.
const (
	HighlightStartTag = "...HIGHLIGHT_START..."
	HighlightEndTag   = "...HIGHLIGHT_END..."
)

// Highlight returns old and new with the spans that differ between them
// bracketed by HighlightStartTag and HighlightEndTag. In old, deleted and
// replaced spans are tagged. In new, inserted and replaced spans are.
func Highlight(old, new string) (string, string) {
	a, b := chars(old), chars(new)
	var src, dst strings.Builder
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		oldSpan := strings.Join(a[op.I1:op.I2], "")
		newSpan := strings.Join(b[op.J1:op.J2], "")
		switch op.Tag {
		case 'e':
			src.WriteString(oldSpan)
			dst.WriteString(newSpan)
		case 'r':
			writeTagged(&src, oldSpan)
			writeTagged(&dst, newSpan)
		case 'd':
			writeTagged(&src, oldSpan)
		case 'i':
			writeTagged(&dst, newSpan)
		}
	}
	return src.String(), dst.String()
}

func writeTagged(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(HighlightStartTag)
	b.WriteString(s)
	b.WriteString(HighlightEndTag)
}
