// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pair

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
)

func TestNameRatio(t *testing.T) {
	assert.Equal(t, 1.0, NameRatio("abc", "abc"))
	assert.Equal(t, 0.0, NameRatio("abc", "xyz"))
	assert.InDelta(t, 0.75, NameRatio("abcd", "bcde"), 1e-9)
	assert.Equal(t, NameRatio("foo", "foo2"), NameRatio("foo2", "foo"))
}

func TestNameRatioSymmetric(t *testing.T) {
	for _, tc := range [][2]string{
		{"abefecd", "fabfae"},
		{"handler_v1", "v1_handler"},
		{"ns::f(int)", "f(int)::ns"},
		{"aab", "abaa"},
	} {
		a, b := tc[0], tc[1]
		fwd := difflib.NewMatcher(chars(a), chars(b)).Ratio()
		rev := difflib.NewMatcher(chars(b), chars(a)).Ratio()
		assert.Equal(t, NameRatio(a, b), NameRatio(b, a), "%q/%q", a, b)
		assert.GreaterOrEqual(t, NameRatio(a, b), fwd, "%q/%q", a, b)
		assert.GreaterOrEqual(t, NameRatio(a, b), rev, "%q/%q", a, b)
	}
}

func indexes(ms []match) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.idx
	}
	return out
}

func TestLinesRatio(t *testing.T) {
	assert.Equal(t, 1.0, LinesRatio([]string{"a", "b"}, []string{"a", "b"}))
	assert.InDelta(t, 0.5, LinesRatio([]string{"a", "b"}, []string{"a", "c"}), 1e-9)
}

func TestCloseMatches(t *testing.T) {
	cands := []string{"apple", "ape", "peach", "puppy", "appel"}
	assert.Equal(t, []int{4, 0, 1}, indexes(closeMatches("appel", cands, 3, 0.6)))
	assert.Equal(t, []int{4}, indexes(closeMatches("appel", cands, 1, 0.6)))
	assert.Empty(t, closeMatches("appel", cands, 0, 0.6))
	assert.Empty(t, closeMatches("zzz", cands, 3, 0.5))
}

func TestCloseMatchesScoreIsNameRatio(t *testing.T) {
	cands := []string{"fabfae", "abefec", "xbefecd", "feca"}
	for _, m := range closeMatches("abefecd", cands, len(cands), 0.3) {
		assert.Equal(t, NameRatio("abefecd", cands[m.idx]), m.score, "candidate %q", cands[m.idx])
		assert.GreaterOrEqual(t, m.score, 0.3)
	}
}

func TestHighlight(t *testing.T) {
	const s, e = HighlightStartTag, HighlightEndTag
	for _, tc := range []struct {
		old, new, wantOld, wantNew string
	}{
		{"foo", "foo2", "foo", "foo" + s + "2" + e},
		{"foo2", "foo", "foo" + s + "2" + e, "foo"},
		{"abc", "axc", "a" + s + "b" + e + "c", "a" + s + "x" + e + "c"},
		{"same", "same", "same", "same"},
		{"ns::f(int)", "ns::g(int)", "ns::" + s + "f" + e + "(int)", "ns::" + s + "g" + e + "(int)"},
	} {
		gotOld, gotNew := Highlight(tc.old, tc.new)
		assert.Equal(t, tc.wantOld, gotOld, "old of %q/%q", tc.old, tc.new)
		assert.Equal(t, tc.wantNew, gotNew, "new of %q/%q", tc.old, tc.new)
	}
}
