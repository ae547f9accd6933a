// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import "strings"

// PrefixID identifies a recognized leading qualifier of a demangled C++
// name.
type PrefixID int

const (
	PrefixNone PrefixID = iota
	PrefixNonVirtualThunk
	PrefixVtable
)

var cppPrefixes = []struct {
	id   PrefixID
	text string
}{
	{PrefixNonVirtualThunk, "non-virtual thunk to"},
	{PrefixVtable, "vtable for"},
}

// String returns the qualifier text of p, or "" for PrefixNone.
func (p PrefixID) String() string {
	for _, pfx := range cppPrefixes {
		if pfx.id == p {
			return pfx.text
		}
	}
	return ""
}

// CppName is a demangled C++ name broken into its parts. Each part is
// empty if the name does not have it.
//
// For "ns::Cls<T,U>::f(int, double)", Namespace is "ns::Cls",
// TemplateParams is "T,U", Name is "f" and Args is "int, double".
type CppName struct {
	Prefix         PrefixID
	Namespace      string
	TemplateParams string
	Name           string
	Args           string
	// Kind is KindFunction if the name has an argument list, even an
	// empty one.
	Kind SymKind
}

// ParseCppName decomposes the demangled name s.
func ParseCppName(s string) CppName {
	var n CppName
	rest := strings.TrimSpace(s)
	for _, pfx := range cppPrefixes {
		if r, ok := strings.CutPrefix(rest, pfx.text); ok {
			n.Prefix = pfx.id
			rest = strings.TrimSpace(r)
			break
		}
	}

	if lo, hi, ok := matchRight(rest, '(', ')'); ok && qualifiersOnly(rest[hi+1:]) {
		n.Args = rest[lo+1 : hi]
		n.Kind = KindFunction
		rest = rest[:lo]
	}

	sep := lastScope(rest)
	if sep < 0 {
		n.Name = rest
		return n
	}
	n.Name = rest[sep+2:]
	full := rest[:sep]
	if strings.HasSuffix(full, ">") {
		if lo, hi, ok := matchRight(full, '<', '>'); ok && hi == len(full)-1 {
			n.TemplateParams = full[lo+1 : hi]
			n.Namespace = full[:lo]
			return n
		}
	}
	n.Namespace = full
	return n
}

// ArgList splits the argument list of n at top-level commas. Commas
// nested in <>, () or [] do not split.
func (n CppName) ArgList() []string {
	if strings.TrimSpace(n.Args) == "" {
		return nil
	}
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(n.Args); i++ {
		switch n.Args[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(n.Args[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(n.Args[start:]))
}

// matchRight walks s from the end and returns the indexes of the
// outermost open/close pair that ends at the first close found, so the
// last balanced group of s. ok is false if s has no close or the group is
// unbalanced.
func matchRight(s string, open, close byte) (lo, hi int, ok bool) {
	depth := 0
	hi = -1
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case close:
			if depth == 0 {
				hi = i
			}
			depth++
		case open:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return i, hi, true
			}
		}
	}
	return -1, -1, false
}

var qualifiers = []string{"const", "volatile", "noexcept", "&&", "&"}

// qualifiersOnly reports whether s, the text after an argument list,
// holds nothing but cv and ref qualifiers, noexcept and "[clone ...]"
// suffixes. Anything else, such as "::counter" after "(anonymous
// namespace)", means the parentheses are not an argument list.
func qualifiersOnly(s string) bool {
	for {
		s = strings.TrimSpace(s)
		if s == "" {
			return true
		}
		if strings.HasPrefix(s, "[clone ") {
			i := strings.IndexByte(s, ']')
			if i < 0 {
				return false
			}
			s = s[i+1:]
			continue
		}
		found := false
		for _, q := range qualifiers {
			r, ok := strings.CutPrefix(s, q)
			if !ok || q[0] != '&' && r != "" && isIdent(r[0]) {
				continue
			}
			s, found = r, true
			break
		}
		if !found {
			return false
		}
	}
}

func isIdent(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// lastScope returns the index of the last "::" in s that is not nested
// in template brackets, or -1.
func lastScope(s string) int {
	depth := 0
	for i := len(s) - 1; i > 0; i-- {
		switch s[i] {
		case '>':
			depth++
		case '<':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && s[i-1] == ':' {
				return i - 1
			}
		}
	}
	return -1
}
