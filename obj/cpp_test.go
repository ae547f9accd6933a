// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCppName(t *testing.T) {
	for _, test := range []struct {
		in   string
		want CppName
	}{
		{"ns::Cls<T,U>::f(int, double)", CppName{
			Namespace: "ns::Cls", TemplateParams: "T,U", Name: "f", Args: "int, double", Kind: KindFunction,
		}},
		{"vtable for Foo", CppName{Prefix: PrefixVtable, Name: "Foo", Kind: KindData}},
		{"non-virtual thunk to Derived::run()", CppName{
			Prefix: PrefixNonVirtualThunk, Namespace: "Derived", Name: "run", Kind: KindFunction,
		}},
		{"counter", CppName{Name: "counter", Kind: KindData}},
		{"a(int)", CppName{Name: "a", Args: "int", Kind: KindFunction}},
		{"ns::value", CppName{Namespace: "ns", Name: "value", Kind: KindData}},
		{"Foo::bar(int) const", CppName{Namespace: "Foo", Name: "bar", Args: "int", Kind: KindFunction}},
		{"std::vector<std::pair<int, int> >::push_back(std::pair<int, int> const&)", CppName{
			Namespace: "std::vector", TemplateParams: "std::pair<int, int> ", Name: "push_back",
			Args: "std::pair<int, int> const&", Kind: KindFunction,
		}},
		{"Widget::operator()(int)", CppName{Namespace: "Widget", Name: "operator()", Args: "int", Kind: KindFunction}},
		{"foo<a::b>", CppName{Name: "foo<a::b>", Kind: KindData}},
		{"f(std::function<void (int)>)", CppName{Name: "f", Args: "std::function<void (int)>", Kind: KindFunction}},
		{"(anonymous namespace)::counter", CppName{Namespace: "(anonymous namespace)", Name: "counter", Kind: KindData}},
		{"(anonymous namespace)::init(int)", CppName{
			Namespace: "(anonymous namespace)", Name: "init", Args: "int", Kind: KindFunction,
		}},
		{"f()::calls", CppName{Namespace: "f()", Name: "calls", Kind: KindData}},
		{"S::get() const &&", CppName{Namespace: "S", Name: "get", Kind: KindFunction}},
		{"S::swap(S&) noexcept", CppName{Namespace: "S", Name: "swap", Args: "S&", Kind: KindFunction}},
		{"f(int) [clone .isra.0]", CppName{Name: "f", Args: "int", Kind: KindFunction}},
		{"f() constexpr_tag", CppName{Name: "f() constexpr_tag", Kind: KindData}},
	} {
		got := ParseCppName(test.in)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("ParseCppName(%q) mismatch (-want +got):\n%s", test.in, diff)
		}
	}
}

func TestQualifiersOnly(t *testing.T) {
	for s, want := range map[string]bool{
		"":                        true,
		" const":                  true,
		" const volatile &":       true,
		"&&":                      true,
		" noexcept [clone .cold]": true,
		"::counter":               false,
		" constant":               false,
		" [clone .cold":           false,
	} {
		if got := qualifiersOnly(s); got != want {
			t.Errorf("qualifiersOnly(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestArgList(t *testing.T) {
	n := ParseCppName("g(std::array<int, (foo)3>, double)")
	want := []string{"std::array<int, (foo)3>", "double"}
	if diff := cmp.Diff(want, n.ArgList()); diff != "" {
		t.Errorf("ArgList mismatch (-want +got):\n%s", diff)
	}
	if got := ParseCppName("h()").ArgList(); got != nil {
		t.Errorf("empty argument list: want nil, got %q", got)
	}
}

func TestMatchRight(t *testing.T) {
	check := func(s string, wantLo, wantHi int, wantOK bool) {
		t.Helper()
		lo, hi, ok := matchRight(s, '(', ')')
		if lo != wantLo || hi != wantHi || ok != wantOK {
			t.Errorf("matchRight(%q) = %d, %d, %v; want %d, %d, %v", s, lo, hi, ok, wantLo, wantHi, wantOK)
		}
	}
	check("f(a)", 1, 3, true)
	check("f(a(b))", 1, 6, true)
	check("f(a)(b)", 4, 6, true)
	check("f(a) const", 1, 3, true)
	check("nothing", -1, -1, false)
	check("unbalanced)", -1, -1, false)
}
