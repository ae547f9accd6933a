// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package doc implements a statically declared document schema and the
// value tree that conforms to it.
//
// A schema is a tree of Meta descriptors. A Document holds one value per
// leaf of its schema. Every assignment is checked against the schema, and
// Validate checks that the finished document is complete.
package doc

import (
	"fmt"
	"strings"
)

// Kind is the declared type of a schema node.
type Kind uint8

const (
	KindStr Kind = iota
	KindInt
	KindFloat
	KindBool
	// KindNode is a nested node with named children.
	KindNode
	// KindDict is a dictionary of nodes of one variant, keyed by integer
	// id.
	KindDict
	// KindRef is an integer id that must be a key of a target
	// dictionary.
	KindRef
	// KindNull is the kind of the null value. It is never declared.
	KindNull
)

var kindNames = [...]string{"str", "int", "float", "bool", "node", "dict", "ref", "null"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Leaf reports whether k is the kind of a leaf holding a Value.
func (k Kind) Leaf() bool {
	switch k {
	case KindStr, KindInt, KindFloat, KindBool, KindRef:
		return true
	}
	return false
}

// A Validator checks a non-null leaf value.
type Validator func(v Value) error

// Meta describes one node of a schema.
type Meta struct {
	Name string
	Doc  string
	Kind Kind
	// Nullable permits the null value for leaves.
	Nullable bool
	// Validators are run on non-null leaf values.
	Validators []Validator

	// Children are the members of a KindNode, in declaration order.
	Children []*Meta
	// Variant is the node type of each entry of a KindDict.
	Variant *Meta
	// Target is the dotted path of the dictionary a KindRef refers to.
	Target string

	index map[string]*Meta
}

// Node declares a node with the given children. It panics if two
// children share a name.
func Node(name, doc string, children ...*Meta) *Meta {
	m := &Meta{Name: name, Doc: doc, Kind: KindNode, Children: children, index: make(map[string]*Meta)}
	for _, c := range children {
		if _, ok := m.index[c.Name]; ok {
			panic(fmt.Sprintf("doc: duplicate member %q of %q", c.Name, name))
		}
		m.index[c.Name] = c
	}
	return m
}

// Str declares a string leaf.
func Str(name, doc string, v ...Validator) *Meta {
	return &Meta{Name: name, Doc: doc, Kind: KindStr, Validators: v}
}

// Int declares an integer leaf.
func Int(name, doc string, v ...Validator) *Meta {
	return &Meta{Name: name, Doc: doc, Kind: KindInt, Validators: v}
}

// Float declares a floating point leaf.
func Float(name, doc string, v ...Validator) *Meta {
	return &Meta{Name: name, Doc: doc, Kind: KindFloat, Validators: v}
}

// Bool declares a boolean leaf.
func Bool(name, doc string) *Meta {
	return &Meta{Name: name, Doc: doc, Kind: KindBool}
}

// Dict declares a dictionary whose entries are nodes of type variant.
func Dict(name, doc string, variant *Meta) *Meta {
	if variant.Kind != KindNode {
		panic(fmt.Sprintf("doc: variant of %q is a %s, not a node", name, variant.Kind))
	}
	return &Meta{Name: name, Doc: doc, Kind: KindDict, Variant: variant}
}

// Ref declares a reference to an entry of the dictionary at the dotted
// path target.
func Ref(name, doc, target string) *Meta {
	return &Meta{Name: name, Doc: doc, Kind: KindRef, Target: target}
}

// Null marks a leaf as nullable and returns it.
func (m *Meta) Null() *Meta {
	m.Nullable = true
	return m
}

// Child returns the member name of a KindNode, or nil.
func (m *Meta) Child(name string) *Meta {
	return m.index[name]
}

// Lookup returns the descendant at the dotted path, stepping through
// dictionary variants by the member name of the dictionary. It returns
// nil if there is no such member.
func (m *Meta) Lookup(path string) *Meta {
	cur := m
	for _, name := range strings.Split(path, ".") {
		if cur.Kind == KindDict {
			cur = cur.Variant
		}
		if cur = cur.Child(name); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk calls fn for m and every descendant of m in declaration order,
// with the dotted path and depth of each. Dictionary variants are
// visited below their dictionary.
func (m *Meta) Walk(fn func(path string, depth int, m *Meta)) {
	m.walk("", 0, fn)
}

func (m *Meta) walk(prefix string, depth int, fn func(string, int, *Meta)) {
	fn(prefix, depth, m)
	var members []*Meta
	switch m.Kind {
	case KindNode:
		members = m.Children
	case KindDict:
		members = m.Variant.Children
	}
	for _, c := range members {
		p := c.Name
		if prefix != "" {
			p = prefix + "." + c.Name
		}
		c.walk(p, depth+1, fn)
	}
}

// Common validators.

// NonNegative rejects negative integers.
func NonNegative(v Value) error {
	if i, ok := v.Int(); ok && i < 0 {
		return fmt.Errorf("%d is negative", i)
	}
	return nil
}

// Percentage rejects floats outside [0, 100].
func Percentage(v Value) error {
	if f, ok := v.Float(); ok && (f < 0 || f > 100) {
		return fmt.Errorf("%g is not a percentage", f)
	}
	return nil
}

// OneOf returns a validator that accepts only the given strings.
func OneOf(options ...string) Validator {
	return func(v Value) error {
		s, _ := v.Str()
		for _, o := range options {
			if s == o {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %s", s, strings.Join(options, ", "))
	}
}
