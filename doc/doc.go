// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package doc

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SchemaViolation reports a use of a document that its schema does not
// allow. It always indicates a bug in the code filling the document.
type SchemaViolation struct {
	// Path is the dotted path of the offending node. Dictionary entries
	// appear as their key.
	Path   string
	Reason string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

// Document is a value tree conforming to a schema.
type Document struct {
	Schema *Meta
	Root   *NodeValue
}

// New returns an empty document for schema, which must be a KindNode.
// Every nested node exists from the start. Dictionaries start empty.
func New(schema *Meta) *Document {
	if schema.Kind != KindNode {
		panic("doc: schema root must be a node")
	}
	return &Document{Schema: schema, Root: newNode(schema, "")}
}

// NodeValue holds the values of one node.
type NodeValue struct {
	meta   *Meta
	path   string
	leaves map[string]Value
	nodes  map[string]*NodeValue
	dicts  map[string]*DictValue
}

func newNode(m *Meta, path string) *NodeValue {
	n := &NodeValue{
		meta:   m,
		path:   path,
		leaves: make(map[string]Value),
		nodes:  make(map[string]*NodeValue),
		dicts:  make(map[string]*DictValue),
	}
	for _, c := range m.Children {
		switch c.Kind {
		case KindNode:
			n.nodes[c.Name] = newNode(c, join(path, c.Name))
		case KindDict:
			n.dicts[c.Name] = &DictValue{meta: c, path: join(path, c.Name), entries: make(map[int]*NodeValue)}
		}
	}
	return n
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Meta returns the schema node of n.
func (n *NodeValue) Meta() *Meta { return n.meta }

// Path returns the dotted path of n.
func (n *NodeValue) Path() string { return n.path }

func (n *NodeValue) member(name string, kinds ...Kind) (*Meta, error) {
	m := n.meta.Child(name)
	if m == nil {
		return nil, &SchemaViolation{join(n.path, name), "undeclared member of " + n.meta.Name}
	}
	for _, k := range kinds {
		if m.Kind == k {
			return m, nil
		}
	}
	return nil, &SchemaViolation{join(n.path, name), fmt.Sprintf("declared %s", m.Kind)}
}

// Set assigns the leaf name of n.
func (n *NodeValue) Set(name string, v Value) error {
	m := n.meta.Child(name)
	if m == nil {
		return &SchemaViolation{join(n.path, name), "undeclared member of " + n.meta.Name}
	}
	if err := checkLeaf(m, v, join(n.path, name)); err != nil {
		return err
	}
	n.leaves[name] = v
	return nil
}

func checkLeaf(m *Meta, v Value, path string) error {
	if !m.Kind.Leaf() {
		return &SchemaViolation{path, fmt.Sprintf("cannot assign a value to a %s", m.Kind)}
	}
	if v.IsNull() {
		if !m.Nullable {
			return &SchemaViolation{path, "null value for non-nullable " + m.Kind.String()}
		}
		return nil
	}
	if v.Kind() != m.Kind {
		return &SchemaViolation{path, fmt.Sprintf("%s value for %s", v.Kind(), m.Kind)}
	}
	for _, check := range m.Validators {
		if err := check(v); err != nil {
			return &SchemaViolation{path, err.Error()}
		}
	}
	return nil
}

// MustSet is like Set but panics on a schema violation.
func (n *NodeValue) MustSet(name string, v Value) {
	if err := n.Set(name, v); err != nil {
		panic(err)
	}
}

// Get returns the value of leaf name and whether it was assigned.
func (n *NodeValue) Get(name string) (Value, bool) {
	v, ok := n.leaves[name]
	return v, ok
}

// Node returns the nested node name of n.
func (n *NodeValue) Node(name string) (*NodeValue, error) {
	if _, err := n.member(name, KindNode); err != nil {
		return nil, err
	}
	return n.nodes[name], nil
}

// Dict returns the dictionary name of n.
func (n *NodeValue) Dict(name string) (*DictValue, error) {
	if _, err := n.member(name, KindDict); err != nil {
		return nil, err
	}
	return n.dicts[name], nil
}

// DictValue holds the entries of one dictionary in insertion order.
type DictValue struct {
	meta    *Meta
	path    string
	keys    []int
	entries map[int]*NodeValue
}

// Meta returns the schema node of d.
func (d *DictValue) Meta() *Meta { return d.meta }

// Add creates the entry with key id. Keys must be unique.
func (d *DictValue) Add(id int) (*NodeValue, error) {
	if _, ok := d.entries[id]; ok {
		return nil, &SchemaViolation{join(d.path, strconv.Itoa(id)), "duplicate key"}
	}
	e := newNode(d.meta.Variant, join(d.path, strconv.Itoa(id)))
	d.entries[id] = e
	d.keys = append(d.keys, id)
	return e, nil
}

// Get returns the entry with key id, or nil.
func (d *DictValue) Get(id int) *NodeValue { return d.entries[id] }

// Keys returns the keys of d in insertion order.
func (d *DictValue) Keys() []int { return d.keys }

// SortedKeys returns the keys of d in ascending order.
func (d *DictValue) SortedKeys() []int {
	out := append([]int(nil), d.keys...)
	sort.Ints(out)
	return out
}

// Len returns the number of entries of d.
func (d *DictValue) Len() int { return len(d.keys) }

// Node returns the node at the dotted path, which may only step through
// nested nodes.
func (d *Document) Node(path string) (*NodeValue, error) {
	n := d.Root
	if path == "" {
		return n, nil
	}
	for _, name := range strings.Split(path, ".") {
		var err error
		if n, err = n.Node(name); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Dict returns the dictionary at the dotted path.
func (d *Document) Dict(path string) (*DictValue, error) {
	parent, name := "", path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		parent, name = path[:i], path[i+1:]
	}
	n, err := d.Node(parent)
	if err != nil {
		return nil, err
	}
	return n.Dict(name)
}

// Set assigns the leaf at the dotted path.
func (d *Document) Set(path string, v Value) error {
	parent, name := "", path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		parent, name = path[:i], path[i+1:]
	}
	n, err := d.Node(parent)
	if err != nil {
		return err
	}
	return n.Set(name, v)
}

// Validate checks that every leaf of d is assigned a value of its
// declared type, that every dictionary entry is of the declared variant
// and that every reference resolves. It returns all violations joined.
func (d *Document) Validate() error {
	var errs []error
	d.validate(d.Root, &errs)
	return errors.Join(errs...)
}

func (d *Document) validate(n *NodeValue, errs *[]error) {
	for _, m := range n.meta.Children {
		path := join(n.path, m.Name)
		switch m.Kind {
		case KindNode:
			d.validate(n.nodes[m.Name], errs)
		case KindDict:
			dict := n.dicts[m.Name]
			for _, k := range dict.keys {
				e := dict.entries[k]
				if e.meta != m.Variant {
					*errs = append(*errs, &SchemaViolation{e.path, "entry is not a " + m.Variant.Name})
					continue
				}
				d.validate(e, errs)
			}
		default:
			v, ok := n.leaves[m.Name]
			if !ok {
				*errs = append(*errs, &SchemaViolation{path, "never assigned"})
				continue
			}
			if err := checkLeaf(m, v, path); err != nil {
				*errs = append(*errs, err)
				continue
			}
			if m.Kind == KindRef && !v.IsNull() {
				d.validateRef(m, v, path, errs)
			}
		}
	}
}

func (d *Document) validateRef(m *Meta, v Value, path string, errs *[]error) {
	target, err := d.Dict(m.Target)
	if err != nil {
		*errs = append(*errs, &SchemaViolation{path, "reference target " + m.Target + " is not a dictionary"})
		return
	}
	id, _ := v.Ref()
	if target.Get(id) == nil {
		*errs = append(*errs, &SchemaViolation{path, fmt.Sprintf("dangling reference %d into %s", id, m.Target)})
	}
}
