// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aclements/go-symdiff/doc"
)

// YAML renders a document as a YAML mapping with the same shape as the
// JSON output. Each leaf carries its schema documentation as a line
// comment on the key. Nodes and dicts carry it as a head comment, since
// a line comment after the key of an empty mapping does not round-trip.
type YAML struct{}

// Export implements Exporter.
func (YAML) Export(d *doc.Document, w io.Writer) error {
	b := &yamlBuilder{stack: []*yaml.Node{{Kind: yaml.MappingNode}}}
	if err := walk(d.Root, b); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: b.stack}); err != nil {
		return err
	}
	return enc.Close()
}

// yamlBuilder assembles the node tree. The last element of stack is the
// mapping being filled.
type yamlBuilder struct {
	stack []*yaml.Node
}

func (b *yamlBuilder) top() *yaml.Node { return b.stack[len(b.stack)-1] }

func (b *yamlBuilder) add(key *yaml.Node, val *yaml.Node) {
	top := b.top()
	top.Content = append(top.Content, key, val)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func keyNode(m *doc.Meta) *yaml.Node {
	k := scalar("!!str", m.Name)
	k.LineComment = m.Doc
	return k
}

func yamlValue(v doc.Value) *yaml.Node {
	switch v.Kind() {
	case doc.KindStr:
		s, _ := v.Str()
		n := scalar("!!str", s)
		if strings.Contains(s, "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n
	case doc.KindInt:
		i, _ := v.Int()
		return scalar("!!int", strconv.FormatInt(i, 10))
	case doc.KindFloat:
		f, _ := v.Float()
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return scalar("!!float", s)
	case doc.KindBool:
		b, _ := v.Bool()
		return scalar("!!bool", strconv.FormatBool(b))
	case doc.KindRef:
		id, _ := v.Ref()
		return scalar("!!int", strconv.Itoa(id))
	}
	return scalar("!!null", "null")
}

func (b *yamlBuilder) leaf(m *doc.Meta, v doc.Value) {
	b.add(keyNode(m), yamlValue(v))
}

func (b *yamlBuilder) enter(m *doc.Meta) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	k := scalar("!!str", m.Name)
	k.HeadComment = m.Doc
	b.add(k, n)
	b.stack = append(b.stack, n)
}

func (b *yamlBuilder) leave(m *doc.Meta) {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *yamlBuilder) entry(m *doc.Meta, key int) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	b.add(scalar("!!int", strconv.Itoa(key)), n)
	b.stack = append(b.stack, n)
}

func (b *yamlBuilder) leaveEntry(m *doc.Meta) { b.leave(m) }
