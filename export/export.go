// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export renders a validated document as JSON, YAML or indented
// text. Exporters walk the value tree in schema order and dictionary
// insertion order, so equal documents render to equal bytes.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aclements/go-symdiff/doc"
	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/pair"
)

// Format names an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatYAML Format = "yaml"
)

// Exporter writes a document to w.
type Exporter interface {
	Export(d *doc.Document, w io.Writer) error
}

// New returns the exporter for format.
func New(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return JSON{}, nil
	case FormatText:
		return Text{}, nil
	case FormatYAML:
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile exports d to the file at path, replacing it.
func WriteFile(path string, d *doc.Document, e Exporter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := e.Export(d, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// plainTags rewrites the embedded tags of string values for readers
// that do not interpret them.
var plainTags = strings.NewReplacer(
	obj.SourceStartTag, "",
	obj.SourceEndTag, "",
	pair.HighlightStartTag, "[",
	pair.HighlightEndTag, "]",
)

// visitor receives the parts of a document in render order.
type visitor interface {
	leaf(m *doc.Meta, v doc.Value)
	enter(m *doc.Meta)
	leave(m *doc.Meta)
	entry(m *doc.Meta, key int)
	leaveEntry(m *doc.Meta)
}

// walk visits the members of n in schema order.
func walk(n *doc.NodeValue, v visitor) error {
	for _, m := range n.Meta().Children {
		switch m.Kind {
		case doc.KindNode:
			c, err := n.Node(m.Name)
			if err != nil {
				return err
			}
			v.enter(m)
			if err := walk(c, v); err != nil {
				return err
			}
			v.leave(m)
		case doc.KindDict:
			d, err := n.Dict(m.Name)
			if err != nil {
				return err
			}
			v.enter(m)
			for _, k := range d.Keys() {
				v.entry(m.Variant, k)
				if err := walk(d.Get(k), v); err != nil {
					return err
				}
				v.leaveEntry(m.Variant)
			}
			v.leave(m)
		default:
			val, ok := n.Get(m.Name)
			if !ok {
				return &doc.SchemaViolation{Path: pathOf(n, m), Reason: "never assigned"}
			}
			v.leaf(m, val)
		}
	}
	return nil
}

func pathOf(n *doc.NodeValue, m *doc.Meta) string {
	if n.Path() == "" {
		return m.Name
	}
	return n.Path() + "." + m.Name
}
