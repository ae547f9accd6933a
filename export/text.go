// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aclements/go-symdiff/doc"
)

// Text renders a document as an indented listing with one member per
// line, giving each member's type and documentation. Embedded tags are
// rewritten for plain reading and multi-line strings are indented under
// their member.
type Text struct{}

// Export implements Exporter.
func (Text) Export(d *doc.Document, w io.Writer) error {
	tw := &textWriter{w: bufio.NewWriter(w)}
	fmt.Fprintf(tw.w, "%s: %s\n", d.Root.Meta().Name, d.Root.Meta().Doc)
	tw.depth = 1
	if err := walk(d.Root, tw); err != nil {
		return err
	}
	return tw.w.Flush()
}

type textWriter struct {
	w     *bufio.Writer
	depth int
}

func (t *textWriter) indent() string { return strings.Repeat("  ", t.depth) }

func (t *textWriter) leaf(m *doc.Meta, v doc.Value) {
	typ := m.Kind.String()
	if m.Nullable {
		typ += "?"
	}
	s, isStr := v.Str()
	if !isStr || !strings.Contains(s, "\n") {
		val := v.String()
		if isStr {
			val = fmt.Sprintf("%q", plainTags.Replace(s))
		}
		fmt.Fprintf(t.w, "%s%s (%s) = %s  # %s\n", t.indent(), m.Name, typ, val, m.Doc)
		return
	}
	fmt.Fprintf(t.w, "%s%s (%s) =  # %s\n", t.indent(), m.Name, typ, m.Doc)
	for _, line := range strings.Split(plainTags.Replace(s), "\n") {
		fmt.Fprintf(t.w, "%s  | %s\n", t.indent(), line)
	}
}

func (t *textWriter) enter(m *doc.Meta) {
	fmt.Fprintf(t.w, "%s%s (%s): %s\n", t.indent(), m.Name, m.Kind, m.Doc)
	t.depth++
}

func (t *textWriter) leave(m *doc.Meta) { t.depth-- }

func (t *textWriter) entry(m *doc.Meta, key int) {
	fmt.Fprintf(t.w, "%s[%d] (%s)\n", t.indent(), key, m.Name)
	t.depth++
}

func (t *textWriter) leaveEntry(m *doc.Meta) { t.depth-- }
