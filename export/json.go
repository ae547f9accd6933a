// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/aclements/go-symdiff/doc"
)

// JSON renders a document as nested JSON objects. Dictionaries are
// objects keyed by entry id and references are the target id. String
// values keep their embedded tags.
type JSON struct{}

// Export implements Exporter.
func (JSON) Export(d *doc.Document, w io.Writer) error {
	jw := &jsonWriter{w: bufio.NewWriter(w)}
	jw.open()
	if err := walk(d.Root, jw); err != nil {
		return err
	}
	jw.close('}')
	jw.w.WriteByte('\n')
	if jw.err != nil {
		return jw.err
	}
	return jw.w.Flush()
}

// jsonWriter writes objects member by member. first[i] records whether
// the object at depth i has no members yet.
type jsonWriter struct {
	w     *bufio.Writer
	first []bool
	err   error
}

func (j *jsonWriter) open() {
	j.w.WriteByte('{')
	j.first = append(j.first, true)
}

func (j *jsonWriter) close(c byte) {
	empty := j.first[len(j.first)-1]
	j.first = j.first[:len(j.first)-1]
	if !empty {
		j.newline()
	}
	j.w.WriteByte(c)
}

func (j *jsonWriter) newline() {
	j.w.WriteByte('\n')
	j.w.WriteString(strings.Repeat("  ", len(j.first)))
}

func (j *jsonWriter) key(k string) {
	top := len(j.first) - 1
	if !j.first[top] {
		j.w.WriteByte(',')
	}
	j.first[top] = false
	j.newline()
	j.str(k)
	j.w.WriteString(": ")
}

func (j *jsonWriter) str(s string) {
	// Encoder rather than Marshal, to keep < and > in C++ names.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil && j.err == nil {
		j.err = err
	}
	j.w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func (j *jsonWriter) leaf(m *doc.Meta, v doc.Value) {
	j.key(m.Name)
	switch v.Kind() {
	case doc.KindStr:
		s, _ := v.Str()
		j.str(s)
	case doc.KindFloat:
		f, _ := v.Float()
		b, err := json.Marshal(f)
		if err != nil && j.err == nil {
			j.err = err
		}
		j.w.Write(b)
	case doc.KindRef:
		id, _ := v.Ref()
		j.w.WriteString(strconv.Itoa(id))
	default:
		// Int, Bool and null format as JSON literals.
		j.w.WriteString(v.String())
	}
}

func (j *jsonWriter) enter(m *doc.Meta) {
	j.key(m.Name)
	j.open()
}

func (j *jsonWriter) leave(m *doc.Meta) { j.close('}') }

func (j *jsonWriter) entry(m *doc.Meta, key int) {
	j.key(strconv.Itoa(key))
	j.open()
}

func (j *jsonWriter) leaveEntry(m *doc.Meta) { j.close('}') }
