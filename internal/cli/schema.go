// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aclements/go-symdiff/doc"
	"github.com/aclements/go-symdiff/report"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the document schema",
		Long: `Print every member of the document schema with its type and
documentation. Dictionary entries are listed under their dictionary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchema(cmd.OutOrStdout(), report.Schema)
		},
	}
}

func printSchema(w io.Writer, schema *doc.Meta) error {
	var err error
	schema.Walk(func(path string, depth int, m *doc.Meta) {
		if err != nil {
			return
		}
		if path == "" {
			path = m.Name
		}
		typ := m.Kind.String()
		switch {
		case m.Kind == doc.KindDict:
			typ += " of " + m.Variant.Name
		case m.Kind == doc.KindRef:
			typ += " to " + m.Target
		}
		if m.Nullable {
			typ += ", nullable"
		}
		_, err = fmt.Fprintf(w, "%s%s (%s): %s\n", strings.Repeat("  ", depth), path, typ, m.Doc)
	})
	return err
}
