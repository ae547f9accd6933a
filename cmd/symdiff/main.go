// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command symdiff compares the symbols of two binaries.
//
// Usage:
//
//	symdiff [flags] OLD NEW
//	symdiff schema
//	symdiff version
//
// The exit status is 0 on success, 1 if warnings were logged and 2 on
// error.
package main

import (
	"os"

	"github.com/aclements/go-symdiff/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
