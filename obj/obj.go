// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj provides the symbol model shared by the passes that read a
// binary through the binutils suite and by the comparison of two such
// binaries.
package obj

// Alloc hands out run-unique symbol and source file IDs. A run that
// compares two binaries must load both with the same Alloc so IDs never
// collide.
//
// The zero Alloc is ready to use. Alloc is not safe for concurrent use.
type Alloc struct {
	sym    SymID
	source SourceID
}

// Sym returns the next unused symbol ID.
func (a *Alloc) Sym() SymID {
	id := a.sym
	a.sym++
	return id
}

// Source returns the next unused source file ID.
func (a *Alloc) Source() SourceID {
	id := a.source
	a.source++
	return id
}
