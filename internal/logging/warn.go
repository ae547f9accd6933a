// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// WarnCounter is a zerolog hook that counts events at warn level or
// above. The zero value is ready to use.
type WarnCounter struct {
	n atomic.Int64
}

// Run implements zerolog.Hook.
func (c *WarnCounter) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level >= zerolog.WarnLevel && level < zerolog.NoLevel {
		c.n.Add(1)
	}
}

// Count returns the number of events counted so far.
func (c *WarnCounter) Count() int {
	return int(c.n.Load())
}
