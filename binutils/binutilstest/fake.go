// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binutilstest provides a scripted binutils.Runner for tests.
package binutilstest

import (
	"context"

	"github.com/aclements/go-symdiff/binutils"
)

// Fake is a binutils.Runner that replays canned outputs keyed by command
// line. Commands without a canned output fail with exit status 1.
type Fake struct {
	outputs map[string]result
	// Calls records every command line run, in order.
	Calls []string
}

type result struct {
	out string
	err error
}

// NewFake returns a Fake with no canned outputs.
func NewFake() *Fake {
	return &Fake{outputs: make(map[string]result)}
}

// Set makes the command path args print out.
func (f *Fake) Set(out string, path string, args ...string) {
	f.outputs[binutils.CommandLine(path, args...)] = result{out: out}
}

// Fail makes the command path args fail with err.
func (f *Fake) Fail(err error, path string, args ...string) {
	f.outputs[binutils.CommandLine(path, args...)] = result{err: err}
}

// Run implements binutils.Runner.
func (f *Fake) Run(ctx context.Context, path string, args ...string) (string, error) {
	key := binutils.CommandLine(path, args...)
	f.Calls = append(f.Calls, key)
	r, ok := f.outputs[key]
	if !ok {
		return "", &binutils.ExitError{Path: path, Args: args, Code: 1, Stderr: "no canned output"}
	}
	return r.out, r.err
}

// Suite returns a suite in which every tool resolves to its bare name and
// runs through f.
func (f *Fake) Suite(tools ...binutils.Tool) *binutils.Suite {
	if len(tools) == 0 {
		tools = binutils.Tools
	}
	paths := make(map[binutils.Tool]string)
	for _, t := range tools {
		paths[t] = string(t)
	}
	return binutils.NewSuite(paths, f)
}
