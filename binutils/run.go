// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
)

// A Runner executes a program and returns its standard output as text.
//
// A non-zero exit must be reported as an *ExitError.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) (string, error)
}

// ExitError reports that a tool exited with a non-zero status.
type ExitError struct {
	Path   string
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", CommandLine(e.Path, e.Args...), e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// CommandLine renders a command for logs and error messages.
func CommandLine(path string, args ...string) string {
	return shellquote.Join(append([]string{path}, args...)...)
}

// ExecRunner runs programs as subprocesses without a shell.
type ExecRunner struct {
	// Timeout bounds each invocation, if non-zero.
	Timeout time.Duration
	Log     zerolog.Logger
}

// Run runs path with args. Standard error is discarded unless the program
// exits with a non-zero status, in which case it is part of the returned
// *ExitError.
func (r *ExecRunner) Run(ctx context.Context, path string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	r.Log.Debug().Str("cmd", CommandLine(path, args...)).Msg("running")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && ctx.Err() == nil {
			return "", &ExitError{Path: path, Args: args, Code: ee.ExitCode(), Stderr: stderr.String()}
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", CommandLine(path, args...), ctx.Err())
		}
		return "", fmt.Errorf("%s: %w", CommandLine(path, args...), err)
	}
	return strings.ToValidUTF8(stdout.String(), "�"), nil
}

// Suite is a set of resolved tools and the Runner that executes them.
type Suite struct {
	paths  map[Tool]string
	runner Runner
}

// NewSuite returns a suite of the given resolved tool paths. Tools absent
// from paths are unavailable.
func NewSuite(paths map[Tool]string, r Runner) *Suite {
	cp := make(map[Tool]string, len(paths))
	for t, p := range paths {
		if p != "" {
			cp[t] = p
		}
	}
	return &Suite{paths: cp, runner: r}
}

// Path returns the resolved path of tool, or "".
func (s *Suite) Path(tool Tool) string {
	return s.paths[tool]
}

// Available reports whether tool was resolved.
func (s *Suite) Available(tool Tool) bool {
	_, ok := s.paths[tool]
	return ok
}

// Run runs tool with args. It returns a *ToolNotFoundError if tool is not
// available.
func (s *Suite) Run(ctx context.Context, tool Tool, args ...string) (string, error) {
	p, ok := s.paths[tool]
	if !ok {
		return "", &ToolNotFoundError{tool}
	}
	return s.runner.Run(ctx, p, args...)
}
