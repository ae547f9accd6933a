// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binutils locates and runs the external utilities that read
// binaries: objdump, nm, readelf and size.
package binutils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// A Tool is one of the utilities of the suite.
type Tool string

const (
	Objdump Tool = "objdump"
	NM      Tool = "nm"
	Readelf Tool = "readelf"
	Size    Tool = "size"
)

// Tools lists every tool of the suite.
var Tools = []Tool{Objdump, NM, Readelf, Size}

// ErrToolMissing matches every ToolNotFoundError.
var ErrToolMissing = errors.New("tool not found")

// ToolNotFoundError reports that a tool could not be resolved to an
// executable.
type ToolNotFoundError struct {
	Tool Tool
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, ErrToolMissing)
}

func (e *ToolNotFoundError) Is(target error) bool {
	return target == ErrToolMissing
}

// LocateConfig controls how tools are resolved.
type LocateConfig struct {
	// Commands holds explicit paths per tool. Missing or empty entries
	// are resolved by convention.
	Commands map[Tool]string
	// Prefix is prepended to each tool name, for example
	// "arm-none-eabi-".
	Prefix string
	// Dir is searched for prefixed tool names before PATH, if set.
	Dir string
}

// extensions returns the executable name suffixes to try, in order.
func extensions() []string {
	if runtime.GOOS == "windows" {
		return []string{".exe", ""}
	}
	return []string{"", ".exe"}
}

// Find resolves tool under cfg. It tries, in order, the explicit command,
// <Dir>/<Prefix><tool><ext> and a PATH search for <Prefix><tool><ext>.
func Find(tool Tool, cfg LocateConfig) (string, error) {
	if cmd := cfg.Commands[tool]; cmd != "" && isExecutable(cmd) {
		return cmd, nil
	}
	if cfg.Dir != "" {
		for _, ext := range extensions() {
			p := filepath.Join(cfg.Dir, cfg.Prefix+string(tool)+ext)
			if isExecutable(p) {
				return p, nil
			}
		}
	}
	for _, ext := range extensions() {
		if p, err := exec.LookPath(cfg.Prefix + string(tool) + ext); err == nil {
			return p, nil
		}
	}
	return "", &ToolNotFoundError{tool}
}

func isExecutable(p string) bool {
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return fi.Mode().Perm()&0o111 != 0
}

// Locate resolves every tool of the suite. Tools that cannot be found are
// logged and left unavailable; callers decide whether that is fatal.
func Locate(cfg LocateConfig, r Runner, log zerolog.Logger) *Suite {
	paths := make(map[Tool]string)
	for _, tool := range Tools {
		p, err := Find(tool, cfg)
		if err != nil {
			log.Warn().Str("tool", string(tool)).Str("prefix", cfg.Prefix).Msg("tool not found")
			continue
		}
		log.Debug().Str("tool", string(tool)).Str("path", p).Msg("resolved tool")
		paths[tool] = p
	}
	return NewSuite(paths, r)
}
