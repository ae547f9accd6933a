// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/aclements/go-symdiff/obj"
)

// Error is a configuration error of one setting.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var logLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}

// Validate reports every configuration error of s, joined.
func (s *Settings) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &Error{field, fmt.Sprintf(format, args...)})
	}

	for _, f := range []struct{ field, path string }{
		{"old_binary", s.OldBinary},
		{"new_binary", s.NewBinary},
	} {
		if f.path == "" {
			bad(f.field, "required")
			continue
		}
		if fi, err := os.Stat(f.path); err != nil {
			bad(f.field, "%v", err)
		} else if !fi.Mode().IsRegular() {
			bad(f.field, "%s is not a regular file", f.path)
		}
	}
	for _, f := range []struct{ field, path string }{
		{"old_mangling_file", s.OldManglingFile},
		{"new_mangling_file", s.NewManglingFile},
		{"old_info_file", s.OldInfoFile},
		{"new_info_file", s.NewInfoFile},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			bad(f.field, "%v", err)
		}
	}

	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		bad("similarity_threshold", "%v is outside [0, 1]", s.SimilarityThreshold)
	}
	if s.Language != "cpp" && s.Language != "c" {
		bad("language", "unknown language %q, want cpp or c", s.Language)
	}
	if !logLevels[s.LogLevel] {
		bad("log_level", "unknown level %q", s.LogLevel)
	}
	if s.ToolTimeout < 0 {
		bad("tool_timeout", "negative duration %v", s.ToolTimeout)
	}
	for _, side := range []string{Old, New} {
		sel, excl := s.Regexes(side)
		if _, err := obj.NewSelector(sel, excl); err != nil {
			bad(side+"_symbol_regex", "%v", err)
		}
	}
	return errors.Join(errs...)
}
