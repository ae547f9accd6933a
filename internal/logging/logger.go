// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging builds the zerolog loggers used by symdiff.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config contains logger configuration.
type Config struct {
	// Level sets the logging level (trace, debug, info, warn, error).
	Level string
	// Pretty enables human-readable console output.
	Pretty bool
	// Output sets the output writer (defaults to os.Stderr).
	Output io.Writer
	// Warnings, if non-nil, counts events at warn level or above. It
	// counts them even when Level hides them.
	Warnings *WarnCounter
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: true,
		Output: os.Stderr,
	}
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to
// info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// New creates a new zerolog logger with the given configuration.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := ParseLevel(cfg.Level)
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	if cfg.Warnings == nil {
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	// Let warnings reach the hook and filter them at the writer instead.
	w := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: output},
		Level:  level,
	}
	return zerolog.New(w).
		Level(min(level, zerolog.WarnLevel)).
		Hook(cfg.Warnings).
		With().
		Timestamp().
		Logger()
}

// NewWithComponent creates a logger with a component field for structured
// logging.
func NewWithComponent(cfg Config, component string) zerolog.Logger {
	return New(cfg).With().Str("component", component).Logger()
}
