// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/binary"
	"github.com/aclements/go-symdiff/binutils"
	"github.com/aclements/go-symdiff/doc"
	"github.com/aclements/go-symdiff/export"
	"github.com/aclements/go-symdiff/internal/config"
	"github.com/aclements/go-symdiff/internal/logging"
	"github.com/aclements/go-symdiff/mangle"
	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/pair"
	"github.com/aclements/go-symdiff/report"
)

// run compares the two binaries of s and writes the requested outputs.
func (a *app) run(ctx context.Context, s *config.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings:\n%w", err)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = s.LogLevel
	logCfg.Output = a.stderr
	logCfg.Warnings = &a.warnings
	logFor := func(component string) zerolog.Logger {
		return logging.NewWithComponent(logCfg, component)
	}
	log := logFor("cli")

	suite := a.locate(s.Locate(), s.ToolTimeout, logFor("binutils"))
	var alloc obj.Alloc
	old, err := a.open(ctx, s, config.Old, s.OldBinary, suite, &alloc, logFor("binary"))
	if err != nil {
		return err
	}
	new, err := a.open(ctx, s, config.New, s.NewBinary, suite, &alloc, logFor("binary"))
	if err != nil {
		return err
	}

	r := pair.Compare(old, new, pair.Options{
		Threshold:        s.SimilarityThreshold,
		MaxMatches:       pair.DefaultMaxMatches,
		SkipSimilarities: s.SkipSymbolSimilarities,
		Log:              logFor("pair"),
	})
	log.Info().
		Int("persisting", len(r.Persisting)).
		Int("disappeared", len(r.Disappeared)).
		Int("appeared", len(r.Appeared)).
		Int("similar", len(r.Similar)).
		Int("size_changed", r.SizeChangeCount).
		Msg("compared symbols")

	d, err := a.build(s, r)
	if err != nil {
		return err
	}
	return writeOutputs(s, d, log)
}

func (a *app) open(ctx context.Context, s *config.Settings, side, path string, suite *binutils.Suite, alloc *obj.Alloc, log zerolog.Logger) (*binary.Binary, error) {
	sel, excl := s.Regexes(side)
	selector, err := obj.NewSelector(sel, excl)
	if err != nil {
		return nil, err
	}
	mangling, err := mangle.Load(s.ManglingFile(side))
	if err != nil {
		return nil, fmt.Errorf("loading %s mangling file: %w", side, err)
	}
	return binary.Open(ctx, path, binary.Options{
		Suite:          suite,
		Selector:       selector,
		Mangling:       mangling,
		SourcePrefixes: s.SourcePrefix,
		Cpp:            s.Language == "cpp",
		Alloc:          alloc,
		Log:            log.With().Str("side", side).Logger(),
	})
}

func (a *app) build(s *config.Settings, r *pair.Result) (*doc.Document, error) {
	oldInfo, err := readInfo(s.OldInfoFile)
	if err != nil {
		return nil, err
	}
	newInfo, err := readInfo(s.NewInfoFile)
	if err != nil {
		return nil, err
	}
	wd, err := a.getwd()
	if err != nil {
		return nil, err
	}
	title := s.ProjectTitle
	if title == "" {
		title = "symdiff"
	}
	oldAlias, newAlias := alias(s.OldAlias, s.OldBinary), alias(s.NewAlias, s.NewBinary)
	return report.Build(r, report.Options{
		PageTitle:              title,
		DocTitle:               fmt.Sprintf("%s: %s vs. %s", title, oldAlias, newAlias),
		GenerationDate:         a.now().Format("2006-01-02 15:04:05"),
		RepoRoot:               wd,
		ToolVersion:            Version,
		OldAlias:               oldAlias,
		NewAlias:               newAlias,
		OldInfo:                oldInfo,
		NewInfo:                newInfo,
		BuildInfo:              s.BuildInfo,
		Language:               s.Language,
		Threshold:              s.SimilarityThreshold,
		SkipSimilarities:       s.SkipSymbolSimilarities,
		SkipPersistingSameSize: s.SkipPersistingSameSize,
		SkipDetails:            s.SkipDetails,
	})
}

func alias(alias, path string) string {
	if alias != "" {
		return alias
	}
	return path
}

func readInfo(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func writeOutputs(s *config.Settings, d *doc.Document, log zerolog.Logger) error {
	for _, out := range []struct {
		path   string
		format export.Format
	}{
		{s.JSONFile, export.FormatJSON},
		{s.TxtFile, export.FormatText},
		{s.YAMLFile, export.FormatYAML},
	} {
		if out.path == "" {
			continue
		}
		e, err := export.New(out.format)
		if err != nil {
			return err
		}
		if err := export.WriteFile(out.path, d, e); err != nil {
			return err
		}
		log.Info().Str("format", string(out.format)).Str("path", out.path).Msg("wrote document")
	}
	return nil
}
