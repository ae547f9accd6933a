// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli implements the symdiff command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aclements/go-symdiff/binutils"
	"github.com/aclements/go-symdiff/internal/config"
	"github.com/aclements/go-symdiff/internal/logging"
)

// Version is the symdiff version, set at link time.
var Version = "devel"

// Exit codes of the symdiff command.
const (
	ExitOK       = 0
	ExitWarnings = 1
	ExitError    = 2
)

// Execute runs symdiff with the process arguments and returns its exit
// code.
func Execute() int {
	return newApp(os.Stdout, os.Stderr).execute(os.Args[1:])
}

type app struct {
	stdout, stderr io.Writer
	warnings       logging.WarnCounter

	// locate resolves the tool suite.
	locate func(cfg binutils.LocateConfig, timeout time.Duration, log zerolog.Logger) *binutils.Suite
	now    func() time.Time
	getwd  func() (string, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		locate: func(cfg binutils.LocateConfig, timeout time.Duration, log zerolog.Logger) *binutils.Suite {
			return binutils.Locate(cfg, &binutils.ExecRunner{Timeout: timeout, Log: log}, log)
		},
		now:   time.Now,
		getwd: os.Getwd,
	}
}

func (a *app) execute(args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return ExitError
	}
	if a.warnings.Count() > 0 {
		return ExitWarnings
	}
	return ExitOK
}

func (a *app) rootCmd() *cobra.Command {
	flagged := config.Default()
	var configPath string
	cmd := &cobra.Command{
		Use:   "symdiff [flags] OLD NEW",
		Short: "Compare the symbols of two binaries",
		Long: `symdiff compares the symbols of two compiled binaries using the binutils
suite (size, nm, objdump, readelf).

Symbols are classified as persisting, disappeared or appeared, and
disappeared symbols are paired with similarly named appeared ones. The
result is a schema-validated document written as JSON, YAML or text.

Settings come from the defaults, then the --config file, then flags.
Exit status is 0 on success, 1 if warnings were logged and 2 on error.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd.Flags(), flagged, configPath, args)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), s)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML settings `file`")
	bindFlags(cmd.Flags(), flagged)

	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("symdiff version %s\n", Version)
		},
	}
}

// bindFlags declares the settings flags on fs, storing into s.
func bindFlags(fs *pflag.FlagSet, s *config.Settings) {
	fs.StringVar(&s.OldAlias, "old-alias", s.OldAlias, "name shown for the old binary")
	fs.StringVar(&s.NewAlias, "new-alias", s.NewAlias, "name shown for the new binary")
	fs.StringVar(&s.OldInfoFile, "old-info-file", s.OldInfoFile, "`file` describing the old binary")
	fs.StringVar(&s.NewInfoFile, "new-info-file", s.NewInfoFile, "`file` describing the new binary")
	fs.StringVar(&s.BuildInfo, "build-info", s.BuildInfo, "free-form build information")
	fs.StringVar(&s.ProjectTitle, "project-title", s.ProjectTitle, "title of the document")

	fs.StringVar(&s.BinDir, "bin-dir", s.BinDir, "`dir`ectory searched for the binutils")
	fs.StringVar(&s.BinPrefix, "bin-prefix", s.BinPrefix, "`prefix` of the binutils names, e.g. arm-none-eabi-")
	fs.StringVar(&s.ObjdumpCommand, "objdump-command", s.ObjdumpCommand, "`path` of objdump")
	fs.StringVar(&s.NMCommand, "nm-command", s.NMCommand, "`path` of nm")
	fs.StringVar(&s.ReadelfCommand, "readelf-command", s.ReadelfCommand, "`path` of readelf")
	fs.StringVar(&s.SizeCommand, "size-command", s.SizeCommand, "`path` of size")
	fs.DurationVar(&s.ToolTimeout, "tool-timeout", s.ToolTimeout, "bound on each tool invocation, 0 for none")

	fs.StringVar(&s.OldManglingFile, "old-mangling-file", s.OldManglingFile, "mangling `file` of the old binary")
	fs.StringVar(&s.NewManglingFile, "new-mangling-file", s.NewManglingFile, "mangling `file` of the new binary")

	fs.StringVar(&s.SymbolSelectionRegex, "symbol-selection-regex", s.SymbolSelectionRegex, "select symbols whose names match `regex` at their start")
	fs.StringVar(&s.SymbolExclusionRegex, "symbol-exclusion-regex", s.SymbolExclusionRegex, "exclude symbols whose names match `regex` at their start")
	fs.StringVar(&s.OldSymbolSelectionRegex, "old-symbol-selection-regex", s.OldSymbolSelectionRegex, "selection `regex` of the old binary")
	fs.StringVar(&s.OldSymbolExclusionRegex, "old-symbol-exclusion-regex", s.OldSymbolExclusionRegex, "exclusion `regex` of the old binary")
	fs.StringVar(&s.NewSymbolSelectionRegex, "new-symbol-selection-regex", s.NewSymbolSelectionRegex, "selection `regex` of the new binary")
	fs.StringVar(&s.NewSymbolExclusionRegex, "new-symbol-exclusion-regex", s.NewSymbolExclusionRegex, "exclusion `regex` of the new binary")
	fs.StringSliceVar(&s.SourcePrefix, "source-prefix", s.SourcePrefix, "`prefix`es removed from source paths")

	fs.Float64Var(&s.SimilarityThreshold, "similarity-threshold", s.SimilarityThreshold, "minimum name similarity in [0, 1] of similar symbols")
	fs.BoolVar(&s.SkipSymbolSimilarities, "skip-symbol-similarities", s.SkipSymbolSimilarities, "do not search for similar symbols")
	fs.BoolVar(&s.SkipPersistingSameSize, "skip-persisting-same-size", s.SkipPersistingSameSize, "omit persisting symbols whose size did not change")
	fs.BoolVar(&s.SkipDetails, "skip-details", s.SkipDetails, "omit symbol details")
	fs.StringVar(&s.Language, "language", s.Language, "language of symbol names, cpp or c")

	fs.StringVar(&s.JSONFile, "json-file", s.JSONFile, "write the document as JSON to `file`")
	fs.StringVar(&s.TxtFile, "txt-file", s.TxtFile, "write the document as text to `file`")
	fs.StringVar(&s.YAMLFile, "yaml-file", s.YAMLFile, "write the document as YAML to `file`")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "log `level`: trace, debug, info, warn or error")
}

// resolveSettings layers the settings file at configPath, if any, under
// the flags set on fs. flagged holds the defaults overridden by fs. The
// positional arguments name the old and new binary.
func resolveSettings(fs *pflag.FlagSet, flagged *config.Settings, configPath string, args []string) (*config.Settings, error) {
	s := flagged
	if configPath != "" {
		file, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		shadow := pflag.NewFlagSet("settings", pflag.ContinueOnError)
		bindFlags(shadow, file)
		fs.Visit(func(f *pflag.Flag) {
			dst := shadow.Lookup(f.Name)
			if dst == nil || err != nil {
				return
			}
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				err = dst.Value.(pflag.SliceValue).Replace(sv.GetSlice())
				return
			}
			err = dst.Value.Set(f.Value.String())
		})
		if err != nil {
			return nil, err
		}
		s = file
	}
	if len(args) > 0 {
		s.OldBinary = args[0]
	}
	if len(args) > 1 {
		s.NewBinary = args[1]
	}
	return s, nil
}
