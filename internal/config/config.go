// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings of a symdiff run and loads them from
// a YAML settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aclements/go-symdiff/binutils"
)

// Sides of a comparison.
const (
	Old = "old"
	New = "new"
)

// Settings holds every knob of a run.
type Settings struct {
	OldBinary string `yaml:"old_binary"`
	NewBinary string `yaml:"new_binary"`
	// OldAlias and NewAlias are shown instead of the binary paths.
	OldAlias string `yaml:"old_alias"`
	NewAlias string `yaml:"new_alias"`
	// OldInfoFile and NewInfoFile name files whose contents describe
	// each binary.
	OldInfoFile  string `yaml:"old_info_file"`
	NewInfoFile  string `yaml:"new_info_file"`
	BuildInfo    string `yaml:"build_info"`
	ProjectTitle string `yaml:"project_title"`

	BinDir         string `yaml:"bin_dir"`
	BinPrefix      string `yaml:"bin_prefix"`
	ObjdumpCommand string `yaml:"objdump_command"`
	NMCommand      string `yaml:"nm_command"`
	ReadelfCommand string `yaml:"readelf_command"`
	SizeCommand    string `yaml:"size_command"`

	OldManglingFile string `yaml:"old_mangling_file"`
	NewManglingFile string `yaml:"new_mangling_file"`

	// The shared regexes apply to both sides unless a side-specific one
	// is set.
	SymbolSelectionRegex    string `yaml:"symbol_selection_regex"`
	SymbolExclusionRegex    string `yaml:"symbol_exclusion_regex"`
	OldSymbolSelectionRegex string `yaml:"old_symbol_selection_regex"`
	OldSymbolExclusionRegex string `yaml:"old_symbol_exclusion_regex"`
	NewSymbolSelectionRegex string `yaml:"new_symbol_selection_regex"`
	NewSymbolExclusionRegex string `yaml:"new_symbol_exclusion_regex"`

	SourcePrefix []string `yaml:"source_prefix"`

	SimilarityThreshold    float64 `yaml:"similarity_threshold"`
	SkipSymbolSimilarities bool    `yaml:"skip_symbol_similarities"`
	SkipPersistingSameSize bool    `yaml:"skip_persisting_same_size"`
	SkipDetails            bool    `yaml:"skip_details"`
	Language               string  `yaml:"language"`

	// ToolTimeout bounds each tool invocation. Zero is no limit.
	ToolTimeout time.Duration `yaml:"tool_timeout"`

	JSONFile string `yaml:"json_file"`
	TxtFile  string `yaml:"txt_file"`
	YAMLFile string `yaml:"yaml_file"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		SimilarityThreshold: 0.5,
		Language:            "cpp",
		LogLevel:            "info",
	}
}

// Load returns the default settings overridden by the YAML settings file
// at path. Unknown keys are an error.
func Load(path string) (*Settings, error) {
	s := Default()
	//nolint:gosec // G304: the path is given by the user.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := s.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Regexes returns the selection and exclusion regexes of side.
func (s *Settings) Regexes(side string) (selection, exclusion string) {
	selection, exclusion = s.SymbolSelectionRegex, s.SymbolExclusionRegex
	sel, excl := s.OldSymbolSelectionRegex, s.OldSymbolExclusionRegex
	if side == New {
		sel, excl = s.NewSymbolSelectionRegex, s.NewSymbolExclusionRegex
	}
	if sel != "" {
		selection = sel
	}
	if excl != "" {
		exclusion = excl
	}
	return selection, exclusion
}

// ManglingFile returns the mangling file of side, or "".
func (s *Settings) ManglingFile(side string) string {
	if side == New {
		return s.NewManglingFile
	}
	return s.OldManglingFile
}

// Locate returns the tool resolution settings.
func (s *Settings) Locate() binutils.LocateConfig {
	return binutils.LocateConfig{
		Commands: map[binutils.Tool]string{
			binutils.Objdump: s.ObjdumpCommand,
			binutils.NM:      s.NMCommand,
			binutils.Readelf: s.ReadelfCommand,
			binutils.Size:    s.SizeCommand,
		},
		Prefix: s.BinPrefix,
		Dir:    s.BinDir,
	}
}
