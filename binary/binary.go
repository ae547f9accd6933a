// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binary loads the symbols of one binary by driving the binutils
// suite through its passes: size, nm, objdump and readelf.
package binary

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aclements/go-symdiff/arch"
	"github.com/aclements/go-symdiff/asm"
	"github.com/aclements/go-symdiff/binutils"
	"github.com/aclements/go-symdiff/dbg"
	"github.com/aclements/go-symdiff/mangle"
	"github.com/aclements/go-symdiff/nm"
	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/symtab"
)

// Options controls how a binary is loaded.
type Options struct {
	Suite *binutils.Suite
	// Selector chooses symbols by demangled name. nil selects all.
	Selector *obj.Selector
	// Mangling is an optional table of known demangled names.
	Mangling *mangle.Table
	// SourcePrefixes are stripped from source paths.
	SourcePrefixes []string
	// Cpp interprets symbol names as C++.
	Cpp bool
	// Alloc hands out IDs. Both binaries of a run must share it.
	Alloc *obj.Alloc
	Log   zerolog.Logger
}

// A Binary is the symbol model of one file. It is read-only once Open
// returns.
type Binary struct {
	Filename string

	Sizes obj.Sizes
	// SizesKnown is false if size could not be run or parsed.
	SizesKnown bool

	Table     *symtab.Table
	Selector  *obj.Selector
	Dropped   int
	Conflicts []string

	// Format is the file format reported by objdump, or "".
	Format string
	// Arch is the architecture of Format, or nil.
	Arch *arch.Arch

	InstructionsAvailable bool
	DebugInfoAvailable    bool
	// BinutilsFunctional reports whether nm could demangle.
	BinutilsFunctional bool

	Sources *obj.Sources
	Units   []*dbg.CU
}

// Open loads the binary at path.
//
// A missing or failing nm is fatal. Failures of the other tools are logged
// as warnings and disable the affected pass.
func Open(ctx context.Context, path string, opts Options) (*Binary, error) {
	if opts.Alloc == nil {
		opts.Alloc = new(obj.Alloc)
	}
	log := opts.Log.With().Str("binary", path).Logger()
	b := &Binary{
		Filename: path,
		Selector: opts.Selector,
		Sources:  obj.NewSources(opts.Alloc, opts.SourcePrefixes),
	}
	s := opts.Suite

	b.readSizes(ctx, s, log)
	if err := b.readSymbols(ctx, s, opts, log); err != nil {
		return nil, err
	}
	b.readInsts(ctx, s, log)
	b.readDebug(ctx, s, log)

	log.Debug().
		Int("symbols", b.Table.Len()).
		Int("dropped", b.Dropped).
		Bool("instructions", b.InstructionsAvailable).
		Bool("debug_info", b.DebugInfoAvailable).
		Msg("loaded binary")
	return b, nil
}

func (b *Binary) readSizes(ctx context.Context, s *binutils.Suite, log zerolog.Logger) {
	out, err := s.Run(ctx, binutils.Size, b.Filename)
	if err != nil {
		log.Warn().Err(err).Msg("sizes unknown")
		return
	}
	b.Sizes, b.SizesKnown = obj.ParseSizes(out)
	if !b.SizesKnown {
		log.Warn().Msg("no size line matched; sizes unknown")
	}
}

func (b *Binary) readSymbols(ctx context.Context, s *binutils.Suite, opts Options, log zerolog.Logger) error {
	mangled, err := s.Run(ctx, binutils.NM, nm.Args(b.Filename, false)...)
	if err != nil {
		return fmt.Errorf("reading symbols of %s: %w", b.Filename, err)
	}
	demangled, err := s.Run(ctx, binutils.NM, nm.Args(b.Filename, true)...)
	b.BinutilsFunctional = err == nil
	if err != nil {
		log.Warn().Err(err).Msg("nm cannot demangle")
	}

	res, err := nm.Extract(mangled, demangled, b.BinutilsFunctional, nm.Options{
		Selector: opts.Selector,
		Mangling: opts.Mangling,
		Cpp:      opts.Cpp,
		Alloc:    opts.Alloc,
		Sources:  b.Sources,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("reading symbols of %s: %w", b.Filename, err)
	}
	b.Table, b.Dropped, b.Conflicts = res.Table, res.Dropped, res.Conflicts
	if b.Table.Len() == 0 && b.Dropped == 0 {
		log.Warn().Msg("nm reported no symbols")
	}
	return nil
}

func (b *Binary) readInsts(ctx context.Context, s *binutils.Suite, log zerolog.Logger) {
	if !s.Available(binutils.Objdump) {
		log.Warn().Msg("objdump unavailable; instructions unavailable")
		return
	}
	if out, err := s.Run(ctx, binutils.Objdump, asm.FormatArgs(b.Filename)...); err != nil {
		log.Warn().Err(err).Msg("file format unknown")
	} else {
		b.Format = asm.ParseFormat(out)
		b.Arch = arch.FromFormat(b.Format)
		log.Debug().Str("format", b.Format).Stringer("arch", b.Arch).Msg("file format")
	}
	out, err := s.Run(ctx, binutils.Objdump, asm.DisasmArgs(b.Filename)...)
	if err != nil {
		log.Warn().Err(err).Msg("disassembly failed; instructions unavailable")
		return
	}
	st := asm.Collect(out, b.Format, b.Table, log)
	b.InstructionsAvailable = st.Insts > 0
	if !b.InstructionsAvailable {
		log.Warn().Msg("no instructions in disassembly; instructions unavailable")
	}
}

func (b *Binary) readDebug(ctx context.Context, s *binutils.Suite, log zerolog.Logger) {
	if !s.Available(binutils.Readelf) {
		log.Warn().Msg("readelf unavailable; debug info unavailable")
		return
	}
	lines, err := s.Run(ctx, binutils.Readelf, dbg.LineArgs(b.Filename)...)
	if err != nil {
		log.Warn().Err(err).Msg("reading line tables failed; debug info unavailable")
		return
	}
	info, err := s.Run(ctx, binutils.Readelf, dbg.InfoArgs(b.Filename)...)
	if err != nil {
		log.Warn().Err(err).Msg("reading debug info failed; debug info unavailable")
		return
	}
	units, st := dbg.Collect(lines, info, b.Table, b.Sources, log)
	b.Units = units
	b.DebugInfoAvailable = dbg.HasInfo(info)
	if st.Unmatched > 0 {
		log.Debug().Int("units", st.Unmatched).Msg("compile units without line table")
	}
}

// Symbols returns the number of selected symbols.
func (b *Binary) Symbols() int {
	return b.Table.Len()
}

// IsToolMissing reports whether err was caused by an unresolved tool.
func IsToolMissing(err error) bool {
	return errors.Is(err, binutils.ErrToolMissing)
}
