// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report builds the validated document describing the comparison
// of two binaries. Exporters render the document without further
// computation.
package report

import (
	"fmt"

	"github.com/aclements/go-symdiff/binary"
	"github.com/aclements/go-symdiff/doc"
	"github.com/aclements/go-symdiff/obj"
	"github.com/aclements/go-symdiff/pair"
)

// Options holds the document's descriptive fields and display settings.
type Options struct {
	PageTitle      string
	DocTitle       string
	GenerationDate string
	RepoRoot       string
	ToolVersion    string

	OldAlias, NewAlias string
	OldInfo, NewInfo   string
	BuildInfo          string

	// Language is "cpp" or "c".
	Language string
	// Threshold is the similarity threshold used by the comparison.
	Threshold float64

	SkipSimilarities       bool
	SkipPersistingSameSize bool
	SkipDetails            bool
}

// Build walks r into a new document and validates it.
func Build(r *pair.Result, opts Options) (*doc.Document, error) {
	if opts.Language == "" {
		opts.Language = "cpp"
	}
	b := &builder{d: doc.New(Schema), r: r, opts: opts}
	b.persisting = r.Persisting
	if opts.SkipPersistingSameSize {
		b.persisting = nil
		for _, p := range r.Persisting {
			if p.Old.Size != p.New.Size {
				b.persisting = append(b.persisting, p)
			}
		}
	}

	b.general()
	b.configuration()
	b.overall()
	b.symbolStats()
	b.symbols()
	if b.err != nil {
		return nil, b.err
	}
	if err := b.d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return b.d, nil
}

type builder struct {
	d    *doc.Document
	r    *pair.Result
	opts Options
	// persisting are the persisting pairs that are reported.
	persisting []pair.Persisting
	// err is the first schema violation.
	err error
}

func (b *builder) node(path string) *doc.NodeValue {
	n, err := b.d.Node(path)
	if err != nil && b.err == nil {
		b.err = err
	}
	return n
}

func (b *builder) set(n *doc.NodeValue, name string, v doc.Value) {
	if n == nil || b.err != nil {
		return
	}
	if err := n.Set(name, v); err != nil {
		b.err = err
	}
}

func (b *builder) sub(n *doc.NodeValue, name string) *doc.NodeValue {
	if n == nil || b.err != nil {
		return nil
	}
	c, err := n.Node(name)
	if err != nil {
		b.err = err
	}
	return c
}

func str(s string) doc.Value { return doc.StrVal(s) }

func integer[T int | int64 | uint64](i T) doc.Value { return doc.IntVal(int64(i)) }

func boolean(v bool) doc.Value { return doc.BoolVal(v) }

func optStr(s string) doc.Value {
	if s == "" {
		return doc.Null()
	}
	return doc.StrVal(s)
}

func (b *builder) general() {
	g := b.node("general")
	b.set(g, "page_title", str(b.opts.PageTitle))
	b.set(g, "doc_title", str(b.opts.DocTitle))
	b.set(g, "generation_date", str(b.opts.GenerationDate))
	b.set(g, "repo_root", str(b.opts.RepoRoot))
	b.set(g, "tool_version", str(b.opts.ToolVersion))

	for _, side := range []struct {
		name, alias string
		bin         *binary.Binary
	}{
		{"old", b.opts.OldAlias, b.r.Old},
		{"new", b.opts.NewAlias, b.r.New},
	} {
		n := b.node("files.input." + side.name)
		b.set(n, "binary_path", str(side.bin.Filename))
		alias := side.alias
		if alias == "" {
			alias = side.bin.Filename
		}
		b.set(n, "alias", str(alias))
	}

	root := b.d.Root
	b.set(root, "old_binary_info", str(b.opts.OldInfo))
	b.set(root, "new_binary_info", str(b.opts.NewInfo))
	b.set(root, "build_info", str(b.opts.BuildInfo))
}

// instructionsAvailable reports whether both binaries have instructions.
func (b *builder) instructionsAvailable() bool {
	return b.r.Old.InstructionsAvailable && b.r.New.InstructionsAvailable
}

func (b *builder) configuration() {
	c := b.node("configuration")
	b.set(c, "instructions_available", boolean(b.instructionsAvailable()))
	b.set(c, "debug_info_available", boolean(b.r.Old.DebugInfoAvailable && b.r.New.DebugInfoAvailable))
	b.set(c, "binutils_functional", boolean(b.r.Old.BinutilsFunctional && b.r.New.BinutilsFunctional))
	b.set(c, "symbol_similarities_enabled", boolean(!b.opts.SkipSimilarities))
	b.set(c, "skip_persisting_same_size", boolean(b.opts.SkipPersistingSameSize))
	b.set(c, "skip_details", boolean(b.opts.SkipDetails))
	b.set(c, "language", str(b.opts.Language))
	b.set(c, "similarity_threshold", doc.FloatVal(b.opts.Threshold*100))
}

func (b *builder) setResources(n *doc.NodeValue, code, ram, text, data, bss int64) {
	b.set(n, "code", integer(code))
	b.set(n, "static_ram", integer(ram))
	b.set(n, "text", integer(text))
	b.set(n, "data", integer(data))
	b.set(n, "bss", integer(bss))
}

func (b *builder) overall() {
	o, n := b.r.Old.Sizes, b.r.New.Sizes
	b.setResources(b.node("statistics.overall.old.resource_consumption"),
		int64(o.Progmem()), int64(o.StaticRAM()), int64(o.Text), int64(o.Data), int64(o.BSS))
	b.setResources(b.node("statistics.overall.new.resource_consumption"),
		int64(n.Progmem()), int64(n.StaticRAM()), int64(n.Text), int64(n.Data), int64(n.BSS))
	b.setResources(b.node("statistics.overall.delta.resource_consumption"),
		int64(n.Progmem())-int64(o.Progmem()),
		int64(n.StaticRAM())-int64(o.StaticRAM()),
		int64(n.Text)-int64(o.Text),
		int64(n.Data)-int64(o.Data),
		int64(n.BSS)-int64(o.BSS))
}

// usage returns the program memory and static RAM used by syms.
func usage(syms []*obj.Sym) (code, ram int64) {
	for _, s := range syms {
		if s.InProgramMemory() {
			code += int64(s.Size)
		}
		if s.Type.InStaticRAM() {
			ram += int64(s.Size)
		}
	}
	return code, ram
}

func (b *builder) symbolStats() {
	for _, side := range []struct {
		name string
		bin  *binary.Binary
	}{{"old", b.r.Old}, {"new", b.r.New}} {
		n := b.node("statistics.symbols." + side.name)
		count := b.sub(n, "count")
		selected := side.bin.Table.Len()
		b.set(count, "selected", integer(selected))
		b.set(count, "dropped", integer(side.bin.Dropped))
		b.set(count, "total", integer(selected+side.bin.Dropped))
		b.set(count, "conflicts", integer(len(side.bin.Conflicts)))
		regex := b.sub(n, "regex")
		var selection, exclusion string
		if sel := side.bin.Selector; sel != nil {
			selection, exclusion = sel.Selection, sel.Exclusion
		}
		b.set(regex, "selection", optStr(selection))
		b.set(regex, "exclusion", optStr(exclusion))
	}

	for _, class := range []struct {
		name string
		syms []*obj.Sym
	}{{ClassAppeared, b.r.Appeared}, {ClassDisappeared, b.r.Disappeared}} {
		n := b.node("statistics.symbols." + class.name)
		b.set(n, "count", integer(len(class.syms)))
		code, ram := usage(class.syms)
		rc := b.sub(n, "resource_consumption")
		b.set(rc, "code", integer(code))
		b.set(rc, "static_ram", integer(ram))
	}

	p := b.node("statistics.symbols.persisting")
	b.set(p, "count", integer(len(b.persisting)))
	var olds, news []*obj.Sym
	sizeChanged, differ := 0, 0
	for _, pp := range b.persisting {
		olds, news = append(olds, pp.Old), append(news, pp.New)
		if pp.Old.Size != pp.New.Size {
			sizeChanged++
		}
		if pp.InstsDiffer() {
			differ++
		}
	}
	b.set(p, "size_changed", integer(sizeChanged))
	b.set(p, "instructions_differ", integer(differ))
	oldCode, oldRAM := usage(olds)
	newCode, newRAM := usage(news)
	rc := b.sub(p, "resource_consumption")
	for _, agg := range []struct {
		name     string
		old, new int64
	}{{"code", oldCode, newCode}, {"static_ram", oldRAM, newRAM}} {
		n := b.sub(rc, agg.name)
		b.set(n, "old", integer(agg.old))
		b.set(n, "new", integer(agg.new))
		b.set(n, "delta", integer(agg.new-agg.old))
	}

	b.set(b.node("statistics.symbols.similar"), "count", integer(len(b.r.Similar)))
}

// showDetails reports whether instruction details of a symbol pair are
// worth showing. Either side may be nil.
func (b *builder) showDetails(syms ...*obj.Sym) bool {
	if b.opts.SkipDetails {
		return false
	}
	for _, s := range syms {
		if s.Kind() != obj.KindFunction || !s.HasInsts() {
			return false
		}
	}
	return true
}

func (b *builder) dict(path string) *doc.DictValue {
	d, err := b.d.Dict(path)
	if err != nil && b.err == nil {
		b.err = err
	}
	return d
}

func (b *builder) add(d *doc.DictValue, id int) *doc.NodeValue {
	if d == nil || b.err != nil {
		return nil
	}
	n, err := d.Add(id)
	if err != nil {
		b.err = err
	}
	return n
}

func (b *builder) displayInfo(n *doc.NodeValue, class string, id int, details bool) {
	di := b.sub(n, "display_info")
	b.set(di, "symbol_class", str(class))
	b.set(di, "anchor_id", str(fmt.Sprintf("%s_%d", class, id)))
	b.set(di, "display_symbol_details", boolean(details))
}

func (b *builder) symbols() {
	for _, side := range []struct {
		class string
		bin   *binary.Binary
	}{{ClassOld, b.r.Old}, {ClassNew, b.r.New}} {
		d := b.dict("symbols." + side.class)
		for _, name := range side.bin.Table.Names() {
			s := side.bin.Table.Name(name)
			b.symbol(b.add(d, int(s.ID)), s, side.bin.Sources, side.class)
		}
	}

	for _, class := range []struct {
		name string
		syms []*obj.Sym
	}{{ClassAppeared, b.r.Appeared}, {ClassDisappeared, b.r.Disappeared}} {
		d := b.dict("symbols." + class.name)
		for _, s := range class.syms {
			n := b.add(d, int(s.ID))
			b.set(n, "symbol", doc.RefVal(int(s.ID)))
			b.displayInfo(n, class.name, int(s.ID), b.showDetails(s))
		}
	}

	d := b.dict("symbols.persisting")
	for _, p := range b.persisting {
		id := int(p.Old.ID)
		n := b.add(d, id)
		b.related(n, p.Old, p.New)
		b.set(n, "size_delta", integer(p.SizeDelta()))
		b.set(n, "instructions_differ", boolean(p.InstsDiffer()))
		b.displayInfo(n, ClassPersisting, id, b.showDetails(p.Old, p.New))
	}

	d = b.dict("symbols.similar")
	for i, s := range b.r.Similar {
		n := b.add(d, i)
		b.related(n, s.Old, s.New)
		tagged := b.sub(n, "signature_tagged")
		oldTagged, newTagged := pair.Highlight(s.Old.Display, s.New.Display)
		b.set(tagged, "old", str(oldTagged))
		b.set(tagged, "new", str(newTagged))
		sim := b.sub(n, "similarities")
		b.set(sim, "signature", doc.FloatVal(s.NameSimilarity*100))
		if s.InstSimilarity != nil {
			b.set(sim, "instruction", doc.FloatVal(*s.InstSimilarity*100))
		} else {
			b.set(sim, "instruction", doc.Null())
		}
		b.set(n, "instructions_equal", boolean(s.InstsEqual))
		b.set(n, "size_delta", integer(s.SizeDelta()))
		b.displayInfo(n, ClassSimilar, i, b.showDetails(s.Old, s.New))
	}
}

func (b *builder) related(n *doc.NodeValue, old, new *obj.Sym) {
	rel := b.sub(n, "related_symbols")
	b.set(rel, "old", doc.RefVal(int(old.ID)))
	b.set(rel, "new", doc.RefVal(int(new.ID)))
}

func (b *builder) symbol(n *doc.NodeValue, s *obj.Sym, sources *obj.Sources, class string) {
	b.set(n, "id", integer(int(s.ID)))
	b.set(n, "name", str(s.Name))
	b.set(n, "display_name", str(s.Display))
	b.set(n, "is_demangled", boolean(s.Demangled()))
	b.set(n, "type", str(s.Type.String()))
	b.set(n, "kind", str(s.Kind().String()))
	b.set(n, "size", integer(s.Size))
	b.set(n, "lives_in_program_memory", boolean(s.InProgramMemory()))
	b.set(n, "instructions", str(s.InstsText()))
	b.set(n, "instructions_hash", str(fmt.Sprintf("%016x", s.InstsHash())))

	file := doc.Null()
	if f := sources.Get(s.Source); f != nil {
		file = str(f.Stripped)
	}
	b.set(n, "source_file", file)
	b.set(n, "source_line", optInt(s.Line))
	b.set(n, "source_column", optInt(s.Column))
	if s.CU == obj.NoCU {
		b.set(n, "compilation_unit", doc.Null())
	} else {
		b.set(n, "compilation_unit", integer(s.CU))
	}
	b.set(n, "is_const_expr", boolean(s.ConstExpr()))
	b.set(n, "conflict", boolean(s.Conflict()))

	cpp := b.sub(n, "cpp")
	if c := s.Cpp; c != nil {
		b.set(cpp, "prefix", optStr(c.Prefix.String()))
		b.set(cpp, "namespace", optStr(c.Namespace))
		b.set(cpp, "template_parameters", optStr(c.TemplateParams))
		b.set(cpp, "full_name", optStr(c.Name))
		if c.Kind == obj.KindFunction {
			b.set(cpp, "arguments", str(c.Args))
		} else {
			b.set(cpp, "arguments", doc.Null())
		}
	} else {
		for _, f := range []string{"prefix", "namespace", "template_parameters", "full_name", "arguments"} {
			b.set(cpp, f, doc.Null())
		}
	}
	b.displayInfo(n, class, int(s.ID), b.showDetails(s))
}

func optInt(i int) doc.Value {
	if i == 0 {
		return doc.Null()
	}
	return doc.IntVal(int64(i))
}
