// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import "github.com/aclements/go-symdiff/doc"

// Symbol classes of display_info.symbol_class.
const (
	ClassOld         = "old"
	ClassNew         = "new"
	ClassAppeared    = "appeared"
	ClassDisappeared = "disappeared"
	ClassPersisting  = "persisting"
	ClassSimilar     = "similar"
)

func resources(what string) *doc.Meta {
	return doc.Node("resource_consumption", what,
		doc.Int("code", "Program memory in bytes (text + data)."),
		doc.Int("static_ram", "Static RAM in bytes (data + bss)."),
		doc.Int("text", "Size of the text segment in bytes."),
		doc.Int("data", "Size of the initialized data segment in bytes."),
		doc.Int("bss", "Size of the zero-initialized data segment in bytes."),
	)
}

func oldNewDelta(name, what string) *doc.Meta {
	return doc.Node(name, what,
		doc.Int("old", "Value for the old binary.", doc.NonNegative),
		doc.Int("new", "Value for the new binary.", doc.NonNegative),
		doc.Int("delta", "New minus old."),
	)
}

func sideStats(side string) *doc.Meta {
	return doc.Node(side, "Symbol statistics of the "+side+" binary.",
		doc.Node("count", "Symbol counts.",
			doc.Int("selected", "Symbols accepted by the selection.", doc.NonNegative),
			doc.Int("dropped", "Symbols rejected by the selection.", doc.NonNegative),
			doc.Int("total", "Selected plus dropped symbols.", doc.NonNegative),
			doc.Int("conflicts", "Symbols nm reported with conflicting size or type.", doc.NonNegative),
		),
		doc.Node("regex", "Symbol selection.",
			doc.Str("selection", "Regular expression names must match at their start.").Null(),
			doc.Str("exclusion", "Regular expression that rejects names matching at their start.").Null(),
		),
	)
}

func isolatedStats(class string) *doc.Meta {
	return doc.Node(class, "Statistics of "+class+" symbols.",
		doc.Int("count", "Number of "+class+" symbols.", doc.NonNegative),
		doc.Node("resource_consumption", "Aggregate size of "+class+" symbols.",
			doc.Int("code", "Program memory in bytes.", doc.NonNegative),
			doc.Int("static_ram", "Static RAM in bytes.", doc.NonNegative),
		),
	)
}

func displayInfo() *doc.Meta {
	return doc.Node("display_info", "Hints for exporters.",
		doc.Str("symbol_class", "Class of the symbol.",
			doc.OneOf(ClassOld, ClassNew, ClassAppeared, ClassDisappeared, ClassPersisting, ClassSimilar)),
		doc.Str("anchor_id", "Unique cross reference anchor."),
		doc.Bool("display_symbol_details", "Whether instruction details are worth showing."),
	)
}

func relatedSymbols() *doc.Meta {
	return doc.Node("related_symbols", "The old and new side of the pair.",
		doc.Ref("old", "Symbol in the old binary.", "symbols.old"),
		doc.Ref("new", "Symbol in the new binary.", "symbols.new"),
	)
}

// SymbolMeta describes one symbol of a binary.
var SymbolMeta = doc.Node("Symbol", "A symbol of a binary.",
	doc.Int("id", "Run-unique symbol id.", doc.NonNegative),
	doc.Str("name", "Mangled name."),
	doc.Str("display_name", "Name shown to users, demangled if possible."),
	doc.Bool("is_demangled", "Whether display_name was obtained by demangling."),
	doc.Str("type", "nm type code."),
	doc.Str("kind", "Function or data.", doc.OneOf("function", "data")),
	doc.Int("size", "Size in bytes.", doc.NonNegative),
	doc.Bool("lives_in_program_memory", "Whether the symbol occupies program memory."),
	doc.Str("instructions", "Instruction lines joined by newlines, with tagged source context."),
	doc.Str("instructions_hash", "Hash of the instruction lines."),
	doc.Str("source_file", "Source file with configured prefixes removed.").Null(),
	doc.Int("source_line", "Source line.").Null(),
	doc.Int("source_column", "Source column.").Null(),
	doc.Int("compilation_unit", "Compilation unit index.").Null(),
	doc.Bool("is_const_expr", "Whether debug info declares the symbol constexpr."),
	doc.Bool("conflict", "Whether nm reported the symbol inconsistently."),
	doc.Node("cpp", "Decomposed C++ name.",
		doc.Str("prefix", "Leading qualifier such as \"vtable for\".").Null(),
		doc.Str("namespace", "Enclosing scope.").Null(),
		doc.Str("template_parameters", "Template parameters of the enclosing scope.").Null(),
		doc.Str("full_name", "Unqualified name.").Null(),
		doc.Str("arguments", "Argument list.").Null(),
	),
	displayInfo(),
)

// isolatedMeta describes a symbol present in only one binary, referring
// into the symbols of that binary at target.
func isolatedMeta(name, target string) *doc.Meta {
	return doc.Node(name, "A symbol present in only one binary.",
		doc.Ref("symbol", "The symbol.", target),
		displayInfo(),
	)
}

// PersistingMeta describes a symbol present in both binaries.
var PersistingMeta = doc.Node("PersistingSymbol", "A symbol present in both binaries.",
	relatedSymbols(),
	doc.Int("size_delta", "New size minus old size."),
	doc.Bool("instructions_differ", "Whether the instruction lines differ."),
	displayInfo(),
)

// SimilarMeta describes a disappeared symbol paired with a similar
// appeared symbol.
var SimilarMeta = doc.Node("SimilarSymbols", "A disappeared and an appeared symbol with similar names.",
	relatedSymbols(),
	doc.Node("signature_tagged", "Display names with differing spans tagged.",
		doc.Str("old", "Old name with deleted and replaced spans tagged."),
		doc.Str("new", "New name with inserted and replaced spans tagged."),
	),
	doc.Node("similarities", "Similarities in percent.",
		doc.Float("signature", "Name similarity.", doc.Percentage),
		doc.Float("instruction", "Instruction similarity, null without instructions.", doc.Percentage).Null(),
	),
	doc.Bool("instructions_equal", "Whether the instruction lines are equal."),
	doc.Int("size_delta", "New size minus old size."),
	displayInfo(),
)

// Schema is the schema of every symdiff document.
var Schema = doc.Node("document", "Comparison of the symbols of two binaries.",
	doc.Node("general", "General information.",
		doc.Str("page_title", "Title of the page."),
		doc.Str("doc_title", "Title of the document."),
		doc.Str("generation_date", "Date the document was generated."),
		doc.Str("repo_root", "Root of the repository that was compared."),
		doc.Str("tool_version", "Version of symdiff."),
	),
	doc.Node("files", "Files involved.",
		doc.Node("input", "Input files.",
			doc.Node("old", "Old input.",
				doc.Str("binary_path", "Path of the old binary."),
				doc.Str("alias", "Name shown for the old binary."),
			),
			doc.Node("new", "New input.",
				doc.Str("binary_path", "Path of the new binary."),
				doc.Str("alias", "Name shown for the new binary."),
			),
		),
	),
	doc.Str("old_binary_info", "Free-form information about the old binary."),
	doc.Str("new_binary_info", "Free-form information about the new binary."),
	doc.Str("build_info", "Free-form information about the build."),
	doc.Node("configuration", "Display flags.",
		doc.Bool("instructions_available", "Whether both binaries have instructions."),
		doc.Bool("debug_info_available", "Whether both binaries have debug info."),
		doc.Bool("binutils_functional", "Whether nm could demangle for both binaries."),
		doc.Bool("symbol_similarities_enabled", "Whether similar symbols were searched."),
		doc.Bool("skip_persisting_same_size", "Whether persisting symbols of equal size are omitted."),
		doc.Bool("skip_details", "Whether symbol details are omitted."),
		doc.Str("language", "Source language of symbol names.", doc.OneOf("cpp", "c")),
		doc.Float("similarity_threshold", "Minimum name similarity of similar symbols in percent.", doc.Percentage),
	),
	doc.Node("statistics", "Statistics.",
		doc.Node("overall", "Aggregate sizes from size.",
			doc.Node("old", "Old binary.", resources("Old sizes.")),
			doc.Node("new", "New binary.", resources("New sizes.")),
			doc.Node("delta", "New minus old.", resources("Size deltas.")),
		),
		doc.Node("symbols", "Symbol statistics.",
			sideStats("old"),
			sideStats("new"),
			isolatedStats("appeared"),
			isolatedStats("disappeared"),
			doc.Node("persisting", "Statistics of persisting symbols.",
				doc.Int("count", "Number of persisting symbols.", doc.NonNegative),
				doc.Int("size_changed", "Persisting symbols whose size changed.", doc.NonNegative),
				doc.Int("instructions_differ", "Persisting symbols whose instructions differ.", doc.NonNegative),
				doc.Node("resource_consumption", "Aggregate size of persisting symbols.",
					oldNewDelta("code", "Program memory in bytes."),
					oldNewDelta("static_ram", "Static RAM in bytes."),
				),
			),
			doc.Node("similar", "Statistics of similar symbols.",
				doc.Int("count", "Number of similar pairs.", doc.NonNegative),
			),
		),
	),
	doc.Node("symbols", "Symbols by class, keyed by id.",
		doc.Dict("old", "Symbols of the old binary.", SymbolMeta),
		doc.Dict("new", "Symbols of the new binary.", SymbolMeta),
		doc.Dict("appeared", "Symbols only in the new binary.", isolatedMeta("AppearedSymbol", "symbols.new")),
		doc.Dict("disappeared", "Symbols only in the old binary.", isolatedMeta("DisappearedSymbol", "symbols.old")),
		doc.Dict("persisting", "Symbols in both binaries, keyed by old id.", PersistingMeta),
		doc.Dict("similar", "Similar pairs, keyed by rank.", SimilarMeta),
	),
)
