// Package dumpfmt implements the canonical on-disk textual record format
// (spec §4.5): a small header (compilation unit, source origin, and the
// containment stack that led the extractor to this record) followed by a
// prefix-printed dump of the type tree, plus a parser that reconstructs a
// type graph from that text. The comparator and the show command never
// touch raw DWARF; they consume graphs parsed from this format.
//
// The tree grammar is grounded in the original tool's print_tree/obj_parse
// pair (original_source/objects.c, parser.h) but is not byte-for-byte
// compatible with it: base-type names and reffile paths are quoted here to
// make the grammar unambiguous for a plain recursive-descent parser
// instead of the original's generated lexer/parser pair.
package dumpfmt
