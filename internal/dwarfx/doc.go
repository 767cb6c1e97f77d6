// Package dwarfx implements the DWARF extractor (component C): a per-
// compilation-unit walk that decides, for each top-level DIE, whether it
// is an emittable whitelisted/exported symbol, and for every DIE it
// touches, whether to promote it into a separately keyed pkg/record
// record, inline it into the current record's type graph, or emit a
// pkg/typegraph reffile placeholder pointing at an already- or not-yet-
// materialized record.
//
// The package builds on the standard library's debug/dwarf and debug/elf:
// per DOMAIN STACK in SPEC_FULL.md, no third-party Go library in the
// reference corpus (or the wider ecosystem) touches ELF/DWARF, so the
// standard library is the idiomatic and only choice here.
package dwarfx
