// Package record implements the keyed database of finalized type records
// that the DWARF extractor populates and the dump format serializes.
//
// A Record binds one top-level type graph (see pkg/typegraph) to its
// on-disk identity: a key (relative path, e.g. "struct--foo.txt"), the
// compilation unit and source line it was extracted from, and the
// containment stack that led the extractor to it. Database.Insert
// implements the merge-or-version-bump rule: two records with the same key,
// identical origin and graphs that differ only in declaration placeholders
// are unified in place; records with the same key but a differing origin or
// a genuinely different graph are kept apart by bumping the key to
// "<base>-<n>.txt".
package record
