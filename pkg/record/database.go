package record

import (
	"path"

	"github.com/kabidw/kabidw/pkg/typegraph"
)

// Database is a key→Record store with merge-or-version-bump insertion.
// Not safe for concurrent use; a generator run owns exactly one Database
// from a single goroutine, per spec §5.
type Database struct {
	byKey map[string]*Record
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{byKey: make(map[string]*Record)}
}

// Lookup returns the record stored at key, acquiring a reference on the
// caller's behalf.
func (db *Database) Lookup(key string) (*Record, bool) {
	rec, ok := db.byKey[key]
	if ok {
		rec.Get()
	}
	return rec, ok
}

// Insert stores rec in the database, merging it into an existing record of
// the same key when their origins agree and their graphs unify, or else
// bumping rec's version and retrying under a new key. Returns the key the
// record was finally stored (or merged) under.
func (db *Database) Insert(rec *Record) string {
	for {
		existing, ok := db.byKey[rec.Key]
		if !ok {
			db.byKey[rec.Key] = rec
			rec.Get() // database's own reference
			return rec.Key
		}
		if merge(existing, rec) {
			return existing.Key
		}
		rec.bumpVersion()
	}
}

// merge attempts to unify src into dst per spec §4.4: it succeeds
// only if both records' origins are identical and their graphs can be
// reconciled node-for-node. On success dst's graph is replaced with the
// unified graph and true is returned.
func merge(dst, src *Record) bool {
	if dst.Origin != src.Origin {
		return false
	}
	unified, ok := mergeNode(dst.Obj, src.Obj)
	if !ok {
		return false
	}
	typegraph.Finalize(unified)
	dst.Obj = unified
	return true
}

// mergeNode unifies two type graphs in structural lock-step. A reffile to
// "<declarations>/..." yields to the other side's concrete reffile or
// fully materialized node; otherwise the two sides must already be equal
// (same kind/name/shape) or merge fails for the whole pair.
func mergeNode(a, b *typegraph.Node) (*typegraph.Node, bool) {
	if a == nil && b == nil {
		return nil, true
	}
	if a == nil || b == nil {
		return nil, false
	}

	if a.Kind == typegraph.KindRefFile && isDeclarationPath(a.BaseType) && b.Kind != typegraph.KindRefFile {
		return b, true
	}
	if b.Kind == typegraph.KindRefFile && isDeclarationPath(b.BaseType) && a.Kind != typegraph.KindRefFile {
		return a, true
	}
	if a.Kind == typegraph.KindRefFile && b.Kind == typegraph.KindRefFile {
		if isDeclarationPath(a.BaseType) && !isDeclarationPath(b.BaseType) {
			return b, true
		}
		if isDeclarationPath(b.BaseType) && !isDeclarationPath(a.BaseType) {
			return a, true
		}
	}

	if !nodesEqualShape(a, b) {
		return nil, false
	}

	merged := *a
	if len(a.Members) != len(b.Members) {
		return nil, false
	}
	members := make([]*typegraph.Node, len(a.Members))
	for i := range a.Members {
		m, ok := mergeNode(a.Members[i], b.Members[i])
		if !ok {
			return nil, false
		}
		members[i] = m
	}
	merged.Members = members

	pointee, ok := mergeNode(a.Pointee, b.Pointee)
	if !ok {
		return nil, false
	}
	merged.Pointee = pointee
	merged.Parent = nil

	return &merged, true
}

// nodesEqualShape reports whether a and b agree on every scalar field that
// cmp_nodes would compare as CMP_DIFF — kind, name, base type, bitfield
// shape, constant/index value — without recursing into members or
// pointee (the caller handles that).
func nodesEqualShape(a, b *typegraph.Node) bool {
	if a.Kind != b.Kind || a.Name != b.Name || a.BaseType != b.BaseType {
		return false
	}
	if a.IsBitfield != b.IsBitfield {
		return false
	}
	if a.IsBitfield && (a.FirstBit != b.FirstBit || a.LastBit != b.LastBit) {
		return false
	}
	if a.Constant != b.Constant {
		return false
	}
	if a.Kind == typegraph.KindArray && a.Index != b.Index {
		return false
	}
	if a.HasOffset != b.HasOffset || (a.HasOffset && a.Offset != b.Offset) {
		return false
	}
	return true
}

// isDeclarationPath reports whether p names a file under the synthetic
// <declarations> directory used for forward-declaration-only records.
func isDeclarationPath(p string) bool {
	return path.Dir(p) == "<declarations>" || p == "<declarations>"
}
