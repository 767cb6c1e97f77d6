package record

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kabidw/kabidw/pkg/typegraph"
)

// Record binds one extracted top-level type to its on-disk identity.
type Record struct {
	Key     string // relative path, e.g. "struct--foo.txt" or "<declarations>/struct--bar.txt"
	Version int    // 0 for the first record at a base name, 1,2,... for later non-mergeable ones
	base    string // Key with ".txt" stripped; set on first bumpVersion

	CU     string // compile unit name, or "<nottracked>" as a placeholder
	Origin string // "<path>:<line>", the file/line this type was declared at

	// Stack is a snapshot of the type-containment path from the exported
	// symbol down to this record, outermost first, captured at extraction
	// time for provenance in dumps.
	Stack []string

	Obj *typegraph.Node // root of the owned type graph

	refCount int32
}

// New creates a record at key with version 0 and a single reference held
// by the caller.
func New(key string) *Record {
	return &Record{Key: key, refCount: 1}
}

// Get acquires an additional reference.
func (r *Record) Get() { atomic.AddInt32(&r.refCount, 1) }

// Put releases a reference. When the count reaches zero the record's type
// graph is freed; Put is a no-op on an already-freed record.
func (r *Record) Put() {
	if atomic.AddInt32(&r.refCount, -1) > 0 {
		return
	}
	typegraph.Free(r.Obj)
	r.Obj = nil
}

// Close finalizes obj's parent pointers and adopts it as r's root type.
func (r *Record) Close(obj *typegraph.Node) {
	typegraph.Finalize(obj)
	r.Obj = obj
}

// bumpVersion advances r to the next version, rewriting its key to
// "<base>-<version>.txt".
func (r *Record) bumpVersion() {
	if r.Version == 0 {
		r.base = strings.TrimSuffix(r.Key, ".txt")
	}
	r.Version++
	r.Key = r.base + "-" + strconv.Itoa(r.Version) + ".txt"
}
