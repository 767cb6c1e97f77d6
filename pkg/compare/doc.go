// Package compare implements the structural comparator (component F): a
// per-node severity classification, a recursive tree diff that emits
// human-readable change messages, and the minimal-edit list-diff heuristic
// used to realign two member lists around an insertion, deletion, or
// replacement.
//
// Reffile follow-through (recursing into a referenced record when two
// reffile nodes name the same type but point at different files) is driven
// through the FollowFunc hook rather than performed here directly: resolving
// a relative record path to a parsed graph, guarding against comparison
// cycles, and deciding which directory a path lives under are all
// responsibilities of pkg/kabi (component G), not the comparator itself.
package compare
