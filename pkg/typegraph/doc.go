/*
Package typegraph is the in-memory representation of a C type as a node
graph: one Node per struct, union, enum, function, pointer, typedef, array,
variable, field, qualifier, base type, enum constant, or cross-record
reference.

# Core Types

Node is the single vertex type for the whole graph; its meaning is
determined by its Kind. Composite kinds (struct/union/enum/func) carry an
ordered Members slice — order is significant, it encodes layout order for
composites and parameter order for functions. Kinds that wrap exactly one
child (pointer, typedef, array, qualifier, var, struct_member, func-return)
carry a single Pointee.

# Lifecycle

A record (see package record) exclusively owns one graph rooted at an
exported symbol's Node. Finalize walks a completed graph exactly once,
populating each node's Parent back-pointer; after Finalize the graph is
treated as immutable. Free releases a graph's members and pointee
recursively and is safe to call on a partially constructed graph.

Cross-record edges are never in-memory pointers: a Kind == RefFile node
carries only a relative file path in BaseType. This keeps one record's
graph fully self-contained and cycle-free; cycles exist only across record
boundaries, via the record database and comparator's visited-path guards.
*/
package typegraph
