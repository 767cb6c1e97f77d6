package compare

import (
	"path"
	"strconv"
	"strings"

	"github.com/kabidw/kabidw/pkg/typegraph"
)

// FollowFunc resolves two reffile targets (relative record paths, one on
// each side of a comparison) to the severity of their own structural
// compare, recursing through pkg/kabi's cycle-guarded follow-through
// machinery. A nil FollowFunc means follow-mode is disabled: reffile pairs
// naming the same type are treated as unchanged without recursing.
type FollowFunc func(oldPath, newPath string) (Severity, error)

// CompareNodes returns cmp_nodes' per-node verdict for a and b: the most
// severe single-node difference, per spec.md §4.6. inSearch is set only
// while probing candidate realignments inside the list-diff heuristic; it
// enables the "unnamed composite member" exception that keeps an offset
// coincidence from masquerading as a real realignment.
func (c *Comparator) CompareNodes(a, b *typegraph.Node, inSearch bool) (Severity, error) {
	if a.Kind != b.Kind {
		return CmpDiff, nil
	}
	if a.Name != b.Name {
		return CmpDiff, nil
	}
	if (a.Link != "") != (b.Link != "") {
		return CmpDiff, nil
	}
	if a.Link != "" && b.Link != "" && a.Link != b.Link {
		return CmpDiff, nil
	}
	if (a.Pointee == nil) != (b.Pointee == nil) {
		return CmpDiff, nil
	}
	if a.Kind == typegraph.KindConstant && a.Constant != b.Constant {
		return CmpDiff, nil
	}
	if a.Kind == typegraph.KindArray && a.Index != b.Index {
		return CmpDiff, nil
	}
	if a.IsBitfield != b.IsBitfield {
		return CmpDiff, nil
	}
	if a.IsBitfield && a.BitWidth() != b.BitWidth() {
		return CmpDiff, nil
	}

	if a.Kind == typegraph.KindRefFile {
		return c.compareReffile(a, b)
	}
	if a.BaseType != b.BaseType {
		return CmpDiff, nil
	}

	if a.HasOffset && (a.Offset != b.Offset || (a.IsBitfield && a.FirstBit != b.FirstBit)) {
		if inSearch && a.Name == "" {
			// An unnamed struct/union member: don't let the list-diff
			// search treat two of these as "the same field, just shifted"
			// purely because their offsets happen to line up.
			return CmpDiff, nil
		}
		return CmpOffset, nil
	}

	if a.HasAlignment != b.HasAlignment || (a.HasAlignment && a.Alignment != b.Alignment) {
		return CmpAlignment, nil
	}
	if a.HasByteSize != b.HasByteSize || (a.HasByteSize && a.ByteSize != b.ByteSize) {
		return CmpByteSize, nil
	}
	return CmpSame, nil
}

// compareReffile implements cmp_node_reffile: unwrap both paths to a human
// type name; a name mismatch is CMP_DIFF outright. A matching name pointing
// into the synthetic declarations directory on either side is never
// followed (an incomplete-type forward reference can't meaningfully diverge
// further). Otherwise, when follow-mode is enabled, recurse through the
// caller-supplied hook and report CMP_REFFILE if that recursive compare
// found any difference at all.
func (c *Comparator) compareReffile(a, b *typegraph.Node) (Severity, error) {
	if humanTypeName(a.BaseType) != humanTypeName(b.BaseType) {
		return CmpDiff, nil
	}
	if isDeclarationPath(a.BaseType) || isDeclarationPath(b.BaseType) {
		return CmpSame, nil
	}
	if c.follow == nil {
		return CmpSame, nil
	}
	sev, err := c.follow(a.BaseType, b.BaseType)
	if err != nil {
		return 0, err
	}
	if sev != CmpSame {
		return CmpReffile, nil
	}
	return CmpSame, nil
}

// humanTypeName decodes a record key such as "struct--foo-2.txt" or
// "<declarations>/union--bar.txt" into "struct foo"/"union bar": the kind
// prefix and name, with any "-<version>" disambiguation suffix stripped, so
// two different versions of the same type still compare as the same name.
func humanTypeName(refPath string) string {
	base := strings.TrimSuffix(path.Base(refPath), ".txt")
	kind, name, ok := strings.Cut(base, "--")
	if !ok {
		return base
	}
	return kind + " " + stripVersionSuffix(name)
}

func stripVersionSuffix(name string) string {
	idx := strings.LastIndex(name, "-")
	if idx < 0 {
		return name
	}
	if _, err := strconv.Atoi(name[idx+1:]); err != nil {
		return name
	}
	return name[:idx]
}

// isDeclarationPath reports whether p names a file under the synthetic
// <declarations> directory used for forward-declaration-only records.
func isDeclarationPath(p string) bool {
	return path.Dir(p) == "<declarations>" || p == "<declarations>"
}
