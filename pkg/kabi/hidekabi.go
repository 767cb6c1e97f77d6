package kabi

import (
	"regexp"

	"github.com/kabidw/kabidw/pkg/typegraph"
)

// hideKabiMemberPattern matches the synthetic union member names the
// kernel's RH_KABI_REPLACE()-style macros generate: RH_KABI_HIDE
// ("__UNIQUE_ID_rh_kabi_hide") followed by a compiler-assigned disambiguator
// and the field's real name.
var hideKabiMemberPattern = regexp.MustCompile(`^__UNIQUE_ID_rh_kabi_hide\d+_(.+)$`)

// HideKabiOptions configures whether and how the hide_kabi transform is
// applied before a record is shown or compared, mirroring compare/show's
// -k/-n flags (original_source/compare.c, original_source/show.c).
type HideKabiOptions struct {
	Enabled bool
	ShowNew bool // -n: keep the replacement field instead of the legacy one
}

// HideKabi walks root in place, collapsing every union that is the type of a
// struct_member and whose members are all tagged with the RH_KABI_HIDE
// naming convention down to a single field: the first (legacy) member when
// showNew is false, the last (replacement) member when true. Per spec.md §9's open question, the exact
// wrapper shape is undocumented upstream; this is the derived convention
// (see DESIGN.md).
func HideKabi(root *typegraph.Node, showNew bool) {
	walkHideKabi(root, showNew)
}

func walkHideKabi(n *typegraph.Node, showNew bool) {
	if n == nil {
		return
	}
	for _, m := range n.Members {
		if m.Kind == typegraph.KindStructMember && isHiddenUnion(m.Pointee) {
			collapseHiddenUnion(m, showNew)
		}
		walkHideKabi(m, showNew)
	}
	walkHideKabi(n.Pointee, showNew)
}

func isHiddenUnion(n *typegraph.Node) bool {
	if n == nil || n.Kind != typegraph.KindUnion || len(n.Members) == 0 {
		return false
	}
	for _, m := range n.Members {
		if !hideKabiMemberPattern.MatchString(m.Name) {
			return false
		}
	}
	return true
}

// collapseHiddenUnion replaces member's union type with the chosen
// variant's wrapped type directly, dropping the union and its named-member
// wrapper entirely. member's own Name/Offset are untouched, so it keeps
// reporting as the same struct field under its original name.
func collapseHiddenUnion(member *typegraph.Node, showNew bool) {
	union := member.Pointee
	chosen := union.Members[0]
	if showNew {
		chosen = union.Members[len(union.Members)-1]
	}
	member.Pointee = chosen.Pointee
}
