package kabi

import (
	"testing"

	"github.com/kabidw/kabidw/pkg/typegraph"
	"github.com/stretchr/testify/require"
)

func hiddenUnionMember(name string) *typegraph.Node {
	legacy := typegraph.NewStructMember("__UNIQUE_ID_rh_kabi_hide0_"+name, 0, typegraph.NewBase("int"))
	replacement := typegraph.NewStructMember("__UNIQUE_ID_rh_kabi_hide1_"+name, 0, typegraph.NewBase("long"))
	union := typegraph.NewUnion("")
	union.AddMember(legacy)
	union.AddMember(replacement)
	return typegraph.NewStructMember(name, 0, union)
}

func TestHideKabiKeepsLegacyByDefault(t *testing.T) {
	root := typegraph.NewStruct("s")
	root.AddMember(hiddenUnionMember("foo"))
	typegraph.Finalize(root)

	HideKabi(root, false)

	require.Equal(t, typegraph.KindBase, root.Members[0].Pointee.Kind)
	require.Equal(t, "int", root.Members[0].Pointee.BaseType)
}

func TestHideKabiShowsNewVariant(t *testing.T) {
	root := typegraph.NewStruct("s")
	root.AddMember(hiddenUnionMember("foo"))
	typegraph.Finalize(root)

	HideKabi(root, true)

	require.Equal(t, "long", root.Members[0].Pointee.BaseType)
}

func TestHideKabiLeavesOrdinaryUnionsAlone(t *testing.T) {
	union := typegraph.NewUnion("")
	union.AddMember(typegraph.NewStructMember("a", 0, typegraph.NewBase("int")))
	union.AddMember(typegraph.NewStructMember("b", 0, typegraph.NewBase("long")))
	root := typegraph.NewStruct("s")
	root.AddMember(typegraph.NewStructMember("u", 0, union))
	typegraph.Finalize(root)

	HideKabi(root, false)

	require.Equal(t, typegraph.KindUnion, root.Members[0].Pointee.Kind)
	require.Len(t, root.Members[0].Pointee.Members, 2)
}

func TestIsHiddenUnion(t *testing.T) {
	legacy := typegraph.NewStructMember("__UNIQUE_ID_rh_kabi_hide0_foo", 0, typegraph.NewBase("int"))
	union := typegraph.NewUnion("")
	union.AddMember(legacy)
	require.True(t, isHiddenUnion(union))
	require.False(t, isHiddenUnion(nil))

	plain := typegraph.NewUnion("")
	plain.AddMember(typegraph.NewStructMember("a", 0, typegraph.NewBase("int")))
	require.False(t, isHiddenUnion(plain))
}
