package compare

import (
	"testing"

	"github.com/kabidw/kabidw/pkg/typegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDiffInsert(t *testing.T) {
	c := New(Options{}, nil)
	// list1: a, b        list2: x, a, b
	a, b := intMember("a", 0), intMember("b", 4)
	list1 := []*typegraph.Node{a, b}
	list2 := []*typegraph.Node{intMember("x", 0), intMember("a", 4), intMember("b", 8)}

	kind, _, next2, err := c.listDiff(list1, list2)
	require.NoError(t, err)
	assert.Equal(t, diffInsert, kind)
	assert.Equal(t, 1, next2) // next1 is discarded by the caller on an insert
}

func TestListDiffDelete(t *testing.T) {
	c := New(Options{}, nil)
	// list1: x, a, b     list2: a, b
	list1 := []*typegraph.Node{intMember("x", 0), intMember("a", 4), intMember("b", 8)}
	list2 := []*typegraph.Node{intMember("a", 0), intMember("b", 4)}

	kind, next1, _, err := c.listDiff(list1, list2)
	require.NoError(t, err)
	assert.Equal(t, diffDelete, kind)
	assert.Equal(t, 1, next1) // next2 is discarded by the caller on a delete
}

func TestListDiffReplace(t *testing.T) {
	c := New(Options{}, nil)
	// list1: x, c        list2: y, c  (heads differ, then rejoin on c)
	list1 := []*typegraph.Node{intMember("x", 0), intMember("c", 4)}
	list2 := []*typegraph.Node{intMember("y", 0), intMember("c", 4)}

	kind, next1, next2, err := c.listDiff(list1, list2)
	require.NoError(t, err)
	assert.Equal(t, diffReplace, kind)
	assert.Equal(t, 1, next1)
	assert.Equal(t, 1, next2)
}

func TestListDiffContWhenListsNeverRejoin(t *testing.T) {
	c := New(Options{}, nil)
	list1 := []*typegraph.Node{intMember("x", 0), intMember("y", 4)}
	list2 := []*typegraph.Node{intMember("p", 0), intMember("q", 4)}

	kind, _, _, err := c.listDiff(list1, list2)
	require.NoError(t, err)
	assert.Equal(t, diffCont, kind)
}
