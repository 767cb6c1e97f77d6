package compare

import (
	"strings"
	"testing"

	"github.com/kabidw/kabidw/pkg/typegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structWith(name string, members ...*typegraph.Node) *typegraph.Node {
	s := typegraph.NewStruct(name)
	for _, m := range members {
		s.AddMember(m)
	}
	return s
}

func TestCompareTreeSame(t *testing.T) {
	c := New(Options{}, nil)
	a := structWith("foo", intMember("x", 0))
	b := structWith("foo", intMember("x", 0))
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictSame, v)
	assert.Empty(t, out.String())
}

func TestCompareTreeShiftedPrintsAndIsCont(t *testing.T) {
	c := New(Options{}, nil)
	a := intMember("x", 0)
	b := intMember("x", 8)
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictCont, v)
	assert.Contains(t, out.String(), "Shifted:")
}

func TestCompareTreeShiftedSuppressedStillCont(t *testing.T) {
	// spec.md's design note: a suppressed category still contributes
	// CONT to the aggregated verdict even though nothing gets printed.
	c := New(Options{NoShifted: true}, nil)
	a := intMember("x", 0)
	b := intMember("x", 8)
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictCont, v)
	assert.Empty(t, out.String())
}

func TestCompareTreeAlignmentMessage(t *testing.T) {
	c := New(Options{}, nil)
	a := typegraph.NewStruct("foo")
	a.SetAlignment(4)
	b := typegraph.NewStruct("foo")
	b.SetAlignment(8)
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictCont, v)
	assert.Contains(t, out.String(), "alignment of symbol 'foo' has changed from 4 to 8")
}

func TestCompareTreeReffileIsImmediateDiff(t *testing.T) {
	c := New(Options{Follow: true}, func(string, string) (Severity, error) {
		return CmpDiff, nil
	})
	a := typegraph.NewRefFile("struct--foo-1.txt")
	b := typegraph.NewRefFile("struct--foo-2.txt")
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictDiff, v)
	assert.Contains(t, out.String(), "symbol struct--foo-1.txt has changed")
}

func TestCompareTreeAddedMember(t *testing.T) {
	c := New(Options{}, nil)
	a := structWith("foo", intMember("x", 0))
	b := structWith("foo", intMember("x", 0), intMember("y", 4))
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictDiff, v)
	assert.Contains(t, out.String(), "Added:")
}

func TestCompareTreeRemovedMemberSuppressed(t *testing.T) {
	c := New(Options{NoRemoved: true}, nil)
	a := structWith("foo", intMember("x", 0), intMember("y", 4))
	b := structWith("foo", intMember("x", 0))
	var out strings.Builder
	v, err := c.CompareTree(a, b, &out)
	require.NoError(t, err)
	assert.Equal(t, VerdictSame, v)
	assert.Empty(t, out.String())
}
