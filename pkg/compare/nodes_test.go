package compare

import (
	"testing"

	"github.com/kabidw/kabidw/pkg/typegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intMember(name string, offset uint64) *typegraph.Node {
	return typegraph.NewStructMember(name, offset, typegraph.NewBase("int"))
}

func TestCompareNodesBaseTypeMismatch(t *testing.T) {
	c := New(Options{}, nil)
	a := typegraph.NewBase("int")
	b := typegraph.NewBase("long")
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpDiff, sev)
}

func TestCompareNodesSame(t *testing.T) {
	c := New(Options{}, nil)
	a := intMember("foo", 0)
	b := intMember("foo", 0)
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpSame, sev)
}

func TestCompareNodesOffsetShift(t *testing.T) {
	c := New(Options{}, nil)
	a := intMember("foo", 0)
	b := intMember("foo", 8)
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpOffset, sev)
}

func TestCompareNodesUnnamedOffsetInSearchIsDiff(t *testing.T) {
	c := New(Options{}, nil)
	a := typegraph.NewStructMember("", 0, typegraph.NewUnion(""))
	b := typegraph.NewStructMember("", 8, typegraph.NewUnion(""))
	sev, err := c.CompareNodes(a, b, true)
	require.NoError(t, err)
	assert.Equal(t, CmpDiff, sev)
}

func TestCompareNodesAlignment(t *testing.T) {
	c := New(Options{}, nil)
	a := typegraph.NewStruct("foo")
	a.SetAlignment(4)
	b := typegraph.NewStruct("foo")
	b.SetAlignment(8)
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpAlignment, sev)
}

func TestCompareNodesByteSize(t *testing.T) {
	c := New(Options{}, nil)
	a := typegraph.NewStruct("foo")
	a.SetByteSize(16)
	b := typegraph.NewStruct("foo")
	b.SetByteSize(24)
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpByteSize, sev)
}

func TestCompareReffileNameMismatch(t *testing.T) {
	c := New(Options{Follow: true}, func(string, string) (Severity, error) {
		t.Fatal("follow should not be called on a name mismatch")
		return CmpSame, nil
	})
	a := typegraph.NewRefFile("struct--foo.txt")
	b := typegraph.NewRefFile("struct--bar.txt")
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpDiff, sev)
}

func TestCompareReffileDeclarationNeverFollowed(t *testing.T) {
	c := New(Options{Follow: true}, func(string, string) (Severity, error) {
		t.Fatal("follow should not be called when either side is a declaration")
		return CmpSame, nil
	})
	a := typegraph.NewRefFile("<declarations>/struct--foo.txt")
	b := typegraph.NewRefFile("struct--foo-2.txt")
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpSame, sev)
}

func TestCompareReffileFollowsAndReportsReffile(t *testing.T) {
	called := false
	c := New(Options{Follow: true}, func(oldPath, newPath string) (Severity, error) {
		called = true
		assert.Equal(t, "struct--foo-1.txt", oldPath)
		assert.Equal(t, "struct--foo-2.txt", newPath)
		return CmpDiff, nil
	})
	a := typegraph.NewRefFile("struct--foo-1.txt")
	b := typegraph.NewRefFile("struct--foo-2.txt")
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, CmpReffile, sev)
}

func TestCompareReffileWithoutFollowIsSame(t *testing.T) {
	c := New(Options{Follow: false}, nil)
	a := typegraph.NewRefFile("struct--foo-1.txt")
	b := typegraph.NewRefFile("struct--foo-2.txt")
	sev, err := c.CompareNodes(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, CmpSame, sev)
}

func TestHumanTypeName(t *testing.T) {
	assert.Equal(t, "struct foo", humanTypeName("struct--foo.txt"))
	assert.Equal(t, "struct foo", humanTypeName("struct--foo-2.txt"))
	assert.Equal(t, "union bar", humanTypeName("<declarations>/union--bar.txt"))
}
