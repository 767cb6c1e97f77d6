package kabi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kabidw/kabidw/pkg/compare"
	"github.com/kabidw/kabidw/pkg/dumpfmt"
	"github.com/kabidw/kabidw/pkg/typegraph"
	"github.com/stretchr/testify/require"
)

func intMember(name string, offset uint64) *typegraph.Node {
	m := typegraph.NewStructMember(name, offset, typegraph.NewBase("int"))
	return m
}

func writeFixture(t *testing.T, dir, key string, obj *typegraph.Node) {
	t.Helper()
	typegraph.Finalize(obj)
	full := filepath.Join(dir, key)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	f, err := os.Create(full)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, dumpfmt.WriteRecord(f, dumpfmt.Record{
		CU:     "<nottracked>",
		Origin: "<unknown>:0",
		Obj:    obj,
	}))
}

func structWith(name string, members ...*typegraph.Node) *typegraph.Node {
	s := typegraph.NewStruct(name)
	for _, m := range members {
		s.AddMember(m)
	}
	return s
}

func TestCompareDirSame(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFixture(t, oldDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))
	writeFixture(t, newDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))

	var out strings.Builder
	c := NewComparer(oldDir, newDir, CompareOptions{}, &out)
	v, err := c.CompareDir(nil)
	require.NoError(t, err)
	require.Equal(t, 0, int(v)) // VerdictSame
	require.Empty(t, out.String())
}

func TestCompareDirInsertedMember(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFixture(t, oldDir, "struct--foo.txt", structWith("foo",
		intMember("a", 0), intMember("b", 4)))
	writeFixture(t, newDir, "struct--foo.txt", structWith("foo",
		intMember("pad", 0), intMember("a", 4), intMember("b", 8)))

	var out strings.Builder
	c := NewComparer(oldDir, newDir, CompareOptions{}, &out)
	v, err := c.CompareDir(nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(v))
	require.Contains(t, out.String(), "Changes detected in: struct--foo.txt")
}

func TestCompareDirSymbolRemoved(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFixture(t, oldDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))
	// newDir has nothing.

	var out strings.Builder
	c := NewComparer(oldDir, newDir, CompareOptions{}, &out)
	v, err := c.CompareDir(nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(v))
	require.Contains(t, out.String(), "Symbol removed or moved: struct--foo.txt")
}

func TestCompareDirNoMovedFilesSuppresses(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFixture(t, oldDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))

	var out strings.Builder
	c := NewComparer(oldDir, newDir, CompareOptions{
		Options: compare.Options{NoMovedFiles: true},
	}, &out)
	v, err := c.CompareDir(nil)
	require.NoError(t, err)
	require.Equal(t, 0, int(v))
	require.Empty(t, out.String())
}

func TestCompareDirSkipDuplicateKey(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFixture(t, oldDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))
	writeFixture(t, oldDir, "struct--foo-1.txt", structWith("foo", intMember("x", 0)))
	// Neither exists on the new side: without skip-duplicate both keys are
	// reported removed; with it, only the canonical key is visited.

	var out strings.Builder
	c := NewComparer(oldDir, newDir, CompareOptions{SkipDuplicate: true}, &out)
	v, err := c.CompareDir(nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(v))
	require.Contains(t, out.String(), "struct--foo.txt")
	require.NotContains(t, out.String(), "struct--foo-1.txt")
}

func TestCompareFilesDirectMode(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	writeFixture(t, dir, "old.txt", structWith("foo", intMember("x", 0)))
	writeFixture(t, dir, "new.txt", structWith("foo", intMember("x", 8)))

	var out strings.Builder
	c := NewComparer("", "", CompareOptions{}, &out)
	v, err := c.CompareFiles(oldPath, newPath)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(v)) // CONT: pure offset shift
}

func TestCompareTwoFilesCycleGuard(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFixture(t, oldDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))
	writeFixture(t, newDir, "struct--foo.txt", structWith("foo", intMember("x", 0)))

	var out strings.Builder
	c := NewComparer(oldDir, newDir, CompareOptions{}, &out)
	c.visited = make(map[string]struct{})
	v1, err := c.compareTwoFiles("struct--foo.txt", "struct--foo.txt", false)
	require.NoError(t, err)
	require.Equal(t, 0, int(v1))

	// Revisiting the same old-side key must short-circuit to SAME rather
	// than re-parsing and re-comparing, per the shared visited set guard.
	v2, err := c.compareTwoFiles("struct--foo.txt", "struct--foo.txt", false)
	require.NoError(t, err)
	require.Equal(t, 0, int(v2))
}

func TestIsDuplicateKey(t *testing.T) {
	require.False(t, isDuplicateKey("struct--foo.txt"))
	require.True(t, isDuplicateKey("struct--foo-1.txt"))
	require.True(t, isDuplicateKey("<declarations>/struct--foo-12.txt"))
}

func TestIsDeclarationPath(t *testing.T) {
	require.True(t, isDeclarationPath("<declarations>/struct--foo.txt"))
	require.False(t, isDeclarationPath("struct--foo.txt"))
}
