package kabi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkFilesOrderedFilesBeforeSubdirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "b-dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b-dir", "c.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "a-dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a-dir", "d.txt"), nil, 0o644))

	got, err := walkFilesOrdered(root)
	require.NoError(t, err)

	// Within root: regular files first (alphabetical), then subdirectories
	// (alphabetical), each walked the same way.
	want := []string{"a.txt", "z.txt", "a-dir/d.txt", "b-dir/c.txt"}
	require.Equal(t, want, got)
}

func TestWalkFilesOrderedEmptyDir(t *testing.T) {
	root := t.TempDir()
	got, err := walkFilesOrdered(root)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestJoinRel(t *testing.T) {
	require.Equal(t, "a", joinRel("", "a"))
	require.Equal(t, "a/b", joinRel("a", "b"))
}
