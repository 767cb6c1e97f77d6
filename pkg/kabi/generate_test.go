package kabi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKernelObjectFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.ko")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	files, err := kernelObjectFiles(path)
	require.NoError(t, err)
	require.Equal(t, []string{path}, files)
}

func TestKernelObjectFilesDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.ko"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ko"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "c.ko"), nil, 0o644))

	files, err := kernelObjectFiles(root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.ko"),
		filepath.Join(root, "b.ko"),
		filepath.Join(root, "sub", "c.ko"),
	}, files)
}

func TestKernelObjectFilesMissingPath(t *testing.T) {
	_, err := kernelObjectFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestRecordCount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "struct--foo.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "<declarations>"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "<declarations>", "struct--bar.txt"), nil, 0o644))

	require.Equal(t, 2, recordCount(dir))
}

func TestRecordCountMissingDir(t *testing.T) {
	require.Equal(t, 0, recordCount(filepath.Join(t.TempDir(), "nope")))
}
