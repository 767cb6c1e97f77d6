package ksymtab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWhitelistStripsWhitespaceAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "whitelist.txt")
	content := "foo_bar\n\n  baz qux \n\tquux\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := LoadWhitelist(path)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	_, ok := set.Find("foo_bar")
	assert.True(t, ok)
	_, ok = set.Find("bazqux")
	assert.True(t, ok, "interior whitespace must be stripped")
	_, ok = set.Find("quux")
	assert.True(t, ok)
}

func TestLoadWhitelistMissingFile(t *testing.T) {
	_, err := LoadWhitelist(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestSetMarking(t *testing.T) {
	set := NewSet(4)
	a := set.Add("a", 0)
	set.Add("b", 1)

	assert.Equal(t, 0, set.MarkCount())
	set.Mark(a)
	assert.Equal(t, 1, set.MarkCount())
	set.Mark(a)
	assert.Equal(t, 1, set.MarkCount(), "marking twice must not double count")

	var unmarked []string
	set.ForEachUnmarked(func(e *Entry) { unmarked = append(unmarked, e.Name) })
	assert.Equal(t, []string{"b"}, unmarked)
}
