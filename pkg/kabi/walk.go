package kabi

import (
	"os"
	"path/filepath"
	"sort"
)

// walkFilesOrdered returns every regular file reachable under root, walking
// directories in the order spec.md §5 mandates: within each directory,
// regular files are visited before subdirectories, and both classes are
// collated alphabetically. Returned paths are relative to root, using "/"
// as the separator regardless of host OS, since they double as record keys.
func walkFilesOrdered(root string) ([]string, error) {
	var out []string
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		var files, dirs []os.DirEntry
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e)
			} else {
				files = append(files, e)
			}
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
		sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })

		for _, f := range files {
			out = append(out, joinRel(rel, f.Name()))
		}
		for _, d := range dirs {
			if err := walk(filepath.Join(dir, d.Name()), joinRel(rel, d.Name())); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
