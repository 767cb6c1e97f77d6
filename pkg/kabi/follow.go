package kabi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/kabidw/kabidw/pkg/compare"
	"github.com/kabidw/kabidw/pkg/dumpfmt"
	"github.com/kabidw/kabidw/pkg/kabierr"
)

// CompareOptions bundles the comparator's own Options with the
// follow-through driver's own concerns (hide_kabi, skip_duplicate).
type CompareOptions struct {
	compare.Options
	HideKabi      HideKabiOptions
	SkipDuplicate bool // -s: visit only the canonical version of each key
}

// Comparer drives component G over one old/new directory pair: cycle-
// guarded follow-through re-entry into referenced record files (spec.md
// §4.7), declarations/moved-file special-casing, and the optional
// hide_kabi rewrite. One Comparer handles exactly one compare invocation;
// construct a fresh one per top-level CLI run.
type Comparer struct {
	oldDir, newDir string
	opts           CompareOptions
	out            io.Writer
	cmp            *compare.Comparator

	// visited is reset at the start of every top-level CompareFile call and
	// shared by any follow-through recursion nested inside it, per spec.md
	// §5: "freed between top-level comparisons to keep its lifetime bounded
	// by one pair."
	visited map[string]struct{}
}

// NewComparer builds a Comparer writing its human-readable diff output to
// out.
func NewComparer(oldDir, newDir string, opts CompareOptions, out io.Writer) *Comparer {
	c := &Comparer{oldDir: oldDir, newDir: newDir, opts: opts, out: out}
	var follow compare.FollowFunc
	if opts.Follow {
		follow = func(oldRel, newRel string) (compare.Severity, error) {
			return c.recurse(oldRel, newRel)
		}
	}
	c.cmp = compare.New(opts.Options, follow)
	return c
}

// CompareFile compares one record key across the old and new directories,
// printing any detected changes under a "Changes detected in: <key>"
// header. It is the entry point for both file-mode and one relative path
// of directory-mode compare.
func (c *Comparer) CompareFile(key string) (compare.Verdict, error) {
	c.visited = make(map[string]struct{})
	return c.compareTwoFiles(key, key, false)
}

// CompareFiles compares exactly the two given record files directly,
// without requiring them to share a relative key under a common directory
// tree — the compare command's file↔file mode (spec.md §6.3), used when
// both command-line arguments name regular files rather than kabi_dir
// trees.
func (c *Comparer) CompareFiles(oldPath, newPath string) (compare.Verdict, error) {
	c.oldDir = filepath.Dir(oldPath)
	c.newDir = filepath.Dir(newPath)
	c.visited = make(map[string]struct{})
	return c.compareTwoFiles(filepath.Base(oldPath), filepath.Base(newPath), false)
}

// CompareDir compares every canonical record file reachable under oldDir
// against its counterpart in newDir. restrictTo, if non-empty, limits the
// walk to exactly those relative paths (the compare command's extra
// positional arguments). A "Symbol removed or moved" finding is emitted for
// a key present in the old tree but missing from the new one, per spec.md
// §7; keys present only in the new tree are not visited.
func (c *Comparer) CompareDir(restrictTo []string) (compare.Verdict, error) {
	keys := restrictTo
	if len(keys) == 0 {
		rels, err := walkFilesOrdered(c.oldDir)
		if err != nil {
			return 0, kabierr.Wrap(kabierr.KindIO, "kabi.CompareDir", "walk old directory", err)
		}
		keys = rels
	}

	overall := compare.VerdictSame
	for _, key := range keys {
		if c.opts.SkipDuplicate && isDuplicateKey(key) {
			continue
		}
		v, err := c.CompareFile(key)
		if err != nil {
			return 0, err
		}
		overall = combineOverall(overall, v)
	}
	return overall, nil
}

func combineOverall(old, next compare.Verdict) compare.Verdict {
	if next == compare.VerdictDiff {
		return compare.VerdictDiff
	}
	if old == compare.VerdictDiff {
		return old
	}
	if next == compare.VerdictCont {
		return compare.VerdictCont
	}
	return old
}

// recurse is the FollowFunc hook passed to compare.New: it reports the
// severity a nested compareTwoFiles(... follow=true) run found, swallowing
// its own printed output (the top-level call decides what to print).
func (c *Comparer) recurse(oldRel, newRel string) (compare.Severity, error) {
	v, err := c.compareTwoFiles(oldRel, newRel, true)
	if err != nil {
		return 0, err
	}
	if v == compare.VerdictSame {
		return compare.CmpSame, nil
	}
	return compare.CmpDiff, nil
}

// compareTwoFiles implements spec.md §4.7's compare_two_files: cycle guard,
// moved/removed detection, parse, optional hide_kabi, structural compare,
// buffered-output emission.
func (c *Comparer) compareTwoFiles(oldRel, newRel string, follow bool) (compare.Verdict, error) {
	if follow && !c.opts.Follow {
		return compare.VerdictSame, nil
	}
	if _, seen := c.visited[oldRel]; seen {
		return compare.VerdictSame, nil
	}
	c.visited[oldRel] = struct{}{}

	oldPath := filepath.Join(c.oldDir, filepath.FromSlash(oldRel))
	newPath := filepath.Join(c.newDir, filepath.FromSlash(newRel))

	if _, err := os.Stat(newPath); err != nil {
		if !os.IsNotExist(err) {
			return 0, kabierr.Wrap(kabierr.KindIO, "kabi.compareTwoFiles", "stat new-side record", err)
		}
		if !isDeclarationPath(oldRel) && !c.opts.NoMovedFiles {
			fmt.Fprintf(c.out, "Symbol removed or moved: %s\n", oldRel)
			return compare.VerdictDiff, nil
		}
		return compare.VerdictSame, nil
	}

	oldRec, err := parseRecordFile(oldPath)
	if err != nil {
		return 0, err
	}
	newRec, err := parseRecordFile(newPath)
	if err != nil {
		return 0, err
	}

	if c.opts.HideKabi.Enabled {
		HideKabi(oldRec.Obj, c.opts.HideKabi.ShowNew)
		HideKabi(newRec.Obj, c.opts.HideKabi.ShowNew)
	}

	var buf bytes.Buffer
	dest := io.Writer(&buf)
	if follow {
		dest = io.Discard
	}

	verdict, err := c.cmp.CompareTree(oldRec.Obj, newRec.Obj, dest)
	if err != nil {
		return 0, err
	}

	if !follow && verdict != compare.VerdictSame {
		fmt.Fprintf(c.out, "Changes detected in: %s\n", oldRel)
		c.out.Write(buf.Bytes())
	}
	return verdict, nil
}

func parseRecordFile(path string) (dumpfmt.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return dumpfmt.Record{}, kabierr.Wrap(kabierr.KindIO, "kabi.parseRecordFile", "open record file", err)
	}
	defer f.Close()
	return dumpfmt.ReadRecord(f)
}

func isDeclarationPath(p string) bool {
	return path.Dir(p) == "<declarations>" || p == "<declarations>"
}

// duplicateKeyPattern matches a versioned record file name's "-<n>.txt"
// suffix, e.g. "struct--foo-2.txt" — spec.md §4.7's skip_duplicate filter
// keeps only the canonical (unversioned) key for a given base name.
var duplicateKeyPattern = regexp.MustCompile(`-\d+\.txt$`)

func isDuplicateKey(key string) bool {
	return duplicateKeyPattern.MatchString(path.Base(key))
}
