// Package kabi implements component G of spec.md: the follow-through
// driver and the end-to-end generate/compare orchestration that wires
// components A-F (pkg/typegraph, internal/ksymtab, internal/dwarfx,
// pkg/record, pkg/dumpfmt, pkg/compare) together on behalf of cmd/kabidw.
package kabi

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/kabidw/kabidw/internal/dwarfx"
	"github.com/kabidw/kabidw/internal/klog"
	"github.com/kabidw/kabidw/internal/ksymtab"
	"github.com/kabidw/kabidw/pkg/kabierr"
	"github.com/kabidw/kabidw/pkg/record"
)

// GenerateOptions configures Generate, mirroring generate's CLI flags
// (spec.md §6.3): Whitelist is -s, ReplacePrefix is -r, GenExtra is -g.
type GenerateOptions struct {
	Whitelist     string // path to the whitelist file, "" means unrestricted
	ReplacePrefix string
	GenExtra      bool
}

// GenerateResult summarizes one Generate run for the CLI to report.
type GenerateResult struct {
	FilesProcessed     int
	RecordsWritten     int
	MissingWhitelisted []string // whitelisted symbols never found, in whitelist order
}

// Generate walks kernelPath (a single ELF object or a directory of them),
// extracts the type graph of every qualifying exported symbol into a
// record.Database, and dumps the resulting catalog to outDir. It stages
// into a sibling temp directory and renames into place on success
// (SPEC_FULL.md §3.6), so a failed or interrupted run never leaves a
// partially written catalog at outDir.
func Generate(kernelPath, outDir string, opts GenerateOptions) (*GenerateResult, error) {
	var whitelist *ksymtab.Set
	if opts.Whitelist != "" {
		wl, err := ksymtab.LoadWhitelist(opts.Whitelist)
		if err != nil {
			return nil, err
		}
		whitelist = wl
		klog.L.Debug("loaded whitelist", "count", whitelist.Len())
	}

	files, err := kernelObjectFiles(kernelPath)
	if err != nil {
		return nil, err
	}

	db := record.NewDatabase()
	ex := dwarfx.NewExtractor(db, dwarfx.Options{
		Whitelist:     whitelist,
		ReplacePrefix: opts.ReplacePrefix,
		GenExtra:      opts.GenExtra,
	})

	for _, f := range files {
		klog.L.Info("processing module", "path", f)
		if err := extractOne(ex, f); err != nil {
			return nil, err
		}
	}

	var missing []string
	ex.MissingWhitelisted(func(name string) { missing = append(missing, name) })

	staging := outDir + ".tmp-" + strconv.Itoa(os.Getpid())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, kabierr.Wrap(kabierr.KindIO, "kabi.Generate", "create staging directory", err)
	}
	if err := db.DumpAll(staging); err != nil {
		os.RemoveAll(staging)
		return nil, err
	}

	os.RemoveAll(outDir)
	if err := os.Rename(staging, outDir); err != nil {
		os.RemoveAll(staging)
		return nil, kabierr.Wrap(kabierr.KindIO, "kabi.Generate", "publish output directory", err)
	}

	return &GenerateResult{
		FilesProcessed:     len(files),
		RecordsWritten:     recordCount(outDir),
		MissingWhitelisted: missing,
	}, nil
}

func extractOne(ex *dwarfx.Extractor, path string) error {
	f, err := ksymtab.OpenELF(path)
	if err != nil {
		return err
	}
	exported, err := ksymtab.LoadExported(f)
	f.Close()
	if err != nil {
		return err
	}
	return ex.ExtractFile(path, exported)
}

// kernelObjectFiles resolves kernelPath into the ordered list of regular
// files to extract from: itself, if it is a regular file, or every regular
// file beneath it in spec.md §5's directory scan order otherwise.
func kernelObjectFiles(kernelPath string) ([]string, error) {
	info, err := os.Stat(kernelPath)
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindIO, "kabi.Generate", "stat kernel path", err)
	}
	if !info.IsDir() {
		return []string{kernelPath}, nil
	}

	rels, err := walkFilesOrdered(kernelPath)
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindIO, "kabi.Generate", "walk kernel directory", err)
	}
	files := make([]string, len(rels))
	for i, rel := range rels {
		files[i] = filepath.Join(kernelPath, filepath.FromSlash(rel))
	}
	return files, nil
}

// recordCount is a best-effort count of files under dir for reporting; a
// failure here never fails the overall generate run since the catalog is
// already published at this point.
func recordCount(dir string) int {
	var n int
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}
