package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kabidw/kabidw/pkg/compare"
	"github.com/kabidw/kabidw/pkg/kabi"
)

var (
	compareDebug        bool
	compareHideKabi     bool
	compareHideKabiNew  bool
	compareSkipDup      bool
	compareFollow       bool
	compareNoOffset     bool
	compareNoReplaced   bool
	compareNoShifted    bool
	compareNoInserted   bool
	compareNoDeleted    bool
	compareNoAdded      bool
	compareNoRemoved    bool
	compareNoMovedFiles bool
)

func init() {
	cmd := newCompareCmd()
	flags := cmd.Flags()
	flags.BoolVarP(&compareDebug, "debug", "d", false, "accepted but ignored; compare output is the same with or without it")
	flags.BoolVarP(&compareHideKabi, "hide-kabi", "k", false, "hide changes made by RH_KABI_REPLACE()")
	flags.BoolVarP(&compareHideKabiNew, "hide-kabi-new", "n", false,
		"hide the kABI trickery made by RH_KABI_REPLACE, but show the new field")
	flags.BoolVarP(&compareSkipDup, "skip-duplicate", "s", false, "visit only the canonical version of each record key")
	flags.BoolVar(&compareFollow, "follow", false, "recurse into referenced record files on a reffile mismatch")
	flags.BoolVar(&compareNoOffset, "no-offset", false, "don't display the offset of struct fields")
	flags.BoolVar(&compareNoReplaced, "no-replaced", false, "hide symbols that changed type without moving")
	flags.BoolVar(&compareNoShifted, "no-shifted", false, "hide symbols whose offset changed but are otherwise unchanged")
	flags.BoolVar(&compareNoInserted, "no-inserted", false, "hide symbols inserted in the middle of a struct/union")
	flags.BoolVar(&compareNoDeleted, "no-deleted", false, "hide symbols removed from the middle of a struct/union")
	flags.BoolVar(&compareNoAdded, "no-added", false, "hide symbols appended at the end of a struct/union")
	flags.BoolVar(&compareNoRemoved, "no-removed", false, "hide symbols removed from the end of a struct/union")
	flags.BoolVar(&compareNoMovedFiles, "no-moved-files", false, "don't report a symbol as removed when its record file moved")
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old> <new> [files...]",
		Short: "Compare two kABI catalogs and report ABI-relevant changes",
		Long: `The compare command compares two kABI record catalogs produced by
generate and reports prioritized, tree-structured differences between
them. If both arguments are regular files they are compared directly;
otherwise they are treated as kabi_dir trees and every record reachable
under the old tree is compared against its counterpart in the new tree.
Extra positional arguments restrict the comparison to specific relative
record paths.

Example:
  kabidw compare old-kabi new-kabi
  kabidw compare --follow old-kabi new-kabi
  kabidw compare --no-inserted old-kabi new-kabi struct--foo.txt`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(args)
		},
	}
}

func runCompare(args []string) error {
	oldPath, newPath, extra := args[0], args[1], args[2:]

	oldInfo, err := os.Stat(oldPath)
	if err != nil {
		return err
	}
	newInfo, err := os.Stat(newPath)
	if err != nil {
		return err
	}

	opts := kabi.CompareOptions{
		Options: compare.Options{
			Follow:       compareFollow,
			NoOffset:     compareNoOffset,
			NoReplaced:   compareNoReplaced,
			NoShifted:    compareNoShifted,
			NoInserted:   compareNoInserted,
			NoDeleted:    compareNoDeleted,
			NoAdded:      compareNoAdded,
			NoRemoved:    compareNoRemoved,
			NoMovedFiles: compareNoMovedFiles,
		},
		HideKabi: kabi.HideKabiOptions{
			Enabled: compareHideKabi || compareHideKabiNew,
			ShowNew: compareHideKabiNew,
		},
		SkipDuplicate: compareSkipDup,
	}

	if oldInfo.Mode().IsRegular() && newInfo.Mode().IsRegular() && len(extra) == 0 {
		comparer := kabi.NewComparer("", "", opts, os.Stdout)
		verdict, err := comparer.CompareFiles(oldPath, newPath)
		if err != nil {
			return err
		}
		return exitForVerdict(verdict)
	}

	comparer := kabi.NewComparer(oldPath, newPath, opts, os.Stdout)
	verdict, err := comparer.CompareDir(extra)
	if err != nil {
		return err
	}
	return exitForVerdict(verdict)
}

// exitForVerdict translates a compare verdict into a process exit code:
// 0 clean, 2 when compare detected reportable differences.
func exitForVerdict(v compare.Verdict) error {
	if v != compare.VerdictSame {
		os.Exit(2)
	}
	return nil
}
