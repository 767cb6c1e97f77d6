package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kabidw/kabidw/pkg/kabi"
	"github.com/kabidw/kabidw/pkg/show"
)

var (
	showDebug       bool
	showHideKabi    bool
	showHideKabiNew bool
	showNoOffset    bool
)

func init() {
	cmd := newShowCmd()
	flags := cmd.Flags()
	flags.BoolVarP(&showDebug, "debug", "d", false, "also print the record's CU, origin and containment stack")
	flags.BoolVarP(&showHideKabi, "hide-kabi", "k", false, "hide changes made by RH_KABI_REPLACE()")
	flags.BoolVarP(&showHideKabiNew, "hide-kabi-new", "n", false,
		"hide the kABI trickery made by RH_KABI_REPLACE, but show the new field")
	flags.BoolVar(&showNoOffset, "no-offset", false, "don't display the offset of struct fields")
	rootCmd.AddCommand(cmd)
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>...",
		Short: "Parse and pretty-print one or more kABI record files",
		Long: `The show command parses the on-disk record format produced by
generate and pretty-prints its type tree.

Example:
  kabidw show output/struct--foo.txt
  kabidw show --no-offset output/struct--foo.txt output/struct--bar.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args)
		},
	}
}

func runShow(args []string) error {
	opts := show.Options{
		Debug: showDebug,
		HideKabi: kabi.HideKabiOptions{
			Enabled: showHideKabi || showHideKabiNew,
			ShowNew: showHideKabiNew,
		},
		NoOffset: showNoOffset,
	}

	for i, path := range args {
		if err := show.File(os.Stdout, path, opts); err != nil {
			return err
		}
		if i < len(args)-1 {
			printInfo("\n")
		}
	}
	return nil
}
