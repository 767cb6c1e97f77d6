package main

import (
	"github.com/spf13/cobra"

	"github.com/kabidw/kabidw/pkg/kabi"
)

var (
	generateOutput      string
	generateSymbols     string
	generateReplacePath string
	generateExtraInfo   bool
)

func init() {
	cmd := newGenerateCmd()
	cmd.Flags().StringVarP(&generateOutput, "output", "o", "output", "where to write kabi files")
	cmd.Flags().
		StringVarP(&generateSymbols, "symbols", "s", "", "a file containing the list of symbols of interest (whitelist)")
	cmd.Flags().
		StringVarP(&generateReplacePath, "replace-path", "r", "", "replace the absolute path by a relative one in record origins")
	cmd.Flags().
		BoolVarP(&generateExtraInfo, "generate-extra-info", "g", false, "record extra provenance (CU name, containment stack)")
	rootCmd.AddCommand(cmd)
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <kernel_dir>",
		Short: "Extract kABI type catalogs from ELF/DWARF objects",
		Long: `The generate command walks a directory of ELF objects (or a single
object) with DWARF debug information and writes one record file per
qualifying exported symbol to the output directory.

Example:
  kabidw generate ./kernel-modules
  kabidw generate -o ./kabi-out -s whitelist.txt ./kernel-modules
  kabidw generate -r /build/kernel -g ./kernel-modules`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args)
		},
	}
}

func runGenerate(args []string) error {
	kernelDir := args[0]

	result, err := kabi.Generate(kernelDir, generateOutput, kabi.GenerateOptions{
		Whitelist:     generateSymbols,
		ReplacePrefix: generateReplacePath,
		GenExtra:      generateExtraInfo,
	})
	if err != nil {
		return err
	}

	printInfo("Processed %d object file(s); wrote %d record(s) to %s\n",
		result.FilesProcessed, result.RecordsWritten, generateOutput)

	for _, name := range result.MissingWhitelisted {
		printInfo("%s not found!\n", name)
	}

	return nil
}
