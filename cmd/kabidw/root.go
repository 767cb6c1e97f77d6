package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kabidw/kabidw/internal/klog"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "kabidw",
	Short: "Extract and compare kernel ABI type catalogs",
	Long: `kabidw extracts kernel ABI (kABI) type information from compiled
kernel objects with DWARF debug information and compares two such
extractions to report ABI-relevant changes in a whitelisted set of
exported symbols.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		klog.Init(klog.Options{Enabled: verbose, Level: slog.LevelDebug})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "display debug information")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational messages; compare and show output is still printed")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printInfo prints an info message unless -q was given.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
