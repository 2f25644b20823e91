// Package commands provides the CLI commands for the expectgen tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "expectgen",
	Short: "Generate per-variant extractor functions for Go tagged unions",
	Long: `expectgen is a go generate-style code generator for tagged-union types.

Mark a sealed interface with //expectgen:union and expectgen will emit, for
every variant struct, an Expect<Variant> function that asserts a union value
is that variant holding exactly the given field values and hands the values
back. Variants marked //expectgen:panic get a fatal form that panics on
mismatch instead of returning an empty option.

Usage:
  expectgen gen ./...           Generate extractors for all packages
  expectgen gen --verify ./...  CI mode: fail if generated files are stale
  expectgen version             Print version`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(versionCmd)
}
