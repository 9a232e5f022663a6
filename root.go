package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "segarr",
		Short: "segarr - build-time fixed-length arrays",
		Long: `segarr evaluates .seg declaration files at build time and writes the
finished arrays as Go source or LLVM IR constants.

A declaration names an element type and a list of segments:

  lut = uint8 [0, 1, 2], [3; 4], [*[7, 8]; ..16]

Segments are literal lists, repeated elements ([e; n]), padding to an
index ([e; ..n]) and cycled sequences ([*src; n], [*src; ..n], [*src]).`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: <dir>/segarr.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newGenCommand())
	rootCmd.AddCommand(newIRCommand())
	rootCmd.AddCommand(newEvalCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newDemangleCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
