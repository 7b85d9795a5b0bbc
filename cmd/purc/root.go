// Command purc drives the HVML front-end pipeline from the shell: parse a
// document into its VDOM tree, dump its raw token stream, or evaluate a
// standalone eJSON/JSONEE expression.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/purc-go/purc"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "purc",
	Short:   "Parse and evaluate HVML documents and expressions",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log recoverable parse errors to stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliLogger returns the logger every subcommand hands to the parser:
// discarded unless -v/--verbose was given, matching SPEC_FULL.md §A's
// "log recoverable parse errors at Debug/Warn, never at Error".
func cliLogger() *slog.Logger {
	if !verbose {
		return purc.DiscardLogger()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
