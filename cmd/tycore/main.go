package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tycore/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tycore",
	Short: "Type-hint universe tooling",
	Long:  `tycore loads declarative type universes and runs decoration, forward-reference resolution, and generic argument propagation over them`,
}

// main registers subcommands and persistent flags, then executes the root
// command. Command execution errors exit with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(propagateCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|pass|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
