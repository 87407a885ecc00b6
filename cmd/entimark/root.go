package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "entimark",
	Short: "Entimark - dictionary-based named entity markup",
	Long: `Entimark finds the names of known entities in text and marks them up.

Entities and their names come from a grammar in line, XML or YAML syntax.
The grammar is compiled once into a token trie; documents are then scanned
left to right, tolerating case differences and punctuation noise between
tokens when the matched text is long enough.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger returns a text logger on w at the level chosen by --verbose and
// --quiet.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
