package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/grammar"
)

var (
	grammarEngine      engineFlags
	grammarListFormat  string
	grammarStatsFormat string
	grammarDumpFormat  string
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Inspect entity grammars",
	Long:  "Commands for listing, compiling and converting entity grammars",
}

var grammarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entities of a grammar",
	RunE:  runGrammarList,
}

var grammarStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compile a grammar and show its trie statistics",
	RunE:  runGrammarStats,
}

var grammarLookupCmd = &cobra.Command{
	Use:   "lookup <name>...",
	Short: "Show the entities known by each name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGrammarLookup,
}

var grammarDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Convert grammars to line, XML or YAML syntax",
	RunE:  runGrammarDump,
}

func init() {
	for _, c := range []*cobra.Command{grammarListCmd, grammarStatsCmd, grammarLookupCmd, grammarDumpCmd} {
		grammarEngine.register(c)
		grammarCmd.AddCommand(c)
	}
	grammarListCmd.Flags().StringVar(&grammarListFormat, "format", "table", "Output format: table, json")
	grammarStatsCmd.Flags().StringVar(&grammarStatsFormat, "format", "human", "Output format: human, json")
	grammarDumpCmd.Flags().StringVar(&grammarDumpFormat, "format", "lines", "Output syntax: lines, xml, yaml")
}

func runGrammarList(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(cmd)
	if err != nil {
		return err
	}

	switch grammarListFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "ID\tNames\n")
		fmt.Fprintf(w, "--\t-----\n")
		for _, e := range entries {
			names := ""
			if len(e.Names) > 0 {
				names = e.Names[0]
				if len(e.Names) > 1 {
					names += fmt.Sprintf(" (+%d)", len(e.Names)-1)
				}
			}
			fmt.Fprintf(w, "%s\t%s\n", e.ID, names)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", grammarListFormat)
	}
}

func runGrammarStats(cmd *cobra.Command, args []string) error {
	core, err := grammarEngine.newCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()
	report := core.Report()

	out := cmd.OutOrStdout()
	switch grammarStatsFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "human":
		fmt.Fprintf(out, "Sources:  %d\n", report.Sources)
		fmt.Fprintf(out, "Entities: %d\n", report.Entries)
		fmt.Fprintf(out, "Names:    %d (%d skipped)\n", report.Names, report.Skipped)
		fmt.Fprintf(out, "Trie:     %s\n", report.Stats)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", grammarStatsFormat)
	}
}

func runGrammarLookup(cmd *cobra.Command, args []string) error {
	core, err := grammarEngine.newCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	out := cmd.OutOrStdout()
	for _, name := range args {
		ids := core.Trie().Get(name)
		if len(ids) == 0 {
			fmt.Fprintf(out, "%s: (unknown)\n", name)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", name, strings.Join(ids, " "))
	}
	return nil
}

func runGrammarDump(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(cmd)
	if err != nil {
		return err
	}

	var data []byte
	switch grammarDumpFormat {
	case "lines":
		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(grammar.FormatLine(e))
			sb.WriteByte('\n')
		}
		data = []byte(sb.String())
	case "xml":
		data, err = grammar.MarshalXML(entries)
	case "yaml":
		data, err = grammar.MarshalYAML(entries)
	default:
		return fmt.Errorf("unknown output format: %s", grammarDumpFormat)
	}
	if err != nil {
		return fmt.Errorf("encoding grammar: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// loadEntries loads and filters the --grammar sources and concatenates their
// entries.
func loadEntries(cmd *cobra.Command) ([]grammar.Entry, error) {
	grammars, err := grammarEngine.loadGrammars(commandContext(cmd))
	if err != nil {
		return nil, err
	}
	var entries []grammar.Entry
	for _, g := range grammars {
		entries = append(entries, g.Entries...)
	}
	entries, err = grammar.Filter(entries, grammarEngine.filter())
	if err != nil {
		return nil, fmt.Errorf("filtering grammar: %w", err)
	}
	return entries, nil
}
