package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/datastore"
	"github.com/entimark/entimark/pkg/store"
	"github.com/entimark/entimark/pkg/types"
)

var (
	reportDatastore  string
	reportFormat     string
	reportColor      string
	reportMaxMatches int
)

// snippetParts holds a display window over a snippet.
type snippetParts struct {
	prefix   string // "..." if truncated at start
	before   string
	matching string
	after    string
	suffix   string // "..." if truncated at end
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from scan results",
	Long:  "Read matches from a datastore and report them grouped by entity",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "entimark.db", "Path to datastore directory or database file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().IntVar(&reportMaxMatches, "max-matches", 3, "Mentions shown per entity in human output (0 for all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatastore == store.MemoryPath {
		return fmt.Errorf("cannot report from in-memory store")
	}
	storePath := reportDatastore
	info, err := os.Stat(storePath)
	if err != nil {
		return fmt.Errorf("datastore not found: %s", reportDatastore)
	}
	if info.IsDir() {
		storePath = datastore.DatabasePath(storePath)
		if _, err := os.Stat(storePath); err != nil {
			return fmt.Errorf("datastore not found: %s", storePath)
		}
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	findings, err := store.Findings(s)
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}

	switch reportFormat {
	case "json":
		return outputReportJSON(cmd, findings)
	case "sarif":
		return outputSARIF(cmd, s, findings)
	case "human":
		if err := configureColor(reportColor); err != nil {
			return err
		}
		return outputReportHuman(cmd, s, findings)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// reportEntry is the JSON form of a finding. Finding leaves its matches out
// of JSON.
type reportEntry struct {
	*types.Finding
	Matches []*types.Match `json:"matches"`
}

func outputReportJSON(cmd *cobra.Command, findings []*types.Finding) error {
	entries := make([]reportEntry, len(findings))
	for i, f := range findings {
		entries[i] = reportEntry{Finding: f, Matches: f.Matches}
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputReportHuman(cmd *cobra.Command, s store.Store, findings []*types.Finding) error {
	out := cmd.OutOrStdout()
	st := newStyles(!color.NoColor)
	pathOf := provenancePaths(s)

	fmt.Fprintf(out, "%s\n", st.heading.Sprint("=== Entimark Report ==="))
	fmt.Fprintf(out, "Datastore: %s\n", reportDatastore)
	fmt.Fprintf(out, "Total entities: %d\n\n", len(findings))

	for i, f := range findings {
		fmt.Fprintf(out, "%s (%s %s)\n",
			st.heading.Sprintf("Entity %d/%d", i+1, len(findings)),
			st.heading.Sprint("id"),
			st.entity.Sprint(f.EntityID))
		fmt.Fprintf(out, "%s %s\n", st.heading.Sprint("Names:"), st.match.Sprint(strings.Join(f.Names, ", ")))
		fmt.Fprintf(out, "%s %d in %d documents\n", st.heading.Sprint("Mentions:"), len(f.Matches), f.Documents)

		shown := f.Matches
		if reportMaxMatches > 0 && len(shown) > reportMaxMatches {
			fmt.Fprintf(out, "Showing %d/%d mentions:\n", reportMaxMatches, len(shown))
			shown = shown[:reportMaxMatches]
		}

		for k, m := range shown {
			fmt.Fprintf(out, "\n    %s\n", st.heading.Sprintf("Mention %d/%d", k+1, len(f.Matches)))
			fmt.Fprintf(out, "    %s %s\n", st.heading.Sprint("File:"), st.metadata.Sprint(pathOf(m.DocumentID)))
			fmt.Fprintf(out, "    %s %d:%d-%d:%d\n",
				st.heading.Sprint("Lines:"),
				m.Location.Source.Start.Line, m.Location.Source.Start.Column,
				m.Location.Source.End.Line, m.Location.Source.End.Column)

			parts := formatSnippetWithParts(m.Snippet, 160)
			fmt.Fprintf(out, "\n        %s%s%s%s%s\n",
				parts.prefix, parts.before, st.match.Sprint(parts.matching), parts.after, parts.suffix)
		}
		fmt.Fprintf(out, "\n\n")
	}
	return nil
}

// formatSnippetWithParts keeps the line of the match and cuts the context on
// either side so that at most maxLen runes are shown around the match.
func formatSnippetWithParts(sn types.Snippet, maxLen int) snippetParts {
	before := sn.Before
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	after := sn.After
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		after = after[:i]
	}
	parts := snippetParts{before: before, matching: sn.Matching, after: after}

	room := maxLen - len([]rune(sn.Matching))
	if room < 0 {
		room = 0
	}
	half := room / 2

	if r := []rune(before); len(r) > half {
		parts.before = string(r[len(r)-half:])
		parts.prefix = "..."
	}
	if r := []rune(after); len(r) > half {
		parts.after = string(r[:half])
		parts.suffix = "..."
	}
	return parts
}
