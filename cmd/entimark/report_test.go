package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entimark/entimark/pkg/store"
)

// newReportCmd creates a fresh report command for testing
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "report",
		RunE: runReport,
	}
	cmd.Flags().StringVar(&reportDatastore, "datastore", "entimark.db", "Path to datastore file")
	cmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	cmd.Flags().StringVar(&reportColor, "color", "never", "Color output: auto, always, never")
	cmd.Flags().IntVar(&reportMaxMatches, "max-matches", 3, "Mentions shown per entity")
	return cmd
}

// scannedDatastore scans the test corpus into a fresh database.
func scannedDatastore(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scan.db")
	resetScanFlags(t, writeGrammar(t), dbPath)
	cmd, _, _ := newTestCmd()
	require.NoError(t, runScan(cmd, []string{writeCorpus(t)}))
	return dbPath
}

func TestReportCommand_HumanFormat(t *testing.T) {
	// Arrange
	dbPath := scannedDatastore(t)
	cmd := newReportCmd()
	_, stdout, _ := newTestCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "human", "--color", "never"})

	// Act
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "=== Entimark Report ===")
	assert.Contains(t, output, "Datastore: "+dbPath)
	assert.Contains(t, output, "Total entities: 2")
	assert.Contains(t, output, "Entity 1/2 (id NYC)")
	assert.Contains(t, output, "Mentions: 2 in 2 documents")
	assert.Contains(t, output, "trip.txt")
	assert.Contains(t, output, "I love New York and Paris.")
}

func TestReportCommand_MaxMatches(t *testing.T) {
	dbPath := scannedDatastore(t)
	cmd := newReportCmd()
	_, stdout, _ := newTestCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--max-matches", "1"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Showing 1/2 mentions:")
}

func TestReportCommand_JSONFormat(t *testing.T) {
	dbPath := scannedDatastore(t)
	cmd := newReportCmd()
	_, stdout, _ := newTestCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var entries []struct {
		EntityID  string            `json:"entity_id"`
		Documents int               `json:"documents"`
		Matches   []json.RawMessage `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "NYC", entries[0].EntityID)
	assert.Equal(t, 2, entries[0].Documents)
	assert.Len(t, entries[0].Matches, 2)
	assert.Equal(t, "Q90", entries[1].EntityID)
}

func TestReportCommand_SARIFFormat(t *testing.T) {
	dbPath := scannedDatastore(t)
	cmd := newReportCmd()
	_, stdout, _ := newTestCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "sarif"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), `"version": "2.1.0"`)
	assert.Contains(t, stdout.String(), `"ruleId": "Q90"`)
}

func TestReportCommand_EmptyDatastore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	cmd := newReportCmd()
	_, stdout, _ := newTestCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"--datastore", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Total entities: 0")
}

func TestReportCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"nonexistent datastore", []string{"--datastore", "/nonexistent/entimark.db"}, "datastore not found"},
		{"memory datastore", []string{"--datastore", ":memory:"}, "cannot report from in-memory store"},
		{"directory without database", []string{"--datastore", t.TempDir()}, "datastore not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newReportCmd()
			_, stdout, _ := newTestCmd()
			cmd.SetOut(stdout)
			cmd.SetErr(stdout)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFormatSnippetWithParts(t *testing.T) {
	tests := []struct {
		name   string
		before string
		match  string
		after  string
		maxLen int
		want   snippetParts
	}{
		{
			name:   "keeps the match line only",
			before: "first line\nsee ",
			match:  "Paris",
			after:  " now\nlast line",
			maxLen: 80,
			want:   snippetParts{before: "see ", matching: "Paris", after: " now"},
		},
		{
			name:   "truncates long context",
			before: "abcdefgh",
			match:  "XY",
			after:  "ijklmnop",
			maxLen: 6,
			want:   snippetParts{prefix: "...", before: "gh", matching: "XY", after: "ij", suffix: "..."},
		},
		{
			name:   "counts runes",
			before: "éé",
			match:  "X",
			after:  "",
			maxLen: 5,
			want:   snippetParts{before: "éé", matching: "X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSnippetWithParts(snippetOf(tt.before, tt.match, tt.after), tt.maxLen)
			assert.Equal(t, tt.want, got)
		})
	}
}
