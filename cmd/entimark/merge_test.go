package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entimark/entimark/pkg/store"
	"github.com/entimark/entimark/pkg/types"
)

// newMergeCmd creates a fresh merge command for testing
func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "merge <source1.db> <source2.db> [source3.db...]",
		Args: cobra.MinimumNArgs(2),
		RunE: runMerge,
	}
	cmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.db", "Output database path")
	return cmd
}

func createSource(t *testing.T, path string, contents ...string) {
	t.Helper()
	s, err := store.NewSQLite(path)
	require.NoError(t, err)
	for _, c := range contents {
		require.NoError(t, s.AddDocument(types.ComputeDocumentID(c), int64(len(c))))
	}
	require.NoError(t, s.Close())
}

func TestMergeCmd_RequiresMinimumArgs(t *testing.T) {
	for _, args := range [][]string{{}, {"source1.db"}} {
		cmd := newMergeCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&discard{})
		cmd.SetErr(&discard{})

		err := cmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires at least 2 arg")
	}
}

func TestMergeCmd_MergesTwoDatabases(t *testing.T) {
	// Arrange
	tmpDir := t.TempDir()
	source1 := filepath.Join(tmpDir, "source1.db")
	source2 := filepath.Join(tmpDir, "source2.db")
	createSource(t, source1, "content1", "shared")
	createSource(t, source2, "content2", "shared")
	destPath := filepath.Join(tmpDir, "merged.db")

	_, stdout, _ := newTestCmd()
	cmd := newMergeCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{source1, source2, "--output", destPath})

	// Act
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "Merge complete")
	assert.Contains(t, output, "Sources processed: 2")
	assert.Contains(t, output, "Documents merged: 3")
	assert.Contains(t, output, "Output: "+destPath)

	dest, err := store.NewSQLite(destPath)
	require.NoError(t, err)
	defer dest.Close()
	for _, c := range []string{"content1", "content2", "shared"} {
		exists, err := dest.DocumentExists(types.ComputeDocumentID(c))
		require.NoError(t, err)
		assert.True(t, exists, c)
	}
}

func TestMergeCmd_MissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	source1 := filepath.Join(tmpDir, "source1.db")
	createSource(t, source1, "content1")

	_, stdout, _ := newTestCmd()
	cmd := newMergeCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	cmd.SetArgs([]string{source1, filepath.Join(tmpDir, "missing.db"), "-o", filepath.Join(tmpDir, "out.db")})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "merge failed")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
