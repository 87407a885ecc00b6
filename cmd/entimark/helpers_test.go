package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/entimark/entimark/pkg/types"
)

const testGrammar = "NYC <- New York\tNYC\nQ90 <- Paris\n"

// writeGrammar writes testGrammar to its own directory so scans of other
// temp directories do not pick it up.
func writeGrammar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.txt")
	require.NoError(t, os.WriteFile(path, []byte(testGrammar), 0644))
	return path
}

// newTestCmd returns a bare command writing to fresh buffers.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func snippetOf(before, matching, after string) types.Snippet {
	return types.Snippet{Before: before, Matching: matching, After: after}
}
