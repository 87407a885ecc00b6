package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entimark/entimark/pkg/markup"
	"github.com/entimark/entimark/pkg/store"
	"github.com/entimark/entimark/pkg/types"
)

func resetAnnotateFlags(grammarPath string) {
	annotateEngine.reset()
	annotateEngine.grammars = []string{grammarPath}
	annotateElement = markup.DefaultElement
	annotateAttribute = markup.DefaultAttribute
	annotateHighlight = false
	annotateColor = "never"
	annotateDatastore = ""
}

func TestRunAnnotate(t *testing.T) {
	// Arrange
	input := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("From New York to Paris & back"), 0644))
	resetAnnotateFlags(writeGrammar(t))
	cmd, stdout, _ := newTestCmd()

	// Act
	err := runAnnotate(cmd, []string{input})

	// Assert
	require.NoError(t, err)
	assert.Equal(t,
		`From <fn:match id="NYC">New York</fn:match> to <fn:match id="Q90">Paris</fn:match> &amp; back`,
		stdout.String())
}

func TestRunAnnotate_CustomElement(t *testing.T) {
	resetAnnotateFlags(writeGrammar(t))
	annotateElement = "entity"
	annotateAttribute = "ref"
	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(strings.NewReader("NYC"))

	err := runAnnotate(cmd, []string{"-"})

	require.NoError(t, err)
	assert.Equal(t, `<entity ref="NYC">NYC</entity>`, stdout.String())
}

func TestRunAnnotate_Highlight(t *testing.T) {
	resetAnnotateFlags(writeGrammar(t))
	annotateHighlight = true
	cmd, stdout, _ := newTestCmd()
	cmd.SetIn(strings.NewReader("Paris & New York"))

	err := runAnnotate(cmd, []string{"-"})

	require.NoError(t, err)
	assert.Equal(t, "[Paris] & [New York]", stdout.String())
}

func TestRunAnnotate_Errors(t *testing.T) {
	resetAnnotateFlags(writeGrammar(t))
	cmd, _, _ := newTestCmd()

	err := runAnnotate(cmd, []string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorContains(t, err, "reading input")

	cmd.SetIn(strings.NewReader("Paris \xff"))
	err = runAnnotate(cmd, []string{"-"})
	assert.ErrorContains(t, err, "annotating -")
}

func TestConfigureColor(t *testing.T) {
	assert.NoError(t, configureColor("always"))
	assert.NoError(t, configureColor("never"))
	assert.NoError(t, configureColor("auto"))
	assert.ErrorContains(t, configureColor("rainbow"), "unknown color mode")
}

func TestRunAnnotate_FromDatastore(t *testing.T) {
	// Arrange
	dsDir := filepath.Join(t.TempDir(), "entimark.ds")
	resetScanFlags(t, writeGrammar(t), store.MemoryPath)
	scanDatastore = dsDir
	scanStoreDocs = true
	cmd, _, _ := newTestCmd()
	require.NoError(t, runScan(cmd, []string{writeCorpus(t)}))

	resetAnnotateFlags(writeGrammar(t))
	annotateDatastore = dsDir
	cmd, stdout, _ := newTestCmd()
	id := types.ComputeDocumentID("Back in NYC tomorrow.\n")

	// Act
	err := runAnnotate(cmd, []string{id.Hex()})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Back in <fn:match id=\"NYC\">NYC</fn:match> tomorrow.\n", stdout.String())

	err = runAnnotate(cmd, []string{"not-hex"})
	assert.ErrorContains(t, err, "invalid document ID")
}
