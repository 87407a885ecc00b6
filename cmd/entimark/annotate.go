package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/datastore"
	"github.com/entimark/entimark/pkg/markup"
	"github.com/entimark/entimark/pkg/types"
)

var (
	annotateEngine    engineFlags
	annotateElement   string
	annotateAttribute string
	annotateHighlight bool
	annotateColor     string
	annotateDatastore string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Mark up entity mentions in a text file",
	Long: `Print a text file with every entity mention wrapped in a markup element
carrying the matched entity ids. Use "-" to read standard input. With
--datastore the argument is the id of a document kept by
"scan --store-documents".

With --highlight the text is printed unescaped with mentions colored
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateEngine.register(annotateCmd)
	annotateCmd.Flags().StringVar(&annotateElement, "element", markup.DefaultElement, "Markup element name")
	annotateCmd.Flags().StringVar(&annotateAttribute, "attribute", markup.DefaultAttribute, "Markup attribute carrying the entity ids")
	annotateCmd.Flags().BoolVar(&annotateHighlight, "highlight", false, "Color mentions instead of inserting markup")
	annotateCmd.Flags().StringVar(&annotateColor, "color", "auto", "Color output: auto, always, never")
	annotateCmd.Flags().StringVar(&annotateDatastore, "datastore", "", "Read the document from a datastore directory")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	var (
		content string
		err     error
	)
	if annotateDatastore != "" {
		content, err = readStoredDocument(annotateDatastore, args[0])
	} else {
		content, err = readInput(cmd, args[0])
	}
	if err != nil {
		return err
	}

	core, err := annotateEngine.newCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	doc := markup.New(content, markup.WithElement(annotateElement), markup.WithAttribute(annotateAttribute))
	if err := core.Scan(doc); err != nil {
		return fmt.Errorf("annotating %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if !annotateHighlight {
		if _, err := doc.WriteTo(out); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	if err := configureColor(annotateColor); err != nil {
		return err
	}
	s := newStyles(!color.NoColor)
	_, err = io.WriteString(out, doc.Highlight(func(text, ids string) string {
		if color.NoColor {
			return "[" + text + "]"
		}
		return s.match.Sprint(text)
	}))
	return err
}

// readInput reads a file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

// readStoredDocument reads a document kept in a datastore by its hex id.
func readStoredDocument(dir, hexID string) (string, error) {
	id, err := types.ParseDocumentID(hexID)
	if err != nil {
		return "", err
	}
	return datastore.OpenDocuments(dir).Get(id)
}
