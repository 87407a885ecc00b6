package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/datastore"
	"github.com/entimark/entimark/pkg/enum"
	"github.com/entimark/entimark/pkg/matcher"
	"github.com/entimark/entimark/pkg/sarif"
	"github.com/entimark/entimark/pkg/scanner"
	"github.com/entimark/entimark/pkg/store"
	"github.com/entimark/entimark/pkg/types"
)

var (
	scanEngine        engineFlags
	scanOutputPath    string
	scanOutputFormat  string
	scanMaxFileSize   int64
	scanIncludeHidden bool
	scanExtract       string
	scanContextLines  int
	scanIncremental   bool
	scanDatastore     string
	scanStoreDocs     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Scan files for entity mentions",
	Long: `Scan a file or directory for mentions of the grammar's entities and store
the matches. Use "-" to scan standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanEngine.register(scanCmd)
	scanCmd.Flags().StringVar(&scanOutputPath, "output", "entimark.db", "Output database path (:memory: for none)")
	scanCmd.Flags().StringVar(&scanOutputFormat, "format", "human", "Output format: json, sarif, human")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to scan (bytes)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().StringVar(&scanExtract, "extract", "", "Extract text from documents: docx,xlsx,pdf or all")
	scanCmd.Flags().IntVar(&scanContextLines, "context-lines", scanner.DefaultContextLines, "Lines of context before/after matches")
	scanCmd.Flags().BoolVar(&scanIncremental, "incremental", false, "Skip already-scanned documents")
	scanCmd.Flags().StringVar(&scanDatastore, "datastore", "", "Datastore directory (overrides --output)")
	scanCmd.Flags().BoolVar(&scanStoreDocs, "store-documents", false, "Keep a copy of every scanned document in the datastore")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	if target != "-" {
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("target does not exist: %s", target)
		}
	}

	switch scanOutputFormat {
	case "human", "json", "sarif":
	default:
		return fmt.Errorf("unknown output format: %s", scanOutputFormat)
	}

	s, docs, resultsPath, err := openScanStore()
	if err != nil {
		return err
	}

	core, err := scanEngine.newCore(cmd, scanner.WithStore(s), scanner.WithContextLines(scanContextLines))
	if err != nil {
		s.Close()
		return err
	}
	defer core.Close()
	logger := newLogger(cmd.ErrOrStderr())

	var enumerator enum.Enumerator
	if target == "-" {
		enumerator = enum.NewReaderEnumerator("stdin", cmd.InOrStdin())
	} else {
		enumerator = enum.NewFilesystemEnumerator(enum.Config{
			Root:          target,
			IncludeHidden: scanIncludeHidden,
			MaxFileSize:   scanMaxFileSize,
			Extract:       scanExtract,
		})
	}

	var (
		mu            sync.Mutex
		documentCount int
		matchCount    int
		skippedCount  int
	)

	err = enumerator.Enumerate(commandContext(cmd), func(content string, id types.DocumentID, prov types.Provenance) error {
		if scanIncremental {
			exists, err := s.DocumentExists(id)
			if err != nil {
				return fmt.Errorf("checking document: %w", err)
			}
			if exists {
				mu.Lock()
				skippedCount++
				mu.Unlock()
				return nil
			}
		}

		res, err := core.ScanContent(content, prov)
		if errors.Is(err, matcher.ErrMalformedDocument) {
			logger.Warn("skipping malformed document", "path", prov.Path(), "error", err)
			mu.Lock()
			skippedCount++
			mu.Unlock()
			return nil
		}
		if err != nil {
			return fmt.Errorf("scanning %s: %w", prov.Path(), err)
		}

		if docs != nil {
			if _, err := docs.Put(content); err != nil {
				return fmt.Errorf("storing document %s: %w", prov.Path(), err)
			}
		}

		mu.Lock()
		documentCount++
		matchCount += len(res.Matches)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	// keep stdout pure JSON for the machine formats
	summary := cmd.OutOrStdout()
	if scanOutputFormat != "human" {
		summary = cmd.ErrOrStderr()
	}
	if scanIncremental || skippedCount > 0 {
		fmt.Fprintf(summary, "Scan complete: %d documents, %d matches (%d documents skipped)\n", documentCount, matchCount, skippedCount)
	} else {
		fmt.Fprintf(summary, "Scan complete: %d documents, %d matches\n", documentCount, matchCount)
	}
	if resultsPath != store.MemoryPath {
		fmt.Fprintf(summary, "Results stored in: %s\n", resultsPath)
	}

	switch scanOutputFormat {
	case "json":
		matches, err := s.GetAllMatches()
		if err != nil {
			return fmt.Errorf("retrieving matches: %w", err)
		}
		return outputMatches(cmd, matches)
	case "sarif":
		findings, err := store.Findings(s)
		if err != nil {
			return fmt.Errorf("retrieving findings: %w", err)
		}
		return outputSARIF(cmd, s, findings)
	default:
		findings, err := store.Findings(s)
		if err != nil {
			return fmt.Errorf("retrieving findings: %w", err)
		}
		return outputFindings(cmd, findings)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// openScanStore opens the --datastore directory when given and the --output
// database otherwise. docs is nil unless documents are kept.
func openScanStore() (s store.Store, docs *datastore.DocumentStore, path string, err error) {
	if scanDatastore == "" {
		if scanStoreDocs {
			return nil, nil, "", fmt.Errorf("--store-documents requires --datastore")
		}
		s, err = store.New(store.Config{Path: scanOutputPath})
		if err != nil {
			return nil, nil, "", fmt.Errorf("creating store: %w", err)
		}
		return s, nil, scanOutputPath, nil
	}

	ds, err := datastore.Open(scanDatastore, datastore.Options{StoreDocuments: scanStoreDocs})
	if err != nil {
		return nil, nil, "", fmt.Errorf("opening datastore: %w", err)
	}
	return ds.Store, ds.Documents, scanDatastore, nil
}

func outputMatches(cmd *cobra.Command, matches []*types.Match) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}

func outputFindings(cmd *cobra.Command, findings []*types.Finding) error {
	out := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintf(out, "\nNo entities found.\n")
		return nil
	}

	fmt.Fprintf(out, "\nEntities:\n")
	for i, f := range findings {
		fmt.Fprintf(out, "%d. %s: %d mentions in %d documents (%s)\n",
			i+1, f.EntityID, len(f.Matches), f.Documents, strings.Join(f.Names, ", "))
	}
	return nil
}

// outputSARIF writes findings as a SARIF 2.1.0 log.
func outputSARIF(cmd *cobra.Command, s store.Store, findings []*types.Finding) error {
	report := sarif.FromFindings(findings, provenancePaths(s))

	jsonBytes, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(jsonBytes); err != nil {
		return fmt.Errorf("writing SARIF output: %w", err)
	}
	return nil
}

// provenancePaths returns a lookup from document id to the first path it
// was seen at. Documents without provenance fall back to their hex id.
func provenancePaths(s store.Store) func(types.DocumentID) string {
	cache := make(map[types.DocumentID]string)
	return func(id types.DocumentID) string {
		if path, ok := cache[id]; ok {
			return path
		}
		path := id.Hex()
		if provs, err := s.GetProvenance(id); err == nil && len(provs) > 0 {
			path = provs[0].Path()
		}
		cache[id] = path
		return path
	}
}
