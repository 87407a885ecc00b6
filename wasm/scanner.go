//go:build wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/entimark/entimark/pkg/markup"
	"github.com/entimark/entimark/pkg/scanner"
	"github.com/entimark/entimark/pkg/types"
)

var errInvalidHandle = errors.New("invalid scanner handle")

var (
	scanners   = make(map[int]*scanner.Core)
	scannersMu sync.RWMutex
	nextID     int
)

// newScanner compiles a grammar. optionsJSON is a JSON object of engine
// options, e.g. {"case-insensitive-min-length":"4"}; it may be empty.
func newScanner(grammarSrc, optionsJSON string) (int, error) {
	raw := map[string]string{}
	if optionsJSON != "" {
		if err := json.Unmarshal([]byte(optionsJSON), &raw); err != nil {
			return 0, fmt.Errorf("failed to parse options JSON: %w", err)
		}
	}
	opts, err := scanner.ParseOptions(raw)
	if err != nil {
		return 0, err
	}

	core, err := scanner.NewCore([]byte(grammarSrc), opts)
	if err != nil {
		return 0, fmt.Errorf("failed to create scanner: %w", err)
	}

	scannersMu.Lock()
	id := nextID
	nextID++
	scanners[id] = core
	scannersMu.Unlock()

	return id, nil
}

func lookup(handle int) (*scanner.Core, error) {
	scannersMu.RLock()
	core, ok := scanners[handle]
	scannersMu.RUnlock()
	if !ok {
		return nil, errInvalidHandle
	}
	return core, nil
}

// scanContent returns the scan result for content as JSON.
func scanContent(handle int, content, source string) (string, error) {
	core, err := lookup(handle)
	if err != nil {
		return "", err
	}
	result, err := core.ScanContent(content, types.InlineProvenance{Source: source})
	if err != nil {
		return "", fmt.Errorf("scan failed: %w", err)
	}
	return marshal(result)
}

// scanBatch scans a JSON array of content items.
func scanBatch(handle int, itemsJSON string) (string, error) {
	core, err := lookup(handle)
	if err != nil {
		return "", err
	}
	var items []scanner.ContentItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return "", fmt.Errorf("failed to parse items JSON: %w", err)
	}
	batch, err := core.ScanBatch(items)
	if err != nil {
		return "", fmt.Errorf("batch scan failed: %w", err)
	}
	return marshal(batch)
}

// annotate returns content with every entity mention marked up.
func annotate(handle int, content string) (string, error) {
	core, err := lookup(handle)
	if err != nil {
		return "", err
	}
	doc := markup.New(content)
	if err := core.Scan(doc); err != nil {
		return "", fmt.Errorf("annotate failed: %w", err)
	}
	return doc.Render(), nil
}

// closeScanner releases a scanner.
func closeScanner(handle int) error {
	scannersMu.Lock()
	core, ok := scanners[handle]
	delete(scanners, handle)
	scannersMu.Unlock()

	if !ok {
		return errInvalidHandle
	}
	return core.Close()
}

func marshal(v any) (string, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(jsonBytes), nil
}
