package scanner

import "github.com/entimark/entimark/pkg/types"

// ContentItem represents a content item to scan
type ContentItem struct {
	Source   string            `json:"source"`   // e.g. a file name or "stdin"
	Content  string            `json:"content"`  // the text to scan
	Metadata map[string]string `json:"metadata"` // optional metadata
}

// ScanResult represents scan results for a single item
type ScanResult struct {
	Source     string           `json:"source"`
	DocumentID types.DocumentID `json:"document_id"`
	Matches    []*types.Match   `json:"matches"`
}

// BatchScanResult represents batch scan results
type BatchScanResult struct {
	Results []ScanResult `json:"results"`
	Total   int          `json:"total"`
}
