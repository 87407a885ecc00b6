package serve

import (
	"encoding/json"

	"github.com/entimark/entimark/pkg/grammar"
	"github.com/entimark/entimark/pkg/markup"
	"github.com/entimark/entimark/pkg/scanner"
)

// Request types.
const (
	TypeReady     = "ready"
	TypeScan      = "scan"
	TypeScanBatch = "scan_batch"
	TypeAnnotate  = "annotate"
	TypeStats     = "stats"
	TypeClose     = "close"
	TypeDecode    = "decode"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "scan" | "scan_batch" | "annotate" | "stats" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ScanPayload is the payload for "scan" requests
type ScanPayload struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// ScanBatchPayload is the payload for "scan_batch" requests
type ScanBatchPayload struct {
	Items []scanner.ContentItem `json:"items"`
}

// AnnotatePayload is the payload for "annotate" requests. Element and
// Attribute default to "fn:match" and "id".
type AnnotatePayload struct {
	Content   string `json:"content"`
	Element   string `json:"element,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

// AnnotateData is the data field for "annotate" responses
type AnnotateData struct {
	Content string        `json:"content"` // the marked-up document
	Spans   []markup.Span `json:"spans"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string          `json:"version"`
	Options scanner.Options `json:"options"`
}

// StatsData is the data field for "stats" responses
type StatsData struct {
	Report grammar.Report `json:"report"`
}
