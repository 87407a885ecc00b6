package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/entimark/entimark/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version     = "2.1.0"
	ToolName    = "entimark"
	ToolVersion = "0.1.0"

	// Level of every result. Entity mentions are informational.
	Level = "note"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule represents an entity of the grammar
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	HelpURI          string           `json:"helpUri,omitempty"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result is one mention of one entity. Mentions shared by several entities
// yield one result each, all with the same fingerprint.
type Result struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             Message           `json:"message"`
	Locations           []Location        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// FingerprintKey names the match structural id among a result's partial
// fingerprints.
const FingerprintKey = "entimarkStructuralId/v1"

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region locates a mention both by line/column and by byte range.
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	ByteOffset  int      `json:"byteOffset"`
	ByteLength  int      `json:"byteLength"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the matched text
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddEntity registers an entity as a rule of the run. names are shown in
// its description.
func (r *Report) AddEntity(id string, names []string) {
	desc := "Entity " + id
	if len(names) > 0 {
		desc += " (" + strings.Join(names, ", ") + ")"
	}
	r.Runs[0].Tool.Driver.Rules = append(r.Runs[0].Tool.Driver.Rules, Rule{
		ID:               id,
		Name:             id,
		ShortDescription: ShortDescription{Text: desc},
	})
}

// AddResult adds one result per entity of the match. SARIF end columns are
// exclusive.
func (r *Report) AddResult(match *types.Match, filePath string) {
	uri := formatFileURI(filePath)

	region := Region{
		StartLine:   match.Location.Source.Start.Line,
		StartColumn: match.Location.Source.Start.Column,
		EndLine:     match.Location.Source.End.Line,
		EndColumn:   match.Location.Source.End.Column + 1,
		ByteOffset:  match.Location.Offset.Start,
		ByteLength:  match.Location.Offset.Len(),
	}
	if match.Snippet.Matching != "" {
		region.Snippet = &Snippet{Text: match.Snippet.Matching}
	}

	var fingerprints map[string]string
	if match.StructuralID != "" {
		fingerprints = map[string]string{FingerprintKey: match.StructuralID}
	}

	for _, id := range match.EntityIDs {
		r.Runs[0].Results = append(r.Runs[0].Results, Result{
			RuleID: id,
			Level:  Level,
			Message: Message{
				Text: fmt.Sprintf("Mention of entity %s: %q", id, match.Text()),
			},
			Locations: []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: uri},
						Region:           region,
					},
				},
			},
			PartialFingerprints: fingerprints,
		})
	}
}

// FromFindings builds a report with one rule per finding and one result per
// entity mention. pathOf names the file a document came from.
func FromFindings(findings []*types.Finding, pathOf func(types.DocumentID) string) *Report {
	r := NewReport()
	for _, f := range findings {
		r.AddEntity(f.EntityID, f.Names)
	}

	seen := make(map[string]bool)
	for _, f := range findings {
		for _, m := range f.Matches {
			if seen[m.StructuralID] {
				continue
			}
			seen[m.StructuralID] = true
			r.AddResult(m, pathOf(m.DocumentID))
		}
	}
	return r
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}
