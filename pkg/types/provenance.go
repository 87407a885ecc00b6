package types

import "fmt"

// Provenance tracks where a document came from.
type Provenance interface {
	Kind() string
	// Path returns a displayable location
	Path() string
}

// FileProvenance for plain files on disk.
type FileProvenance struct {
	FilePath string `json:"path"`
}

// Kind returns "file".
func (f FileProvenance) Kind() string { return "file" }

// Path returns the file path.
func (f FileProvenance) Path() string { return f.FilePath }

// ExtractedProvenance for text pulled out of an office document or PDF.
type ExtractedProvenance struct {
	FilePath string `json:"path"`
	Format   string `json:"format"` // docx, xlsx, pdf
}

// Kind returns "extracted".
func (e ExtractedProvenance) Kind() string { return "extracted" }

// Path returns the file path with the extraction format.
func (e ExtractedProvenance) Path() string {
	return fmt.Sprintf("%s (%s text)", e.FilePath, e.Format)
}

// InlineProvenance for content passed in directly, e.g. over stdin or the
// serve protocol.
type InlineProvenance struct {
	Source string `json:"source"`
}

// Kind returns "inline".
func (i InlineProvenance) Kind() string { return "inline" }

// Path returns the caller supplied source name.
func (i InlineProvenance) Path() string { return i.Source }
