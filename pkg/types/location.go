package types

// OffsetSpan is the byte range [Start, End).
type OffsetSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes.
func (s OffsetSpan) Len() int {
	return s.End - s.Start
}

// SourcePoint is a 1-based line and character column.
type SourcePoint struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceSpan is a range of source points. End is the position of the last
// character of the span.
type SourceSpan struct {
	Start SourcePoint `json:"start"`
	End   SourcePoint `json:"end"`
}

// Location combines byte offsets and line/column positions.
type Location struct {
	Offset OffsetSpan `json:"offset"`
	Source SourceSpan `json:"source"`
}

// NewLocation locates content[start:end].
func NewLocation(content string, start, end int) Location {
	last := start
	if end > start {
		last = end - 1
	}
	return Location{
		Offset: OffsetSpan{Start: start, End: end},
		Source: SourceSpan{
			Start: LineColumn(content, start),
			End:   LineColumn(content, last),
		},
	}
}
