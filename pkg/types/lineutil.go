package types

import (
	"strings"
	"unicode/utf8"
)

// LineColumn returns the 1-based line and character column of byte offset
// in content. Offsets past the end are clamped.
func LineColumn(content string, offset int) SourcePoint {
	offset = max(0, min(offset, len(content)))
	head := content[:offset]
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return SourcePoint{
		Line:   strings.Count(head, "\n") + 1,
		Column: utf8.RuneCountInString(head[lineStart:]) + 1,
	}
}
