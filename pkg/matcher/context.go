package matcher

import "strings"

// ExtractContext returns the text around content[start:end]. before starts at
// the beginning of the line that lies lines lines above the match; after ends
// with the newline of the line that lies lines lines below it.
// The returned strings do not share memory with content.
func ExtractContext(content string, start, end, lines int) (before, after string) {
	if lines <= 0 || start < 0 || end > len(content) || start > end {
		return "", ""
	}

	from := strings.LastIndexByte(content[:start], '\n') + 1
	for range lines {
		if from == 0 {
			break
		}
		from = strings.LastIndexByte(content[:from-1], '\n') + 1
	}

	// The rest of the match line counts unless the match ends it.
	n := lines + 1
	if end > start && content[end-1] == '\n' {
		n = lines
	}
	to := end
	for range n {
		i := strings.IndexByte(content[to:], '\n')
		if i < 0 {
			to = len(content)
			break
		}
		to += i + 1
	}

	return strings.Clone(content[from:start]), strings.Clone(content[end:to])
}
