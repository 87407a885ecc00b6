package types

import "testing"

func TestLineColumn(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		offset     int
		wantLine   int
		wantColumn int
	}{
		{"empty content", "", 0, 1, 1},
		{"first line", "hello", 2, 1, 3},
		{"second line", "hello\nworld", 7, 2, 2},
		{"on the newline", "hello\nworld", 5, 1, 6},
		{"start of second line", "hello\nworld", 6, 2, 1},
		{"third line", "line1\nline2\nline3", 12, 3, 1},
		{"past the end", "hello", 100, 1, 6},
		{"negative", "hello", -4, 1, 1},
		{"columns count characters", "Zürich Köln", 8, 1, 8},
		{"multibyte on later line", "a\n日本 Tokyo", 9, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineColumn(tt.content, tt.offset)
			if got.Line != tt.wantLine {
				t.Errorf("LineColumn() line = %v, want %v", got.Line, tt.wantLine)
			}
			if got.Column != tt.wantColumn {
				t.Errorf("LineColumn() column = %v, want %v", got.Column, tt.wantColumn)
			}
		})
	}
}
