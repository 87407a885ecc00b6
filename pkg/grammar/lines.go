package grammar

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// separator splits "id <- names" or "id: names" once.
var separator = regexp2.MustCompile(`\s*(?:<-|:)\s*`, regexp2.None)

// ParseLines reads line syntax: one entity per line, the id and a
// tab-separated list of names joined by "<-" or ":". Blank lines and lines
// starting with '#' are ignored.
func ParseLines(src []byte) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			return nil, &SyntaxError{Format: FormatLines, Line: lineNo, Text: line, Reason: err.Error()}
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grammar lines: %w", err)
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	m, err := separator.FindStringMatch(line)
	if err != nil {
		return Entry{}, err
	}
	if m == nil {
		return Entry{}, fmt.Errorf("expected \"<-\" or \":\" between id and names")
	}
	// regexp2 reports rune positions
	runes := []rune(line)
	id := string(runes[:m.Index])
	names := string(runes[m.Index+m.Length:])
	if id == "" {
		return Entry{}, fmt.Errorf("missing entity id")
	}
	if strings.TrimSpace(names) == "" {
		return Entry{}, fmt.Errorf("missing names")
	}
	return Entry{ID: id, Names: strings.Split(names, "\t")}, nil
}

// FormatLine renders e in line syntax.
func FormatLine(e Entry) string {
	return e.ID + " <- " + strings.Join(e.Names, "\t")
}
