package grammar

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed grammar line or entity element.
type SyntaxError struct {
	Format  Format
	Line    int    // 1-based, 0 when unknown
	Element string // XML element name, empty for line syntax
	Text    string // offending line, for line syntax
	Reason  string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Element != "":
		return fmt.Sprintf("bad grammar syntax in element <%s> at line %d: %s", e.Element, e.Line, e.Reason)
	case e.Text != "":
		return fmt.Sprintf("bad grammar syntax in line %d: %s: %q", e.Line, e.Reason, e.Text)
	default:
		return fmt.Sprintf("bad grammar syntax in line %d: %s", e.Line, e.Reason)
	}
}

// SourceError reports a grammar that could not be read or could not be
// parsed in any of the attempted formats.
type SourceError struct {
	Location  string
	Attempted []Format
	Err       error
}

func (e *SourceError) Error() string {
	loc := e.Location
	if loc == "" {
		loc = "grammar"
	}
	if len(e.Attempted) == 0 {
		return fmt.Sprintf("failed to read %s: %v", loc, e.Err)
	}
	formats := make([]string, len(e.Attempted))
	for i, f := range e.Attempted {
		formats[i] = string(f)
	}
	return fmt.Sprintf("failed to parse %s as %s: %v", loc, strings.Join(formats, " or "), e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
