package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// FilterConfig specifies include and exclude patterns on entity ids.
type FilterConfig struct {
	Include []string // Regex patterns - only matching entities included
	Exclude []string // Regex patterns - matching entities excluded
}

// ParsePatterns splits a comma-separated flag value into trimmed patterns.
func ParsePatterns(patterns string) []string {
	var result []string
	for p := range strings.SplitSeq(patterns, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter keeps the entries whose id matches an include pattern, when any are
// given, and no exclude pattern.
func Filter(entries []Entry, config FilterConfig) ([]Entry, error) {
	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}
	if len(include) == 0 && len(exclude) == 0 {
		return entries, nil
	}

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if len(include) > 0 && !matchesAny(e.ID, include) {
			continue
		}
		if matchesAny(e.ID, exclude) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// Filter applies config to the grammar's entries in place.
func (g *Grammar) Filter(config FilterConfig) error {
	entries, err := Filter(g.Entries, config)
	if err != nil {
		return err
	}
	g.Entries = entries
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	regexes := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func matchesAny(id string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}
