package scanner

import (
	"fmt"
	"maps"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/entimark/entimark/pkg/charpolicy"
	"github.com/entimark/entimark/pkg/matcher"
)

// Option keys recognized by ParseOptions.
const (
	KeyCaseInsensitiveMinLength = "case-insensitive-min-length"
	KeyFuzzyMinLength           = "fuzzy-min-length"
	KeyWordChars                = "word-chars"
	KeyNoWordBefore             = "no-word-before"
	KeyNoWordAfter              = "no-word-after"
	KeyBalancing                = "balancing"
)

// DefaultBalancing is passed to documents when no balancing is configured.
const DefaultBalancing = "OUTER"

// Options configure matching and markup insertion.
type Options struct {
	// CaseInsensitiveMinLength is the shortest match, in characters, that
	// may differ in case from a grammar name. -1 disables case folding.
	CaseInsensitiveMinLength int `json:"case_insensitive_min_length"`

	// FuzzyMinLength is the shortest match, in characters, that may contain
	// noise characters between words. -1 disables noise tolerance.
	FuzzyMinLength int `json:"fuzzy_min_length"`

	// WordChars are characters that count as significant besides letters,
	// digits and whitespace.
	WordChars string `json:"word_chars"`

	// NoWordBefore are characters a match may not end in front of.
	NoWordBefore string `json:"no_word_before"`

	// NoWordAfter are characters a match may not start after.
	NoWordAfter string `json:"no_word_after"`

	// Balancing is handed to the document with every span, uninterpreted.
	Balancing string `json:"balancing"`
}

// DefaultOptions returns the options used for an empty option map.
func DefaultOptions() Options {
	return Options{
		CaseInsensitiveMinLength: matcher.Disabled,
		FuzzyMinLength:           matcher.Disabled,
		Balancing:                DefaultBalancing,
	}
}

// ConfigError reports an option value that could not be parsed.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid value %q for option %s: %v", e.Value, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseOptions reads options from a flat string map. Unknown keys are
// ignored.
func ParseOptions(m map[string]string) (Options, error) {
	opts := DefaultOptions()

	var err error
	if v, ok := m[KeyCaseInsensitiveMinLength]; ok {
		if opts.CaseInsensitiveMinLength, err = parseLength(KeyCaseInsensitiveMinLength, v); err != nil {
			return Options{}, err
		}
	}
	if v, ok := m[KeyFuzzyMinLength]; ok {
		if opts.FuzzyMinLength, err = parseLength(KeyFuzzyMinLength, v); err != nil {
			return Options{}, err
		}
	}
	if v, ok := m[KeyWordChars]; ok {
		opts.WordChars = v
	}
	if v, ok := m[KeyNoWordBefore]; ok {
		opts.NoWordBefore = v
	}
	if v, ok := m[KeyNoWordAfter]; ok {
		opts.NoWordAfter = v
	}
	if v, ok := m[KeyBalancing]; ok {
		opts.Balancing = v
	}
	return opts, nil
}

// parseLength accepts any integer; values below -1 behave like -1.
func parseLength(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigError{Key: key, Value: value, Err: err}
	}
	return max(n, matcher.Disabled), nil
}

// Map returns the options as the string map ParseOptions reads.
func (o Options) Map() map[string]string {
	return map[string]string{
		KeyCaseInsensitiveMinLength: strconv.Itoa(o.CaseInsensitiveMinLength),
		KeyFuzzyMinLength:           strconv.Itoa(o.FuzzyMinLength),
		KeyWordChars:                o.WordChars,
		KeyNoWordBefore:             o.NoWordBefore,
		KeyNoWordAfter:              o.NoWordAfter,
		KeyBalancing:                o.Balancing,
	}
}

// Policy returns the character policy for the options.
func (o Options) Policy() charpolicy.Policy {
	return charpolicy.New(o.WordChars, o.NoWordBefore, o.NoWordAfter)
}

// MatcherConfig returns the matcher gates for the options.
func (o Options) MatcherConfig() matcher.Config {
	return matcher.Config{
		CaseInsensitiveMinLength: o.CaseInsensitiveMinLength,
		FuzzyMinLength:           o.FuzzyMinLength,
	}
}

// LoadOptionsFile reads a YAML mapping of option keys to scalar values.
func LoadOptionsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options file: %w", err)
	}

	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing options file %s: %w", path, err)
	}
	return m, nil
}

// MergeOptions returns the union of the maps. Later maps win.
func MergeOptions(ms ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range ms {
		maps.Copy(out, m)
	}
	return out
}
