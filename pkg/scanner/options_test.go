package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entimark/entimark/pkg/matcher"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]string
		want Options
	}{
		{
			name: "empty map",
			in:   map[string]string{},
			want: DefaultOptions(),
		},
		{
			name: "all keys",
			in: map[string]string{
				"case-insensitive-min-length": "4",
				"fuzzy-min-length":            "0",
				"word-chars":                  ".-",
				"no-word-before":              "'",
				"no-word-after":               "@",
				"balancing":                   "INNER",
			},
			want: Options{
				CaseInsensitiveMinLength: 4,
				FuzzyMinLength:           0,
				WordChars:                ".-",
				NoWordBefore:             "'",
				NoWordAfter:              "@",
				Balancing:                "INNER",
			},
		},
		{
			name: "unknown keys ignored",
			in:   map[string]string{"colour": "blue", "fuzzy-min-length": "2"},
			want: Options{CaseInsensitiveMinLength: -1, FuzzyMinLength: 2, Balancing: "OUTER"},
		},
		{
			name: "lengths below -1 disable",
			in:   map[string]string{"case-insensitive-min-length": "-7"},
			want: DefaultOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptions_ConfigError(t *testing.T) {
	_, err := ParseOptions(map[string]string{"fuzzy-min-length": "four"})

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "fuzzy-min-length", cfgErr.Key)
	assert.Equal(t, "four", cfgErr.Value)
	assert.Contains(t, err.Error(), `invalid value "four" for option fuzzy-min-length`)
}

func TestOptions_MapRoundTrip(t *testing.T) {
	opts := Options{CaseInsensitiveMinLength: 3, FuzzyMinLength: -1, WordChars: "_", Balancing: "OUTER"}

	back, err := ParseOptions(opts.Map())

	require.NoError(t, err)
	assert.Equal(t, opts, back)
}

func TestOptions_Derived(t *testing.T) {
	opts := Options{CaseInsensitiveMinLength: 3, FuzzyMinLength: matcher.Disabled, WordChars: "."}

	assert.Equal(t, matcher.Config{CaseInsensitiveMinLength: 3, FuzzyMinLength: -1}, opts.MatcherConfig())
	assert.True(t, opts.Policy().IsSignificant('.'))
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("case-insensitive-min-length: 4\nword-chars: \".\"\nbalancing: OUTER\n"), 0o644))

	m, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"case-insensitive-min-length": "4",
		"word-chars":                  ".",
		"balancing":                   "OUTER",
	}, m)

	opts, err := ParseOptions(MergeOptions(m, map[string]string{"case-insensitive-min-length": "2"}))
	require.NoError(t, err)
	assert.Equal(t, 2, opts.CaseInsensitiveMinLength)
	assert.Equal(t, ".", opts.WordChars)
}

func TestLoadOptionsFile_Errors(t *testing.T) {
	_, err := LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading options file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))
	_, err = LoadOptionsFile(path)
	assert.ErrorContains(t, err, "parsing options file")
}
