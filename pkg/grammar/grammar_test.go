package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entimark/entimark/pkg/charpolicy"
	"github.com/entimark/entimark/pkg/trie"
)

func TestParseLines(t *testing.T) {
	src := []byte(`
# cities
Q90 <- Paris	Paname
Q64:Berlin
  Q1490   :   Tokyo	東京

THE <- THE
`)

	entries, err := ParseLines(src)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ID: "Q90", Names: []string{"Paris", "Paname"}},
		{ID: "Q64", Names: []string{"Berlin"}},
		{ID: "Q1490", Names: []string{"Tokyo", "東京"}},
		{ID: "THE", Names: []string{"THE"}},
	}, entries)
}

func TestParseLines_SplitsOnFirstSeparator(t *testing.T) {
	entries, err := ParseLines([]byte("time: 10:30\nrel <- a <- b"))
	require.NoError(t, err)

	assert.Equal(t, "time", entries[0].ID)
	assert.Equal(t, []string{"10:30"}, entries[0].Names)
	assert.Equal(t, "rel", entries[1].ID)
	assert.Equal(t, []string{"a <- b"}, entries[1].Names)
}

func TestParseLines_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		reason   string
	}{
		{"no separator", "Q90 <- Paris\njust some words\n", 2, "expected"},
		{"empty right side", "Q90 <-   \n", 1, "missing names"},
		{"empty id", "\n\n<- Paris\n", 3, "missing entity id"},
		{"colon only", ":", 1, "missing entity id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLines([]byte(tt.src))
			require.Error(t, err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantLine, se.Line)
			assert.Contains(t, se.Reason, tt.reason)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestParseXML(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<!-- capitals -->
<grammar>
  <entity id="Q90">
    <name>Paris</name>
    <name>Paname</name>
  </entity>
  <entity key="Q64"><name>Berlin</name></entity>
  <entity id="A&amp;B"><name>A &amp; B</name></entity>
</grammar>`)

	entries, err := ParseXML(src)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ID: "Q90", Names: []string{"Paris", "Paname"}},
		{ID: "Q64", Names: []string{"Berlin"}},
		{ID: "A&B", Names: []string{"A & B"}},
	}, entries)
}

func TestParseXML_AttributeCount(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no attribute", "<g>\n<entity><name>x</name></entity>\n</g>"},
		{"two attributes", "<g>\n<entity id=\"1\" lang=\"en\"><name>x</name></entity>\n</g>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseXML([]byte(tt.src))
			require.Error(t, err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, "entity", se.Element)
			assert.Equal(t, 2, se.Line)
			assert.Contains(t, se.Reason, "exactly one attribute")
		})
	}
}

func TestParse_DetectsFormat(t *testing.T) {
	xmlGrammar, err := Parse([]byte(`<g><e id="X"><n>Ex</n></e></g>`))
	require.NoError(t, err)
	assert.Equal(t, FormatXML, xmlGrammar.Format)

	lineGrammar, err := Parse([]byte("X <- Ex"))
	require.NoError(t, err)
	assert.Equal(t, FormatLines, lineGrammar.Format)
	assert.Equal(t, xmlGrammar.Entries, lineGrammar.Entries)
}

func TestParse_FallsBackOnMalformedXML(t *testing.T) {
	g, err := Parse([]byte("<tag> <- angle bracket"))
	require.NoError(t, err)

	assert.Equal(t, FormatLines, g.Format)
	assert.Equal(t, []Entry{{ID: "<tag>", Names: []string{"angle bracket"}}}, g.Entries)
}

func TestParse_XMLContentErrorIsFatal(t *testing.T) {
	_, err := Parse([]byte(`<g><entity><name>x</name></entity></g>`))
	require.Error(t, err)

	var src *SourceError
	require.True(t, errors.As(err, &src))
	assert.Equal(t, []Format{FormatXML}, src.Attempted)

	var se *SyntaxError
	assert.True(t, errors.As(err, &se))
}

func TestParse_BothFormatsFail(t *testing.T) {
	_, err := Parse([]byte("<broken\nno separator here"))
	require.Error(t, err)

	var src *SourceError
	require.True(t, errors.As(err, &src))
	assert.Equal(t, []Format{FormatXML, FormatLines}, src.Attempted)
	assert.Contains(t, err.Error(), "xml or lines")

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, FormatLines, se.Format)
}

func TestParseYAML(t *testing.T) {
	src := []byte(`
entities:
  - id: Q90
    names: [Paris, Paname]
  - id: Q64
    names:
      - Berlin
`)
	g, err := ParseFormat(src, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, g.Format)
	assert.Equal(t, []Entry{
		{ID: "Q90", Names: []string{"Paris", "Paname"}},
		{ID: "Q64", Names: []string{"Berlin"}},
	}, g.Entries)
	assert.Equal(t, 3, g.Names())
}

func TestParseYAML_Errors(t *testing.T) {
	_, err := ParseYAML([]byte("entities: [{names: [x]}]"))
	var se *SyntaxError
	require.True(t, errors.As(err, &se))

	_, err = ParseYAML([]byte("entities: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestMarshal_RoundTrip(t *testing.T) {
	entries := []Entry{
		{ID: "Q90", Names: []string{"Paris", "Paname"}},
		{ID: "A&B", Names: []string{"A & B"}},
	}

	x, err := MarshalXML(entries)
	require.NoError(t, err)
	fromXML, err := Parse(x)
	require.NoError(t, err)
	assert.Equal(t, entries, fromXML.Entries)

	y, err := MarshalYAML(entries)
	require.NoError(t, err)
	fromYAML, err := ParseYAML(y)
	require.NoError(t, err)
	assert.Equal(t, entries, fromYAML)

	assert.Equal(t, "Q90 <- Paris\tPaname", FormatLine(entries[0]))
}

func TestCompile(t *testing.T) {
	tr := trie.New(charpolicy.New("", "", ""))

	report, err := Compile([]byte("eg1 <- e.g.\neg2 <- e g\neg3 <- eg\nnoise <- ...\t--"), tr)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Entries)
	assert.Equal(t, 5, report.Names)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, report.Stats.Keys)
	assert.Equal(t, []string{"eg1", "eg3"}, tr.Get("eg"))
	assert.Equal(t, []string{"eg2"}, tr.Get("e g"))
}

func TestCompile_NoPartialTrie(t *testing.T) {
	tr := trie.New(charpolicy.New("", "", ""))

	_, err := Compile([]byte("A <- Alpha\nB <- Beta\nbroken line\n"), tr)
	require.Error(t, err)

	assert.Equal(t, 0, tr.Stats().Keys)
	assert.False(t, tr.Contains("Alpha"))
}

func TestCompile_SameNamesFromEitherSyntax(t *testing.T) {
	policy := charpolicy.New("", "", "")
	fromLines := trie.New(policy)
	fromXML := trie.New(policy)

	_, err := Compile([]byte("CF <- C.  F\nRSVP <- R S V P"), fromLines)
	require.NoError(t, err)
	_, err = Compile([]byte(`<g><e id="CF"><n>C.  F</n></e><e id="RSVP"><n>R S V P</n></e></g>`), fromXML)
	require.NoError(t, err)

	assert.Equal(t, fromLines.Stats(), fromXML.Stats())
	assert.Equal(t, []string{"CF"}, fromXML.Get("C F"))
}

func TestBuild(t *testing.T) {
	a := &Grammar{Location: "a", Entries: []Entry{{ID: "1", Names: []string{"A A", "B A"}}}}
	b := &Grammar{Location: "b", Entries: []Entry{{ID: "2", Names: []string{"A B", "B B"}}, {ID: "1", Names: []string{"A A"}}}}

	tr, report, err := Build(charpolicy.New("", "", ""), a, b)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sources)
	assert.Equal(t, 3, report.Entries)
	assert.Equal(t, 5, report.Names)
	assert.Equal(t, 4, report.Stats.Keys)
	assert.Equal(t, []string{"1"}, tr.Get("A A"))
	assert.Equal(t, []string{"2"}, tr.Get("B B"))
}

func TestValidate(t *testing.T) {
	policy := charpolicy.New("", "", "")

	require.NoError(t, Validate([]Entry{{ID: "x", Names: []string{"X"}}}, policy))

	err := Validate([]Entry{
		{ID: "", Names: []string{"X"}},
		{ID: "a"},
		{ID: "b", Names: []string{"ok", "..."}},
	}, policy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity id is required")
	assert.Contains(t, err.Error(), "entity a: at least one name")
	assert.Contains(t, err.Error(), `entity b: name "..."`)
}
