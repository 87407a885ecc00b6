package grammar

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	lines := filepath.Join(dir, "cities.txt")
	yml := filepath.Join(dir, "cities.yaml")
	require.NoError(t, os.WriteFile(lines, []byte("Q90 <- Paris\n"), 0o644))
	require.NoError(t, os.WriteFile(yml, []byte("entities:\n  - id: Q90\n    names: [Paris]\n"), 0o644))

	g, err := LoadFile(lines)
	require.NoError(t, err)
	assert.Equal(t, FormatLines, g.Format)
	assert.Equal(t, lines, g.Location)

	g, err = LoadFile(yml)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, g.Format)
	assert.Equal(t, []Entry{{ID: "Q90", Names: []string{"Paris"}}}, g.Entries)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.txt"))
	var src *SourceError
	require.True(t, errors.As(err, &src))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, src.Attempted)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("Q90 Paris\n"), 0o644))
	_, err = LoadFile(bad)
	require.True(t, errors.As(err, &src))
	assert.Equal(t, bad, src.Location)
	assert.Contains(t, err.Error(), bad)
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/grammar.xml":
			_, _ = w.Write([]byte(`<g><e id="Q90"><n>Paris</n></e></g>`))
		case "/grammar.yml":
			_, _ = w.Write([]byte("entities: [{id: Q64, names: [Berlin]}]"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	g, err := LoadURL(ctx, srv.URL+"/grammar.xml")
	require.NoError(t, err)
	assert.Equal(t, FormatXML, g.Format)
	assert.Equal(t, srv.URL+"/grammar.xml", g.Location)

	g, err = Open(ctx, srv.URL+"/grammar.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, g.Format)
	assert.Equal(t, "Q64", g.Entries[0].ID)

	_, err = LoadURL(ctx, srv.URL+"/missing")
	var src *SourceError
	require.True(t, errors.As(err, &src))
	assert.Contains(t, err.Error(), "404")
}

func TestLoadURL_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("X <- x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadURL(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestOpen_FileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, []byte("X <- x"), 0o644))

	g, err := Open(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: "X", Names: []string{"x"}}}, g.Entries)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"grammars/a.txt":    {Data: []byte("A <- Alpha")},
		"grammars/b.xml":    {Data: []byte(`<g><e id="B"><n>Beta</n></e></g>`)},
		"grammars/c.yaml":   {Data: []byte("entities: [{id: C, names: [Gamma]}]")},
		"grammars/notes.md": {Data: []byte("# not a grammar")},
	}

	grammars, err := LoadFS(context.Background(), fsys, "grammars/*.[tx]*")
	require.NoError(t, err)
	require.Len(t, grammars, 2)
	assert.Equal(t, "grammars/a.txt", grammars[0].Location)
	assert.Equal(t, "grammars/b.xml", grammars[1].Location)

	grammars, err = LoadFS(context.Background(), fsys, "grammars/*a*")
	require.NoError(t, err)
	require.Len(t, grammars, 2)
	assert.Equal(t, FormatYAML, grammars[1].Format)
}

func TestLoadFS_FailsAsAWhole(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt": {Data: []byte("A <- Alpha")},
		"b.txt": {Data: []byte("broken")},
	}

	grammars, err := LoadFS(context.Background(), fsys, "*.txt")
	require.Error(t, err)
	assert.Nil(t, grammars)

	var se *SyntaxError
	assert.True(t, errors.As(err, &se))
}

func TestLoadFS_BadPattern(t *testing.T) {
	_, err := LoadFS(context.Background(), fstest.MapFS{}, "[")
	assert.ErrorContains(t, err, "invalid grammar pattern")
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("x.yml"))
	assert.Equal(t, FormatYAML, FormatForPath("dir/X.YAML"))
	assert.Equal(t, Format(""), FormatForPath("x.xml"))
	assert.Equal(t, Format(""), FormatForPath("x"))
}
