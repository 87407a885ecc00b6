package grammar

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxGrammarSize bounds grammars fetched over HTTP.
const maxGrammarSize = 256 << 20

// FormatForPath picks the format implied by a file name. Only YAML has a
// fixed extension; everything else is detected from content.
func FormatForPath(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return ""
	}
}

// LoadFile reads a grammar from disk.
func LoadFile(filename string) (*Grammar, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &SourceError{Location: filename, Err: err}
	}
	return parseAt(filename, data)
}

// LoadURL fetches a grammar over HTTP(S).
func LoadURL(ctx context.Context, rawURL string) (*Grammar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &SourceError{Location: rawURL, Err: err}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &SourceError{Location: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{Location: rawURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxGrammarSize))
	if err != nil {
		return nil, &SourceError{Location: rawURL, Err: err}
	}

	u, _ := url.Parse(rawURL)
	name := rawURL
	if u != nil {
		name = u.Path
	}
	g, err := ParseFormat(data, FormatForPath(name))
	if err != nil {
		return nil, relocate(err, rawURL)
	}
	g.Location = rawURL
	return g, nil
}

// Open loads a grammar from an http(s) URL, a file URL or a file path.
func Open(ctx context.Context, location string) (*Grammar, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return LoadURL(ctx, location)
	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, &SourceError{Location: location, Err: err}
		}
		return LoadFile(filepath.FromSlash(u.Path))
	default:
		return LoadFile(location)
	}
}

// LoadFS reads every file in fsys matching pattern, in parallel, and returns
// the grammars in name order.
func LoadFS(ctx context.Context, fsys fs.FS, pattern string) ([]*Grammar, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar pattern %q: %w", pattern, err)
	}

	grammars := make([]*Grammar, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return &SourceError{Location: name, Err: err}
			}
			gr, err := parseAt(name, data)
			if err != nil {
				return err
			}
			grammars[i] = gr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grammars, nil
}

func parseAt(location string, data []byte) (*Grammar, error) {
	g, err := ParseFormat(data, FormatForPath(location))
	if err != nil {
		return nil, relocate(err, location)
	}
	g.Location = location
	return g, nil
}

// relocate records where a failing grammar came from.
func relocate(err error, location string) error {
	if se, ok := err.(*SourceError); ok && se.Location == "" {
		se.Location = location
		return se
	}
	return fmt.Errorf("%s: %w", location, err)
}
