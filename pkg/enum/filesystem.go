package enum

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/entimark/entimark/pkg/types"
)

// FilesystemEnumerator enumerates text documents under a directory.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// Enumerate walks the tree and yields every eligible document.
// Phase 1: walk the tree and collect eligible paths (sequential).
// Phase 2: read files and invoke callback in parallel.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(e.config.Root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(gitignorePath)
	}

	var paths []string
	err := filepath.Walk(e.config.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if path != e.config.Root && !e.config.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !e.config.FollowSymlinks {
			return nil
		}
		if !e.config.IncludeHidden && isHidden(info.Name()) {
			return nil
		}
		if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
			return nil
		}

		if ignore != nil {
			relPath, err := filepath.Rel(e.config.Root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(relPath) {
				return nil
			}
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	numReaders := max(runtime.NumCPU(), 1)

	origCtx := ctx
	g, ctx := errgroup.WithContext(ctx)
	pathsCh := make(chan string, numReaders*2)

	g.Go(func() error {
		defer close(pathsCh)
		for _, p := range paths {
			select {
			case pathsCh <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range numReaders {
		g.Go(func() error {
			for p := range pathsCh {
				if err := e.processFile(ctx, p, callback); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// The caller's context may have been cancelled after the last file.
	return origCtx.Err()
}

// processFile reads one file and invokes the callback for its text.
func (e *FilesystemEnumerator) processFile(ctx context.Context, path string, callback Callback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	format := extractableFormat(path)
	if format != "" && shouldExtract(e.config, format) {
		text, err := ExtractText(path, content)
		if err != nil || text == "" {
			return nil
		}
		prov := types.ExtractedProvenance{FilePath: path, Format: format}
		return callback(text, types.ComputeDocumentID(text), prov)
	}

	if isBinary(content) {
		return nil
	}

	text := string(content)
	return callback(text, types.ComputeDocumentID(text), types.FileProvenance{FilePath: path})
}

// shouldExtract checks if a format is enabled in config.
func shouldExtract(config Config, format string) bool {
	if config.Extract == "" {
		return false
	}
	if config.Extract == "all" {
		return true
	}
	for f := range strings.SplitSeq(strings.ToLower(config.Extract), ",") {
		if strings.TrimSpace(f) == format {
			return true
		}
	}
	return false
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects binary content by looking for a NUL byte in the first 8KB.
func isBinary(content []byte) bool {
	return bytes.IndexByte(content[:min(len(content), 8192)], 0) != -1
}
