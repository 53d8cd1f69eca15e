package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// ErrDocumentNotFound reports a Markdown document that does not exist.
var ErrDocumentNotFound = errors.New("markdown: document not found")

// LoaderConfig configures where override documents are read from.
type LoaderConfig struct {
	// BasePath is the directory the filesystem is rooted at. Absolute paths
	// passed to the loader are made relative to it.
	BasePath string
	// Extension is appended to bare document names (defaults to ".md").
	Extension string
}

// Loader turns filesystem paths into Markdown documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	extension string
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	ext := strings.TrimSpace(cfg.Extension)
	if ext == "" {
		ext = ".md"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	base := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		base = filepath.Clean(cfg.BasePath)
	}

	return &Loader{
		fs:        filesystem,
		basePath:  base,
		extension: ext,
	}
}

// LoadFile reads and parses a single Markdown document. A missing file
// returns an error wrapping ErrDocumentNotFound.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, rel)
		}
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return doc, nil
}

// Lookup is LoadFile for optional documents: a missing file yields
// (nil, false, nil).
func (l *Loader) Lookup(ctx context.Context, name string) (*Document, bool, error) {
	doc, err := l.LoadFile(ctx, name)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc, true, nil
}

func (l *Loader) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("markdown loader: empty document name")
	}
	if path.Ext(filepath.ToSlash(name)) == "" {
		name += l.extension
	}

	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}

	rel := filepath.ToSlash(clean)
	if !fs.ValidPath(rel) {
		return "", fmt.Errorf("markdown loader: invalid path %s", name)
	}
	return rel, nil
}
