package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const outputFileMode os.FileMode = 0o644

type writeCategory string

const (
	categoryPage  writeCategory = "page"
	categoryAsset writeCategory = "asset"
)

// Storage persists build artifacts. Paths are slash separated and relative
// to the storage root.
type Storage interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path string, r io.Reader) error
	// RemoveAll deletes everything below path while keeping path itself.
	RemoveAll(ctx context.Context, path string) error
}

// FileStorage writes artifacts beneath a directory. Files are replaced
// atomically so readers never observe a partial page.
type FileStorage struct {
	root string
}

// NewFileStorage returns storage rooted at dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{root: filepath.Clean(dir)}
}

// Root returns the directory artifacts are written to.
func (s *FileStorage) Root() string { return s.root }

func (s *FileStorage) resolve(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || rel == "." {
		return s.root, nil
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("generator: path %q escapes output directory", rel)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileStorage) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0o755)
}

func (s *FileStorage) WriteFile(ctx context.Context, path string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	if err := atomic.WriteFile(full, r); err != nil {
		return fmt.Errorf("generator: write %s: %w", path, err)
	}
	return os.Chmod(full, outputFileMode)
}

func (s *FileStorage) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(full, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path     string
	Content  io.Reader
	Size     int64
	Category writeCategory
	Checksum string
}

// artifactWriter records what a build writes on top of Storage.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
}

func newArtifactWriter(storage Storage) artifactWriter {
	if storage == nil {
		return noopWriter{}
	}
	return &storageWriter{storage: storage, dirs: map[string]struct{}{}}
}

type storageWriter struct {
	storage Storage
	dirs    map[string]struct{}
}

func (w *storageWriter) EnsureDir(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	if _, ok := w.dirs[path]; ok {
		return nil
	}
	if err := w.storage.EnsureDir(ctx, path); err != nil {
		return err
	}
	w.dirs[path] = struct{}{}
	return nil
}

func (w *storageWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	return w.storage.WriteFile(ctx, req.Path, req.Content)
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
