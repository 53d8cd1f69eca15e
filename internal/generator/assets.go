package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// DefaultAssetDirs are the directories copied verbatim into the output.
func DefaultAssetDirs() []string {
	return []string{"styles", "scripts", "assets"}
}

// AssetPublisher copies static assets into build storage and reports how
// many files it wrote.
type AssetPublisher interface {
	Publish(ctx context.Context, storage Storage) (int, error)
}

// NoOpAssetPublisher skips asset publishing.
type NoOpAssetPublisher struct{}

func (NoOpAssetPublisher) Publish(context.Context, Storage) (int, error) { return 0, nil }

// DirAssetPublisher copies whole directories from a source filesystem.
// Directories missing from the source are skipped.
type DirAssetPublisher struct {
	source fs.FS
	dirs   []string
	logger interfaces.Logger
}

func NewDirAssetPublisher(source fs.FS, dirs []string, logger interfaces.Logger) *DirAssetPublisher {
	if logger == nil {
		logger = logging.NoOp()
	}
	if dirs == nil {
		dirs = DefaultAssetDirs()
	}
	return &DirAssetPublisher{
		source: source,
		dirs:   append([]string(nil), dirs...),
		logger: logger,
	}
}

func (p *DirAssetPublisher) Publish(ctx context.Context, storage Storage) (int, error) {
	if p.source == nil || storage == nil {
		return 0, nil
	}

	copied := 0
	for _, dir := range p.dirs {
		dir = strings.Trim(filepath.ToSlash(strings.TrimSpace(dir)), "/")
		if dir == "" {
			continue
		}

		info, err := fs.Stat(p.source, dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				p.logger.Debug("generator.assets.skipped", "dir", dir)
				continue
			}
			return copied, fmt.Errorf("generator: stat asset dir %s: %w", dir, err)
		}
		if !info.IsDir() {
			p.logger.Warn("generator.assets.not_a_directory", "dir", dir)
			continue
		}

		err = fs.WalkDir(p.source, dir, func(name string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				return storage.EnsureDir(ctx, name)
			}
			if err := p.copyFile(ctx, storage, name); err != nil {
				return err
			}
			copied++
			return nil
		})
		if err != nil {
			return copied, err
		}
	}
	return copied, nil
}

func (p *DirAssetPublisher) copyFile(ctx context.Context, storage Storage, name string) error {
	file, err := p.source.Open(name)
	if err != nil {
		return fmt.Errorf("generator: open asset %s: %w", name, err)
	}
	defer file.Close()

	if err := storage.WriteFile(ctx, name, file); err != nil {
		return err
	}
	p.logger.Trace("generator.assets.copied",
		"asset", name,
		"content_type", detectAssetContentType(name),
	)
	return nil
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(asset), "."))
	switch ext {
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
