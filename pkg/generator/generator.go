// Package generator exposes the build driver for hosts that bring their own
// content source, fragment store or output storage. Most callers should use
// the root sitegen package, which wires these pieces from configuration.
package generator

import (
	"io"
	"io/fs"

	"github.com/goliatone/go-sitegen/internal/content"
	internal "github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	ContentSource    = internal.ContentSource
	Storage          = internal.Storage
	AssetPublisher   = internal.AssetPublisher
	FragmentSource   = pages.FragmentSource
	PagesConfig      = pages.Config
	Value            = content.Value
)

var (
	ErrContentRequired   = internal.ErrContentRequired
	ErrOutputDirRequired = internal.ErrOutputDirRequired
)

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// DefaultPagesConfig returns the five page layout with its navigation.
func DefaultPagesConfig() PagesConfig {
	return pages.DefaultConfig()
}

// NewFileStorage writes artifacts below dir.
func NewFileStorage(dir string) Storage {
	return internal.NewFileStorage(dir)
}

// NewDirAssetPublisher copies the named directories of source into the output.
func NewDirAssetPublisher(source fs.FS, dirs []string, logger interfaces.Logger) AssetPublisher {
	return internal.NewDirAssetPublisher(source, dirs, logger)
}

// NewFragmentStore reads "<name>.html" fragments from primary, falling back
// to the embedded defaults.
func NewFragmentStore(primary fs.FS) FragmentSource {
	return pages.NewFragmentStore(primary)
}

// DecodeJSON reads a JSON document into a content tree, keeping key order.
func DecodeJSON(r io.Reader) (Value, error) {
	return content.DecodeJSON(r)
}
