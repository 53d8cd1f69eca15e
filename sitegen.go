package sitegen

import (
	"context"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/templating"
)

// GeneratorService exports the build driver contract.
type GeneratorService = generator.Service

// BuildOptions narrows a single build.
type BuildOptions = generator.BuildOptions

// BuildResult reports what a build rendered and wrote.
type BuildResult = generator.BuildResult

// Value is a node of the content tree.
type Value = content.Value

// Sections maps section headings of a Markdown document to their bodies.
type Sections = markdown.Sections

// Option customises the container behind a Site.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithSourceFS        = di.WithSourceFS
	WithStorage         = di.WithStorage
	WithFragments       = di.WithFragments
	WithCommandRegistry = di.WithCommandRegistry
)

// Site is a configured build pipeline.
type Site struct {
	container *di.Container
}

// New validates cfg and wires a Site.
func New(cfg Config, opts ...Option) (*Site, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Site{container: container}, nil
}

// Container exposes the underlying dependency container.
func (s *Site) Container() *di.Container {
	return s.container
}

// Generator returns the build driver.
func (s *Site) Generator() GeneratorService {
	return s.container.GeneratorService()
}

// Build renders every page and writes it, unless opts.DryRun is set.
func (s *Site) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return s.container.GeneratorService().Build(ctx, opts)
}

// Clean empties the output directory.
func (s *Site) Clean(ctx context.Context) error {
	return s.container.GeneratorService().Clean(ctx)
}

// Content loads and normalizes the content tree without rendering.
func (s *Site) Content(ctx context.Context) (Value, error) {
	return s.container.ContentLoader().Load(ctx)
}

// ParseSections splits a Markdown document into its "# " sections.
func ParseSections(document string) Sections {
	return markdown.ParseSections(document)
}

// Render substitutes data into a template source.
func Render(src string, data Value) string {
	return templating.Render(src, data)
}
