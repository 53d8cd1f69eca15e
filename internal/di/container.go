package di

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-sitegen/internal/commands"
	buildcmd "github.com/goliatone/go-sitegen/internal/commands/build"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Container wires the build pipeline from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	sourceFS   fs.FS
	dataFS     fs.FS
	markdownFS fs.FS
	templateFS fs.FS

	parser    *markdown.GoldmarkParser
	documents *markdown.Loader
	loader    *content.Loader
	fragments pages.FragmentSource
	storage   generator.Storage
	assets    generator.AssetPublisher
	generator generator.Service

	registry buildcmd.CommandRegistry
	handlers *buildcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithSourceFS replaces the project filesystem. Data, content, template
// and asset directories are read from sub-directories of fsys.
func WithSourceFS(fsys fs.FS) Option {
	return func(c *Container) {
		if fsys != nil {
			c.sourceFS = fsys
		}
	}
}

// WithStorage replaces the output storage.
func WithStorage(storage generator.Storage) Option {
	return func(c *Container) {
		if storage != nil {
			c.storage = storage
		}
	}
}

// WithFragments replaces the fragment source.
func WithFragments(source pages.FragmentSource) Option {
	return func(c *Container) {
		if source != nil {
			c.fragments = source
		}
	}
}

// WithGeneratorService replaces the build driver.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		if svc != nil {
			c.generator = svc
		}
	}
}

// WithCommandRegistry registers the site command handlers with registry.
func WithCommandRegistry(registry buildcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureFilesystems()
	if err := c.configureContent(); err != nil {
		return nil, err
	}
	c.configureFragments()
	c.configureGenerator()

	handlers, err := buildcmd.RegisterSiteCommands(c.registry, c.generator, c.loggerProvider,
		buildcmd.WithBuildHandlerOptions(commands.WithTimeout[buildcmd.BuildSiteCommand](commands.DefaultCommandTimeout)),
	)
	if err != nil {
		return nil, err
	}
	c.handlers = handlers

	logging.ModuleLogger(c.loggerProvider, "sitegen").Debug("container.configured",
		"source", cfg.Source,
		"output_dir", cfg.Resolve(cfg.Generator.OutputDir),
		"pages", len(cfg.Pages.Pages),
		"single_page", cfg.Pages.SinglePage,
	)
	return c, nil
}

func (c *Container) configureFilesystems() {
	if c.sourceFS == nil {
		c.sourceFS = os.DirFS(c.Config.Resolve("."))
	}
	c.dataFS = c.dirFS(c.Config.Content.DataDir)
	c.markdownFS = c.dirFS(c.Config.Markdown.ContentDir)
	if dir := strings.TrimSpace(c.Config.Templates.Dir); dir != "" {
		c.templateFS = c.dirFS(dir)
	}
}

func (c *Container) dirFS(dir string) fs.FS {
	if filepath.IsAbs(dir) {
		return os.DirFS(dir)
	}
	return subFS(c.sourceFS, dir)
}

func (c *Container) configureContent() error {
	cfg := c.Config
	parseOpts := interfaces.ParseOptions{
		Extensions: cfg.Markdown.Parser.Extensions,
		Sanitize:   cfg.Markdown.Parser.Sanitize,
		HardWraps:  cfg.Markdown.Parser.HardWraps,
		SafeMode:   cfg.Markdown.Parser.SafeMode,
	}
	c.parser = markdown.NewGoldmarkParser(parseOpts)
	c.documents = markdown.NewLoader(c.markdownFS, markdown.LoaderConfig{
		Extension: cfg.Markdown.Extension,
	})

	var schemaDoc []byte
	if file := strings.TrimSpace(cfg.Content.SchemaFile); file != "" {
		data, err := fs.ReadFile(c.sourceFS, cleanRel(file))
		if err != nil {
			return fmt.Errorf("di: read content schema: %w", err)
		}
		schemaDoc = data
	}
	validator, err := content.NewPresenceValidator(cfg.Content.Required, schemaDoc)
	if err != nil {
		return err
	}

	contentLogger := logging.ContentLogger(c.loggerProvider)
	loader, err := content.NewLoader(content.LoaderConfig{
		Data:      c.dataFS,
		Sources:   dataSources(cfg.Content.DataFiles),
		Documents: c.documents,
		Overrides: overrideSources(cfg.Content.Overrides),
		Validator: validator,
	},
		content.WithLoaderLogger(contentLogger),
		content.WithNormalizer(content.NewNormalizer(
			content.WithMarkdownRenderer(c.parser, parseOpts),
			content.WithNormalizerLogger(contentLogger),
		)),
	)
	if err != nil {
		return err
	}
	c.loader = loader
	return nil
}

func (c *Container) configureFragments() {
	if c.fragments != nil {
		return
	}
	opts := []pages.FragmentStoreOption{
		pages.WithFragmentLogger(logging.TemplatingLogger(c.loggerProvider)),
	}
	if c.Config.Templates.DisableDefaults {
		opts = append(opts, pages.WithFallback(nil))
	}
	c.fragments = pages.NewFragmentStore(c.templateFS, opts...)
}

func (c *Container) configureGenerator() {
	if c.generator != nil {
		return
	}
	cfg := c.Config
	outputDir := cfg.Resolve(cfg.Generator.OutputDir)
	if c.storage == nil {
		c.storage = generator.NewFileStorage(outputDir)
	}
	logger := logging.GeneratorLogger(c.loggerProvider)
	if c.assets == nil {
		c.assets = generator.NewDirAssetPublisher(c.sourceFS, cfg.Generator.AssetDirs, logger)
	}
	c.generator = generator.NewService(generator.Config{
		OutputDir:  outputDir,
		CleanBuild: cfg.Generator.CleanBuild,
		CopyAssets: cfg.Generator.CopyAssets,
		Workers:    cfg.Generator.Workers,
		Pages:      pagesConfig(cfg.Pages),
	}, generator.Dependencies{
		Content:   c.loader,
		Fragments: c.fragments,
		Storage:   c.storage,
		Assets:    c.assets,
		Logger:    logger,
	})
}

// LoggerProvider returns the provider every module logs through.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// ContentLoader returns the loader producing the content tree.
func (c *Container) ContentLoader() *content.Loader { return c.loader }

// MarkdownParser returns the parser used for html field modes.
func (c *Container) MarkdownParser() *markdown.GoldmarkParser { return c.parser }

// Documents returns the override document loader.
func (c *Container) Documents() *markdown.Loader { return c.documents }

// Fragments returns the fragment source used for composition.
func (c *Container) Fragments() pages.FragmentSource { return c.fragments }

// GeneratorService returns the build driver.
func (c *Container) GeneratorService() generator.Service { return c.generator }

// Handlers returns the site command handlers.
func (c *Container) Handlers() *buildcmd.HandlerSet { return c.handlers }
