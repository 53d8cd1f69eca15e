package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-sitegen/internal/markdown"
)

var (
	ErrOutputDirRequired      = errors.New("sitegen config: generator output directory is required")
	ErrDataFilesRequired      = errors.New("sitegen config: at least one content data file is required")
	ErrDataFileInvalid        = errors.New("sitegen config: content data file is invalid")
	ErrOverrideInvalid        = errors.New("sitegen config: override is invalid")
	ErrMarkdownInvalid        = errors.New("sitegen config: markdown parser settings are invalid")
	ErrPageInvalid            = errors.New("sitegen config: page is invalid")
	ErrNavigationInvalid      = errors.New("sitegen config: navigation item is invalid")
	ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("sitegen config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("sitegen config: logging format is invalid")
)

// Config aggregates everything a build needs. Relative directories resolve
// against Source.
type Config struct {
	Source    string          `yaml:"source"`
	Content   ContentConfig   `yaml:"content"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Templates TemplatesConfig `yaml:"templates"`
	Pages     PagesConfig     `yaml:"pages"`
	Generator GeneratorConfig `yaml:"generator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ContentConfig describes the base record and the Markdown overrides.
type ContentConfig struct {
	DataDir   string           `yaml:"data_dir"`
	DataFiles []DataFileConfig `yaml:"data_files"`
	// Required lists top-level keys the merged record must carry.
	Required []string `yaml:"required"`
	// SchemaFile replaces the generated presence schema with a JSON Schema document.
	SchemaFile string           `yaml:"schema_file"`
	Overrides  []OverrideConfig `yaml:"overrides"`
}

type DataFileConfig struct {
	Name     string `yaml:"name"`
	Optional bool   `yaml:"optional"`
}

// OverrideConfig binds one Markdown document to a subtree of the record.
type OverrideConfig struct {
	Document string        `yaml:"document"`
	Target   string        `yaml:"target"`
	Fields   []FieldConfig `yaml:"fields"`
}

// FieldConfig maps a section heading onto a field. Mode is text,
// paragraphs or html.
type FieldConfig struct {
	Field   string `yaml:"field"`
	Section string `yaml:"section"`
	Mode    string `yaml:"mode"`
}

type MarkdownConfig struct {
	ContentDir string               `yaml:"content_dir"`
	Extension  string               `yaml:"extension"`
	Parser     MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions.
type MarkdownParserConfig struct {
	// Extensions names goldmark extensions; empty enables gfm, linkify and
	// tasklist.
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

type TemplatesConfig struct {
	Dir string `yaml:"dir"`
	// DisableDefaults turns off the embedded fragment fallback.
	DisableDefaults bool `yaml:"disable_defaults"`
}

type PagesConfig struct {
	SinglePage bool         `yaml:"single_page"`
	HomeID     string       `yaml:"home_id"`
	HomeHref   string       `yaml:"home_href"`
	Header     string       `yaml:"header"`
	Footer     string       `yaml:"footer"`
	Navigation []NavConfig  `yaml:"navigation"`
	Pages      []PageConfig `yaml:"pages"`
}

type NavConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type PageConfig struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Fragments []string `yaml:"fragments"`
}

// GeneratorConfig captures behaviour for the build driver.
type GeneratorConfig struct {
	OutputDir  string   `yaml:"output_dir"`
	CleanBuild bool     `yaml:"clean_build"`
	CopyAssets bool     `yaml:"copy_assets"`
	AssetDirs  []string `yaml:"asset_dirs"`
	Workers    int      `yaml:"workers"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the layout of a site checked out at the working
// directory: data/, content/, templates/ and a public/ output.
func DefaultConfig() Config {
	return Config{
		Source: ".",
		Content: ContentConfig{
			DataDir: "data",
			DataFiles: []DataFileConfig{
				{Name: "site-config.json"},
				{Name: "content.json", Optional: true},
				{Name: "blog.json", Optional: true},
			},
			Required:  []string{"site"},
			Overrides: DefaultOverrides(),
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Extension:  ".md",
		},
		Templates: TemplatesConfig{
			Dir: "templates",
		},
		Pages: PagesConfig{
			HomeID:   "index",
			HomeHref: "index.html",
			Header:   "header",
			Footer:   "footer",
			Navigation: []NavConfig{
				{ID: "index", Label: "Home"},
				{ID: "services", Label: "Services"},
				{ID: "about", Label: "About"},
				{ID: "research", Label: "Research"},
				{ID: "contact", Label: "Contact"},
			},
			Pages: []PageConfig{
				{ID: "index", Fragments: []string{"hero", "services", "about", "research", "contact"}},
				{ID: "services", Fragments: []string{"services"}},
				{ID: "about", Fragments: []string{"about"}},
				{ID: "research", Fragments: []string{"research"}},
				{ID: "contact", Fragments: []string{"contact"}},
			},
		},
		Generator: GeneratorConfig{
			OutputDir:  "public",
			CopyAssets: true,
			AssetDirs:  []string{"styles", "scripts", "assets"},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// DefaultOverrides binds the standard section documents to the record.
func DefaultOverrides() []OverrideConfig {
	titled := func(document string) OverrideConfig {
		return OverrideConfig{
			Document: document,
			Target:   document,
			Fields: []FieldConfig{
				{Field: "title", Section: "Title"},
				{Field: "subtitle", Section: "Subtitle"},
			},
		}
	}
	return []OverrideConfig{
		{
			Document: "hero",
			Target:   "hero",
			Fields: []FieldConfig{
				{Field: "title", Section: "Main Title"},
				{Field: "subtitle", Section: "Subtitle"},
				{Field: "cta_text", Section: "Call To Action"},
			},
		},
		{
			Document: "about",
			Target:   "about",
			Fields: []FieldConfig{
				{Field: "title", Section: "Title"},
				{Field: "paragraphs", Section: "Content", Mode: "paragraphs"},
			},
		},
		titled("services"),
		titled("contact"),
		titled("research"),
	}
}

// Validate performs consistency checks on the whole configuration.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if len(cfg.Content.DataFiles) == 0 {
		return ErrDataFilesRequired
	}
	for i, file := range cfg.Content.DataFiles {
		err := validation.ValidateStruct(&file,
			validation.Field(&file.Name, validation.Required, validation.By(relativeName)),
		)
		if err != nil {
			return fmt.Errorf("%w: data_files[%d]: %v", ErrDataFileInvalid, i, err)
		}
	}
	for i, override := range cfg.Content.Overrides {
		if err := validateOverride(override); err != nil {
			return fmt.Errorf("%w: overrides[%d]: %v", ErrOverrideInvalid, i, err)
		}
	}
	if err := validation.Validate(cfg.Markdown.Parser.Extensions,
		validation.Each(validation.By(knownExtension)),
	); err != nil {
		return fmt.Errorf("%w: extensions: %v", ErrMarkdownInvalid, err)
	}
	for i, item := range cfg.Pages.Navigation {
		err := validation.ValidateStruct(&item,
			validation.Field(&item.ID, validation.Required, validation.By(slugIdentifier)),
		)
		if err != nil {
			return fmt.Errorf("%w: navigation[%d]: %v", ErrNavigationInvalid, i, err)
		}
	}
	seen := map[string]struct{}{}
	for i, page := range cfg.Pages.Pages {
		err := validation.ValidateStruct(&page,
			validation.Field(&page.ID, validation.Required, validation.By(slugIdentifier)),
			validation.Field(&page.Fragments, validation.Each(validation.Required)),
		)
		if err != nil {
			return fmt.Errorf("%w: pages[%d]: %v", ErrPageInvalid, i, err)
		}
		if _, dup := seen[page.ID]; dup {
			return fmt.Errorf("%w: pages[%d]: duplicate id %q", ErrPageInvalid, i, page.ID)
		}
		seen[page.ID] = struct{}{}
	}
	return validateLogging(cfg.Logging)
}

func validateOverride(override OverrideConfig) error {
	if err := validation.ValidateStruct(&override,
		validation.Field(&override.Document, validation.Required, validation.By(relativeName)),
		validation.Field(&override.Fields, validation.Required),
	); err != nil {
		return err
	}
	for i, field := range override.Fields {
		err := validation.ValidateStruct(&field,
			validation.Field(&field.Field, validation.Required),
			validation.Field(&field.Section, validation.Required),
			validation.Field(&field.Mode, validation.In("", "text", "paragraphs", "html")),
		)
		if err != nil {
			return fmt.Errorf("fields[%d]: %w", i, err)
		}
	}
	return nil
}

func validateLogging(cfg LoggingConfig) error {
	provider := normalizeProvider(cfg.Provider)
	if provider == "" {
		provider = "console"
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func slugIdentifier(value any) error {
	id, _ := value.(string)
	if id == "" || slug.IsValid(id) {
		return nil
	}
	return validation.NewError("sitegen.config.identifier_invalid", "must be a lowercase slug")
}

func relativeName(value any) error {
	name, _ := value.(string)
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "/") || name == ".." || strings.HasPrefix(name, "../") || strings.Contains(name, "/../") {
		return validation.NewError("sitegen.config.path_escapes", "must stay inside its directory")
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func knownExtension(value any) error {
	name, _ := value.(string)
	if slices.Contains(markdown.SupportedExtensions(), strings.ToLower(strings.TrimSpace(name))) {
		return nil
	}
	return fmt.Errorf("unknown extension %q", name)
}
