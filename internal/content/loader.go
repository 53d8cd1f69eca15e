package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	// TextCodeSourceMissing marks a required data file that does not exist.
	TextCodeSourceMissing = "CONTENT_SOURCE_MISSING"
	// TextCodeSourceMalformed marks a data or override file that cannot be decoded.
	TextCodeSourceMalformed = "CONTENT_SOURCE_MALFORMED"
)

// ErrNoDataSources is returned when a loader is built without data files.
var ErrNoDataSources = errors.New("content: at least one data source is required")

// DataSource names a data file relative to the data directory.
type DataSource struct {
	Name     string
	Optional bool
}

// OverrideSource binds a Markdown document to a subtree of the content.
type OverrideSource struct {
	Document string
	Target   string
	Fields   []FieldMap
}

// LoaderConfig wires the filesystems and rules used by Loader.
type LoaderConfig struct {
	Data      fs.FS
	Sources   []DataSource
	Documents *markdown.Loader
	Overrides []OverrideSource
	Validator *PresenceValidator
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the loader logger.
func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithNormalizer replaces the default Normalizer.
func WithNormalizer(n *Normalizer) LoaderOption {
	return func(l *Loader) {
		if n != nil {
			l.normalizer = n
		}
	}
}

// Loader produces the content tree for a build: data files merged in order,
// presence checked, then overridden by Markdown documents.
type Loader struct {
	data       fs.FS
	sources    []DataSource
	documents  *markdown.Loader
	overrides  []OverrideSource
	validator  *PresenceValidator
	normalizer *Normalizer
	logger     interfaces.Logger
}

func NewLoader(cfg LoaderConfig, opts ...LoaderOption) (*Loader, error) {
	if cfg.Data == nil || len(cfg.Sources) == 0 {
		return nil, ErrNoDataSources
	}

	l := &Loader{
		data:      cfg.Data,
		sources:   append([]DataSource(nil), cfg.Sources...),
		documents: cfg.Documents,
		overrides: append([]OverrideSource(nil), cfg.Overrides...),
		validator: cfg.Validator,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.normalizer == nil {
		l.normalizer = NewNormalizer(WithNormalizerLogger(l.logger))
	}
	return l, nil
}

// Load returns the normalized content tree.
func (l *Loader) Load(ctx context.Context) (Value, error) {
	base, err := l.LoadBase(ctx)
	if err != nil {
		return Value{}, err
	}

	overrides, err := l.LoadOverrides(ctx)
	if err != nil {
		return Value{}, err
	}

	tree, err := l.normalizer.Normalize(base, overrides)
	if err != nil {
		return Value{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "normalize content").
			WithTextCode(TextCodeSourceMalformed)
	}
	return tree, nil
}

// LoadBase reads every data source and merges their top-level keys, later
// sources winning. The first source is always required.
func (l *Loader) LoadBase(ctx context.Context) (Value, error) {
	merged := NewMapping()

	for i, source := range l.sources {
		if err := ctx.Err(); err != nil {
			return Value{}, err
		}

		value, found, err := l.readSource(source.Name)
		if err != nil {
			return Value{}, err
		}
		if !found {
			if i == 0 || !source.Optional {
				return Value{}, goerrors.New(
					fmt.Sprintf("content source %s not found", source.Name),
					goerrors.CategoryNotFound,
				).WithTextCode(TextCodeSourceMissing).
					WithMetadata(map[string]any{logging.FieldSourcePath: source.Name})
			}
			l.logger.Debug("content.source.skipped", logging.FieldSourcePath, source.Name)
			continue
		}

		mapping, ok := value.Mapping()
		if !ok {
			return Value{}, goerrors.New(
				fmt.Sprintf("content source %s must contain an object, got %s", source.Name, value.Kind()),
				goerrors.CategoryBadInput,
			).WithTextCode(TextCodeSourceMalformed).
				WithMetadata(map[string]any{logging.FieldSourcePath: source.Name})
		}
		for _, key := range mapping.Keys() {
			child, _ := mapping.Get(key)
			merged.Set(key, child)
		}
		l.logger.Debug("content.source.loaded", logging.FieldSourcePath, source.Name, "keys", mapping.Len())
	}

	tree := FromMapping(merged)
	if err := l.validator.Validate(tree); err != nil {
		return Value{}, err
	}
	return tree, nil
}

func (l *Loader) readSource(name string) (Value, bool, error) {
	data, err := fs.ReadFile(l.data, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Value{}, false, nil
		}
		return Value{}, false, goerrors.Wrap(err, goerrors.CategoryInternal, "read content source "+name).
			WithMetadata(map[string]any{logging.FieldSourcePath: name})
	}

	var value Value
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		value, err = DecodeYAML(data)
	default:
		value, err = DecodeJSON(bytes.NewReader(data))
	}
	if err != nil {
		return Value{}, false, goerrors.Wrap(err, goerrors.CategoryBadInput, "decode content source "+name).
			WithTextCode(TextCodeSourceMalformed).
			WithMetadata(map[string]any{logging.FieldSourcePath: name})
	}
	return value, true, nil
}

// LoadOverrides reads the configured Markdown documents. Missing documents
// and drafts are skipped; malformed documents are fatal.
func (l *Loader) LoadOverrides(ctx context.Context) ([]Override, error) {
	if l.documents == nil || len(l.overrides) == 0 {
		return nil, nil
	}

	overrides := make([]Override, 0, len(l.overrides))
	for _, source := range l.overrides {
		logger := logging.WithSourceContext(l.logger, source.Document, source.Target)

		doc, found, err := l.documents.Lookup(ctx, source.Document)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "load override "+source.Document).
				WithTextCode(TextCodeSourceMalformed).
				WithMetadata(map[string]any{logging.FieldSourcePath: source.Document})
		}
		if !found {
			logger.Debug("content.override.missing")
			continue
		}
		if doc.FrontMatter.Draft {
			logger.Info("content.override.draft_skipped")
			continue
		}

		target := source.Target
		if doc.FrontMatter.Target != "" {
			target = doc.FrontMatter.Target
		}

		overrides = append(overrides, Override{
			Target: target,
			Source: doc.Sections,
			Fields: append([]FieldMap(nil), source.Fields...),
			Values: frontMatterValues(doc.FrontMatter),
		})
		logger.Debug("content.override.loaded", "sections", doc.Sections.Len())
	}
	return overrides, nil
}

// frontMatterValues drops the keys that steer loading rather than content.
func frontMatterValues(fm interfaces.FrontMatter) map[string]any {
	if len(fm.Raw) == 0 {
		return nil
	}
	values := make(map[string]any, len(fm.Raw))
	for key, value := range fm.Raw {
		switch key {
		case "target", "draft":
			continue
		}
		values[key] = value
	}
	return values
}
