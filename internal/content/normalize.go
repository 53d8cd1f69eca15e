package content

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// FieldMode selects how a section body is written into the tree.
type FieldMode string

const (
	// ModeText writes the trimmed section body as a string.
	ModeText FieldMode = "text"
	// ModeParagraphs splits the body on blank lines into a sequence.
	ModeParagraphs FieldMode = "paragraphs"
	// ModeHTML renders the body from Markdown to HTML.
	ModeHTML FieldMode = "html"
)

// FieldMap binds a section heading to a field of the override target.
type FieldMap struct {
	Field   string
	Section string
	Mode    FieldMode
}

// Override applies the sections of one Markdown document to the subtree at
// Target.
type Override struct {
	// Target is a dotted path; empty targets the root.
	Target string
	Source markdown.Sections
	Fields []FieldMap
	// Values are front matter values written under Target before any
	// section field.
	Values map[string]any
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithMarkdownRenderer sets the renderer used by ModeHTML fields.
func WithMarkdownRenderer(parser interfaces.MarkdownParser, opts interfaces.ParseOptions) NormalizerOption {
	return func(n *Normalizer) {
		if parser != nil {
			n.renderer = parser
			n.renderOptions = opts
		}
	}
}

// WithNormalizerLogger sets the logger used for per-field diagnostics.
func WithNormalizerLogger(logger interfaces.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// Normalizer merges Markdown overrides into a base content tree.
type Normalizer struct {
	renderer      interfaces.MarkdownParser
	renderOptions interfaces.ParseOptions
	logger        interfaces.Logger
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		renderer: markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Normalize merges overrides into base using a default Normalizer.
func Normalize(base Value, overrides []Override) (Value, error) {
	return NewNormalizer().Normalize(base, overrides)
}

// Normalize returns a copy of base with every override applied in order.
// base is never modified. Fields whose section is absent from the source are
// left as they are.
func (n *Normalizer) Normalize(base Value, overrides []Override) (Value, error) {
	tree := base.Clone()

	for _, override := range overrides {
		target := SplitPath(override.Target)

		for _, key := range sortedScalarKeys(override.Values) {
			tree = setSegments(tree, appendPath(target, key), FromAny(override.Values[key]))
		}

		for _, field := range override.Fields {
			body, ok := override.Source.Get(field.Section)
			if !ok {
				continue
			}

			value, err := n.fieldValue(body, field.Mode)
			if err != nil {
				return Value{}, fmt.Errorf("content: override %s.%s: %w", override.Target, field.Field, err)
			}

			tree = setSegments(tree, appendPath(target, field.Field), value)
			n.logger.Debug("content.override.field",
				"target", override.Target,
				"field", field.Field,
				"section", field.Section,
				"mode", string(field.Mode),
			)
		}
	}

	return tree, nil
}

func (n *Normalizer) fieldValue(body string, mode FieldMode) (Value, error) {
	switch mode {
	case ModeParagraphs:
		return Strings(SplitParagraphs(body)...), nil
	case ModeHTML:
		html, err := n.renderer.ParseWithOptions([]byte(body), n.renderOptions)
		if err != nil {
			return Value{}, err
		}
		return String(strings.TrimSpace(string(html))), nil
	case ModeText, "":
		return String(body), nil
	default:
		return Value{}, fmt.Errorf("unknown field mode %q", mode)
	}
}

// SplitParagraphs splits text on blank-line boundaries into trimmed,
// non-empty paragraphs.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := []string{}
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

func appendPath(base []string, field string) []string {
	out := make([]string, 0, len(base)+2)
	out = append(out, base...)
	return append(out, SplitPath(field)...)
}

func sortedScalarKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key, value := range values {
		switch value.(type) {
		case map[string]any, map[any]any, []any, []string:
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
