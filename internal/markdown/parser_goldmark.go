package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// DefaultExtensions are enabled when ParseOptions names none.
var DefaultExtensions = []string{"gfm", "linkify", "tasklist"}

// GoldmarkParser implements interfaces.MarkdownParser using goldmark. Engines
// are built once per distinct option set and shared between build workers.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
	policy   *bluemonday.Policy
	engines  sync.Map // engineKey -> goldmark.Markdown
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

// NewGoldmarkParser returns a parser that renders with defaults unless a
// call supplies its own options.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaults: defaults,
		policy:   bluemonday.UGCPolicy(),
	}
}

func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions renders markdown with opts. Sanitize runs the output
// through a user generated content policy; SafeMode drops raw HTML before
// rendering.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.engine(opts).Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	if !opts.Sanitize {
		return buf.Bytes(), nil
	}
	return p.policy.SanitizeBytes(buf.Bytes()), nil
}

type engineKey struct {
	extensions string
	hardWraps  bool
	safeMode   bool
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	names := extensionNames(opts.Extensions)
	key := engineKey{
		extensions: strings.Join(names, ","),
		hardWraps:  opts.HardWraps,
		safeMode:   opts.SafeMode,
	}
	if cached, ok := p.engines.Load(key); ok {
		return cached.(goldmark.Markdown)
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		extenders = append(extenders, extensionRegistry[name])
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	actual, _ := p.engines.LoadOrStore(key, engine)
	return actual.(goldmark.Markdown)
}

// extensionNames normalizes requested extension names, dropping unknown and
// repeated entries while keeping request order.
func extensionNames(requested []string) []string {
	if len(requested) == 0 {
		requested = DefaultExtensions
	}
	names := make([]string, 0, len(requested))
	for _, name := range requested {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, known := extensionRegistry[key]; !known || slices.Contains(names, key) {
			continue
		}
		names = append(names, key)
	}
	return names
}

// SupportedExtensions lists the extension names accepted in configuration.
func SupportedExtensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
