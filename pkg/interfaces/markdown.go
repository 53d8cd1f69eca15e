package interfaces

// MarkdownParser converts Markdown bytes into HTML. Implementations must be
// safe to reuse across documents.
type MarkdownParser interface {
	// Parse renders Markdown using the parser's default options.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions renders Markdown using the supplied options.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions tunes Markdown rendering. Field names stay flat so they map
// directly onto configuration files and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// FrontMatter holds the metadata block found at the top of a Markdown
// override document. Raw keeps every decoded key so callers can project
// arbitrary scalar values into the content tree.
type FrontMatter struct {
	Title  string         `yaml:"title" json:"title"`
	Target string         `yaml:"target" json:"target"`
	Draft  bool           `yaml:"draft" json:"draft"`
	Raw    map[string]any `yaml:"-" json:"raw"`
}
