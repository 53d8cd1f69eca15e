package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Document is a Markdown override source after front matter extraction and
// section parsing.
type Document struct {
	FilePath     string
	FrontMatter  interfaces.FrontMatter
	Body         []byte
	Sections     Sections
	LastModified time.Time
	Checksum     []byte
}

// ParseFrontMatter splits source into its metadata block and Markdown body.
// Sources without front matter return an empty FrontMatter and the original
// bytes.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument parses source into a Document. Sections are computed eagerly
// because every consumer needs them.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		Sections:     ParseSections(string(body)),
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title"`
	Target string         `yaml:"target"`
	Draft  bool           `yaml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := make(map[string]any, len(env.Custom)+3)
	maps.Copy(raw, env.Custom)

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Target != "" {
		raw["target"] = env.Target
	}
	if env.Draft {
		raw["draft"] = true
	}

	return interfaces.FrontMatter{
		Title:  env.Title,
		Target: env.Target,
		Draft:  env.Draft,
		Raw:    raw,
	}
}
