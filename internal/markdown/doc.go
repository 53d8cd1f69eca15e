// Package markdown reads the Markdown documents that override site content.
// Documents are split into heading-keyed sections, may carry YAML front
// matter, and can be rendered to HTML with goldmark.
package markdown
