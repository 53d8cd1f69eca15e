package pages

import (
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-sitegen/internal/content"
)

const (
	activeClass   = "active"
	currentMarker = "page"
	homeAnchor    = "#home"
)

// NavItem is one entry of the site navigation.
type NavItem struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// DefaultNavigation is the navigation used when none is configured.
func DefaultNavigation() []NavItem {
	return []NavItem{
		{ID: "index", Label: "Home"},
		{ID: "services", Label: "Services"},
		{ID: "about", Label: "About"},
		{ID: "research", Label: "Research"},
		{ID: "contact", Label: "Contact"},
	}
}

// Linker computes hrefs for page identifiers.
type Linker struct {
	HomeID     string
	HomeHref   string
	SinglePage bool
}

// Href returns the link target for id. Separate documents link to
// "<id>.html" and the home page links to HomeHref; in single page mode links
// become in-page anchors.
func (l Linker) Href(id string) string {
	if l.SinglePage {
		if id == l.HomeID {
			return homeAnchor
		}
		return "#" + Anchor(id)
	}
	if id == l.HomeID {
		return l.HomeHref
	}
	return id + ".html"
}

// Anchor turns a page identifier into a fragment identifier.
func Anchor(id string) string {
	normalized, err := slug.Normalize(id)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.TrimSpace(id))
	}
	return normalized
}

// Navigation builds the navigation sequence exposed to templates. Exactly
// the entry whose id equals active is marked.
func Navigation(items []NavItem, active string, linker Linker) content.Value {
	entries := make([]content.Value, 0, len(items))
	for _, item := range items {
		class, current := "", ""
		if item.ID == active {
			class, current = activeClass, currentMarker
		}

		entry := content.NewMapping()
		entry.Set("id", content.String(item.ID))
		entry.Set("label", content.String(item.Label))
		entry.Set("href", content.String(linker.Href(item.ID)))
		entry.Set("class", content.String(class))
		entry.Set("current", content.String(current))
		entries = append(entries, content.FromMapping(entry))
	}
	return content.Sequence(entries...)
}
