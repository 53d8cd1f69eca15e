package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func heroFields() []FieldMap {
	return []FieldMap{
		{Field: "title", Section: "Main Title", Mode: ModeText},
		{Field: "subtitle", Section: "Subtitle", Mode: ModeText},
		{Field: "cta_text", Section: "Call To Action", Mode: ModeText},
	}
}

func TestNormalizeHeroOverride(t *testing.T) {
	base := mustJSON(t, `{"hero":{"title":"X","subtitle":"Y"}}`)
	override := Override{
		Target: "hero",
		Source: markdown.ParseSections("# Main Title\nNewTitle\n\n# Subtitle\nNewSub"),
		Fields: heroFields(),
	}

	tree, err := Normalize(base, []Override{override})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if got, _ := tree.Lookup("hero.title").Value.Text(); got != "NewTitle" {
		t.Fatalf("expected hero.title NewTitle, got %q", got)
	}
	if got, _ := tree.Lookup("hero.subtitle").Value.Text(); got != "NewSub" {
		t.Fatalf("expected hero.subtitle NewSub, got %q", got)
	}
	if res := tree.Lookup("hero.cta_text"); res.Status != MissingPath {
		t.Fatalf("expected absent section to leave cta_text unset, got %s", res.Status)
	}
	if got, _ := base.Lookup("hero.title").Value.Text(); got != "X" {
		t.Fatalf("expected base to be unchanged, got %q", got)
	}
}

func TestNormalizeAboutParagraphs(t *testing.T) {
	base := mustJSON(t, `{"about":{"title":"About","paragraphs":["old one","old two","old three","old four"]}}`)
	body := "# Content\n  First paragraph.  \n\nSecond paragraph\nspans lines.\n\n\n\nThird paragraph.\n"
	override := Override{
		Target: "about",
		Source: markdown.ParseSections(body),
		Fields: []FieldMap{{Field: "paragraphs", Section: "Content", Mode: ModeParagraphs}},
	}

	tree, err := Normalize(base, []Override{override})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	paragraphs := tree.Lookup("about.paragraphs").Value
	if paragraphs.Kind() != KindSequence {
		t.Fatalf("expected sequence, got %s", paragraphs.Kind())
	}
	want := []string{"First paragraph.", "Second paragraph\nspans lines.", "Third paragraph."}
	items := paragraphs.Items()
	if len(items) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d", len(want), len(items))
	}
	for i, item := range items {
		if got, _ := item.Text(); got != want[i] {
			t.Fatalf("paragraph %d: got %q want %q", i, got, want[i])
		}
	}
	if got, _ := tree.Lookup("about.title").Value.Text(); got != "About" {
		t.Fatalf("expected title untouched, got %q", got)
	}
}

func TestNormalizeWithoutOverrides(t *testing.T) {
	base := mustJSON(t, `{"hero":{"title":"X"},"list":[1,2]}`)

	for name, overrides := range map[string][]Override{
		"nil":           nil,
		"empty source":  {{Target: "hero", Fields: heroFields()}},
		"no fields":     {{Target: "hero", Source: markdown.ParseSections("# Main Title\nZ")}},
		"unknown heads": {{Target: "hero", Source: markdown.ParseSections("# Other\nZ"), Fields: heroFields()}},
	} {
		t.Run(name, func(t *testing.T) {
			tree, err := Normalize(base, overrides)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if !tree.Equal(base) {
				t.Fatalf("expected tree to equal base")
			}
		})
	}
}

func TestNormalizeCreatesIntermediates(t *testing.T) {
	base := mustJSON(t, `{"research":"pending"}`)
	override := Override{
		Target: "research.intro",
		Source: markdown.ParseSections("# Title\nResearch"),
		Fields: []FieldMap{{Field: "title", Section: "Title"}},
	}

	tree, err := Normalize(base, []Override{override})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got, _ := tree.Lookup("research.intro.title").Value.Text(); got != "Research" {
		t.Fatalf("expected research.intro.title, got %q", got)
	}
}

func TestNormalizeFrontMatterValues(t *testing.T) {
	base := mustJSON(t, `{"hero":{"title":"X"}}`)
	override := Override{
		Target: "hero",
		Source: markdown.ParseSections("# Main Title\nFrom section"),
		Fields: heroFields(),
		Values: map[string]any{
			"title":  "From front matter",
			"badge":  "New",
			"nested": map[string]any{"ignored": true},
		},
	}

	tree, err := Normalize(base, []Override{override})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got, _ := tree.Lookup("hero.title").Value.Text(); got != "From section" {
		t.Fatalf("expected sections to win over front matter, got %q", got)
	}
	if got, _ := tree.Lookup("hero.badge").Value.Text(); got != "New" {
		t.Fatalf("expected front matter scalar to be written, got %q", got)
	}
	if tree.Lookup("hero.nested").OK() {
		t.Fatalf("expected non-scalar front matter to be skipped")
	}
}

func TestNormalizeHTMLMode(t *testing.T) {
	base := mustJSON(t, `{"about":{}}`)
	override := Override{
		Target: "about",
		Source: markdown.ParseSections("# Content\nHello **world** <script>x()</script>"),
		Fields: []FieldMap{{Field: "html", Section: "Content", Mode: ModeHTML}},
	}

	normalizer := NewNormalizer(WithMarkdownRenderer(
		markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		interfaces.ParseOptions{Sanitize: true},
	))
	tree, err := normalizer.Normalize(base, []Override{override})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	got, _ := tree.Lookup("about.html").Value.Text()
	if !strings.HasPrefix(got, "<p>") || !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered paragraph, got %q", got)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected sanitized output, got %q", got)
	}
}

type failingRenderer struct{}

func (failingRenderer) Parse([]byte) ([]byte, error) { return nil, errors.New("boom") }
func (failingRenderer) ParseWithOptions([]byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestNormalizeSurfacesRenderErrors(t *testing.T) {
	normalizer := NewNormalizer(WithMarkdownRenderer(failingRenderer{}, interfaces.ParseOptions{}))
	override := Override{
		Target: "about",
		Source: markdown.ParseSections("# Content\ntext"),
		Fields: []FieldMap{{Field: "html", Section: "Content", Mode: ModeHTML}},
	}

	if _, err := normalizer.Normalize(Null(), []Override{override}); err == nil {
		t.Fatalf("expected render error")
	}
}

func TestNormalizeUnknownMode(t *testing.T) {
	override := Override{
		Target: "about",
		Source: markdown.ParseSections("# Content\ntext"),
		Fields: []FieldMap{{Field: "x", Section: "Content", Mode: FieldMode("shout")}},
	}
	if _, err := Normalize(Null(), []Override{override}); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("one\r\n\r\ntwo\n\n \n\nthree")
	want := []string{"one", "two", "three"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", got, want)
	}
	if len(SplitParagraphs("   ")) != 0 {
		t.Fatalf("expected no paragraphs for blank text")
	}
}
