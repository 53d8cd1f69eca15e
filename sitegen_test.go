package sitegen_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/logging/console"
)

func quietProvider() sitegen.Option {
	level := console.LevelError
	return sitegen.WithLoggerProvider(console.NewProvider(console.Options{
		Writer:   &strings.Builder{},
		MinLevel: &level,
	}))
}

func TestSiteBuildEndToEnd(t *testing.T) {
	source := fstest.MapFS{
		"data/site-config.json": {Data: []byte(`{"site": {"title": "Harbor"}}`)},
		"data/content.json":     {Data: []byte(`{"hero": {"title": "Old", "subtitle": "Kept"}}`)},
		"content/hero.md":       {Data: []byte("---\nbadge: New\n---\n# Main Title\nFresh\n")},
		"templates/header.html": {Data: []byte("<title>{{page.title}} | {{site.title}}</title>")},
		"templates/footer.html": {Data: []byte("<footer>{{build.year}}</footer>")},
		"templates/hero.html":   {Data: []byte("<h1>{{hero.title}}</h1><p>{{hero.subtitle}}</p><span>{{hero.badge}}</span>")},
	}

	cfg := sitegen.DefaultConfig()
	cfg.Generator.OutputDir = t.TempDir()
	cfg.Pages.Pages = []sitegen.PageConfig{{ID: "index", Fragments: []string{"hero"}}}

	site, err := sitegen.New(cfg, sitegen.WithSourceFS(source), quietProvider())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := site.Build(context.Background(), sitegen.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt != 1 {
		t.Fatalf("expected one page, got %d", result.PagesBuilt)
	}

	html, err := os.ReadFile(filepath.Join(cfg.Generator.OutputDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, want := range []string{"<title>Home | Harbor</title>", "<h1>Fresh</h1>", "<p>Kept</p>", "<span>New</span>", "<footer>"} {
		if !strings.Contains(string(html), want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}

	if err := site.Clean(context.Background()); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Generator.OutputDir, "index.html")); !os.IsNotExist(err) {
		t.Fatalf("expected index.html to be removed, got %v", err)
	}
}

func TestParseSectionsAndRender(t *testing.T) {
	sections := sitegen.ParseSections("# Title\nWelcome\n# Body\nHello\n")
	tree, err := content.Normalize(content.FromMapping(content.NewMapping()), []content.Override{{
		Target: "page",
		Source: sections,
		Fields: []content.FieldMap{
			{Field: "title", Section: "Title"},
			{Field: "body", Section: "Body"},
		},
	}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	got := sitegen.Render("<h1>{{page.title}}</h1><p>{{page.body}}</p>{{page.missing}}", tree)
	if want := "<h1>Welcome</h1><p>Hello</p>{{page.missing}}"; got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := sitegen.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := sitegen.New(cfg); err == nil {
		t.Fatal("expected invalid logging provider to be rejected")
	}
}
