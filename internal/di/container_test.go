package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	buildcmd "github.com/goliatone/go-sitegen/internal/commands/build"
	"github.com/goliatone/go-sitegen/internal/commands/fixtures"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"data/site-config.json": {Data: []byte(`{"site": {"title": "Harbor Labs"}, "contact": {"email": "hi@harbor.test", "phone": "(555) 010-0100"}}`)},
		"data/content.json":     {Data: []byte(`{"hero": {"title": "Base title", "subtitle": "Base subtitle"}, "about": {"title": "About", "paragraphs": ["old"]}}`)},
		"content/hero.md":       {Data: []byte("# Main Title\nShipping calm software\n")},
		"content/about.md":      {Data: []byte("# Content\nFirst.\n\nSecond.\n")},
		"templates/header.html": {Data: []byte("<h1>{{site.title}}</h1>")},
		"templates/footer.html": {Data: []byte("<a href=\"{{links.phone}}\">call</a>")},
		"templates/hero.html":   {Data: []byte("<p>{{hero.title}} / {{hero.subtitle}}</p>")},
		"templates/about.html":  {Data: []byte("{{#about.paragraphs}}<p>{{.}}</p>{{/about.paragraphs}}")},
		"styles/site.css":       {Data: []byte("body{}")},
	}
}

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.OutputDir = t.TempDir()
	cfg.Pages.Pages = []runtimeconfig.PageConfig{
		{ID: "index", Fragments: []string{"hero", "about"}},
		{ID: "about", Fragments: []string{"about"}},
	}
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.OutputDir = ""

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrOutputDirRequired) {
		t.Fatalf("expected ErrOutputDirRequired, got %v", err)
	}
}

func TestContainerLoadsContentWithOverrides(t *testing.T) {
	container, err := di.NewContainer(testConfig(t), di.WithSourceFS(siteFS()), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	tree, err := container.ContentLoader().Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := tree.Lookup("hero.title").Value.Text(); got != "Shipping calm software" {
		t.Fatalf("expected hero override, got %q", got)
	}
	if got, _ := tree.Lookup("hero.subtitle").Value.Text(); got != "Base subtitle" {
		t.Fatalf("expected untouched subtitle, got %q", got)
	}
	paragraphs := tree.Lookup("about.paragraphs").Value
	if paragraphs.Kind() != content.KindSequence || paragraphs.Len() != 2 {
		t.Fatalf("expected two paragraphs, got %v", paragraphs.Interface())
	}
}

func TestContainerBuildsSite(t *testing.T) {
	cfg := testConfig(t)
	container, err := di.NewContainer(cfg, di.WithSourceFS(siteFS()), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	result, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt != 2 || result.AssetsCopied != 1 {
		t.Fatalf("unexpected result pages=%d assets=%d", result.PagesBuilt, result.AssetsCopied)
	}

	index, err := os.ReadFile(filepath.Join(cfg.Generator.OutputDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	want := `<h1>Harbor Labs</h1><p>Shipping calm software / Base subtitle</p><p>First.</p><p>Second.</p><a href="tel:5550100100">call</a>`
	if string(index) != want {
		t.Fatalf("index mismatch\n got: %s\nwant: %s", index, want)
	}
	if _, err := os.Stat(filepath.Join(cfg.Generator.OutputDir, "styles", "site.css")); err != nil {
		t.Fatalf("expected copied stylesheet: %v", err)
	}
}

func TestContainerFallsBackToEmbeddedFragments(t *testing.T) {
	source := siteFS()
	for name := range source {
		if strings.HasPrefix(name, "templates/") {
			delete(source, name)
		}
	}
	cfg := testConfig(t)
	container, err := di.NewContainer(cfg, di.WithSourceFS(source), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	text, ok, err := container.Fragments().Fragment("services")
	if err != nil || !ok || text == "" {
		t.Fatalf("expected embedded services fragment, got ok=%v err=%v", ok, err)
	}
}

func TestContainerMissingPrimaryDataIsFatal(t *testing.T) {
	source := siteFS()
	delete(source, "data/site-config.json")

	container, err := di.NewContainer(testConfig(t), di.WithSourceFS(source), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	_, err = container.GeneratorService().Build(context.Background(), generator.BuildOptions{})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
}

func TestContainerRegistersCommands(t *testing.T) {
	registry := fixtures.NewRecordingRegistry()
	container, err := di.NewContainer(testConfig(t),
		di.WithSourceFS(siteFS()),
		di.WithLoggerProvider(newRecordingProvider()),
		di.WithCommandRegistry(registry),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if len(registry.Handlers) != 2 {
		t.Fatalf("expected 2 registered handlers, got %d", len(registry.Handlers))
	}

	var result *generator.BuildResult
	err = container.Handlers().Build.Execute(context.Background(), buildcmd.BuildSiteCommand{
		DryRun: true,
		ResultCallback: func(env buildcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result == nil || !result.DryRun || result.PagesBuilt != 2 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
}

func TestContainerCustomSchema(t *testing.T) {
	source := siteFS()
	source["schema.json"] = &fstest.MapFile{Data: []byte(`{
		"type": "object",
		"required": ["research"]
	}`)}
	cfg := testConfig(t)
	cfg.Content.SchemaFile = "schema.json"

	container, err := di.NewContainer(cfg, di.WithSourceFS(source), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	_, err = container.ContentLoader().Load(context.Background())
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestContainerExposesMarkdownCollaborators(t *testing.T) {
	cfg := testConfig(t)
	cfg.Markdown.Parser.Extensions = []string{"table"}
	container, err := di.NewContainer(cfg, di.WithSourceFS(siteFS()), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	doc, ok, err := container.Documents().Lookup(context.Background(), "hero")
	if err != nil || !ok {
		t.Fatalf("Lookup hero: ok=%v err=%v", ok, err)
	}
	if body, _ := doc.Sections.Get("Main Title"); body != "Shipping calm software" {
		t.Fatalf("unexpected hero section %q", body)
	}
	if _, ok, err := container.Documents().Lookup(context.Background(), "contact"); ok || err != nil {
		t.Fatalf("expected missing contact document to be absent, ok=%v err=%v", ok, err)
	}

	html, err := container.MarkdownParser().Parse([]byte("| a |\n|---|\n| 1 |\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Fatalf("expected configured table extension, got %q", html)
	}
}
