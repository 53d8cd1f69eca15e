package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-sitegen/pkg/generator"
)

type treeSource struct {
	tree generator.Value
}

func (s treeSource) Load(context.Context) (generator.Value, error) {
	return s.tree, nil
}

func TestNewServiceBuildsWithHostCollaborators(t *testing.T) {
	tree, err := generator.DecodeJSON(strings.NewReader(`{"site":{"title":"Quayside"},"hero":{"title":"Welcome aboard"}}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	out := t.TempDir()
	cfg := generator.Config{OutputDir: out, Pages: generator.DefaultPagesConfig()}
	cfg.Pages.Pages = cfg.Pages.Pages[:1]
	cfg.Pages.Pages[0].Fragments = []string{"hero"}

	svc := generator.NewService(cfg, generator.Dependencies{
		Content: treeSource{tree: tree},
		Fragments: generator.NewFragmentStore(fstest.MapFS{
			"header.html": {Data: []byte("<title>{{site.title}}</title>")},
			"hero.html":   {Data: []byte("<h1>{{hero.title}}</h1>")},
			"footer.html": {Data: []byte("</html>")},
		}),
		Storage: generator.NewFileStorage(out),
	})

	result, err := svc.Build(context.Background(), generator.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt != 1 {
		t.Fatalf("expected one page, got %d", result.PagesBuilt)
	}
	data, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if got, want := string(data), "<title>Quayside</title><h1>Welcome aboard</h1></html>"; got != want {
		t.Fatalf("index.html = %q, want %q", got, want)
	}
}

func TestNewServiceWithoutContent(t *testing.T) {
	svc := generator.NewService(generator.Config{OutputDir: t.TempDir()}, generator.Dependencies{})
	if _, err := svc.Build(context.Background(), generator.BuildOptions{}); err == nil {
		t.Fatal("expected error without a content source")
	}
}
