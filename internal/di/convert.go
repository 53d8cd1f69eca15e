package di

import (
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

func dataSources(files []runtimeconfig.DataFileConfig) []content.DataSource {
	sources := make([]content.DataSource, 0, len(files))
	for _, file := range files {
		sources = append(sources, content.DataSource{
			Name:     cleanRel(file.Name),
			Optional: file.Optional,
		})
	}
	return sources
}

func overrideSources(overrides []runtimeconfig.OverrideConfig) []content.OverrideSource {
	out := make([]content.OverrideSource, 0, len(overrides))
	for _, override := range overrides {
		target := strings.TrimSpace(override.Target)
		if target == "" {
			target = strings.TrimSpace(override.Document)
		}
		fields := make([]content.FieldMap, 0, len(override.Fields))
		for _, field := range override.Fields {
			mode := content.FieldMode(strings.ToLower(strings.TrimSpace(field.Mode)))
			if mode == "" {
				mode = content.ModeText
			}
			fields = append(fields, content.FieldMap{
				Field:   field.Field,
				Section: field.Section,
				Mode:    mode,
			})
		}
		out = append(out, content.OverrideSource{
			Document: cleanRel(override.Document),
			Target:   target,
			Fields:   fields,
		})
	}
	return out
}

func pagesConfig(cfg runtimeconfig.PagesConfig) pages.Config {
	out := pages.Config{
		HomeID:     cfg.HomeID,
		HomeHref:   cfg.HomeHref,
		SinglePage: cfg.SinglePage,
		Header:     cfg.Header,
		Footer:     cfg.Footer,
	}
	if cfg.Navigation != nil {
		out.Navigation = make([]pages.NavItem, 0, len(cfg.Navigation))
		for _, item := range cfg.Navigation {
			out.Navigation = append(out.Navigation, pages.NavItem{ID: item.ID, Label: item.Label})
		}
	}
	if cfg.Pages != nil {
		out.Pages = make([]pages.Page, 0, len(cfg.Pages))
		for _, page := range cfg.Pages {
			out.Pages = append(out.Pages, pages.Page{
				ID:        page.ID,
				Title:     page.Title,
				Fragments: append([]string(nil), page.Fragments...),
			})
		}
	}
	return out
}

// subFS roots fsys at dir. A directory that does not exist yields a
// filesystem where every lookup reports fs.ErrNotExist.
func subFS(fsys fs.FS, dir string) fs.FS {
	dir = cleanRel(dir)
	if dir == "." {
		return fsys
	}
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fsys
	}
	return sub
}

func cleanRel(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" {
		return "."
	}
	return name
}
