package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	rootModule       = "sitegen"
	contentModule    = "sitegen.content"
	markdownModule   = "sitegen.markdown"
	templatingModule = "sitegen.templating"
	pagesModule      = "sitegen.pages"
	generatorModule  = "sitegen.generator"
)

// Structured field names shared by every module.
const (
	FieldSourcePath = "source_path"
	FieldTarget     = "target"
	FieldPageID     = "page_id"
	FieldBuildID    = "build_id"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil. The module name is attached as a field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger for content loading and normalization.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// MarkdownLogger returns the logger for override document handling.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// TemplatingLogger returns the logger for fragment loading and rendering.
func TemplatingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, templatingModule)
}

// PagesLogger returns the logger for page composition.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// GeneratorLogger returns the logger for build runs.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// WithSourceContext tags logger with the content source path and the tree
// path it feeds. Empty values are skipped.
func WithSourceContext(logger interfaces.Logger, path, target string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[FieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(target); trimmed != "" {
		fields[FieldTarget] = trimmed
	}
	return WithFields(logger, fields)
}

// WithBuildContext tags logger with the build run and, when set, the page.
func WithBuildContext(logger interfaces.Logger, buildID, pageID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(buildID); trimmed != "" {
		fields[FieldBuildID] = trimmed
	}
	if trimmed := strings.TrimSpace(pageID); trimmed != "" {
		fields[FieldPageID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
