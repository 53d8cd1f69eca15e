package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/templating"
)

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	PageID   string
	Output   string
	HTML     string
	Checksum string
	Duration time.Duration
}

// RenderDiagnostic records timing and soft failures for individual pages.
type RenderDiagnostic struct {
	PageID     string
	Output     string
	Duration   time.Duration
	Unresolved []templating.Unresolved
	Missing    []string
	Err        error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
}

// pageComposer is the subset of pages.Composer used by the build.
type pageComposer interface {
	ComposePage(page pages.Page) (*pages.Composition, error)
}

func renderPage(ctx context.Context, composer pageComposer, page pages.Page, output string) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{PageID: page.ID, Output: output},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	start := time.Now()
	composition, err := composer.ComposePage(page)
	elapsed := time.Since(start)
	outcome.diagnostic.Duration = elapsed
	if err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	outcome.diagnostic.Unresolved = composition.Unresolved
	outcome.diagnostic.Missing = composition.Missing
	outcome.page = RenderedPage{
		PageID:   page.ID,
		Output:   output,
		HTML:     composition.HTML,
		Checksum: computeHashFromString(composition.HTML),
		Duration: elapsed,
	}
	return outcome
}

func computeHashFromString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
