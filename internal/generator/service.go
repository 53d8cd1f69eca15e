package generator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	// ErrContentRequired indicates the generator was built without a content source.
	ErrContentRequired = errors.New("generator: content source is required")
	// ErrOutputDirRequired indicates a write was attempted without an output directory.
	ErrOutputDirRequired = errors.New("generator: output directory is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir  string
	CleanBuild bool
	CopyAssets bool
	// Workers bounds concurrent page renders. Zero renders sequentially and
	// a negative value uses one worker per CPU.
	Workers int
	Pages   pages.Config
}

// BuildOptions narrows the behaviour of a single generator run.
type BuildOptions struct {
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID      string
	PagesBuilt   int
	AssetsCopied int
	Duration     time.Duration
	Rendered     []RenderedPage
	Diagnostics  []RenderDiagnostic
	DryRun       bool
}

// ContentSource produces the content tree for a build.
type ContentSource interface {
	Load(ctx context.Context) (content.Value, error)
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Content   ContentSource
	Fragments pages.FragmentSource
	Storage   Storage
	Assets    AssetPublisher
	Logger    interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if deps.Storage == nil && strings.TrimSpace(cfg.OutputDir) != "" {
		deps.Storage = NewFileStorage(cfg.OutputDir)
	}
	if deps.Assets == nil {
		deps.Assets = NoOpAssetPublisher{}
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Content == nil {
		return nil, ErrContentRequired
	}
	if !opts.DryRun && s.deps.Storage == nil {
		return nil, ErrOutputDirRequired
	}

	start := time.Now()
	result := &BuildResult{
		BuildID: uuid.NewString(),
		DryRun:  opts.DryRun,
	}
	logger := logging.WithBuildContext(s.logger.WithContext(ctx), result.BuildID, "")
	logger.Info("generator.build.start",
		"output_dir", s.cfg.OutputDir,
		"dry_run", opts.DryRun,
	)

	tree, err := s.deps.Content.Load(ctx)
	if err != nil {
		logger.Error("generator.build.content_failed", "error", err)
		return nil, err
	}

	composer := pages.NewComposer(tree, s.deps.Fragments, s.cfg.Pages,
		pages.WithComposerLogger(logger),
		pages.WithClock(s.now),
	)
	pageList := composer.Pages()
	outcomes := s.renderAll(ctx, composer, pageList)

	var (
		rendered    = make([]RenderedPage, 0, len(outcomes))
		errorsSlice []error
	)
	result.Diagnostics = make([]RenderDiagnostic, 0, len(outcomes))
	for _, outcome := range outcomes {
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: page %s: %w", outcome.diagnostic.PageID, outcome.err))
			continue
		}
		if n := len(outcome.diagnostic.Unresolved); n > 0 {
			logging.WithBuildContext(logger, "", outcome.page.PageID).Debug("generator.page.unresolved", "markers", n)
		}
		rendered = append(rendered, outcome.page)
	}

	if len(errorsSlice) > 0 {
		result.Duration = time.Since(start)
		err := errors.Join(errorsSlice...)
		logger.Error("generator.build.failed", "error", err)
		return result, err
	}

	result.PagesBuilt = len(rendered)
	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		logger.Info("generator.build.dry_run", "pages", result.PagesBuilt)
		return result, nil
	}

	if s.cfg.CleanBuild {
		if err := s.deps.Storage.RemoveAll(ctx, ""); err != nil {
			return result, fmt.Errorf("generator: clean output: %w", err)
		}
	}

	writer := newArtifactWriter(s.deps.Storage)
	if err := s.persistPages(ctx, writer, rendered, logger); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.Rendered = rendered

	if s.cfg.CopyAssets {
		copied, err := s.deps.Assets.Publish(ctx, s.deps.Storage)
		result.AssetsCopied = copied
		if err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("generator: copy assets: %w", err)
		}
	}

	result.Duration = time.Since(start)
	logger.Info("generator.build.complete",
		"pages", result.PagesBuilt,
		"assets", result.AssetsCopied,
		"duration", result.Duration.String(),
	)
	return result, nil
}

// renderAll composes every page and returns outcomes in page order,
// whatever order the workers finish in.
func (s *service) renderAll(ctx context.Context, composer pageComposer, pageList []pages.Page) []renderOutcome {
	outcomes := make([]renderOutcome, len(pageList))
	outputs := make([]string, len(pageList))
	for i, page := range pageList {
		outputs[i] = joinOutputPath(s.cfg.OutputDir, outputPath(page.ID, s.homeID()))
	}

	workerCount := s.effectiveWorkerCount(len(pageList))
	if workerCount <= 1 {
		for i, page := range pageList {
			outcomes[i] = renderPage(ctx, composer, page, outputs[i])
		}
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = renderPage(ctx, composer, pageList[i], outputs[i])
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(pageList); next++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(pageList); i++ {
		outcomes[i] = renderOutcome{
			diagnostic: RenderDiagnostic{PageID: pageList[i].ID, Output: outputs[i], Err: ctx.Err()},
			err:        ctx.Err(),
		}
	}
	return outcomes
}

func (s *service) persistPages(ctx context.Context, writer artifactWriter, rendered []RenderedPage, logger interfaces.Logger) error {
	if err := writer.EnsureDir(ctx, "."); err != nil {
		return err
	}
	for i := range rendered {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := outputPath(rendered[i].PageID, s.homeID())
		req := writeFileRequest{
			Path:     rel,
			Content:  strings.NewReader(rendered[i].HTML),
			Size:     int64(len(rendered[i].HTML)),
			Category: categoryPage,
			Checksum: rendered[i].Checksum,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return fmt.Errorf("generator: write page %s: %w", rendered[i].PageID, err)
		}
		logging.WithBuildContext(logger, "", rendered[i].PageID).Debug("generator.page.written",
			"output", rendered[i].Output,
			"bytes", req.Size,
		)
	}
	return nil
}

// Clean removes every artifact from the output directory.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Storage == nil {
		return ErrOutputDirRequired
	}
	if err := s.deps.Storage.RemoveAll(ctx, ""); err != nil {
		return fmt.Errorf("generator: clean output: %w", err)
	}
	s.logger.Info("generator.clean.complete", "output_dir", s.cfg.OutputDir)
	return nil
}

func (s *service) homeID() string {
	if s.cfg.Pages.HomeID != "" {
		return s.cfg.Pages.HomeID
	}
	return pages.DefaultHomeID
}

func (s *service) effectiveWorkerCount(pageCount int) int {
	workers := s.cfg.Workers
	if workers < 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}
