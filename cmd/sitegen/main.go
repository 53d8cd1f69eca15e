package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitegen"
	buildcmd "github.com/goliatone/go-sitegen/internal/commands/build"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging/console"
	"github.com/goliatone/go-sitegen/internal/markdown"
)

type buildExecutor interface {
	Execute(ctx context.Context, msg buildcmd.BuildSiteCommand) error
}

type cleanExecutor interface {
	Execute(ctx context.Context, msg buildcmd.CleanSiteCommand) error
}

type handlerSet struct {
	build buildExecutor
	clean cleanExecutor
}

type moduleOptions struct {
	configPath string
	source     string
	output     string
	singlePage bool
	workers    int
	setWorkers bool
	logLevel   string
	logOutput  io.Writer
}

type moduleResources struct {
	handlers  handlerSet
	outputDir string
}

var moduleBuilder = buildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := newRootCommand(out, errOut)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := moduleOptions{logOutput: errOut}
	var dryRun bool

	root := &cobra.Command{
		Use:           "sitegen [command] [flags]",
		Short:         "Assemble a static site from JSON data, Markdown overrides and HTML fragments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts, dryRun, out)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: <source>/"+sitegen.DefaultConfigFile+" when present)")
	flags.StringVarP(&opts.source, "source", "s", "", "site source directory")
	flags.StringVarP(&opts.output, "output", "o", "", "output directory")
	flags.BoolVar(&opts.singlePage, "single-page", false, "build one index.html holding every section")
	flags.IntVar(&opts.workers, "workers", 0, "concurrent page renders (negative uses every CPU)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "render pages without writing output")

	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		opts.setWorkers = cmd.Flags().Changed("workers")
	}

	build := &cobra.Command{
		Use:   "build",
		Short: "Build the site (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts, dryRun, out)
		},
	}
	build.Flags().BoolVar(&dryRun, "dry-run", false, "render pages without writing output")

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Remove every generated file from the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd, opts, out)
		},
	}

	var file string
	sections := &cobra.Command{
		Use:   "sections",
		Short: "Print the sections of a Markdown override document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSections(file, out)
		},
	}
	sections.Flags().StringVarP(&file, "file", "f", "", "Markdown document to inspect")
	_ = sections.MarkFlagRequired("file")

	root.AddCommand(build, clean, sections)
	return root
}

func runBuild(cmd *cobra.Command, opts moduleOptions, dryRun bool, out io.Writer) error {
	resources, err := moduleBuilder(opts)
	if err != nil {
		return err
	}
	if resources.handlers.build == nil {
		return errors.New("build handler not configured")
	}

	fmt.Fprintln(out, "Building site...")
	var result *generator.BuildResult
	err = resources.handlers.build.Execute(cmd.Context(), buildcmd.BuildSiteCommand{
		DryRun: dryRun,
		Reason: "cli",
		ResultCallback: func(env buildcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if result != nil {
		printDiagnostics(out, result)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return errors.New("build finished without a result")
	}
	printSummary(out, result, resources.outputDir)
	return nil
}

func printDiagnostics(out io.Writer, result *generator.BuildResult) {
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			fmt.Fprintf(out, "Failed: %s (%v)\n", displayPath(diag.Output), diag.Err)
			continue
		}
		for _, name := range diag.Missing {
			fmt.Fprintf(out, "Warning: %s: fragment %q not found\n", displayPath(diag.Output), name)
		}
	}
}

func printSummary(out io.Writer, result *generator.BuildResult, outputDir string) {
	verb := "Generated"
	if result.DryRun {
		verb = "Rendered"
	}
	for _, page := range result.Rendered {
		fmt.Fprintf(out, "%s: %s\n", verb, displayPath(page.Output))
	}
	if result.DryRun {
		fmt.Fprintf(out, "Dry run: %d pages rendered, nothing written\n", result.PagesBuilt)
		return
	}
	fmt.Fprintf(out, "Build completed successfully! %d pages, %d assets in %s\n",
		result.PagesBuilt, result.AssetsCopied, result.Duration.Round(time.Millisecond))
	if outputDir != "" {
		fmt.Fprintf(out, "Output directory: %s\n", outputDir)
	}
}

func displayPath(output string) string {
	if output == "" {
		return ""
	}
	return filepath.Base(filepath.FromSlash(output))
}

func runClean(cmd *cobra.Command, opts moduleOptions, out io.Writer) error {
	resources, err := moduleBuilder(opts)
	if err != nil {
		return err
	}
	if resources.handlers.clean == nil {
		return errors.New("clean handler not configured")
	}
	if err := resources.handlers.clean.Execute(cmd.Context(), buildcmd.CleanSiteCommand{Confirm: true}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleaned: %s\n", resources.outputDir)
	return nil
}

func runSections(file string, out io.Writer) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	doc, err := markdown.BuildDocument(file, data, time.Time{})
	if err != nil {
		return err
	}
	if title := doc.FrontMatter.Title; title != "" {
		fmt.Fprintf(out, "title\t%q\n", title)
	}
	for _, key := range doc.Sections.Keys() {
		body, _ := doc.Sections.Get(key)
		fmt.Fprintf(out, "# %s\t%q\n", key, body)
	}
	return nil
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	siteOpts := []sitegen.Option{}
	if !strings.EqualFold(strings.TrimSpace(cfg.Logging.Provider), "gologger") {
		level, _ := console.ParseLevel(cfg.Logging.Level)
		siteOpts = append(siteOpts, sitegen.WithLoggerProvider(console.NewProvider(console.Options{
			Writer:     opts.logOutput,
			TimeFormat: "15:04:05.000",
			MinLevel:   &level,
		})))
	}

	site, err := sitegen.New(cfg, siteOpts...)
	if err != nil {
		return nil, err
	}
	handlers := site.Container().Handlers()
	return &moduleResources{
		handlers: handlerSet{
			build: handlers.Build,
			clean: handlers.Clean,
		},
		outputDir: cfg.Resolve(cfg.Generator.OutputDir),
	}, nil
}

func loadConfig(opts moduleOptions) (sitegen.Config, error) {
	source := strings.TrimSpace(opts.source)
	if source == "" {
		source = "."
	}

	var (
		cfg sitegen.Config
		err error
	)
	if path := strings.TrimSpace(opts.configPath); path != "" {
		cfg, err = sitegen.LoadConfig(path)
	} else {
		cfg, err = sitegen.LoadConfigOptional(filepath.Join(source, sitegen.DefaultConfigFile))
	}
	if err != nil {
		return sitegen.Config{}, err
	}

	if opts.source != "" || cfg.Source == "" || cfg.Source == "." {
		cfg.Source = source
	}
	if output := strings.TrimSpace(opts.output); output != "" {
		abs, err := filepath.Abs(output)
		if err != nil {
			return sitegen.Config{}, err
		}
		cfg.Generator.OutputDir = abs
	}
	if opts.singlePage {
		cfg.Pages.SinglePage = true
	}
	if opts.setWorkers {
		cfg.Generator.Workers = opts.workers
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}
