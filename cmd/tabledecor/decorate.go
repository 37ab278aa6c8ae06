package main

import (
	"context"
	"errors"
	"fmt"

	tabledecor "github.com/alnah/go-tabledecor"
	"github.com/alnah/go-tabledecor/internal/config"
)

// Sentinel errors for the decorate command.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrNoDocuments     = errors.New("no HTML or Markdown files found")
	ErrReadInput       = errors.New("failed to read input file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// decorateParams groups parameters shared across batch/file decoration.
type decorateParams struct {
	tableClass string
	markers    tabledecor.Markers
}

// runDecorate orchestrates the decoration of one file or a directory tree.
func runDecorate(ctx context.Context, positionalArgs []string, flags *decorateFlags, env *Environment) error {
	setVerbosity(env.Logger, flags.common.quiet, flags.common.verbose)

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Logger)

	cfg, err := loadLayeredConfig(flags.common.config, envCfg)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Merge CLI flags into config (CLI wins), then fill what is still empty
	mergeFlags(flags, cfg)
	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDocuments, inputPath)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	size := tabledecor.ResolvePoolSize(cfg.Workers)
	if size > len(files) {
		size = len(files)
	}
	env.Logger.WithField("workers", size).Debug("starting decorator pool")

	pool := env.NewPool(size, opts...)
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			env.Logger.WithError(cerr).Warn("closing decorator pool")
		}
	}()

	params := &decorateParams{
		tableClass: cfg.Markdown.TableClass,
		markers:    resolveMarkers(cfg),
	}

	results := decorateBatch(ctx, pool, files, params)

	failedCount := printResults(results, params, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d decoration(s) failed: %w", failedCount, firstError(results))
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *decorateFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.tableClass != "" {
		cfg.Markdown.TableClass = flags.tableClass
	}
	if len(flags.sections) > 0 {
		cfg.Sections = flags.sections
	}

	// Ruler flags
	if flags.ruler.hoverMode != "" {
		cfg.Ruler.Mode = flags.ruler.hoverMode
	}
	if flags.ruler.marker != "" {
		cfg.Ruler.Marker = flags.ruler.marker
	}
	if flags.ruler.dedupe {
		cfg.Ruler.Dedupe = true
	}
	if flags.ruler.disabled {
		cfg.Ruler.Disabled = true
	}

	// Stripe flags
	if flags.stripe.marker != "" {
		cfg.Stripe.Marker = flags.stripe.marker
	}
	if flags.stripe.disabled {
		cfg.Stripe.Disabled = true
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.CSS.Style = flags.assets.style
	}
	if flags.assets.noStyle {
		cfg.CSS.Disabled = true
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// buildOptions translates a merged config into decorator options.
func buildOptions(cfg *config.Config) ([]tabledecor.Option, error) {
	opts := []tabledecor.Option{
		tabledecor.WithMarkers(tabledecor.Markers{Ruler: cfg.Ruler.Marker, Stripe: cfg.Stripe.Marker}),
		tabledecor.WithHoverMode(tabledecor.HoverMode(cfg.Ruler.Mode)),
		tabledecor.WithDedupeRuled(cfg.Ruler.Dedupe),
	}

	if len(cfg.Sections) > 0 {
		sections := make([]tabledecor.Section, 0, len(cfg.Sections))
		for _, s := range cfg.Sections {
			sec, err := tabledecor.ParseSection(s)
			if err != nil {
				return nil, err
			}
			sections = append(sections, sec)
		}
		opts = append(opts, tabledecor.WithSections(sections...))
	}

	if cfg.Ruler.Disabled {
		opts = append(opts, tabledecor.WithoutRuler())
	}
	if cfg.Stripe.Disabled {
		opts = append(opts, tabledecor.WithoutStripe())
	}

	if cfg.CSS.Disabled {
		opts = append(opts, tabledecor.WithoutStyle())
	} else if cfg.CSS.Style != "" {
		opts = append(opts, tabledecor.WithStyle(cfg.CSS.Style))
	}

	if cfg.Assets.BasePath != "" {
		opts = append(opts, tabledecor.WithAssetPath(cfg.Assets.BasePath))
	}

	return opts, nil
}

// resolveMarkers returns the effective markers for reporting.
func resolveMarkers(cfg *config.Config) tabledecor.Markers {
	m := tabledecor.Markers{Ruler: cfg.Ruler.Marker, Stripe: cfg.Stripe.Marker}
	if m.Ruler == "" {
		m.Ruler = tabledecor.DefaultRulerMarker
	}
	if m.Stripe == "" {
		m.Stripe = tabledecor.DefaultStripeMarker
	}
	return m
}

// resolveInputPath picks the positional argument, falling back to
// input.defaultDir from config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}
