package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	tabledecor "github.com/alnah/go-tabledecor"
	"github.com/alnah/go-tabledecor/internal/config"
)

// ErrVerifyFailed means at least one row did not toggle "ruled" cleanly,
// or no hover-bound row was found.
var ErrVerifyFailed = errors.New("hover verification failed")

// verdict labels, colored when stdout is a terminal.
var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

// runVerify replays hover on an already decorated file and prints one line
// per row.
func runVerify(ctx context.Context, positionalArgs []string, flags *verifyFlags, env *Environment) error {
	setVerbosity(env.Logger, flags.common.quiet, flags.common.verbose)

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	path := positionalArgs[0]

	engine, err := tabledecor.ParseEngine(flags.engine)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := loadLayeredConfig(flags.common.config, envCfg)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.FillDefaults()

	opts, err := verifyOptions(cfg, timeout)
	if err != nil {
		return err
	}

	dec, err := tabledecor.NewDecorator(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dec.Close(); cerr != nil {
			env.Logger.WithError(cerr).Warn("closing browser")
		}
	}()

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	env.Logger.WithField("engine", engine).WithField("file", path).Debug("replaying hover")

	start := env.Now()
	report, err := dec.Verify(ctx, string(content), engine)
	if err != nil {
		return err
	}
	env.Logger.WithField("elapsed", env.Now().Sub(start).Round(time.Millisecond)).Debug("hover replay done")

	printVerifyReport(env.Stdout, report, flags.common.quiet)

	if len(report.Rows) == 0 {
		if engine == tabledecor.EngineGoja {
			return fmt.Errorf("%w: no inline hover handlers found (use --engine chrome for script mode)", ErrVerifyFailed)
		}
		return fmt.Errorf("%w: no hover tables found", ErrVerifyFailed)
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%w: %d of %d rows", ErrVerifyFailed, failed, len(report.Rows))
	}
	return nil
}

// verifyOptions keeps only the settings that select rows to hover.
func verifyOptions(cfg *config.Config, timeout time.Duration) ([]tabledecor.Option, error) {
	opts := []tabledecor.Option{
		tabledecor.WithMarkers(tabledecor.Markers{Ruler: cfg.Ruler.Marker, Stripe: cfg.Stripe.Marker}),
		tabledecor.WithoutStyle(),
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
	if timeout > 0 {
		opts = append(opts, tabledecor.WithTimeout(timeout))
	}
	return opts, nil
}

// resolveTimeout parses the --timeout flag, falling back to the env value.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, flagValue)
	}
	return d, nil
}

// printVerifyReport writes PASS/FAIL per row and a summary line.
// Quiet mode prints failing rows only.
func printVerifyReport(w io.Writer, r *tabledecor.VerifyReport, quiet bool) {
	for _, row := range r.Rows {
		if row.Passed() {
			if quiet {
				continue
			}
			fmt.Fprintf(w, "%s table %d row %d: %q -> %q -> %q\n",
				passLabel("PASS"), row.Table, row.Row, row.Before, row.Hovered, row.After)
			continue
		}
		if row.Err != "" {
			fmt.Fprintf(w, "%s table %d row %d: %s\n", failLabel("FAIL"), row.Table, row.Row, row.Err)
			continue
		}
		fmt.Fprintf(w, "%s table %d row %d: %q -> %q -> %q\n",
			failLabel("FAIL"), row.Table, row.Row, row.Before, row.Hovered, row.After)
	}

	if !quiet {
		fmt.Fprintf(w, "\n%d rows checked (%s), %d failed\n", len(r.Rows), r.Engine, r.Failed())
	}
}
