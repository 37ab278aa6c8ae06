package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	tabledecor "github.com/alnah/go-tabledecor"
	"github.com/alnah/go-tabledecor/internal/fileutil"
	"github.com/alnah/go-tabledecor/internal/hints"
)

// ErrDecoratorInit marks files skipped because no decorator could be built.
var ErrDecoratorInit = errors.New("failed to initialize decorator")

// DecorationResult holds the outcome of a single file.
type DecorationResult struct {
	InputPath  string
	OutputPath string
	Report     tabledecor.Report
	Err        error
	Duration   time.Duration
}

// decorateBatch processes files concurrently using the decorator pool.
// Results keep the order of files.
func decorateBatch(ctx context.Context, pool Pool, files []FileToDecorate, params *decorateParams) []DecorationResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]DecorationResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			dec, err := pool.Acquire()
			if err != nil {
				// Decorator creation failed, mark the jobs this worker takes as failed
				for idx := range jobs {
					results[idx] = DecorationResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %w", ErrDecoratorInit, err),
					}
				}
				return
			}
			defer pool.Release(dec)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = DecorationResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = decorateFile(ctx, dec, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// decorateFile processes a single file and returns the result.
// Relative URLs are rewritten only when the output lands in another
// directory than its source.
func decorateFile(ctx context.Context, dec Decorator, f FileToDecorate, params *decorateParams) DecorationResult {
	start := time.Now()
	result := DecorationResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) DecorationResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	input := tabledecor.Input{}
	if f.isMarkdown() {
		input.Markdown = string(content)
		input.TableClass = params.tableClass
	} else {
		input.HTML = string(content)
	}

	srcDir := filepath.Dir(f.InputPath)
	outDir := filepath.Dir(f.OutputPath)
	if filepath.Clean(srcDir) != filepath.Clean(outDir) {
		if abs, err := filepath.Abs(srcDir); err == nil {
			input.SourceDir = abs
		}
	}

	res, err := dec.Decorate(ctx, input)
	if err != nil {
		return fail(err)
	}
	result.Report = res.Report

	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrCreateOutputDir, err))
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, res.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed decorations.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed decorations.
func countResults(results []DecorationResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first failure in results, or nil.
func firstError(results []DecorationResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResults writes created paths to stdout and failures and warnings to
// the logger. Returns the number of failures.
func printResults(results []DecorationResult, params *decorateParams, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		log := env.Logger.WithField("file", r.InputPath)

		if r.Err != nil {
			log.WithError(r.Err).Error("decoration failed" + hintFor(r.Err))
			continue
		}

		if r.Report.Empty() {
			log.Warn("no rows decorated" + hints.ForNoTables(params.markers.Ruler, params.markers.Stripe))
		}

		log.WithFields(logrus.Fields{
			"tables":  r.Report.Tables,
			"ruler":   r.Report.RulerTables,
			"stripe":  r.Report.StripeTables,
			"bound":   r.Report.BoundRows,
			"striped": r.Report.StripedRows,
			"elapsed": r.Duration.Round(time.Millisecond),
		}).Debug("decorated")

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
