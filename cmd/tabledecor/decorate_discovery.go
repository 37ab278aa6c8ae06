package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tabledecor "github.com/alnah/go-tabledecor"
	"github.com/alnah/go-tabledecor/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html, .htm, .md, or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// outputSuffix replaces the source extension of decorated files.
const outputSuffix = ".decorated.html"

var (
	htmlExtensions     = []string{".html", ".htm"}
	markdownExtensions = []string{".md", ".markdown"}
)

// FileToDecorate represents a single file to process.
type FileToDecorate struct {
	InputPath  string
	OutputPath string
}

// isMarkdown reports whether the input is converted before decoration.
func (f FileToDecorate) isMarkdown() bool {
	return fileutil.HasExtension(f.InputPath, markdownExtensions...)
}

// discoverFiles finds all documents to decorate. Directories are walked
// recursively; earlier outputs (*.decorated.html) are skipped so reruns do
// not decorate their own results.
func discoverFiles(inputPath, outputDir string) ([]FileToDecorate, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToDecorate{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToDecorate
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || isDecoratedOutput(path) || validateExtension(path) != nil {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToDecorate{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a source document.
// An outputDir ending in .html is used verbatim (single-file mode).
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+outputSuffix)
	}

	if fileutil.HasExtension(outputDir, htmlExtensions...) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+outputSuffix)
		}
	}

	return filepath.Join(outputDir, base+outputSuffix)
}

// isDecoratedOutput reports whether path looks like an earlier result.
func isDecoratedOutput(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), outputSuffix)
}

// validateExtension checks that the file is HTML or Markdown.
func validateExtension(path string) error {
	if fileutil.HasExtension(path, htmlExtensions...) || fileutil.HasExtension(path, markdownExtensions...) {
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > tabledecor.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, tabledecor.MaxPoolSize)
	}
	return nil
}
