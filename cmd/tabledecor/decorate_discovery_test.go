package main

// Notes:
// - discoverFiles: we test single files, recursive walks, extension
//   filtering, and that earlier *.decorated.html outputs are skipped.
// - resolveOutputPath: we test default, explicit file, and mirrored
//   directory layouts.
// - validateWorkers: we test bounds against MaxPoolSize.

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	tabledecor "github.com/alnah/go-tabledecor"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - File discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"a.html":                "x",
		"b.HTM":                 "x",
		"c.md":                  "x",
		"sub/d.markdown":        "x",
		"sub/a.decorated.html":  "x",
		"sub/ignored.txt":       "x",
		"sub/deeper/e.html":     "x",
		"sub/deeper/styles.css": "x",
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(dir, "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		var got []string
		for _, f := range files {
			rel, _ := filepath.Rel(dir, f.InputPath)
			got = append(got, filepath.ToSlash(rel))
		}
		sort.Strings(got)

		want := []string{"a.html", "b.HTM", "c.md", "sub/d.markdown", "sub/deeper/e.html"}
		if len(got) != len(want) {
			t.Fatalf("discovered %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("file %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("directory into output dir mirrors layout", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "out")
		files, err := discoverFiles(dir, out)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		for _, f := range files {
			if f.InputPath == filepath.Join(dir, "sub", "deeper", "e.html") {
				want := filepath.Join(out, "sub", "deeper", "e.decorated.html")
				if f.OutputPath != want {
					t.Errorf("OutputPath = %q, want %q", f.OutputPath, want)
				}
				return
			}
		}
		t.Error("e.html not discovered")
	})

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(filepath.Join(dir, "c.md"), "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 1 || files[0].OutputPath != filepath.Join(dir, "c.decorated.html") {
			t.Errorf("files = %+v", files)
		}
		if !files[0].isMarkdown() {
			t.Error("c.md should be routed as Markdown")
		}
	})

	t.Run("single file with wrong extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "sub", "ignored.txt"), "")
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path resolution
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		want      string
	}{
		{
			name:  "next to source",
			input: filepath.Join("docs", "report.html"),
			want:  filepath.Join("docs", "report.decorated.html"),
		},
		{
			name:  "markdown next to source",
			input: filepath.Join("docs", "notes.md"),
			want:  filepath.Join("docs", "notes.decorated.html"),
		},
		{
			name:      "explicit html file",
			input:     filepath.Join("docs", "report.html"),
			outputDir: filepath.Join("out", "final.html"),
			want:      filepath.Join("out", "final.html"),
		},
		{
			name:      "output directory",
			input:     filepath.Join("docs", "report.html"),
			outputDir: "out",
			want:      filepath.Join("out", "report.decorated.html"),
		},
		{
			name:      "mirrored subdirectory",
			input:     filepath.Join("docs", "a", "b.md"),
			outputDir: "out",
			baseDir:   "docs",
			want:      filepath.Join("out", "a", "b.decorated.html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{tabledecor.MaxPoolSize, false},
		{tabledecor.MaxPoolSize + 1, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error should wrap ErrInvalidWorkerCount", tt.n)
		}
	}
}
