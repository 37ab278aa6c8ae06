package main

// Notes:
// - runMain: we test dispatch and exit codes, including a decorate then
//   verify round trip on the goja engine. Chrome verification is covered
//   by the library's integration tests.
// - isCommand: we test command name matching.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Main entry point exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage",
			args:         []string{"tabledecor"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: tabledecor"},
		},
		{
			name:         "version",
			args:         []string{"tabledecor", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"tabledecor dev"},
		},
		{
			name:         "help",
			args:         []string{"tabledecor", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: tabledecor", "Commands:", "decorate", "verify"},
		},
		{
			name:         "help decorate",
			args:         []string{"tabledecor", "help", "decorate"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: tabledecor decorate", "--hover-mode"},
		},
		{
			name:         "help unknown",
			args:         []string{"tabledecor", "help", "bogus"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Unknown command: bogus"},
		},
		{
			name:         "unknown command",
			args:         []string{"tabledecor", "unknown"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: unknown"},
		},
		{
			name:         "schema",
			args:         []string{"tabledecor", "schema"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"go-tabledecor configuration", "dedupe", "sections"},
		},
		{
			name:     "decorate --help",
			args:     []string{"tabledecor", "decorate", "--help"},
			wantCode: ExitSuccess,
		},
		{
			name:         "decorate bad flag",
			args:         []string{"tabledecor", "decorate", "--bogus"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid usage"},
		},
		{
			name:         "decorate missing file",
			args:         []string{"tabledecor", "decorate", "nonexistent.html"},
			wantCode:     ExitIO,
			wantInStderr: []string{"error:"},
		},
		{
			name:         "decorate bad hover mode",
			args:         []string{"tabledecor", "decorate", "x.html", "--hover-mode", "hover"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"mode"},
		},
		{
			name:         "verify without file",
			args:         []string{"tabledecor", "verify"},
			wantCode:     ExitIO,
			wantInStderr: []string{"no input specified"},
		},
		{
			name:         "verify bad engine",
			args:         []string{"tabledecor", "verify", "x.html", "--engine", "webkit"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"goja or chrome"},
		},
		{
			name:         "verify bad timeout",
			args:         []string{"tabledecor", "verify", "x.html", "--timeout", "-1s"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil)
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d\nstderr: %s", code, tt.wantCode, env.stderr)
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(env.stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, env.stdout)
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(env.stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, env.stderr)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_DecorateThenVerify - Round trip on the goja engine
// ---------------------------------------------------------------------------

func TestRunMain_DecorateThenVerify(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"plain.html":  `<table class="plain"><tbody><tr><td>x</td></tr></tbody></table>`,
		"report.html": rulerTable,
	})
	out := filepath.Join(dir, "out")

	env := newTestEnv(nil)
	code := runMain([]string{"tabledecor", "decorate", filepath.Join(dir, "report.html"), "-o", out, "-q"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("decorate exit = %d\nstderr: %s", code, env.stderr)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet decorate should print nothing, got %q", env.stdout)
	}

	decorated := filepath.Join(out, "report.decorated.html")
	if _, err := os.Stat(decorated); err != nil {
		t.Fatalf("decorated file missing: %v", err)
	}

	t.Run("decorated rows pass", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		code := runMain([]string{"tabledecor", "verify", decorated}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("verify exit = %d\nstdout: %s\nstderr: %s", code, env.stdout, env.stderr)
		}

		got := env.stdout.String()
		if strings.Count(got, "PASS") != 2 {
			t.Errorf("want 2 PASS lines, got %q", got)
		}
		if !strings.Contains(got, "2 rows checked (goja), 0 failed") {
			t.Errorf("missing summary in %q", got)
		}
	})

	t.Run("undecorated file fails verification", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		code := runMain([]string{"tabledecor", "verify", filepath.Join(dir, "plain.html")}, env.Environment)
		if code != ExitVerify {
			t.Errorf("verify exit = %d, want %d", code, ExitVerify)
		}
		if !strings.Contains(env.stderr.String(), "no inline hover handlers") {
			t.Errorf("stderr = %q", env.stderr)
		}
	})

	t.Run("broken handler fails verification", func(t *testing.T) {
		t.Parallel()

		broken := filepath.Join(dir, "broken.html")
		html := `<table class="ruler"><tbody><tr class="a" onmouseover="this.className+=' ruled'" onmouseout="this.className='b'"><td>x</td></tr></tbody></table>`
		if err := os.WriteFile(broken, []byte(html), 0o644); err != nil {
			t.Fatal(err)
		}

		env := newTestEnv(nil)
		code := runMain([]string{"tabledecor", "verify", broken}, env.Environment)
		if code != ExitVerify {
			t.Errorf("verify exit = %d, want %d", code, ExitVerify)
		}
		if !strings.Contains(env.stdout.String(), "FAIL") {
			t.Errorf("stdout = %q, want a FAIL line", env.stdout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"decorate", true},
		{"verify", true},
		{"schema", true},
		{"doctor", true},
		{"version", true},
		{"help", true},
		{"convert", false},
		{"", false},
		{"doc.html", false},
		{"Decorate", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := isCommand(tt.input); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	if !hasVerboseFlag([]string{"tabledecor", "decorate", "-v", "x.html"}) {
		t.Error("-v should be detected")
	}
	if !hasVerboseFlag([]string{"tabledecor", "verify", "--verbose"}) {
		t.Error("--verbose should be detected")
	}
	if hasVerboseFlag([]string{"tabledecor", "decorate", "--version-file"}) {
		t.Error("unrelated flags should not match")
	}
}
