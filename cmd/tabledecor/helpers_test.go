package main

// Notes:
// - Shared test infrastructure: a scripted Decorator, a channel-backed Pool,
//   a buffered Environment, and a temp tree builder.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tabledecor "github.com/alnah/go-tabledecor"
)

// ---------------------------------------------------------------------------
// Mock decorator
// ---------------------------------------------------------------------------

type mockDecorator struct {
	mu     sync.Mutex
	inputs []tabledecor.Input
	result *tabledecor.Result
	err    error
}

func (m *mockDecorator) Decorate(_ context.Context, input tabledecor.Input) (*tabledecor.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &tabledecor.Result{
		HTML:   []byte("<p>decorated</p>"),
		Report: tabledecor.Report{Tables: 1, RulerTables: 1, BoundRows: 2},
	}, nil
}

func (m *mockDecorator) calls() []tabledecor.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tabledecor.Input(nil), m.inputs...)
}

// ---------------------------------------------------------------------------
// Test pool
// ---------------------------------------------------------------------------

type testPool struct {
	dec        Decorator
	acquireErr error
	size       int
	opts       []tabledecor.Option
	closed     bool
}

func newTestPool(dec Decorator, size int) *testPool {
	return &testPool{dec: dec, size: size}
}

func (p *testPool) Acquire() (Decorator, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.dec, nil
}

func (p *testPool) Release(Decorator) {}

func (p *testPool) Size() int { return p.size }

func (p *testPool) Close() error {
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv buffers output; pool is nil for the production pool.
func newTestEnv(pool *testPool) *testEnv {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:     time.Now,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Logger:  newLogger(&stderr),
		NewPool: newDecoratorPool,
	}
	if pool != nil {
		env.NewPool = func(size int, opts ...tabledecor.Option) Pool {
			pool.opts = opts
			return pool
		}
	}
	return &testEnv{Environment: env, stdout: &stdout, stderr: &stderr}
}

// setupTestDir creates a temp directory with the given file structure.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

const rulerTable = `<table class="ruler stripe"><tbody><tr><td>a</td></tr><tr><td>b</td></tr></tbody></table>`
