package tabledecor

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// DecoratorPool manages a pool of Decorator instances for parallel processing.
// Each decorator has its own browser instance, enabling true parallelism.
// Decorators are created lazily on first acquire to avoid startup delay.
type DecoratorPool struct {
	size       int
	opts       []Option
	decorators []*Decorator
	sem        chan *Decorator
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewDecoratorPool creates a pool with capacity for n decorators built with
// opts. Decorators are created when acquired, not at pool creation.
func NewDecoratorPool(n int, opts ...Option) *DecoratorPool {
	if n < 1 {
		n = 1
	}

	return &DecoratorPool{
		size:       n,
		opts:       opts,
		decorators: make([]*Decorator, 0, n),
		sem:        make(chan *Decorator, n),
	}
}

// Acquire gets a decorator from the pool, creating one if needed.
// Blocks if all decorators are in use. An error means a new decorator could
// not be built; the slot is given back.
func (p *DecoratorPool) Acquire() (*Decorator, error) {
	// Try to get an existing decorator (non-blocking)
	select {
	case d := <-p.sem:
		return d, nil
	default:
	}

	// Check if we can create a new decorator
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new decorator outside the lock
		d, err := NewDecorator(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.decorators = append(p.decorators, d)
		p.mu.Unlock()

		return d, nil
	}
	p.mu.Unlock()

	// All decorators created, wait for one to be released
	return <-p.sem, nil
}

// Release returns a decorator to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *DecoratorPool) Release(d *Decorator) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- d
}

// Close releases all browser resources.
// Returns an aggregated error if multiple decorators fail to close.
func (p *DecoratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	decorators := p.decorators
	p.mu.Unlock()

	var errs []error
	for _, d := range decorators {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *DecoratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
