package main

import (
	"context"
	"fmt"

	tabledecor "github.com/alnah/go-tabledecor"
)

// Decorator is the part of the library decorator the CLI drives.
type Decorator interface {
	Decorate(ctx context.Context, input tabledecor.Input) (*tabledecor.Result, error)
}

// Compile-time interface implementation check.
var _ Decorator = (*tabledecor.Decorator)(nil)

// Pool abstracts decorator pool operations for testability.
type Pool interface {
	Acquire() (Decorator, error)
	Release(Decorator)
	Size() int
	Close() error
}

// poolAdapter exposes a *tabledecor.DecoratorPool through Pool.
type poolAdapter struct {
	pool *tabledecor.DecoratorPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newDecoratorPool is the production Environment.NewPool.
func newDecoratorPool(size int, opts ...tabledecor.Option) Pool {
	return &poolAdapter{pool: tabledecor.NewDecoratorPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (Decorator, error) {
	d, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Release panics when given a decorator the pool did not hand out.
func (a *poolAdapter) Release(d Decorator) {
	dec, ok := d.(*tabledecor.Decorator)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", d))
	}
	a.pool.Release(dec)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
