// Package jsvm runs inline row event handlers in an embedded JavaScript
// runtime so hover behavior written into HTML can be checked without a
// browser.
package jsvm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// Sentinel errors for handler execution.
var (
	ErrCompile = errors.New("handler compilation failed")
	ErrRuntime = errors.New("handler execution failed")
)

// Element is the emulated DOM element a handler runs against.
// Only className is exposed to scripts.
type Element struct {
	ClassName string
}

// Host owns a JavaScript runtime. Events are delivered one at a time.
type Host struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	handlers map[string]goja.Callable
}

// New creates a Host with a fresh runtime.
func New() *Host {
	return &Host{
		vm:       goja.New(),
		handlers: make(map[string]goja.Callable),
	}
}

// Fire runs the handler body source with this bound to el and returns
// whether the event should keep propagating. A handler returning false
// stops propagation; undefined counts as true. Compiled handlers are cached
// by source.
func (h *Host) Fire(el *Element, source string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn, err := h.compile(source)
	if err != nil {
		return false, err
	}

	this, err := h.bind(el)
	if err != nil {
		return false, err
	}

	res, err := fn(this)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
		return true, nil
	}
	return res.ToBoolean(), nil
}

func (h *Host) compile(source string) (goja.Callable, error) {
	if fn, ok := h.handlers[source]; ok {
		return fn, nil
	}

	v, err := h.vm.RunString("(function(event){" + source + "\n})")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("%w: not a function", ErrCompile)
	}

	h.handlers[source] = fn
	return fn, nil
}

// bind wraps el in a script object whose className reads and writes el.
func (h *Host) bind(el *Element) (goja.Value, error) {
	obj := h.vm.NewObject()

	getter := h.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return h.vm.ToValue(el.ClassName)
	})
	setter := h.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		el.ClassName = call.Argument(0).String()
		return goja.Undefined()
	})

	if err := obj.DefineAccessorProperty("className", getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	return obj, nil
}
