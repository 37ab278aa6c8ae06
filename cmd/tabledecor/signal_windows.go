//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext derives the run context: an interrupt cancels every
// in-flight decoration or verification. Windows has no SIGTERM.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
