package main

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	tabledecor "github.com/alnah/go-tabledecor"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and decorator pool construction.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *logrus.Logger
	NewPool func(size int, opts ...tabledecor.Option) Pool
}

// DefaultEnv returns the production environment: real stdio, a stderr
// logger, and a pool of library decorators.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  newLogger(os.Stderr),
		NewPool: newDecoratorPool,
	}
}

// newLogger builds the CLI logger. Diagnostics go to w as plain key=value
// lines; results are printed to stdout separately.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// setVerbosity maps -q and -v onto log levels. Quiet wins.
func setVerbosity(log *logrus.Logger, quiet, verbose bool) {
	switch {
	case quiet:
		log.SetLevel(logrus.WarnLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}
