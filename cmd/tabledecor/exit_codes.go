package main

import (
	"context"
	"errors"
	"os"

	tabledecor "github.com/alnah/go-tabledecor"
	"github.com/alnah/go-tabledecor/internal/assets"
	"github.com/alnah/go-tabledecor/internal/config"
	"github.com/alnah/go-tabledecor/internal/hints"
)

// Exit codes for the tabledecor CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Decoration or verification succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitVerify  = 5 // Hover replay found failing rows
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrVerifyFailed) {
		return ExitVerify
	}

	// Browser errors (exit 4)
	if errors.Is(err, tabledecor.ErrBrowserConnect) ||
		errors.Is(err, tabledecor.ErrPageCreate) ||
		errors.Is(err, tabledecor.ErrPageLoad) ||
		errors.Is(err, tabledecor.ErrHoverProbe) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, tabledecor.ErrEmptyInput) ||
		errors.Is(err, tabledecor.ErrAmbiguousInput) ||
		errors.Is(err, tabledecor.ErrInvalidHoverMode) ||
		errors.Is(err, tabledecor.ErrInvalidEngine) ||
		errors.Is(err, tabledecor.ErrInvalidSection) ||
		errors.Is(err, tabledecor.ErrInvalidAssetPath) ||
		errors.Is(err, tabledecor.ErrStyleNotFound) ||
		errors.Is(err, tabledecor.ErrScriptNotFound) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, tabledecor.ErrBrowserConnect):
		return hints.ForBrowserConnect() + hints.ForNoBrowser()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths())
	case errors.Is(err, tabledecor.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	case errors.Is(err, tabledecor.ErrInvalidHoverMode):
		return hints.ForHoverMode()
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
