package tabledecor

import (
	"errors"

	"github.com/alnah/go-tabledecor/internal/assets"
	"github.com/alnah/go-tabledecor/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput       = errors.New("input must contain HTML or Markdown")
	ErrAmbiguousInput   = errors.New("input cannot contain both HTML and Markdown")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrHoverProbe       = errors.New("hover probe failed")
	ErrInvalidEngine    = errors.New("invalid verification engine")
	ErrInvalidSection   = errors.New("invalid table section")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Re-exported so callers need not import internal packages.
	ErrInvalidHoverMode = pipeline.ErrInvalidHoverMode
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrScriptNotFound   = assets.ErrScriptNotFound
)
