package tabledecor

import (
	"fmt"
	"strings"
	"time"
)

// Default markers. A table opts in when its class attribute contains the
// marker anywhere, so "rulerTheme" is a ruler table.
const (
	DefaultRulerMarker  = "ruler"
	DefaultStripeMarker = "stripe"
)

// Class tokens written on rows.
const (
	RuledToken = "ruled"
	OddToken   = "odd"
	EvenToken  = "even"
)

// Input contains decoration parameters.
// Exactly one of HTML or Markdown must be set.
type Input struct {
	HTML       string // HTML document or body fragment
	Markdown   string // Markdown source, converted before decoration
	CSS        string // Extra CSS appended after the style (optional)
	TableClass string // Class put on tables converted from Markdown (optional)
	SourceDir  string // Directory relative links resolve against (optional)
}

// validate checks that exactly one source is present.
func (in Input) validate() error {
	hasHTML := strings.TrimSpace(in.HTML) != ""
	hasMarkdown := strings.TrimSpace(in.Markdown) != ""
	switch {
	case hasHTML && hasMarkdown:
		return ErrAmbiguousInput
	case !hasHTML && !hasMarkdown:
		return ErrEmptyInput
	}
	return nil
}

// isMarkdown reports whether the Markdown field is the source.
func (in Input) isMarkdown() bool {
	return strings.TrimSpace(in.Markdown) != ""
}

// Result holds the decorated document and what was done to it.
type Result struct {
	HTML   []byte
	Report Report
}

// Report counts what a decoration run touched.
type Report struct {
	Tables       int // tables in the document
	RulerTables  int // tables carrying the ruler marker
	StripeTables int // tables carrying the stripe marker
	BoundRows    int // rows given hover handlers
	StripedRows  int // rows given odd/even
}

// Empty reports whether no table was decorated.
func (r Report) Empty() bool {
	return r.BoundRows == 0 && r.StripedRows == 0
}

// Markers sets the substrings that opt a table into each behavior.
// Empty fields keep the defaults.
type Markers struct {
	Ruler  string
	Stripe string
}

// Section names a table row-group.
type Section string

// Row-group sections.
const (
	SectionHead Section = "thead"
	SectionBody Section = "tbody"
	SectionFoot Section = "tfoot"
)

// ParseSection validates a section name (case-insensitive).
func ParseSection(s string) (Section, error) {
	switch sec := Section(strings.ToLower(strings.TrimSpace(s))); sec {
	case SectionHead, SectionBody, SectionFoot:
		return sec, nil
	default:
		return "", fmt.Errorf("%w: %q (must be thead, tbody, or tfoot)", ErrInvalidSection, s)
	}
}

// HoverMode selects how hover bindings are written into the output.
type HoverMode string

// Hover modes.
const (
	HoverInline HoverMode = "inline" // onmouseover/onmouseout attributes
	HoverScript HoverMode = "script" // one client script binding rows on load
	HoverNone   HoverMode = "none"   // plan only, nothing emitted
)

// Engine selects how Verify exercises hover behavior.
type Engine string

// Verification engines.
const (
	EngineGoja   Engine = "goja"   // inline handlers run in an embedded JS VM
	EngineChrome Engine = "chrome" // real pointer hovers in headless Chrome
)

// ParseEngine validates an engine name. Empty means goja.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(s))); e {
	case "", EngineGoja:
		return EngineGoja, nil
	case EngineChrome:
		return EngineChrome, nil
	default:
		return "", fmt.Errorf("%w: %q (must be goja or chrome)", ErrInvalidEngine, s)
	}
}

// Environment reports whether the host supports element traversal.
// Decoration is skipped silently when it does not.
type Environment interface {
	SupportsDOM() bool
}

// Option configures a Decorator.
type Option func(*Decorator)

// decoratorConfig holds internal configuration for Decorator.
type decoratorConfig struct {
	timeout     time.Duration
	markers     Markers
	hoverMode   HoverMode
	styleInput  string
	noStyle     bool
	assetPath   string
	sections    []Section
	dedupeRuled bool
	env         Environment
	noRuler     bool
	noStripe    bool
}

// defaultTimeout bounds browser page loads when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the browser timeout used by Verify.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("tabledecor: WithTimeout duration must be positive")
	}
	return func(dc *Decorator) {
		dc.cfg.timeout = d
	}
}

// WithMarkers overrides the ruler and stripe markers.
func WithMarkers(m Markers) Option {
	return func(dc *Decorator) {
		dc.cfg.markers = m
	}
}

// WithHoverMode selects how hover bindings are emitted.
// NewDecorator rejects unknown modes with ErrInvalidHoverMode.
func WithHoverMode(m HoverMode) Option {
	return func(dc *Decorator) {
		dc.cfg.hoverMode = m
	}
}

// WithStyle sets the stylesheet: a style name ("default", "minimal"),
// a file path, or raw CSS content.
func WithStyle(style string) Option {
	return func(dc *Decorator) {
		dc.cfg.styleInput = style
	}
}

// WithoutStyle disables stylesheet injection. Extra CSS from Input is still
// injected.
func WithoutStyle() Option {
	return func(dc *Decorator) {
		dc.cfg.noStyle = true
	}
}

// WithAssetPath sets a directory whose styles/ and scripts/ override the
// embedded assets.
func WithAssetPath(path string) Option {
	return func(dc *Decorator) {
		dc.cfg.assetPath = path
	}
}

// WithSections selects the row-groups that are decorated. Default: tbody.
func WithSections(sections ...Section) Option {
	return func(dc *Decorator) {
		dc.cfg.sections = sections
	}
}

// WithDedupeRuled makes hover-enter skip rows that already carry the ruled
// suffix. Off by default.
func WithDedupeRuled(on bool) Option {
	return func(dc *Decorator) {
		dc.cfg.dedupeRuled = on
	}
}

// WithEnvironment sets the capability check consulted before each run.
func WithEnvironment(env Environment) Option {
	return func(dc *Decorator) {
		dc.cfg.env = env
	}
}

// WithoutRuler disables row hover highlighting.
func WithoutRuler() Option {
	return func(dc *Decorator) {
		dc.cfg.noRuler = true
	}
}

// WithoutStripe disables alternating row stripes.
func WithoutStripe() Option {
	return func(dc *Decorator) {
		dc.cfg.noStripe = true
	}
}
