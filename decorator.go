package tabledecor

import (
	"context"
	"fmt"
	"os"

	"github.com/alnah/go-tabledecor/internal/assets"
	"github.com/alnah/go-tabledecor/internal/dom"
	"github.com/alnah/go-tabledecor/internal/fileutil"
	"github.com/alnah/go-tabledecor/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter  = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector    = (*pipeline.CSSInjection)(nil)
	_ pipeline.ScriptInjector = (*pipeline.ScriptInjection)(nil)
	_ hoverProber             = (*rodProber)(nil)
)

// Decorator runs the table decoration pipeline.
// Create with NewDecorator, use Decorate and Verify, and Close when done.
// A Decorator is not safe for concurrent use; see DecoratorPool.
type Decorator struct {
	cfg            decoratorConfig
	assetLoader    assets.AssetLoader
	tables         *pipeline.TableDecorator
	hoverMode      pipeline.HoverMode
	sections       []string
	style          string
	htmlConverter  pipeline.HTMLConverter
	cssInjector    pipeline.CSSInjector
	scriptInjector pipeline.ScriptInjector
	prober         hoverProber
}

// NewDecorator creates a Decorator with default configuration: the
// "ruler" and "stripe" markers, tbody rows, inline hover handlers and the
// default style. Returns an error for invalid options or missing assets.
func NewDecorator(opts ...Option) (*Decorator, error) {
	d := &Decorator{
		cfg: decoratorConfig{
			timeout:   defaultTimeout,
			hoverMode: HoverInline,
		},
		assetLoader:   assets.NewEmbeddedLoader(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(d)
	}

	mode, err := pipeline.ParseHoverMode(string(d.cfg.hoverMode))
	if err != nil {
		return nil, err
	}
	d.hoverMode = mode

	kinds, err := d.resolveSections()
	if err != nil {
		return nil, err
	}

	tableOpts := []pipeline.TableOption{
		pipeline.WithMarkers(pipeline.Markers(d.cfg.markers)),
		pipeline.WithSections(kinds...),
		pipeline.WithDedupeRuled(d.cfg.dedupeRuled),
	}
	if d.cfg.env != nil {
		tableOpts = append(tableOpts, pipeline.WithEnvironment(d.cfg.env))
	}
	d.tables = pipeline.NewTableDecorator(tableOpts...)

	if d.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(d.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		d.assetLoader = resolver
	}

	if err := d.resolveStyle(); err != nil {
		return nil, err
	}

	// The client script is only needed when rows are bound at load time.
	if d.scriptInjector == nil && d.hoverMode == pipeline.HoverScript && !d.cfg.noRuler {
		tmpl, err := d.assetLoader.LoadScript(assets.DefaultScriptName)
		if err != nil {
			return nil, fmt.Errorf("loading hover script: %w", err)
		}
		d.scriptInjector, err = pipeline.NewScriptInjection(tmpl)
		if err != nil {
			return nil, fmt.Errorf("initializing script injector: %w", err)
		}
	}

	if d.prober == nil {
		d.prober = newRodProber(d.cfg.timeout)
	}

	return d, nil
}

// Markers returns the effective ruler and stripe markers.
func (d *Decorator) Markers() Markers {
	return Markers(d.tables.Markers())
}

// Decorate runs the pipeline: Markdown conversion (if given), parsing,
// stripes, ruler bindings, commit, style and script injection.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (d *Decorator) Decorate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.validate(); err != nil {
		return nil, err
	}

	htmlContent := input.HTML
	if input.isMarkdown() {
		htmlContent, err = d.htmlConverter.ToHTML(ctx, input.Markdown, input.TableClass)
		if err != nil {
			return nil, fmt.Errorf("converting to HTML: %w", err)
		}
	}

	bound, err := pipeline.ParseHTML(ctx, htmlContent)
	if err != nil {
		return nil, err
	}

	if err := bound.RewriteRelativePaths(input.SourceDir); err != nil {
		return nil, fmt.Errorf("rewriting relative paths: %w", err)
	}

	report := d.survey(bound.Doc)

	if !d.cfg.noStripe {
		report.StripedRows = len(d.tables.ApplyAlternatingStripe(bound.Doc))
	}
	if !d.cfg.noRuler {
		report.BoundRows = countBoundRows(d.tables.ApplyRowHoverHighlight(bound.Doc))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	bound.Commit(d.hoverMode, d.cfg.dedupeRuled)
	htmlContent, err = bound.Render()
	if err != nil {
		return nil, err
	}

	// Style first, caller CSS last so it can override.
	cssContent := d.style
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = d.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if d.scriptInjector != nil && report.BoundRows > 0 {
		htmlContent, err = d.scriptInjector.InjectScript(ctx, htmlContent, d.scriptData())
		if err != nil {
			return nil, fmt.Errorf("injecting hover script: %w", err)
		}
	}

	return &Result{HTML: []byte(htmlContent), Report: report}, nil
}

// Close releases resources (headless Chrome browser, if one was started).
func (d *Decorator) Close() error {
	if d.prober != nil {
		return d.prober.Close()
	}
	return nil
}

// survey counts tables and marker matches. Nothing is counted when the
// environment lacks DOM support, matching the silent skip of decoration.
func (d *Decorator) survey(doc *dom.Document) Report {
	if d.cfg.env != nil && !dom.Supports(d.cfg.env) {
		return Report{}
	}
	m := d.tables.Markers()
	r := Report{Tables: len(doc.Tables)}
	for _, t := range doc.Tables {
		if !d.cfg.noRuler && pipeline.HasMarker(t.Class, m.Ruler) {
			r.RulerTables++
		}
		if !d.cfg.noStripe && pipeline.HasMarker(t.Class, m.Stripe) {
			r.StripeTables++
		}
	}
	return r
}

// countBoundRows counts rows given a hover-enter handler.
func countBoundRows(plan []pipeline.Mutation) int {
	n := 0
	for _, m := range plan {
		if m.Kind == pipeline.BindHover && m.Event == dom.HoverEnter {
			n++
		}
	}
	return n
}

func (d *Decorator) scriptData() *pipeline.ScriptData {
	return &pipeline.ScriptData{
		Marker:   d.tables.Markers().Ruler,
		Token:    pipeline.RuledToken,
		Sections: d.sections,
		Dedupe:   d.cfg.dedupeRuled,
	}
}

// resolveSections validates the configured sections. Empty means tbody.
func (d *Decorator) resolveSections() ([]dom.GroupKind, error) {
	secs := d.cfg.sections
	if len(secs) == 0 {
		secs = []Section{SectionBody}
	}
	kinds := make([]dom.GroupKind, 0, len(secs))
	d.sections = make([]string, 0, len(secs))
	for _, s := range secs {
		sec, err := ParseSection(string(s))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, dom.GroupKind(sec))
		d.sections = append(d.sections, string(sec))
	}
	return kinds, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input loads the default style.
func (d *Decorator) resolveStyle() error {
	if d.cfg.noStyle {
		return nil
	}

	input := d.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		d.style = input
		return nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		d.style = string(content)
		return nil
	}

	css, err := d.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	d.style = css
	return nil
}
