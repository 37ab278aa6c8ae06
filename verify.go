package tabledecor

import (
	"context"
	"fmt"
	"slices"

	"github.com/alnah/go-tabledecor/internal/dom"
	"github.com/alnah/go-tabledecor/internal/fileutil"
	"github.com/alnah/go-tabledecor/internal/jsvm"
	"github.com/alnah/go-tabledecor/internal/pipeline"
)

// RowCheck is the outcome of hovering one row.
type RowCheck struct {
	Table   int    // table index in document order
	Row     int    // row index within the table
	Before  string // class before the pointer entered
	Hovered string // class while hovered
	After   string // class after the pointer left
	Err     string // set when the row could not be exercised
}

// Passed reports whether the row gained the ruled token while hovered and
// got its original class back afterwards.
func (c RowCheck) Passed() bool {
	return c.Err == "" &&
		dom.NewClassList(c.Hovered).Has(RuledToken) &&
		c.After == c.Before
}

// VerifyReport collects the row checks of one Verify run.
type VerifyReport struct {
	Engine Engine
	Rows   []RowCheck
}

// Failed returns the number of rows that did not pass.
func (r *VerifyReport) Failed() int {
	n := 0
	for _, c := range r.Rows {
		if !c.Passed() {
			n++
		}
	}
	return n
}

// OK reports whether at least one row was checked and all of them passed.
func (r *VerifyReport) OK() bool {
	return len(r.Rows) > 0 && r.Failed() == 0
}

// hoverProber exercises hover behavior in a real browser.
type hoverProber interface {
	ProbeFile(ctx context.Context, filePath string, target probeTarget) ([]RowCheck, error)
	Close() error
}

// probeTarget selects the rows a prober hovers.
type probeTarget struct {
	Marker   string
	Sections []string
}

// Verify checks the hover behavior of already decorated HTML.
//
// EngineGoja runs the inline onmouseover/onmouseout handlers of the rows of
// ruler tables in the decorated sections, in an embedded JavaScript runtime.
// Handlers on other tables belong to the page author and are not checked. It cannot see behavior attached by the
// client script of HoverScript output; use EngineChrome for that.
//
// EngineChrome loads the page in headless Chrome and moves the pointer over
// every row of every ruler table in the decorated sections.
func (d *Decorator) Verify(ctx context.Context, htmlContent string, engine Engine) (*VerifyReport, error) {
	if htmlContent == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch engine {
	case "", EngineGoja:
		return verifyInline(ctx, htmlContent, d.target())
	case EngineChrome:
		return d.verifyBrowser(ctx, htmlContent)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEngine, engine)
	}
}

// target is the row selection shared by both engines.
func (d *Decorator) target() probeTarget {
	return probeTarget{
		Marker:   d.tables.Markers().Ruler,
		Sections: d.sections,
	}
}

// selects reports whether a row with inline handlers is one the decorator
// binds.
func (t probeTarget) selects(row pipeline.InlineRow) bool {
	if !pipeline.HasMarker(row.TableClass, t.Marker) {
		return false
	}
	return slices.Contains(t.Sections, string(row.Group))
}

// verifyInline fires each selected row's enter then leave handler against
// an emulated element.
func verifyInline(ctx context.Context, htmlContent string, target probeTarget) (*VerifyReport, error) {
	bound, err := pipeline.ParseHTML(ctx, htmlContent)
	if err != nil {
		return nil, err
	}

	host := jsvm.New()
	report := &VerifyReport{Engine: EngineGoja}
	for _, row := range bound.InlineRows() {
		if !target.selects(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, fireRow(host, row))
	}
	return report, nil
}

func fireRow(host *jsvm.Host, row pipeline.InlineRow) RowCheck {
	check := RowCheck{Table: row.Table, Row: row.Row, Before: row.Class}
	el := &jsvm.Element{ClassName: row.Class}

	if row.Enter == "" || row.Leave == "" {
		check.Err = "row has only one of onmouseover/onmouseout"
		return check
	}
	if _, err := host.Fire(el, row.Enter); err != nil {
		check.Err = err.Error()
		return check
	}
	check.Hovered = el.ClassName
	if _, err := host.Fire(el, row.Leave); err != nil {
		check.Err = err.Error()
		return check
	}
	check.After = el.ClassName
	return check
}

// verifyBrowser writes the page to a temp file and hands it to the prober.
func (d *Decorator) verifyBrowser(ctx context.Context, htmlContent string) (*VerifyReport, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rows, err := d.prober.ProbeFile(ctx, tmpPath, d.target())
	if err != nil {
		return nil, err
	}
	return &VerifyReport{Engine: EngineChrome, Rows: rows}, nil
}
