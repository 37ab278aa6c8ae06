package tabledecor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-tabledecor/internal/pipeline"
	"github.com/alnah/go-tabledecor/internal/process"
)

// restPoint is where the pointer parks between rows.
var restPoint = proto.Point{X: 0, Y: 0}

// rodProber implements hoverProber using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodProber struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// newRodProber creates a rodProber with the given timeout.
func newRodProber(timeout time.Duration) *rodProber {
	return &rodProber{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (p *rodProber) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		p.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	p.launcher = l
	p.browser = browser
	return nil
}

// Close releases browser resources and kills the browser process tree.
func (p *rodProber) Close() error {
	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.kill(p.launcher)
		p.launcher = nil
	}
	return err
}

// kill stops Chrome and its helper processes.
func (p *rodProber) kill(l *launcher.Launcher) {
	process.KillProcessGroup(l.PID())
	l.Kill()
	l.Cleanup()
}

// ProbeFile opens a local HTML file and hovers every targeted row: the
// pointer rests at the page origin, enters the row, then returns.
func (p *rodProber) ProbeFile(ctx context.Context, filePath string, target probeTarget) ([]RowCheck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx).Timeout(timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	tables, err := page.Elements("table")
	if err != nil {
		return nil, fmt.Errorf("%w: listing tables: %v", ErrHoverProbe, err)
	}

	var checks []RowCheck
	for ti, table := range tables {
		class, err := attribute(table, "class")
		if err != nil {
			return nil, fmt.Errorf("%w: table %d: %v", ErrHoverProbe, ti, err)
		}
		if !pipeline.HasMarker(class, target.Marker) {
			continue
		}

		rows, err := targetRows(table, target.Sections)
		if err != nil {
			return nil, fmt.Errorf("%w: table %d: %v", ErrHoverProbe, ti, err)
		}
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			checks = append(checks, p.hoverRow(page, row.el, ti, row.index))
		}
	}
	return checks, nil
}

// hoverRow records the row class at rest, hovered, and after leaving.
// Row failures are recorded in the check, not returned.
func (p *rodProber) hoverRow(page *rod.Page, row *rod.Element, ti, ri int) RowCheck {
	check := RowCheck{Table: ti, Row: ri}

	steps := []struct {
		move func() error
		dst  *string
	}{
		{move: func() error { return page.Mouse.MoveTo(restPoint) }, dst: &check.Before},
		{move: row.Hover, dst: &check.Hovered},
		{move: func() error { return page.Mouse.MoveTo(restPoint) }, dst: &check.After},
	}

	for _, s := range steps {
		if err := s.move(); err != nil {
			check.Err = err.Error()
			return check
		}
		class, err := attribute(row, "class")
		if err != nil {
			check.Err = err.Error()
			return check
		}
		*s.dst = class
	}
	return check
}

// groupRowsSelector matches the rows of a table's own row-groups in document
// order, skipping nested tables.
const groupRowsSelector = ":scope > thead > tr, :scope > tbody > tr, :scope > tfoot > tr"

// sectionRow is a row with its index among all group rows of its table.
type sectionRow struct {
	index int
	el    *rod.Element
}

// targetRows returns the rows of the table whose row-group is selected.
func targetRows(table *rod.Element, sections []string) ([]sectionRow, error) {
	selected := make(map[string]bool, len(sections))
	for _, s := range sections {
		selected[s] = true
	}

	all, err := table.Elements(groupRowsSelector)
	if err != nil {
		return nil, err
	}

	var rows []sectionRow
	for i, el := range all {
		res, err := el.Eval(`function() { return this.parentNode.tagName.toLowerCase(); }`)
		if err != nil {
			return nil, err
		}
		if selected[res.Value.Str()] {
			rows = append(rows, sectionRow{index: i, el: el})
		}
	}
	return rows, nil
}

// attribute returns an attribute value, empty when absent.
func attribute(el *rod.Element, name string) (string, error) {
	v, err := el.Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}
