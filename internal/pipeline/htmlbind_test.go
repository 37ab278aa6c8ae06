package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-tabledecor/internal/dom"
)

const fixtureHTML = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<table class="ruler stripe" id="main">
  <thead><tr><th>h</th></tr></thead>
  <tbody>
    <tr><td>1</td></tr>
    <tr class="highlight"><td>2</td></tr>
    <tr><td>3
      <table class="inner"><tbody><tr><td>n</td></tr></tbody></table>
    </td></tr>
  </tbody>
  <tbody>
    <tr><td>4</td></tr>
  </tbody>
</table>
<table class="plain"><tr><td>x</td></tr></table>
</body></html>`

func TestParseHTML_Binding(t *testing.T) {
	t.Parallel()

	b, err := ParseHTML(context.Background(), fixtureHTML)
	require.NoError(t, err)
	require.Len(t, b.Doc.Tables, 3, "outer, nested, plain in document order")

	outer := b.Doc.Tables[0]
	assert.Equal(t, "ruler stripe", outer.Class)
	require.Len(t, outer.Groups, 3)
	assert.Equal(t, dom.GroupHead, outer.Groups[0].Kind)
	assert.Len(t, outer.Groups[1].Rows, 3, "nested rows do not leak into the outer group")
	assert.Equal(t, "highlight", outer.Groups[1].Rows[1].Class.String())
	assert.Len(t, outer.Groups[2].Rows, 1)

	assert.Equal(t, "inner", b.Doc.Tables[1].Class)

	plain := b.Doc.Tables[2]
	require.Len(t, plain.Groups, 1, "parser adds an implicit tbody")
	assert.Equal(t, dom.GroupBody, plain.Groups[0].Kind)
}

func TestParseHTML_DocumentDetection(t *testing.T) {
	t.Parallel()

	const table = `<table class="stripe"><tbody><tr><td>1</td></tr></tbody></table>`

	tests := []struct {
		name         string
		input        string
		wantFragment bool
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "doctype first",
			input:        "<!DOCTYPE html><html><head><title>T</title></head><body>" + table + "</body></html>",
			wantContains: []string{"<!DOCTYPE html>", "<head><title>T</title></head>", "<body>"},
		},
		{
			name:         "leading comment",
			input:        "<!-- generated -->\n<!DOCTYPE html><html><head><title>T</title></head><body>" + table + "</body></html>",
			wantContains: []string{"<!-- generated -->", "<!DOCTYPE html>", "<head><title>T</title></head>", "<body>"},
		},
		{
			name:         "byte order mark",
			input:        "\ufeff<!DOCTYPE html><html><head><title>T</title></head><body>" + table + "</body></html>",
			wantContains: []string{"<!DOCTYPE html>", "<head><title>T</title></head>"},
			wantMissing:  []string{"\ufeff"},
		},
		{
			name:         "no html tag",
			input:        "<head><title>T</title></head><body>" + table + "</body>",
			wantContains: []string{"<html><head><title>T</title></head><body>"},
		},
		{
			name:         "body fragment",
			input:        "<p>intro</p>" + table,
			wantFragment: true,
			wantMissing:  []string{"<html", "<body"},
		},
		{
			name:         "fragment with comment",
			input:        "<!-- note -->" + table,
			wantFragment: true,
			wantContains: []string{"<!-- note -->"},
			wantMissing:  []string{"<html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := ParseHTML(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFragment, b.IsFragment())
			require.Len(t, b.Doc.Tables, 1)

			b.Doc.Tables[0].Groups[0].Rows[0].Class.Add("odd")
			b.Commit(HoverInline, false)
			out, err := b.Render()
			require.NoError(t, err)

			assert.Contains(t, out, `<tr class="odd">`)
			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, out, missing)
			}
		})
	}
}

func TestParseHTML_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseHTML(ctx, fixtureHTML)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBoundDocument_CommitInline(t *testing.T) {
	t.Parallel()

	b, err := ParseHTML(context.Background(), fixtureHTML)
	require.NoError(t, err)

	d := NewTableDecorator()
	d.ApplyAlternatingStripe(b.Doc)
	d.ApplyRowHoverHighlight(b.Doc)
	b.Commit(HoverInline, false)

	out, err := b.Render()
	require.NoError(t, err)

	reparsed, err := ParseHTML(context.Background(), out)
	require.NoError(t, err)

	body := reparsed.Doc.Tables[0].Groups[1].Rows
	assert.Equal(t, "odd", body[0].Class.String())
	assert.Equal(t, "highlight even", body[1].Class.String())
	assert.Equal(t, "odd", body[2].Class.String())
	assert.Equal(t, "odd", reparsed.Doc.Tables[0].Groups[2].Rows[0].Class.String())
	assert.Equal(t, "", reparsed.Doc.Tables[0].Groups[0].Rows[0].Class.String(), "thead untouched")

	rows := reparsed.InlineRows()
	require.Len(t, rows, 4, "tbody rows of the ruler table only")
	for _, r := range rows {
		assert.Equal(t, 0, r.Table)
		assert.Equal(t, inlineEnterJS, r.Enter)
		assert.Equal(t, inlineLeaveJS, r.Leave)
	}

	assert.NotContains(t, out, `class=""`, "rows without class stay without the attribute")
}

func TestBoundDocument_CommitModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mode      HoverMode
		dedupe    bool
		wantRows  int
		wantEnter string
	}{
		{name: "inline", mode: HoverInline, wantRows: 4, wantEnter: inlineEnterJS},
		{name: "inline dedupe", mode: HoverInline, dedupe: true, wantRows: 4, wantEnter: inlineEnterDedupeJS},
		{name: "script", mode: HoverScript, wantRows: 0},
		{name: "none", mode: HoverNone, wantRows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := ParseHTML(context.Background(), fixtureHTML)
			require.NoError(t, err)
			NewTableDecorator(WithDedupeRuled(tt.dedupe)).ApplyRowHoverHighlight(b.Doc)
			b.Commit(tt.mode, tt.dedupe)

			rows := b.InlineRows()
			require.Len(t, rows, tt.wantRows)
			for _, r := range rows {
				assert.Equal(t, tt.wantEnter, r.Enter)
			}
		})
	}
}

func TestBoundDocument_KeepsEmptyClassAttr(t *testing.T) {
	t.Parallel()

	b, err := ParseHTML(context.Background(), `<table class="ruler"><tr class=""><td>a</td></tr></table>`)
	require.NoError(t, err)
	b.Commit(HoverNone, false)

	out, err := b.Render()
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `<tr class="">`), out)
}

func TestParseHoverMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    HoverMode
		wantErr bool
	}{
		{in: "", want: HoverInline},
		{in: "inline", want: HoverInline},
		{in: " Script ", want: HoverScript},
		{in: "none", want: HoverNone},
		{in: "css", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHoverMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHoverMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHoverHandlerSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "this.className+=' ruled';return false;", HoverHandlerSource(dom.HoverEnter, false))
	assert.Contains(t, HoverHandlerSource(dom.HoverEnter, true), "indexOf(' ruled')<0")
	assert.Equal(t, "this.className=this.className.replace(' ruled','');return false;", HoverHandlerSource(dom.HoverLeave, true))
	assert.Empty(t, HoverHandlerSource(dom.EventType(0), false))
}
