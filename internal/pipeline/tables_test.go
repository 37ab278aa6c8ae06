package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-tabledecor/internal/dom"
)

// newTable builds a table with one tbody per entry of groups; each entry
// lists the initial row classes.
func newTable(class string, groups ...[]string) *dom.Table {
	t := &dom.Table{Class: class}
	for _, classes := range groups {
		g := &dom.RowGroup{Kind: dom.GroupBody}
		for _, c := range classes {
			g.Rows = append(g.Rows, dom.NewRow(c))
		}
		t.Groups = append(t.Groups, g)
	}
	return t
}

func classes(rows []*dom.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Class.String()
	}
	return out
}

func TestHasMarker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		class  string
		marker string
		want   bool
	}{
		{name: "exact token", class: "ruler", marker: "ruler", want: true},
		{name: "among tokens", class: "data ruler wide", marker: "ruler", want: true},
		{name: "substring of a token", class: "rulerTheme", marker: "ruler", want: true},
		{name: "suffix of a token", class: "no-stripe", marker: "stripe", want: true},
		{name: "absent", class: "data", marker: "ruler", want: false},
		{name: "case sensitive", class: "Ruler", marker: "ruler", want: false},
		{name: "empty marker", class: "ruler", marker: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, HasMarker(tt.class, tt.marker))
		})
	}
}

func TestApplyRowHoverHighlight(t *testing.T) {
	t.Parallel()

	t.Run("every row of a ruler table is bound", func(t *testing.T) {
		t.Parallel()

		ruled := newTable("ruler", []string{"", "a"}, []string{"b"})
		plain := newTable("data", []string{"", ""})
		doc := &dom.Document{Tables: []*dom.Table{ruled, plain}}

		plan := NewTableDecorator().ApplyRowHoverHighlight(doc)
		assert.Len(t, plan, 6)

		for _, r := range ruled.Rows() {
			assert.True(t, r.Bound(dom.HoverEnter))
			assert.True(t, r.Bound(dom.HoverLeave))
		}
		for _, r := range plain.Rows() {
			assert.False(t, r.Bound(dom.HoverEnter))
			assert.False(t, r.Bound(dom.HoverLeave))
		}
	})

	t.Run("substring marker enables ruler", func(t *testing.T) {
		t.Parallel()

		table := newTable("rulerTheme", []string{""})
		NewTableDecorator().ApplyRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		assert.True(t, table.Rows()[0].Bound(dom.HoverEnter))
	})

	t.Run("hover toggle restores empty class", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{""})
		NewTableDecorator().ApplyRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		row := table.Rows()[0]

		assert.False(t, row.Dispatch(dom.HoverEnter), "enter is handled")
		assert.Equal(t, " ruled", row.Class.String())

		assert.False(t, row.Dispatch(dom.HoverLeave), "leave is handled")
		assert.Equal(t, "", row.Class.String())
	})

	t.Run("existing class survives toggle", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{"odd"})
		NewTableDecorator().ApplyRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		row := table.Rows()[0]

		row.Dispatch(dom.HoverEnter)
		assert.Equal(t, "odd ruled", row.Class.String())
		row.Dispatch(dom.HoverLeave)
		assert.Equal(t, "odd", row.Class.String())
	})

	t.Run("double enter stacks the suffix", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{""})
		NewTableDecorator().ApplyRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		row := table.Rows()[0]

		row.Dispatch(dom.HoverEnter)
		row.Dispatch(dom.HoverEnter)
		assert.Equal(t, " ruled ruled", row.Class.String())

		row.Dispatch(dom.HoverLeave)
		assert.Equal(t, " ruled", row.Class.String())
		row.Dispatch(dom.HoverLeave)
		assert.Equal(t, "", row.Class.String())
	})

	t.Run("leave is idempotent", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{"x"})
		NewTableDecorator().ApplyRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		row := table.Rows()[0]

		row.Dispatch(dom.HoverLeave)
		row.Dispatch(dom.HoverLeave)
		assert.Equal(t, "x", row.Class.String())
	})

	t.Run("dedupe keeps a single suffix", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{""})
		NewTableDecorator(WithDedupeRuled(true)).
			ApplyRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		row := table.Rows()[0]

		row.Dispatch(dom.HoverEnter)
		row.Dispatch(dom.HoverEnter)
		assert.Equal(t, " ruled", row.Class.String())
		row.Dispatch(dom.HoverLeave)
		assert.Equal(t, "", row.Class.String())
	})

	t.Run("planning does not mutate", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{""})
		plan := NewTableDecorator().PlanRowHoverHighlight(&dom.Document{Tables: []*dom.Table{table}})
		require.Len(t, plan, 2)
		assert.False(t, table.Rows()[0].Bound(dom.HoverEnter))
	})
}

func TestApplyAlternatingStripe(t *testing.T) {
	t.Parallel()

	t.Run("alternates within a group", func(t *testing.T) {
		t.Parallel()

		table := newTable("stripe", []string{"", "", "", ""})
		NewTableDecorator().ApplyAlternatingStripe(&dom.Document{Tables: []*dom.Table{table}})
		assert.Equal(t, []string{"odd", "even", "odd", "even"}, classes(table.Rows()))
	})

	t.Run("counter resets per group", func(t *testing.T) {
		t.Parallel()

		table := newTable("stripe", []string{"", "", ""}, []string{"", ""})
		NewTableDecorator().ApplyAlternatingStripe(&dom.Document{Tables: []*dom.Table{table}})
		assert.Equal(t, []string{"odd", "even", "odd"}, classes(table.Groups[0].Rows))
		assert.Equal(t, []string{"odd", "even"}, classes(table.Groups[1].Rows))
	})

	t.Run("existing class is preserved", func(t *testing.T) {
		t.Parallel()

		table := newTable("stripe", []string{"", "highlight"})
		NewTableDecorator().ApplyAlternatingStripe(&dom.Document{Tables: []*dom.Table{table}})
		assert.Equal(t, []string{"odd", "highlight even"}, classes(table.Rows()))
	})

	t.Run("non stripe tables untouched", func(t *testing.T) {
		t.Parallel()

		table := newTable("ruler", []string{"", "a"})
		plan := NewTableDecorator().ApplyAlternatingStripe(&dom.Document{Tables: []*dom.Table{table}})
		assert.Empty(t, plan)
		assert.Equal(t, []string{"", "a"}, classes(table.Rows()))
	})

	t.Run("planning is deterministic", func(t *testing.T) {
		t.Parallel()

		table := newTable("stripe", []string{"a", "", "b"})
		doc := &dom.Document{Tables: []*dom.Table{table}}
		d := NewTableDecorator()

		first := d.PlanAlternatingStripe(doc)
		second := d.PlanAlternatingStripe(doc)
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Class, second[i].Class)
			assert.Same(t, first[i].Row, second[i].Row)
		}
	})

	t.Run("second run concatenates", func(t *testing.T) {
		t.Parallel()

		table := newTable("stripe", []string{"", "", "x"})
		doc := &dom.Document{Tables: []*dom.Table{table}}
		d := NewTableDecorator()

		d.ApplyAlternatingStripe(doc)
		d.ApplyAlternatingStripe(doc)
		assert.Equal(t, []string{"odd odd", "even even", "x odd odd"}, classes(table.Rows()))
	})
}

func TestTableDecorator_Environment(t *testing.T) {
	t.Parallel()

	table := newTable("ruler stripe", []string{"", ""})
	doc := &dom.Document{Tables: []*dom.Table{table}}
	d := NewTableDecorator(WithEnvironment(dom.Unsupported))

	assert.Empty(t, d.ApplyAlternatingStripe(doc))
	assert.Empty(t, d.ApplyRowHoverHighlight(doc))
	assert.Equal(t, []string{"", ""}, classes(table.Rows()))
	assert.False(t, table.Rows()[0].Bound(dom.HoverEnter))

	var nilEnv dom.Environment
	assert.Empty(t, NewTableDecorator(WithEnvironment(nilEnv)).PlanAlternatingStripe(doc))
	assert.Empty(t, NewTableDecorator().PlanAlternatingStripe(nil))
}

func TestTableDecorator_Sections(t *testing.T) {
	t.Parallel()

	newDoc := func() (*dom.Document, *dom.Table) {
		table := &dom.Table{Class: "stripe", Groups: []*dom.RowGroup{
			{Kind: dom.GroupHead, Rows: []*dom.Row{dom.NewRow("")}},
			{Kind: dom.GroupBody, Rows: []*dom.Row{dom.NewRow(""), dom.NewRow("")}},
			{Kind: dom.GroupFoot, Rows: []*dom.Row{dom.NewRow("")}},
		}}
		return &dom.Document{Tables: []*dom.Table{table}}, table
	}

	t.Run("tbody only by default", func(t *testing.T) {
		t.Parallel()

		doc, table := newDoc()
		NewTableDecorator().ApplyAlternatingStripe(doc)
		assert.Equal(t, []string{"", "odd", "even", ""}, classes(table.Rows()))
	})

	t.Run("all sections when asked", func(t *testing.T) {
		t.Parallel()

		doc, table := newDoc()
		NewTableDecorator(WithSections(dom.GroupHead, dom.GroupBody, dom.GroupFoot)).ApplyAlternatingStripe(doc)
		assert.Equal(t, []string{"odd", "odd", "even", "odd"}, classes(table.Rows()))
	})
}

func TestTableDecorator_Markers(t *testing.T) {
	t.Parallel()

	d := NewTableDecorator(WithMarkers(Markers{Stripe: "zebra"}))
	assert.Equal(t, Markers{Ruler: "ruler", Stripe: "zebra"}, d.Markers())

	table := newTable("zebra", []string{"", ""})
	d.ApplyAlternatingStripe(&dom.Document{Tables: []*dom.Table{table}})
	assert.Equal(t, []string{"odd", "even"}, classes(table.Rows()))
}
