// Package dom is the in-memory document model the table decorator works on.
//
// A Document owns Tables, a Table owns RowGroups, a RowGroup owns Rows. The
// model is deliberately small: host bindings (static HTML, a live browser)
// build it from their own representation and write the result back.
package dom

// Document is an ordered list of tables, in document order.
type Document struct {
	Tables []*Table
}

// Table is a table element with its raw class attribute and row-groups.
type Table struct {
	// Class is the raw class attribute. Markers are matched against it as
	// substrings, not tokens.
	Class  string
	Groups []*RowGroup
}

// GroupKind names the section element a RowGroup comes from.
type GroupKind string

// Row-group kinds.
const (
	GroupHead GroupKind = "thead"
	GroupBody GroupKind = "tbody"
	GroupFoot GroupKind = "tfoot"
)

// RowGroup is one grouping section of a table.
type RowGroup struct {
	Kind GroupKind
	Rows []*Row
}

// EventType identifies a pointer transition delivered to a row.
type EventType int

// Hover transitions.
const (
	HoverEnter EventType = iota + 1
	HoverLeave
)

// String returns the DOM event name.
func (e EventType) String() string {
	switch e {
	case HoverEnter:
		return "mouseover"
	case HoverLeave:
		return "mouseout"
	default:
		return "unknown"
	}
}

// Handler reacts to an event on a row. It returns whether the event should
// keep propagating: false means handled.
type Handler func(r *Row) bool

// Row is a table row: a live class string and two optional hover handlers.
type Row struct {
	Class ClassList

	onEnter Handler
	onLeave Handler
}

// NewRow returns a row whose class string is class.
func NewRow(class string) *Row {
	return &Row{Class: NewClassList(class)}
}

// Bind installs h for ev, replacing any previous binding.
func (r *Row) Bind(ev EventType, h Handler) {
	switch ev {
	case HoverEnter:
		r.onEnter = h
	case HoverLeave:
		r.onLeave = h
	}
}

// Bound reports whether a handler is installed for ev.
func (r *Row) Bound(ev EventType) bool {
	switch ev {
	case HoverEnter:
		return r.onEnter != nil
	case HoverLeave:
		return r.onLeave != nil
	default:
		return false
	}
}

// Dispatch runs the handler bound to ev synchronously and returns its
// propagate flag. Rows without a binding let the event propagate.
func (r *Row) Dispatch(ev EventType) bool {
	var h Handler
	switch ev {
	case HoverEnter:
		h = r.onEnter
	case HoverLeave:
		h = r.onLeave
	}
	if h == nil {
		return true
	}
	return h(r)
}

// Rows returns every row of every group, in document order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, g := range t.Groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}
