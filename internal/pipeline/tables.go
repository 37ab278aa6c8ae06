package pipeline

import (
	"strings"

	"github.com/alnah/go-tabledecor/internal/dom"
)

// Default marker substrings and the class tokens written on rows.
const (
	DefaultRulerMarker  = "ruler"
	DefaultStripeMarker = "stripe"

	RuledToken = "ruled"
	OddToken   = "odd"
	EvenToken  = "even"

	// ruledSuffix is what hover-enter appends and hover-leave removes.
	ruledSuffix = " " + RuledToken
)

// Markers holds the substrings that opt a table into each behavior.
type Markers struct {
	Ruler  string
	Stripe string
}

// DefaultMarkers returns the ruler/stripe markers.
func DefaultMarkers() Markers {
	return Markers{Ruler: DefaultRulerMarker, Stripe: DefaultStripeMarker}
}

// HasMarker reports whether marker occurs anywhere in a table class
// attribute. "rulerTheme" carries the "ruler" marker. An empty marker never
// matches.
func HasMarker(classAttr, marker string) bool {
	return marker != "" && strings.Contains(classAttr, marker)
}

// MutationKind distinguishes the two kinds of planned changes.
type MutationKind int

// Mutation kinds.
const (
	SetClass MutationKind = iota + 1
	BindHover
)

// Mutation is one planned change to a row.
type Mutation struct {
	Kind MutationKind
	Row  *dom.Row

	// Class is the full class string for SetClass.
	Class string

	// Event and Handler are set for BindHover.
	Event   dom.EventType
	Handler dom.Handler
}

// TableDecorator applies the ruler and stripe behaviors to a document.
// The zero value is not usable; create with NewTableDecorator.
type TableDecorator struct {
	env         dom.Environment
	markers     Markers
	sections    map[dom.GroupKind]bool
	dedupeRuled bool
}

// TableOption configures a TableDecorator.
type TableOption func(*TableDecorator)

// WithEnvironment sets the capability predicate consulted before each run.
func WithEnvironment(env dom.Environment) TableOption {
	return func(d *TableDecorator) {
		d.env = env
	}
}

// WithMarkers overrides the marker substrings. Empty fields keep defaults.
func WithMarkers(m Markers) TableOption {
	return func(d *TableDecorator) {
		if m.Ruler != "" {
			d.markers.Ruler = m.Ruler
		}
		if m.Stripe != "" {
			d.markers.Stripe = m.Stripe
		}
	}
}

// WithSections selects which row-group kinds are decorated.
// An empty list keeps the default (tbody only).
func WithSections(kinds ...dom.GroupKind) TableOption {
	return func(d *TableDecorator) {
		if len(kinds) == 0 {
			return
		}
		d.sections = make(map[dom.GroupKind]bool, len(kinds))
		for _, k := range kinds {
			d.sections[k] = true
		}
	}
}

// WithDedupeRuled makes hover-enter skip rows already carrying " ruled".
// Off by default: repeated enters without a leave stack the suffix.
func WithDedupeRuled(on bool) TableOption {
	return func(d *TableDecorator) {
		d.dedupeRuled = on
	}
}

// NewTableDecorator returns a decorator for a modern environment with the
// default markers, decorating tbody sections.
func NewTableDecorator(opts ...TableOption) *TableDecorator {
	d := &TableDecorator{
		env:      dom.Modern,
		markers:  DefaultMarkers(),
		sections: map[dom.GroupKind]bool{dom.GroupBody: true},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Markers returns the effective markers.
func (d *TableDecorator) Markers() Markers {
	return d.markers
}

// DedupeRuled reports whether hover-enter is deduplicated.
func (d *TableDecorator) DedupeRuled() bool {
	return d.dedupeRuled
}

// PlanRowHoverHighlight returns the hover bindings for every row of every
// ruler table. The document is not modified.
func (d *TableDecorator) PlanRowHoverHighlight(doc *dom.Document) []Mutation {
	if doc == nil || !dom.Supports(d.env) {
		return nil
	}

	enter := hoverEnter(d.dedupeRuled)
	var plan []Mutation
	for _, t := range doc.Tables {
		if !HasMarker(t.Class, d.markers.Ruler) {
			continue
		}
		for _, g := range d.groups(t) {
			for _, r := range g.Rows {
				plan = append(plan,
					Mutation{Kind: BindHover, Row: r, Event: dom.HoverEnter, Handler: enter},
					Mutation{Kind: BindHover, Row: r, Event: dom.HoverLeave, Handler: hoverLeave},
				)
			}
		}
	}
	return plan
}

// PlanAlternatingStripe returns the class assignments for every row of every
// stripe table. Alternation restarts at "odd" in each row-group. The document
// is not modified.
func (d *TableDecorator) PlanAlternatingStripe(doc *dom.Document) []Mutation {
	if doc == nil || !dom.Supports(d.env) {
		return nil
	}

	var plan []Mutation
	for _, t := range doc.Tables {
		if !HasMarker(t.Class, d.markers.Stripe) {
			continue
		}
		for _, g := range d.groups(t) {
			even := false
			for _, r := range g.Rows {
				token := OddToken
				if even {
					token = EvenToken
				}
				next := r.Class
				next.Add(token)
				plan = append(plan, Mutation{Kind: SetClass, Row: r, Class: next.String()})
				even = !even
			}
		}
	}
	return plan
}

// Apply performs a plan in order.
func Apply(plan []Mutation) {
	for _, m := range plan {
		switch m.Kind {
		case SetClass:
			m.Row.Class = dom.NewClassList(m.Class)
		case BindHover:
			m.Row.Bind(m.Event, m.Handler)
		}
	}
}

// ApplyRowHoverHighlight plans and applies the ruler behavior.
// The applied plan is returned for reporting.
func (d *TableDecorator) ApplyRowHoverHighlight(doc *dom.Document) []Mutation {
	plan := d.PlanRowHoverHighlight(doc)
	Apply(plan)
	return plan
}

// ApplyAlternatingStripe plans and applies the stripe behavior.
// The applied plan is returned for reporting.
func (d *TableDecorator) ApplyAlternatingStripe(doc *dom.Document) []Mutation {
	plan := d.PlanAlternatingStripe(doc)
	Apply(plan)
	return plan
}

// groups returns the row-groups of t whose kind is decorated.
func (d *TableDecorator) groups(t *dom.Table) []*dom.RowGroup {
	out := make([]*dom.RowGroup, 0, len(t.Groups))
	for _, g := range t.Groups {
		if d.sections[g.Kind] {
			out = append(out, g)
		}
	}
	return out
}

func hoverEnter(dedupe bool) dom.Handler {
	return func(r *dom.Row) bool {
		if dedupe && strings.Contains(r.Class.String(), ruledSuffix) {
			return false
		}
		r.Class.Append(ruledSuffix)
		return false
	}
}

func hoverLeave(r *dom.Row) bool {
	r.Class.RemoveFirst(ruledSuffix)
	return false
}
