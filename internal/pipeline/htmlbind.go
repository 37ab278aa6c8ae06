package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-tabledecor/internal/dom"
)

// Sentinel errors for the HTML binding.
var (
	ErrHTMLParse        = errors.New("HTML parsing failed")
	ErrHTMLRender       = errors.New("HTML rendering failed")
	ErrInvalidHoverMode = errors.New("invalid hover mode")
)

// HoverMode selects how hover bindings are materialized in static HTML.
type HoverMode string

// Hover modes.
const (
	// HoverInline writes onmouseover/onmouseout attributes on each row.
	HoverInline HoverMode = "inline"
	// HoverScript leaves rows alone and ships a client script instead.
	HoverScript HoverMode = "script"
	// HoverNone plans bindings for reporting but emits nothing.
	HoverNone HoverMode = "none"
)

// ParseHoverMode validates a hover mode name. Empty means inline.
func ParseHoverMode(s string) (HoverMode, error) {
	switch HoverMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HoverInline:
		return HoverInline, nil
	case HoverScript:
		return HoverScript, nil
	case HoverNone:
		return HoverNone, nil
	default:
		return "", fmt.Errorf("%w: %q (must be inline, script, or none)", ErrInvalidHoverMode, s)
	}
}

// Inline handler bodies. They mirror hoverEnter/hoverLeave: JavaScript's
// String.prototype.replace with a string pattern removes the first match.
const (
	inlineEnterJS       = "this.className+=' " + RuledToken + "';return false;"
	inlineEnterDedupeJS = "if(this.className.indexOf(' " + RuledToken + "')<0){this.className+=' " + RuledToken + "'};return false;"
	inlineLeaveJS       = "this.className=this.className.replace(' " + RuledToken + "','');return false;"
)

// HoverHandlerSource returns the inline handler body written for ev.
func HoverHandlerSource(ev dom.EventType, dedupe bool) string {
	switch ev {
	case dom.HoverEnter:
		if dedupe {
			return inlineEnterDedupeJS
		}
		return inlineEnterJS
	case dom.HoverLeave:
		return inlineLeaveJS
	default:
		return ""
	}
}

// Inline handler attribute names.
const (
	attrEnter = "onmouseover"
	attrLeave = "onmouseout"
)

// BoundDocument ties a dom.Document to the parsed HTML it was built from.
type BoundDocument struct {
	Doc *dom.Document

	root       *html.Node
	isFragment bool
	rows       map[*dom.Row]*rowNode
}

type rowNode struct {
	node     *html.Node
	hadClass bool
}

// ParseHTML parses content and binds every table in it. Input carrying a
// doctype or an explicit html, head or body tag renders back as a document;
// anything else is treated as a body fragment and renders without a wrapper.
func ParseHTML(ctx context.Context, content string) (*BoundDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, isFragment, err := parseHTML(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}
	b := Bind(root)
	b.isFragment = isFragment
	return b, nil
}

// byteOrderMark is dropped before parsing: as leading text it would push
// the parser past the doctype and into quirks mode.
const byteOrderMark = "\ufeff"

// parseHTML parses a full document or a body fragment.
func parseHTML(content string) (*html.Node, bool, error) {
	content = strings.TrimPrefix(content, byteOrderMark)

	if isDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// isDocument reports whether content has a doctype or an explicit html,
// head or body tag anywhere. Comments and text are skipped.
func isDocument(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken:
			return true
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html, atom.Head, atom.Body:
				return true
			}
		}
	}
}

// Bind builds the table model for an already parsed tree.
// Tables are listed in document order, nested tables included.
// Row-groups are the direct thead/tbody/tfoot children of a table and rows
// the direct tr children of a group.
func Bind(root *html.Node) *BoundDocument {
	b := &BoundDocument{
		Doc:  &dom.Document{},
		root: root,
		rows: make(map[*dom.Row]*rowNode),
	}
	b.walk(root)
	return b
}

func (b *BoundDocument) walk(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		b.bindTable(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *BoundDocument) bindTable(n *html.Node) {
	class, _ := getAttr(n, "class")
	table := &dom.Table{Class: class}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		kind, ok := groupKind(c)
		if !ok {
			continue
		}
		group := &dom.RowGroup{Kind: kind}
		for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
				continue
			}
			rowClass, had := getAttr(tr, "class")
			row := dom.NewRow(rowClass)
			group.Rows = append(group.Rows, row)
			b.rows[row] = &rowNode{node: tr, hadClass: had}
		}
		table.Groups = append(table.Groups, group)
	}

	b.Doc.Tables = append(b.Doc.Tables, table)
}

func groupKind(n *html.Node) (dom.GroupKind, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	switch n.DataAtom {
	case atom.Thead:
		return dom.GroupHead, true
	case atom.Tbody:
		return dom.GroupBody, true
	case atom.Tfoot:
		return dom.GroupFoot, true
	default:
		return "", false
	}
}

// Commit writes row classes back to the tree and, in inline mode, the hover
// handler attributes of bound rows.
func (b *BoundDocument) Commit(mode HoverMode, dedupe bool) {
	for _, t := range b.Doc.Tables {
		for _, r := range t.Rows() {
			rn := b.rows[r]
			if rn == nil {
				continue
			}
			class := r.Class.String()
			if class != "" || rn.hadClass {
				setAttr(rn.node, "class", class)
			}
			if mode != HoverInline {
				continue
			}
			if r.Bound(dom.HoverEnter) {
				setAttr(rn.node, attrEnter, HoverHandlerSource(dom.HoverEnter, dedupe))
			}
			if r.Bound(dom.HoverLeave) {
				setAttr(rn.node, attrLeave, HoverHandlerSource(dom.HoverLeave, dedupe))
			}
		}
	}
}

// Render serializes the tree. Fragments render their top-level nodes only.
func (b *BoundDocument) Render() (string, error) {
	var buf bytes.Buffer
	if !b.isFragment {
		if err := html.Render(&buf, b.root); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
		}
		return buf.String(), nil
	}
	for c := b.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
		}
	}
	return buf.String(), nil
}

// IsFragment reports whether the input was parsed as a body fragment.
func (b *BoundDocument) IsFragment() bool {
	return b.isFragment
}

// InlineRow describes a row carrying inline hover handlers.
type InlineRow struct {
	Table      int    // index in document order
	Row        int    // index among the table's rows
	TableClass string // raw class attribute of the table
	Group      dom.GroupKind
	Class      string
	Enter      string
	Leave      string
}

// InlineRows lists every row that has an onmouseover or onmouseout attribute.
func (b *BoundDocument) InlineRows() []InlineRow {
	var out []InlineRow
	for ti, t := range b.Doc.Tables {
		ri := 0
		for _, g := range t.Groups {
			for _, r := range g.Rows {
				if row, ok := b.inlineRow(r); ok {
					row.Table, row.Row = ti, ri
					row.TableClass, row.Group = t.Class, g.Kind
					out = append(out, row)
				}
				ri++
			}
		}
	}
	return out
}

func (b *BoundDocument) inlineRow(r *dom.Row) (InlineRow, bool) {
	rn := b.rows[r]
	if rn == nil {
		return InlineRow{}, false
	}
	enter, hasEnter := getAttr(rn.node, attrEnter)
	leave, hasLeave := getAttr(rn.node, attrLeave)
	if !hasEnter && !hasLeave {
		return InlineRow{}, false
	}
	class, _ := getAttr(rn.node, "class")
	return InlineRow{Class: class, Enter: enter, Leave: leave}, true
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
