package dom

import "strings"

// ClassList is a row's class attribute kept as the exact string a browser
// would hold. Insertion order is preserved; tokens are space separated.
type ClassList struct {
	raw string
}

// NewClassList wraps a raw class attribute value.
func NewClassList(raw string) ClassList {
	return ClassList{raw: raw}
}

// String returns the raw class string.
func (c ClassList) String() string {
	return c.raw
}

// Empty reports whether the class string is empty.
func (c ClassList) Empty() bool {
	return c.raw == ""
}

// Tokens splits the class string on whitespace.
func (c ClassList) Tokens() []string {
	return strings.Fields(c.raw)
}

// Has reports whether token is present as a whole token.
func (c ClassList) Has(token string) bool {
	for _, t := range c.Tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends token, separated by a single space unless the list is empty.
func (c *ClassList) Add(token string) {
	if c.raw == "" {
		c.raw = token
		return
	}
	c.raw += " " + token
}

// Append concatenates literal verbatim, leading space included if any.
func (c *ClassList) Append(literal string) {
	c.raw += literal
}

// RemoveFirst deletes the first exact occurrence of literal.
func (c *ClassList) RemoveFirst(literal string) bool {
	if literal == "" {
		return false
	}
	idx := strings.Index(c.raw, literal)
	if idx < 0 {
		return false
	}
	c.raw = c.raw[:idx] + c.raw[idx+len(literal):]
	return true
}
