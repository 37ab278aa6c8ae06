package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrScriptRender indicates the hover script template could not be rendered.
var ErrScriptRender = errors.New("hover script rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCloseTags(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if pos, ok := afterBodyOpen(htmlContent, lowerHTML); ok {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}

	return styleBlock + htmlContent
}

// afterBodyOpen returns the offset just past the <body ...> start tag.
func afterBodyOpen(htmlContent, lowerHTML string) (int, bool) {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return 0, false
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return 0, false
	}
	return idx + closeIdx + 1, true
}

// sanitizeCloseTags escapes "</" so content cannot terminate the
// <style> or <script> element it is embedded in.
func sanitizeCloseTags(content string) string {
	return strings.ReplaceAll(content, "</", `<\/`)
}

// ScriptData parameterizes the client-side hover script.
type ScriptData struct {
	Marker   string   // substring that opts a table in
	Token    string   // class token toggled on hover
	Sections []string // row-group tag names, lower case
	Dedupe   bool
}

// ScriptInjector defines the contract for hover script injection into HTML.
type ScriptInjector interface {
	InjectScript(ctx context.Context, htmlContent string, data *ScriptData) (string, error)
}

// ScriptInjection renders the hover script template and injects it.
type ScriptInjection struct {
	tmpl *template.Template
}

// NewScriptInjection parses the hover script template.
func NewScriptInjection(tmplContent string) (*ScriptInjection, error) {
	tmpl, err := template.New("script").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing script template: %w", err)
	}
	return &ScriptInjection{tmpl: tmpl}, nil
}

// InjectScript renders the script and inserts it before </body>, or appends
// it when there is no body end tag. A nil data returns htmlContent unchanged.
func (s *ScriptInjection) InjectScript(ctx context.Context, htmlContent string, data *ScriptData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptRender, err)
	}

	scriptBlock := "<script>" + sanitizeCloseTags(buf.String()) + "</script>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.LastIndex(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + scriptBlock + htmlContent[idx:], nil
	}

	return htmlContent + scriptBlock, nil
}
