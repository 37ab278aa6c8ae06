//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkDecorateTables benchmarks parse, plan, apply and commit over
// documents with growing table counts.
func BenchmarkDecorateTables(b *testing.B) {
	ctx := context.Background()
	d := NewTableDecorator()

	for _, tables := range []int{1, 10, 50} {
		content := generateTablesHTML(tables, 40)
		b.Run(fmt.Sprintf("tables_%d", tables), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				bound, err := ParseHTML(ctx, content)
				if err != nil {
					b.Fatal(err)
				}
				d.ApplyAlternatingStripe(bound.Doc)
				d.ApplyRowHoverHighlight(bound.Doc)
				bound.Commit(HoverInline, false)
				if _, err := bound.Render(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkPlanOnly isolates planning from parsing and rendering.
func BenchmarkPlanOnly(b *testing.B) {
	bound, err := ParseHTML(context.Background(), generateTablesHTML(20, 100))
	if err != nil {
		b.Fatal(err)
	}
	d := NewTableDecorator()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = d.PlanAlternatingStripe(bound.Doc)
		_ = d.PlanRowHoverHighlight(bound.Doc)
	}
}

// BenchmarkGoldmarkTables benchmarks Markdown table conversion with a
// table class applied.
func BenchmarkGoldmarkTables(b *testing.B) {
	converter := NewGoldmarkConverter()
	ctx := context.Background()
	content := generateTablesMarkdown(10)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := converter.ToHTML(ctx, content, "ruler stripe"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInjectCSS benchmarks stylesheet injection into a large document.
func BenchmarkInjectCSS(b *testing.B) {
	injector := &CSSInjection{}
	ctx := context.Background()
	content := generateTablesHTML(20, 40)
	css := strings.Repeat("table.stripe tr.odd { background: #f6f8fa; }\n", 50)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = injector.InjectCSS(ctx, content, css)
	}
}

func generateTablesHTML(tables, rows int) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>bench</title></head><body>\n")
	for i := 0; i < tables; i++ {
		sb.WriteString(`<table class="ruler stripe"><thead><tr><th>A</th><th>B</th></tr></thead><tbody>`)
		for j := 0; j < rows; j++ {
			fmt.Fprintf(&sb, "<tr><td>%d</td><td>%d</td></tr>", i, j)
		}
		sb.WriteString("</tbody></table>\n")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func generateTablesMarkdown(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString("## Table Section\n\n")
		sb.WriteString("| Column 1 | Column 2 | Column 3 |\n")
		sb.WriteString("|----------|----------|----------|\n")
		for j := 0; j < 10; j++ {
			fmt.Fprintf(&sb, "| Cell %d-1 | Cell %d-2 | Cell %d-3 |\n", j, j, j)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
