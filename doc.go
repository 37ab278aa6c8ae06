// Package tabledecor adds row hover highlighting and alternating stripes to
// the tables of an HTML document.
//
// # Quick Start
//
// Create a decorator, decorate a document, and close when done:
//
//	dec, err := tabledecor.NewDecorator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dec.Close()
//
//	result, err := dec.Decorate(ctx, tabledecor.Input{
//	    HTML: `<table class="ruler stripe">...</table>`,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.html", result.HTML, 0644)
//
// # Behaviors
//
// A table opts in through its class attribute. The markers are matched as
// substrings, so class="rulerTheme" opts into the ruler:
//
//   - ruler: every row gets hover handlers. Entering appends " ruled" to the
//     row's class, leaving removes the first " ruled" again.
//   - stripe: rows get "odd" and "even" alternately, restarting at "odd" in
//     each row-group.
//
// Only tbody rows are decorated unless WithSections says otherwise.
//
// # Decoration Pipeline
//
//  1. Markdown to HTML conversion via Goldmark, when Input.Markdown is set
//  2. HTML parsing and table binding (golang.org/x/net/html)
//  3. Stripes, then ruler bindings
//  4. Serialization: inline handlers, a client script, or nothing (HoverMode)
//  5. Style injection
//
// # Configuration
//
//	dec, err := tabledecor.NewDecorator(
//	    tabledecor.WithMarkers(tabledecor.Markers{Ruler: "grid"}),
//	    tabledecor.WithHoverMode(tabledecor.HoverScript),
//	    tabledecor.WithSections(tabledecor.SectionBody, tabledecor.SectionFoot),
//	    tabledecor.WithStyle("minimal"),
//	)
//
// # Verification
//
// Verify replays hover on decorated output. EngineGoja runs the inline
// handlers in an embedded JavaScript runtime; EngineChrome moves a real
// pointer in headless Chrome (go-rod) and also covers HoverScript output:
//
//	report, err := dec.Verify(ctx, string(result.HTML), tabledecor.EngineGoja)
//	if err == nil && !report.OK() {
//	    // some rows did not toggle "ruled"
//	}
//
// # Parallel Processing
//
// For batch decoration, use DecoratorPool:
//
//	pool := tabledecor.NewDecoratorPool(4)
//	defer pool.Close()
//
//	dec, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(dec)
//
// # Custom Assets
//
// WithAssetPath points at a directory overriding the embedded assets:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── scripts/
//	    └── ruler.js
package tabledecor
