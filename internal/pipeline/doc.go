// Package pipeline implements the table decoration pipeline.
//
// Stages, in the order the root tabledecor package runs them:
//   - Markdown to HTML conversion via Goldmark, with a class applied to tables
//   - HTML parsing and binding of tables, row-groups and rows to the dom model
//   - Row hover highlighting and alternating stripes, planned then applied
//   - Commit of row classes and inline hover handlers back into the HTML
//   - Relative asset path rewriting, CSS and hover script injection
//
// Browser verification is handled separately by the root package.
package pipeline
