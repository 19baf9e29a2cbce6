// Package pipeline turns Markdown source into a styled, self-contained HTML
// document ready for PDF rendering.
//
// Stages, in order:
//   - Preprocessing (line endings, blank line runs, ==highlight== markers)
//   - Goldmark rendering (GFM, footnotes, chroma highlighting)
//   - Document finishing (relative paths to file:// URLs, <title> from the first heading)
//   - Stylesheet injection
//
// PDF rendering itself lives in the root enclose package, which picks a
// browser or pure-Go engine.
package pipeline
