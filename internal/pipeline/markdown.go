package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates goldmark failed to render the document.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Private Use Area runes survive goldmark untouched and are swapped for
// <mark> tags once rendering is done.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	lineEndings     = regexp.MustCompile(`\r\n?`)
	blankLineRuns   = regexp.MustCompile(`\n{3,}`)
	highlightMarker = regexp.MustCompile(`==(.*?)==`)
)

// documentShell wraps the rendered fragment. The title is filled in later
// by Finish.
const documentShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
</head>
<body>
%s
</body>
</html>`

// Preprocessor rewrites Markdown source before rendering.
type Preprocessor interface {
	Preprocess(ctx context.Context, source string) string
}

// HTMLConverter renders Markdown into a full HTML document.
type HTMLConverter interface {
	ToHTML(ctx context.Context, source string) (string, error)
}

// SourcePreprocessor normalizes Markdown text.
type SourcePreprocessor struct{}

// Preprocess normalizes line endings, collapses runs of blank lines and
// replaces ==text== with highlight placeholders. A cancelled context
// returns source unchanged.
func (SourcePreprocessor) Preprocess(ctx context.Context, source string) string {
	if ctx.Err() != nil {
		return source
	}
	out := lineEndings.ReplaceAllString(source, "\n")
	out = highlightMarker.ReplaceAllString(out, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return blankLineRuns.ReplaceAllString(out, "\n\n")
}

// GoldmarkConverter renders Markdown with goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter returns a converter with GFM, footnotes, heading IDs
// and class-based chroma highlighting. Raw HTML in the source is not
// rendered.
func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)}
}

// Markdown exposes the configured goldmark instance so other renderers can
// walk the same AST.
func (c *GoldmarkConverter) Markdown() goldmark.Markdown {
	return c.md
}

// ToHTML renders source into a standalone HTML5 document.
// goldmark has no context support, so rendering runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type rendered struct {
		doc string
		err error
	}
	done := make(chan rendered, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(source), &buf); err != nil {
			done <- rendered{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		body := ReplaceMarkPlaceholders(buf.String())
		done <- rendered{doc: fmt.Sprintf(documentShell, body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

// ReplaceMarkPlaceholders turns highlight placeholders into <mark> tags.
func ReplaceMarkPlaceholders(s string) string {
	return strings.NewReplacer(
		MarkStartPlaceholder, "<mark>",
		MarkEndPlaceholder, "</mark>",
	).Replace(s)
}

// StripMarkPlaceholders removes highlight placeholders, for renderers that
// have no highlight style.
func StripMarkPlaceholders(s string) string {
	return strings.NewReplacer(MarkStartPlaceholder, "", MarkEndPlaceholder, "").Replace(s)
}
