package pipeline

import (
	"bytes"
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CSSInjector adds a stylesheet to an HTML document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, css string) string
}

// StyleInjection inserts CSS as an inline <style> element.
type StyleInjection struct{}

// InjectCSS places a <style> block before </head>, after <body> when there is
// no head, or at the very start as a last resort. Empty css is a no-op.
func (StyleInjection) InjectCSS(ctx context.Context, htmlContent, css string) string {
	if css == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + strings.ReplaceAll(css, "</", `<\/`) + "</style>"
	lower := strings.ToLower(htmlContent)

	if i := strings.Index(lower, "</head>"); i >= 0 {
		return htmlContent[:i] + block + htmlContent[i:]
	}
	if i := strings.Index(lower, "<body"); i >= 0 {
		if j := strings.IndexByte(htmlContent[i:], '>'); j >= 0 {
			at := i + j + 1
			return htmlContent[:at] + block + htmlContent[at:]
		}
	}
	return block + htmlContent
}

// FinishOptions controls Finish.
type FinishOptions struct {
	// SourceDir resolves relative img src and a href values. Empty disables
	// rewriting.
	SourceDir string
	// Title overrides the document title. Empty uses the first <h1>, then
	// FallbackTitle.
	Title         string
	FallbackTitle string
}

// Finished is the output of Finish.
type Finished struct {
	HTML  string
	Title string // resolved title, may be empty
}

// Finish parses a full HTML document once, points relative resources at
// file:// URLs under SourceDir and sets the <title> element.
func Finish(ctx context.Context, htmlContent string, opts FinishOptions) (*Finished, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	if opts.SourceDir != "" {
		dir, err := filepath.Abs(opts.SourceDir)
		if err != nil {
			return nil, err
		}
		rewriteAttr(doc.Find("img[src]"), "src", dir)
		rewriteAttr(doc.Find("a[href]"), "href", dir)
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = headingText(doc)
	}
	if title == "" {
		title = strings.TrimSpace(opts.FallbackTitle)
	}
	if title != "" {
		setTitle(doc, title)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return &Finished{HTML: buf.String(), Title: title}, nil
}

// DocumentTitle returns the text of the first <h1>, else the <title>
// element, else "".
func DocumentTitle(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	if t := headingText(doc); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func headingText(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")
}

func setTitle(doc *goquery.Document, title string) {
	if existing := doc.Find("head > title").First(); existing.Length() > 0 {
		existing.SetText(title)
		return
	}
	doc.Find("head").First().AppendHtml("<title>" + html.EscapeString(title) + "</title>")
}

func rewriteAttr(sel *goquery.Selection, attr, dir string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		val, _ := s.Attr(attr)
		if resolved, ok := localFileURL(val, dir); ok {
			s.SetAttr(attr, resolved)
		}
	})
}

// localFileURL maps a relative path under dir to a file:// URL.
// URLs, anchors, absolute paths and paths escaping dir are left alone.
func localFileURL(ref, dir string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") || filepath.IsAbs(ref) {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return "", false
	}

	abs := filepath.Join(dir, ref)
	rel, err := filepath.Rel(dir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), true
}
