package enclose

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-enclose/internal/pipeline"
)

var _ pdfConverter = (*nativeConverter)(nil)

// Native layout constants, in millimetres and points.
const (
	mmPerInch      = 25.4
	nativeFont     = "Helvetica"
	nativeCodeFont = "Courier"
	nativeBodySize = 10.0
	nativeLineMM   = 5.0
)

// nativeConverter renders PDFs without a browser. The styled HTML is turned
// back into Markdown and laid out from the goldmark AST with fpdf, so the
// result ignores CSS.
type nativeConverter struct {
	md goldmark.Markdown
}

func newNativeConverter() *nativeConverter {
	return &nativeConverter{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (c *nativeConverter) Close() error { return nil }

func (c *nativeConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.Remove("head", "style", "script")
	source, err := conv.ConvertString(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("%w: html to markdown: %v", ErrPDFGeneration, err)
	}
	source = pipeline.StripMarkPlaceholders(source)

	page := opts.page()
	orientation := "P"
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		orientation = "L"
	}
	margin := page.Margin * mmPerInch

	doc := fpdf.New(orientation, "mm", fpdfSize(page.Size), "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetCreator(svgCreator, true)
	if opts != nil && opts.Title != "" {
		doc.SetTitle(opts.Title, true)
	}
	doc.AddPage()
	doc.SetFont(nativeFont, "", nativeBodySize)

	src := []byte(source)
	r := &fpdfWriter{
		pdf:    doc,
		source: src,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		size:   nativeBodySize,
	}
	root := c.md.Parser().Parse(text.NewReader(src))
	if err := ast.Walk(root, r.walk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

func fpdfSize(size string) string {
	switch strings.ToLower(size) {
	case PageSizeLetter:
		return "Letter"
	case PageSizeLegal:
		return "Legal"
	}
	return "A4"
}

// fpdfWriter lays out goldmark nodes onto an fpdf document.
type fpdfWriter struct {
	pdf       *fpdf.Fpdf
	source    []byte
	tr        func(string) string
	size      float64
	bold      bool
	italic    bool
	listDepth int
}

func (w *fpdfWriter) setFont() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	w.pdf.SetFont(nativeFont, style, w.size)
}

func (w *fpdfWriter) write(s string) {
	w.pdf.Write(nativeLineMM, w.tr(s))
}

func (w *fpdfWriter) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

func (w *fpdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Heading:
		w.heading(n, entering)
	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(nativeLineMM + 2)
		}
	case *ast.Text:
		if entering {
			w.write(string(n.Segment.Value(w.source)))
			if n.SoftLineBreak() {
				w.write(" ")
			}
			if n.HardLineBreak() {
				w.pdf.Ln(nativeLineMM)
			}
		}
	case *ast.String:
		if entering {
			w.write(string(n.Value))
		}
	case *ast.AutoLink:
		if entering {
			w.write(string(n.URL(w.source)))
		}
	case *ast.Emphasis:
		if n.Level == 2 {
			w.bold = entering
		} else {
			w.italic = entering
		}
		w.setFont()
	case *ast.CodeSpan:
		if entering {
			w.pdf.SetFont(nativeCodeFont, "", w.size)
			w.write(nodeText(n, w.source))
			w.setFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		w.list(entering)
	case *ast.ListItem:
		if entering {
			w.listItem(n)
		}
	case *ast.ThematicBreak:
		if entering {
			left, _, _, _ := w.pdf.GetMargins()
			y := w.pdf.GetY() + 2
			w.pdf.Line(left, y, left+w.contentWidth(), y)
			w.pdf.Ln(4)
		}
	case *extast.Table:
		if entering {
			w.table(n)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *fpdfWriter) heading(n *ast.Heading, entering bool) {
	if !entering {
		w.pdf.Ln(nativeLineMM + 3)
		w.size, w.bold = nativeBodySize, false
		w.setFont()
		return
	}
	sizes := map[int]float64{1: 18, 2: 14, 3: 12}
	size, ok := sizes[n.Level]
	if !ok {
		size = 11
	}
	w.pdf.Ln(3)
	w.size, w.bold = size, true
	w.setFont()
}

// nodeText concatenates the literal text under n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

func (w *fpdfWriter) codeBlock(lines *text.Segments) {
	w.pdf.Ln(2)
	w.pdf.SetFont(nativeCodeFont, "", nativeBodySize-1)
	w.pdf.SetFillColor(246, 248, 250)
	for i := range lines.Len() {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(w.source)), "\n")
		w.pdf.MultiCell(0, nativeLineMM, w.tr(line), "", "L", true)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.setFont()
	w.pdf.Ln(2)
}

func (w *fpdfWriter) list(entering bool) {
	if entering {
		w.listDepth++
		return
	}
	w.listDepth--
	if w.listDepth == 0 {
		w.pdf.Ln(2)
	}
}

func (w *fpdfWriter) listItem(n *ast.ListItem) {
	if w.pdf.GetX() > w.leftMargin()+0.1 {
		w.pdf.Ln(nativeLineMM)
	}
	w.pdf.SetX(w.leftMargin() + float64(w.listDepth)*5)

	marker := "- "
	if list, ok := n.Parent().(*ast.List); ok && list.IsOrdered() {
		index := list.Start
		for sib := n.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
			index++
		}
		marker = fmt.Sprintf("%d. ", index)
	}
	w.write(marker)
}

func (w *fpdfWriter) leftMargin() float64 {
	left, _, _, _ := w.pdf.GetMargins()
	return left
}

// table draws a bordered grid with a shaded header row. Column widths are
// proportional to the widest cell of each column.
func (w *fpdfWriter) table(n *extast.Table) {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, w.tr(strings.TrimSpace(nodeText(cell, w.source))))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	const fontSize, lineH = 9.0, 6.0
	cols := len(rows[0])
	widths := make([]float64, cols)
	total := 0.0
	w.pdf.SetFont(nativeFont, "B", fontSize)
	for _, row := range rows {
		for j := 0; j < cols && j < len(row); j++ {
			widths[j] = max(widths[j], w.pdf.GetStringWidth(row[j])+4)
		}
	}
	for _, cw := range widths {
		total += cw
	}
	avail := w.contentWidth()
	for j := range widths {
		widths[j] = widths[j] / total * avail
	}

	w.pdf.Ln(2)
	for i, row := range rows {
		if i == 0 {
			w.pdf.SetFont(nativeFont, "B", fontSize)
			w.pdf.SetFillColor(230, 230, 230)
		} else {
			w.pdf.SetFont(nativeFont, "", fontSize)
		}
		for j := range cols {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			w.pdf.CellFormat(widths[j], lineH, cell, "1", 0, "L", i == 0, 0, "")
		}
		w.pdf.Ln(lineH)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.setFont()
	w.pdf.Ln(3)
}
