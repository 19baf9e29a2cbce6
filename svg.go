package enclose

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"path/filepath"
	"strings"
	"time"
)

// SVG container geometry.
const (
	svgWidth     = 800
	svgHeight    = 1000
	svgRuleWidth = 700
)

// pdfDataURIPrefix marks an SVG that carries a PDF.
const pdfDataURIPrefix = "data:application/pdf;base64,"

// svgContainer is the data handed to the SVG template.
type svgContainer struct {
	Width       int
	Height      int
	RuleWidth   int
	Title       string
	Creator     string
	Date        string
	Description string
	PDFBase64   string
}

// PDFToSVG wraps the whole PDF at path, base64 encoded, in an SVG container
// with Dublin Core metadata. opts may be nil.
func (p *Processor) PDFToSVG(ctx context.Context, path string, opts *SVGOptions) (string, Metadata, error) {
	return p.pdfToSVG(ctx, filepath.Clean(path), p.cfg.outputDir, opts)
}

func (p *Processor) pdfToSVG(ctx context.Context, path, dir string, opts *SVGOptions) (string, Metadata, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if opts == nil {
		opts = &SVGOptions{}
	}

	content, err := readInput(StagePDFToSVG, path)
	if err != nil {
		return "", nil, err
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	title := opts.Title
	if title == "" {
		title = defaultSVGTitle
	}
	description := opts.Description
	if description == "" {
		description = svgDescription
	}
	created := p.cfg.now().Format(time.RFC3339)

	var buf bytes.Buffer
	err = p.svgTemplate.Execute(&buf, svgContainer{
		Width:       svgWidth,
		Height:      svgHeight,
		RuleWidth:   svgRuleWidth,
		Title:       title,
		Creator:     svgCreator,
		Date:        created,
		Description: description,
		PDFBase64:   encoded,
	})
	if err != nil {
		return "", nil, stageErr(StagePDFToSVG, path, ErrConversion, err)
	}

	out := outputPath(dir, opts.OutputName, path, FormatSVG)
	if err := writeOutput(out, buf.Bytes()); err != nil {
		return "", nil, stageErr(StagePDFToSVG, out, ErrConversion, err)
	}

	return out, Metadata{
		KeyFile:        out,
		KeyType:        svgContainerType,
		KeyCreated:     created,
		KeyPDFEmbedded: true,
		KeyPDFSize:     len(encoded),
		KeySourcePDF:   path,
		KeyPages:       []PageDescriptor{},
	}, nil
}

// embeddedPDF extracts the PDF carried by an SVG container.
func embeddedPDF(svg string) ([]byte, error) {
	_, rest, ok := strings.Cut(svg, pdfDataURIPrefix)
	if !ok {
		return nil, ErrNoEmbeddedPDF
	}
	end := strings.IndexAny(rest, `"'`)
	if end < 0 {
		return nil, ErrNoEmbeddedPDF
	}
	data, err := base64.StdEncoding.DecodeString(rest[:end])
	if err != nil {
		return nil, ErrNoEmbeddedPDF
	}
	return data, nil
}

// xmlEscape escapes text for element content and attribute values.
func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
