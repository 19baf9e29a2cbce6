package enclose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-enclose/internal/fileutil"
	"github.com/alnah/go-enclose/internal/pdfinfo"
	"github.com/alnah/go-enclose/internal/pipeline"
)

// MarkdownToHTML renders the markdown file at path into a styled HTML
// document in the output directory. An empty outputName uses the input stem.
func (p *Processor) MarkdownToHTML(ctx context.Context, path, outputName string) (string, Metadata, error) {
	return p.markdownToHTML(ctx, filepath.Clean(path), p.cfg.outputDir, outputName)
}

// MarkdownToPDF renders the markdown file at path to PDF with the
// configured engine.
func (p *Processor) MarkdownToPDF(ctx context.Context, path, outputName string) (string, Metadata, error) {
	return p.markdownToPDF(ctx, filepath.Clean(path), p.cfg.outputDir, outputName)
}

// HTMLToPDF renders an existing HTML file to PDF. Relative resources are
// resolved against the file's directory.
func (p *Processor) HTMLToPDF(ctx context.Context, path, outputName string) (string, Metadata, error) {
	return p.htmlToPDF(ctx, filepath.Clean(path), p.cfg.outputDir, outputName)
}

func (p *Processor) markdownToHTML(ctx context.Context, path, dir, name string) (string, Metadata, error) {
	doc, err := p.buildHTML(ctx, StageMarkdownToHTML, path)
	if err != nil {
		return "", nil, err
	}

	out := outputPath(dir, name, path, FormatHTML)
	if err := writeOutput(out, []byte(doc.HTML)); err != nil {
		return "", nil, stageErr(StageMarkdownToHTML, out, ErrConversion, err)
	}

	return out, Metadata{
		KeySourceMarkdown: path,
		KeyTitle:          doc.Title,
	}, nil
}

func (p *Processor) markdownToPDF(ctx context.Context, path, dir, name string) (string, Metadata, error) {
	doc, err := p.buildHTML(ctx, StageMarkdownToPDF, path)
	if err != nil {
		return "", nil, err
	}

	out, pages, err := p.renderPDF(ctx, StageMarkdownToPDF, doc, outputPath(dir, name, path, FormatPDF))
	if err != nil {
		return "", nil, err
	}

	return out, Metadata{
		KeySourceMarkdown: path,
		KeyTitle:          doc.Title,
		KeyPDFFile:        out,
		KeyPDFPageCount:   pages,
	}, nil
}

func (p *Processor) htmlToPDF(ctx context.Context, path, dir, name string) (string, Metadata, error) {
	content, err := readInput(StageHTMLToPDF, path)
	if err != nil {
		return "", nil, err
	}

	doc, err := pipeline.Finish(ctx, content, pipeline.FinishOptions{
		SourceDir:     filepath.Dir(path),
		FallbackTitle: fileutil.Stem(path),
	})
	if err != nil {
		return "", nil, stageErr(StageHTMLToPDF, path, ErrConversion, err)
	}

	out, pages, err := p.renderPDF(ctx, StageHTMLToPDF, doc, outputPath(dir, name, path, FormatPDF))
	if err != nil {
		return "", nil, err
	}

	return out, Metadata{
		KeyTitle:        doc.Title,
		KeyPDFFile:      out,
		KeyPDFPageCount: pages,
	}, nil
}

// buildHTML reads a markdown file and turns it into a finished HTML document.
func (p *Processor) buildHTML(ctx context.Context, stage Stage, path string) (*pipeline.Finished, error) {
	source, err := readInput(stage, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(source) == "" {
		return nil, stageErr(stage, path, ErrConversion, ErrEmptyMarkdown)
	}

	source = p.preprocessor.Preprocess(ctx, source)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err := p.htmlConverter.ToHTML(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, stageErr(stage, path, ErrConversion, fmt.Errorf("%w: %v", ErrHTMLConversion, err))
	}

	htmlContent = p.cssInjector.InjectCSS(ctx, htmlContent, p.css)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pipeline.Finish(ctx, htmlContent, pipeline.FinishOptions{
		SourceDir:     filepath.Dir(path),
		FallbackTitle: fileutil.Stem(path),
	})
	if err != nil {
		return nil, stageErr(stage, path, ErrConversion, err)
	}
	return doc, nil
}

// renderPDF prints doc with the configured engine, writes it to out and
// returns the page count.
func (p *Processor) renderPDF(ctx context.Context, stage Stage, doc *pipeline.Finished, out string) (string, int, error) {
	data, err := p.pdfConverter.ToPDF(ctx, doc.HTML, &pdfOptions{Page: p.cfg.page, Title: doc.Title})
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}
		return "", 0, stageErr(stage, out, ErrConversion, err)
	}

	if err := writeOutput(out, data); err != nil {
		return "", 0, stageErr(stage, out, ErrConversion, err)
	}

	pages, err := pdfinfo.PageCount(data)
	if err != nil {
		p.logger.Warn().Err(err).Str("path", out).Msg("could not count PDF pages")
		pages = 0
	}
	return out, pages, nil
}

// readInput reads a stage input, mapping a missing file to ErrNotFound.
func readInput(stage Stage, path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		if os.IsNotExist(err) {
			return "", stageErr(stage, path, ErrNotFound, err)
		}
		return "", stageErr(stage, path, ErrConversion, err)
	}
	return string(data), nil
}
