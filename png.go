package enclose

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/alnah/go-enclose/internal/fileutil"
)

// SVGToPNG writes one PNG per PDF page into the output directory, named
// page_1.png, page_2.png and so on.
//
// The pages come from the PDF at sourcePDF when that file exists, and
// otherwise from the PDF embedded in the SVG's data URI. The SVG drawing
// itself is never rendered.
func (p *Processor) SVGToPNG(ctx context.Context, svgPath, sourcePDF string) ([]PageDescriptor, Metadata, error) {
	return p.svgToPNG(ctx, filepath.Clean(svgPath), sourcePDF, p.cfg.outputDir)
}

func (p *Processor) svgToPNG(ctx context.Context, svgPath, sourcePDF, dir string) ([]PageDescriptor, Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	data, err := p.pagesSource(svgPath, sourcePDF)
	if err != nil {
		return nil, nil, err
	}

	images, err := p.rasterizer.Rasterize(ctx, data, p.cfg.dpi)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, stageErr(StageSVGToPNG, svgPath, ErrConversion, fmt.Errorf("%w: %v", ErrRasterize, err))
	}

	pages := make([]PageDescriptor, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, nil, stageErr(StageSVGToPNG, svgPath, ErrConversion, err)
		}

		out := filepath.Join(dir, fmt.Sprintf("page_%d.png", i+1))
		if err := writeOutput(out, buf.Bytes()); err != nil {
			return nil, nil, stageErr(StageSVGToPNG, out, ErrConversion, err)
		}

		bounds := img.Bounds()
		page := PageDescriptor{
			Page:   i + 1,
			File:   out,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Size:   int64(buf.Len()),
		}
		if p.cfg.embedPageImages {
			page.Base64 = base64.StdEncoding.EncodeToString(buf.Bytes())
		}
		pages = append(pages, page)
	}

	frag := Metadata{KeyRasterDPI: p.cfg.dpi}
	frag.setPages(pages)
	return pages, frag, nil
}

// pagesSource returns the PDF bytes to rasterize.
func (p *Processor) pagesSource(svgPath, sourcePDF string) ([]byte, error) {
	if sourcePDF != "" && fileutil.FileExists(sourcePDF) {
		data, err := os.ReadFile(sourcePDF) // #nosec G304 -- path recorded by the PDF stage
		if err != nil {
			return nil, stageErr(StageSVGToPNG, sourcePDF, ErrConversion, err)
		}
		return data, nil
	}

	svg, err := readInput(StageSVGToPNG, svgPath)
	if err != nil {
		return nil, err
	}
	data, err := embeddedPDF(svg)
	if err != nil {
		return nil, stageErr(StageSVGToPNG, svgPath, ErrConversion, err)
	}
	p.logger.Debug().Str("svg", svgPath).Int("pdf_bytes", len(data)).Msg("using PDF embedded in SVG")
	return data, nil
}
