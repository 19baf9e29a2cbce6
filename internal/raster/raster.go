// Package raster renders PDF pages to bitmaps with MuPDF (go-fitz).
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// ErrOpen indicates MuPDF could not open the document.
var ErrOpen = errors.New("cannot open PDF")

// Fitz rasterizes PDFs in memory.
type Fitz struct{}

// Rasterize renders every page of the PDF in data at dpi, in page order.
// The context is checked between pages.
func (Fitz) Rasterize(ctx context.Context, data []byte, dpi float64) ([]image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	pages := make([]image.Image, 0, n)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
