package enclose

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeSVGContainer writes an SVG container for pdf into dir.
func writeSVGContainer(t *testing.T, dir string, pdf []byte) string {
	t.Helper()
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><embed src="` +
		pdfDataURIPrefix + base64.StdEncoding.EncodeToString(pdf) + `"/></svg>`
	return writeFile(t, dir, "doc.svg", svg)
}

// ---------------------------------------------------------------------------
// TestSVGToPNG - Page images
// ---------------------------------------------------------------------------

func TestSVGToPNG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []Option
		pages     int
		wantEmbed bool
	}{
		{name: "three pages with embedded images", pages: 3, wantEmbed: true},
		{name: "page images disabled", opts: []Option{WithEmbedPageImages(false)}, pages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, mocks := newTestProcessor(t, tt.opts...)
			mocks.raster.pages = tt.pages
			svgPath := writeSVGContainer(t, t.TempDir(), testPDF(t, tt.pages))

			pages, frag, err := p.SVGToPNG(context.Background(), svgPath, "")
			if err != nil {
				t.Fatalf("SVGToPNG() error = %v", err)
			}
			if len(pages) != tt.pages {
				t.Fatalf("got %d pages, want %d", len(pages), tt.pages)
			}
			if frag[KeyTotalPages] != tt.pages || frag[KeyRasterDPI] != float64(DefaultDPI) {
				t.Errorf("fragment = %v", frag)
			}

			for i, page := range pages {
				wantFile := filepath.Join(p.OutputDir(), fmt.Sprintf("page_%d.png", i+1))
				if page.Page != i+1 || page.File != wantFile {
					t.Errorf("pages[%d] = %d %q, want %d %q", i, page.Page, page.File, i+1, wantFile)
				}
				if page.Width != 20+i || page.Height != 30 {
					t.Errorf("pages[%d] size = %dx%d", i, page.Width, page.Height)
				}

				data, err := os.ReadFile(page.File)
				if err != nil {
					t.Fatal(err)
				}
				if page.Size != int64(len(data)) {
					t.Errorf("pages[%d].Size = %d, file has %d bytes", i, page.Size, len(data))
				}
				if _, err := png.Decode(bytes.NewReader(data)); err != nil {
					t.Errorf("pages[%d] is not a PNG: %v", i, err)
				}
				if tt.wantEmbed != (page.Base64 != "") {
					t.Errorf("pages[%d] base64 present = %v, want %v", i, page.Base64 != "", tt.wantEmbed)
				}
				if tt.wantEmbed && page.Base64 != base64.StdEncoding.EncodeToString(data) {
					t.Errorf("pages[%d] base64 does not match the file", i)
				}
			}
		})
	}
}

func TestSVGToPNG_PrefersSourcePDF(t *testing.T) {
	t.Parallel()

	p, mocks := newTestProcessor(t)
	dir := t.TempDir()
	embedded := testPDF(t, 1)
	source := testPDF(t, 2)
	svgPath := writeSVGContainer(t, dir, embedded)
	sourcePath := filepath.Join(dir, "source.pdf")
	if err := os.WriteFile(sourcePath, source, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := p.SVGToPNG(context.Background(), svgPath, sourcePath); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mocks.raster.input, source) {
		t.Error("rasterizer did not receive the source PDF")
	}

	if _, _, err := p.SVGToPNG(context.Background(), svgPath, filepath.Join(dir, "deleted.pdf")); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mocks.raster.input, embedded) {
		t.Error("missing source PDF did not fall back to the embedded copy")
	}
}

func TestSVGToPNG_Errors(t *testing.T) {
	t.Parallel()

	t.Run("rasterizer failure", func(t *testing.T) {
		t.Parallel()

		p, mocks := newTestProcessor(t)
		mocks.raster.err = errors.New("corrupt xref")
		svgPath := writeSVGContainer(t, t.TempDir(), testPDF(t, 1))

		_, _, err := p.SVGToPNG(context.Background(), svgPath, "")
		if !errors.Is(err, ErrRasterize) || !errors.Is(err, ErrConversion) {
			t.Errorf("error = %v, want ErrRasterize and ErrConversion", err)
		}
	})

	t.Run("missing svg", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProcessor(t)
		_, _, err := p.SVGToPNG(context.Background(), filepath.Join(t.TempDir(), "gone.svg"), "")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		p, mocks := newTestProcessor(t)
		svgPath := writeSVGContainer(t, t.TempDir(), testPDF(t, 1))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := p.SVGToPNG(ctx, svgPath, "")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if mocks.raster.called != 0 {
			t.Error("rasterizer called with a cancelled context")
		}
	})
}
