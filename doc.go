// Package enclose turns Markdown documents into PDFs, wraps the PDF in an
// SVG container, rasterizes the pages to PNG and extracts their text with
// OCR. It can also search a directory for SVG containers and build an HTML
// dashboard of them.
//
// # Quick Start
//
// Create a processor, run the chain and close when done:
//
//	p, err := enclose.NewProcessor(enclose.WithOutputDir("output"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	res, err := p.Run(ctx, "report.md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.MetadataPath)
//
// An empty path runs the built-in invoice example.
//
// # Pipeline
//
// Run executes these stages in order, validating each output's file
// signature before moving on:
//
//  1. Markdown to PDF, through HTML (goldmark) and either headless Chrome
//     (go-rod) or the pure Go fpdf engine
//  2. PDF to SVG, with the PDF embedded as a base64 data URI
//  3. SVG to PNG, one image per page (MuPDF via go-fitz)
//  4. OCR of every page (tesseract)
//  5. Metadata saved as JSON
//
// Every stage adds keys to a shared Metadata map. A failing stage returns a
// *StageError; a page that fails OCR is recorded in the metadata instead.
//
// # Single Conversions
//
// Convert runs one conversion, chaining stages as needed:
//
//	res, err := p.Convert(ctx, "notes.md", enclose.FormatPNG, "pages")
//
// See SupportedConversions for the matrix.
//
// # Search and Dashboard
//
//	records, err := enclose.SearchSVGFiles(ctx, "output", nil)
//	err = enclose.WriteDashboard(records, "dashboard.html", nil)
//
// # Custom Assets
//
// WithAssetPath points at a directory with styles/*.css and
// templates/*.tmpl files that override the embedded ones (svg-container,
// dashboard).
package enclose
