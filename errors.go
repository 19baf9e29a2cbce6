package enclose

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by a stage wraps exactly one of these.
var (
	ErrNotFound          = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrConversion        = errors.New("conversion failed")
	ErrValidation        = errors.New("validation failed")
	ErrPartialOCR        = errors.New("OCR failed for some pages")
)

// Engine and input errors.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrNoEmbeddedPDF  = errors.New("SVG does not carry an embedded PDF")
	ErrRasterize      = errors.New("PDF rasterization failed")
	ErrWriteOutput    = errors.New("failed to write output file")

	// Option validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidDPI         = errors.New("invalid DPI")
	ErrInvalidEngine      = errors.New("invalid render engine")
	ErrInvalidAssetPath   = errors.New("invalid asset path")
	ErrStyleNotFound      = errors.New("style not found")
)

// Stage identifies one step of the conversion chain.
type Stage string

// Pipeline stages, in execution order.
const (
	StageMarkdownToHTML Stage = "markdown_to_html"
	StageMarkdownToPDF  Stage = "markdown_to_pdf"
	StageHTMLToPDF      Stage = "html_to_pdf"
	StagePDFToSVG       Stage = "pdf_to_svg"
	StageSVGToPNG       Stage = "svg_to_png"
	StageOCR            Stage = "ocr"
	StageMetadata       Stage = "metadata"
)

// StageError reports a failure inside one stage.
// It unwraps to both the taxonomy sentinel and the underlying cause,
// so errors.Is works against either.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageErr wraps cause with the given sentinel kind and stage context.
// A cause that already matches kind is not wrapped twice.
func stageErr(stage Stage, path string, kind, cause error) *StageError {
	err := cause
	if !errors.Is(cause, kind) {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &StageError{Stage: stage, Path: path, Err: err}
}
