package enclose

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Metadata keys. Each key is written only by the stage that owns it.
const (
	KeyRunID          = "run_id"
	KeyRunStarted     = "run_started"
	KeySourceMarkdown = "source_markdown"
	KeyTitle          = "title"
	KeyPDFFile        = "pdf_file"
	KeyPDFPageCount   = "pdf_page_count"
	KeyFile           = "file"
	KeyType           = "type"
	KeyCreated        = "created"
	KeyPDFEmbedded    = "pdf_embedded"
	KeyPDFSize        = "pdf_size"
	KeySourcePDF      = "source_pdf"
	KeyPages          = "pages"
	KeyTotalPages     = "total_pages"
	KeyRasterDPI      = "raster_dpi"
	KeyOCRData        = "ocr_data"
	KeyOCRFailed      = "ocr_failed_pages"

	// KeyOCRResults is the deprecated name of KeyOCRData, written only
	// when the legacy alias is enabled.
	KeyOCRResults = "ocr_results"
)

// svgContainerType is the value of KeyType for SVG files carrying a PDF.
const svgContainerType = "svg_with_pdf"

// Metadata is the mapping threaded through every pipeline stage.
// Stages add keys and overwrite only the keys they own; nothing is removed.
type Metadata map[string]any

// NewMetadata returns an empty Metadata.
func NewMetadata() Metadata {
	return Metadata{}
}

// Merge copies every key of fragment into m, overwriting existing values
// for the same keys. Keys absent from fragment are left untouched.
func (m Metadata) Merge(fragment Metadata) {
	maps.Copy(m, fragment)
}

// Keys returns the keys of m in sorted order.
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// GetString returns the value stored under key, or "" if absent or not a string.
func (m Metadata) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

// Pages returns the page descriptors stored under KeyPages.
// Returns nil if the key is absent or holds another type.
func (m Metadata) Pages() []PageDescriptor {
	pages, _ := m[KeyPages].([]PageDescriptor)
	return pages
}

// setPages stores pages under KeyPages along with the page count.
func (m Metadata) setPages(pages []PageDescriptor) {
	m[KeyPages] = pages
	m[KeyTotalPages] = len(pages)
}

// PageDescriptor describes one rasterized page image.
// OCR fields are flattened into the JSON record once OCR has run.
type PageDescriptor struct {
	Page   int    `json:"page"`
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
	Base64 string `json:"base64,omitempty"`
	*OCRResult
}

// OCRResult holds the recognized content of one page.
type OCRResult struct {
	Text       string  `json:"ocr_text"`
	Confidence float64 `json:"ocr_confidence"`
	WordCount  int     `json:"word_count"`
	Error      string  `json:"error,omitempty"`
}

// PageOCR is the per-page record stored under KeyOCRData.
type PageOCR struct {
	Page int    `json:"page"`
	File string `json:"file"`
	OCRResult
}

// writeMetadataJSON writes m as pretty-printed JSON to path.
func writeMetadataJSON(m Metadata, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- metadata files are meant to be shared
	if err := os.WriteFile(path, append(data, '\n'), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)
