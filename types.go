package enclose

import (
	"fmt"
	"strings"
	"time"

	"github.com/phuslu/log"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Raster resolution bounds.
const (
	MinDPI     = 36
	MaxDPI     = 600
	DefaultDPI = 150
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// dimensions returns the paper width and height in inches, honoring orientation.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		width, height = 8.5, 11
	case PageSizeLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.27, 11.69
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Engine selects the HTML to PDF backend.
type Engine string

// Render engines.
const (
	EngineChrome Engine = "chrome" // headless Chrome via go-rod
	EngineNative Engine = "native" // pure Go via go-pdf/fpdf
)

// ParseEngine normalizes an engine name. Empty means EngineChrome.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EngineChrome):
		return EngineChrome, nil
	case string(EngineNative):
		return EngineNative, nil
	}
	return "", fmt.Errorf("%w: %q (must be chrome or native)", ErrInvalidEngine, s)
}

// SVGOptions controls the SVG container written by PDFToSVG.
type SVGOptions struct {
	OutputName  string // file name inside the output directory (default: <pdf stem>.svg)
	Title       string // dc:title (default: "PDF Document")
	Description string // dc:description
}

// Option configures a Processor.
type Option func(*Processor)

// processorConfig holds internal configuration for Processor.
type processorConfig struct {
	outputDir       string
	timeout         time.Duration
	engine          Engine
	style           string
	assetPath       string
	page            *PageSettings
	dpi             float64
	embedPageImages bool
	ocrEnabled      bool
	legacyOCRKey    bool
	validate        bool
	metadataName    string
	metadataFormat  string
	now             func() time.Time
}

// Defaults used when no option overrides them.
const (
	defaultTimeout   = 30 * time.Second
	defaultOutputDir = "output"
	defaultStyle     = "default"
	defaultSVGTitle  = "PDF Document"
	svgCreator       = "Enclose Document Processor"
	svgDescription   = "PDF embedded in SVG container"
)

// WithOutputDir sets the directory every stage writes into.
func WithOutputDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.outputDir = dir
	}
}

// WithTimeout sets the browser page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("enclose: WithTimeout duration must be positive")
	}
	return func(p *Processor) {
		p.cfg.timeout = d
	}
}

// WithEngine selects the HTML to PDF backend.
func WithEngine(e Engine) Option {
	return func(p *Processor) {
		p.cfg.engine = e
	}
}

// WithStyle sets the stylesheet by name (resolved through the asset loader),
// file path, or inline CSS content.
func WithStyle(style string) Option {
	return func(p *Processor) {
		p.cfg.style = style
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets.
func WithAssetPath(path string) Option {
	return func(p *Processor) {
		p.cfg.assetPath = path
	}
}

// WithPageSettings sets the PDF page geometry.
func WithPageSettings(ps *PageSettings) Option {
	return func(p *Processor) {
		p.cfg.page = ps
	}
}

// WithDPI sets the rasterization resolution for SVGToPNG.
func WithDPI(dpi float64) Option {
	return func(p *Processor) {
		p.cfg.dpi = dpi
	}
}

// WithEmbedPageImages controls whether page records carry a base64 PNG copy.
func WithEmbedPageImages(embed bool) Option {
	return func(p *Processor) {
		p.cfg.embedPageImages = embed
	}
}

// WithOCR enables or disables the OCR stage in Run.
func WithOCR(enabled bool) Option {
	return func(p *Processor) {
		p.cfg.ocrEnabled = enabled
	}
}

// WithLegacyOCRKey also writes OCR results under the deprecated
// "ocr_results" key for older JSON consumers.
func WithLegacyOCRKey(enabled bool) Option {
	return func(p *Processor) {
		p.cfg.legacyOCRKey = enabled
	}
}

// WithValidation controls whether stage outputs are signature-checked.
func WithValidation(enabled bool) Option {
	return func(p *Processor) {
		p.cfg.validate = enabled
	}
}

// WithLogger sets the structured logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithClock injects the time source used for timestamps and file names.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.cfg.now = now
	}
}

// WithMetadataName sets the file name Run saves the metadata under.
// Empty uses WithMetadataNameFormat.
func WithMetadataName(name string) Option {
	return func(p *Processor) {
		p.cfg.metadataName = name
	}
}

// WithMetadataNameFormat sets the date pattern used to name metadata files,
// e.g. "[metadata_]YYYYMMDD_HHmmss".
func WithMetadataNameFormat(pattern string) Option {
	return func(p *Processor) {
		p.cfg.metadataFormat = pattern
	}
}

// WithOCREngine replaces the default tesseract engine.
func WithOCREngine(e OCREngine) Option {
	return func(p *Processor) {
		p.ocr = e
	}
}
