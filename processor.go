package enclose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/alnah/go-enclose/internal/assets"
	"github.com/alnah/go-enclose/internal/dateutil"
	"github.com/alnah/go-enclose/internal/fileutil"
	"github.com/alnah/go-enclose/internal/pipeline"
	"github.com/alnah/go-enclose/internal/raster"
)

// AssetLoader loads stylesheets and templates by name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader that prefers customPath/styles and
// customPath/templates over the embedded assets. An empty path uses only the
// embedded assets.
func NewAssetLoader(customPath string) (AssetLoader, error) {
	r, err := assets.NewResolver(customPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return r, nil
}

// rasterizer renders PDF bytes to one bitmap per page.
type rasterizer interface {
	Rasterize(ctx context.Context, data []byte, dpi float64) ([]image.Image, error)
}

var _ rasterizer = raster.Fitz{}

// Processor runs the document chain. It is not safe for concurrent use.
type Processor struct {
	cfg           processorConfig
	logger        *log.Logger
	assets        AssetLoader
	preprocessor  pipeline.Preprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter
	rasterizer    rasterizer
	ocr           OCREngine
	css           string
	svgTemplate   *template.Template
}

// NewProcessor validates the options, loads the stylesheet and SVG template
// and creates the output directory. The browser is started lazily.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg: processorConfig{
			outputDir:       defaultOutputDir,
			timeout:         defaultTimeout,
			engine:          EngineChrome,
			style:           defaultStyle,
			dpi:             DefaultDPI,
			embedPageImages: true,
			ocrEnabled:      true,
			validate:        true,
			metadataFormat:  dateutil.MetadataFileName,
			now:             time.Now,
		},
		preprocessor: pipeline.SourcePreprocessor{},
		cssInjector:  pipeline.StyleInjection{},
		rasterizer:   raster.Fitz{},
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Processor) init() error {
	if p.logger == nil {
		p.logger = &log.Logger{Writer: &log.IOWriter{Writer: io.Discard}}
	}
	if p.cfg.page == nil {
		p.cfg.page = DefaultPageSettings()
	}
	if err := p.cfg.page.Validate(); err != nil {
		return err
	}
	if p.cfg.dpi < MinDPI || p.cfg.dpi > MaxDPI {
		return fmt.Errorf("%w: %g (must be between %d and %d)", ErrInvalidDPI, p.cfg.dpi, MinDPI, MaxDPI)
	}
	if _, err := ParseEngine(string(p.cfg.engine)); err != nil {
		return err
	}
	if _, err := dateutil.Layout(p.cfg.metadataFormat); err != nil {
		return err
	}

	if p.assets == nil {
		loader, err := NewAssetLoader(p.cfg.assetPath)
		if err != nil {
			return err
		}
		p.assets = loader
	}

	css, err := p.resolveStyle(p.cfg.style)
	if err != nil {
		return err
	}
	p.css = css

	src, err := p.assets.LoadTemplate(assets.SVGContainerTemplate)
	if err != nil {
		return fmt.Errorf("loading SVG template: %w", err)
	}
	tmpl, err := template.New(assets.SVGContainerTemplate).Funcs(template.FuncMap{"xml": xmlEscape}).Parse(src)
	if err != nil {
		return fmt.Errorf("parsing SVG template: %w", err)
	}
	p.svgTemplate = tmpl

	if p.htmlConverter == nil {
		p.htmlConverter = pipeline.NewGoldmarkConverter()
	}
	if p.pdfConverter == nil {
		switch p.cfg.engine {
		case EngineNative:
			p.pdfConverter = newNativeConverter()
		default:
			p.pdfConverter = newRodConverter(p.cfg.timeout)
		}
	}
	if p.ocr == nil {
		p.ocr = NewTesseractEngine("", "")
	}

	if err := os.MkdirAll(p.cfg.outputDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}
	return nil
}

// resolveStyle accepts a style name, a CSS file path or inline CSS.
func (p *Processor) resolveStyle(style string) (string, error) {
	switch {
	case style == "":
		return "", nil
	case strings.Contains(style, "{"):
		return style, nil
	case fileutil.IsFilePath(style):
		data, err := os.ReadFile(style) // #nosec G304 -- user-provided stylesheet
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStyleNotFound, err)
		}
		return string(data), nil
	}
	css, err := p.assets.LoadStyle(style)
	if err != nil {
		if assets.IsNotFound(err) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, style)
		}
		return "", err
	}
	return css, nil
}

// OutputDir returns the directory stages write into.
func (p *Processor) OutputDir() string {
	return p.cfg.outputDir
}

// Close releases the browser, if one was started.
func (p *Processor) Close() error {
	if p.pdfConverter != nil {
		return p.pdfConverter.Close()
	}
	return nil
}

// RunResult describes a completed Run.
type RunResult struct {
	MarkdownPath string
	PDFPath      string
	SVGPath      string
	Pages        []PageDescriptor
	MetadataPath string
	Metadata     Metadata
}

// OCRErr returns ErrPartialOCR when at least one page failed recognition.
func (r *RunResult) OCRErr() error {
	if r == nil {
		return nil
	}
	failed, _ := r.Metadata[KeyOCRFailed].(int)
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d pages", ErrPartialOCR, failed, len(r.Pages))
}

// Run executes markdown -> PDF -> SVG -> PNG -> OCR and saves the metadata.
// An empty markdownPath runs the built-in invoice example.
func (p *Processor) Run(ctx context.Context, markdownPath string) (res *RunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic during run: %v", ErrConversion, r)
		}
	}()

	md := NewMetadata()
	md[KeyRunID] = uuid.NewString()
	md[KeyRunStarted] = p.cfg.now().Format(time.RFC3339)
	runID := md.GetString(KeyRunID)

	if markdownPath == "" {
		markdownPath, err = p.CreateExampleMarkdown()
		if err != nil {
			return nil, err
		}
		p.logger.Info().Str("run_id", runID).Str("path", markdownPath).Msg("created example markdown")
	}
	res = &RunResult{MarkdownPath: filepath.Clean(markdownPath), Metadata: md}

	pdfPath, frag, err := p.markdownToPDF(ctx, res.MarkdownPath, p.cfg.outputDir, "")
	if err != nil {
		return nil, err
	}
	md.Merge(frag)
	if err := p.verify(StageMarkdownToPDF, pdfPath, FormatPDF); err != nil {
		return nil, err
	}
	res.PDFPath = pdfPath
	p.logger.Info().Str("run_id", runID).Str("stage", string(StageMarkdownToPDF)).Str("output", pdfPath).Msg("stage complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	svgPath, frag, err := p.pdfToSVG(ctx, pdfPath, p.cfg.outputDir, &SVGOptions{Title: md.GetString(KeyTitle)})
	if err != nil {
		return nil, err
	}
	md.Merge(frag)
	if err := p.verify(StagePDFToSVG, svgPath, FormatSVG); err != nil {
		return nil, err
	}
	res.SVGPath = svgPath
	p.logger.Info().Str("run_id", runID).Str("stage", string(StagePDFToSVG)).Str("output", svgPath).Msg("stage complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages, frag, err := p.svgToPNG(ctx, svgPath, md.GetString(KeySourcePDF), p.cfg.outputDir)
	if err != nil {
		return nil, err
	}
	md.Merge(frag)
	for _, page := range pages {
		if err := p.verify(StageSVGToPNG, page.File, FormatPNG); err != nil {
			return nil, err
		}
	}
	p.logger.Info().Str("run_id", runID).Str("stage", string(StageSVGToPNG)).Int("pages", len(pages)).Msg("stage complete")

	if p.cfg.ocrEnabled {
		if _, err := p.ProcessOCR(ctx, pages, md); err != nil {
			return nil, err
		}
		failed, _ := md[KeyOCRFailed].(int)
		p.logger.Info().Str("run_id", runID).Str("stage", string(StageOCR)).Int("failed_pages", failed).Msg("stage complete")
	}
	res.Pages = md.Pages()

	metaPath, err := p.SaveMetadata(md, p.cfg.metadataName)
	if err != nil {
		return nil, err
	}
	res.MetadataPath = metaPath
	p.logger.Info().Str("run_id", runID).Str("stage", string(StageMetadata)).Str("output", metaPath).Msg("stage complete")

	return res, nil
}

// ConvertResult describes a completed Convert.
type ConvertResult struct {
	Input         string
	From, To      Format
	Outputs       []string // final files: one path, or one per page for PNG
	Intermediates []string
	Pages         []PageDescriptor
	Metadata      Metadata
}

// Convert runs a single conversion from the supported matrix, chaining
// stages when the target is more than one hop away. outputPath names the
// final file; for PNG it names the directory the pages go into. An empty
// outputPath writes into the output directory under the input stem.
func (p *Processor) Convert(ctx context.Context, inputPath string, to Format, outputPath string) (res *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic during conversion: %v", ErrConversion, r)
		}
	}()

	inputPath = filepath.Clean(inputPath)
	from, err := FormatOf(inputPath)
	if err != nil {
		return nil, err
	}
	if err := checkConversion(from, to); err != nil {
		return nil, err
	}
	if !fileutil.FileExists(inputPath) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}

	finalDir, finalName := p.cfg.outputDir, ""
	if outputPath != "" {
		outputPath = filepath.Clean(outputPath)
		switch {
		case to == FormatPNG && filepath.Ext(outputPath) == "":
			finalDir = outputPath
		case to == FormatPNG:
			finalDir = filepath.Dir(outputPath)
		default:
			finalDir, finalName = filepath.Dir(outputPath), filepath.Base(outputPath)
		}
	}

	md := NewMetadata()
	res = &ConvertResult{Input: inputPath, From: from, To: to, Metadata: md}
	cur, curFmt := inputPath, from

	for curFmt != to {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := nextHop(curFmt, to)
		dir, name := p.cfg.outputDir, ""
		if next == to {
			dir, name = finalDir, finalName
		}

		var (
			out   string
			frag  Metadata
			stage Stage
		)
		switch {
		case curFmt == FormatMarkdown && next == FormatHTML:
			stage = StageMarkdownToHTML
			out, frag, err = p.markdownToHTML(ctx, cur, dir, name)
		case curFmt == FormatMarkdown:
			stage = StageMarkdownToPDF
			out, frag, err = p.markdownToPDF(ctx, cur, dir, name)
		case curFmt == FormatHTML:
			stage = StageHTMLToPDF
			out, frag, err = p.htmlToPDF(ctx, cur, dir, name)
		case curFmt == FormatPDF:
			stage = StagePDFToSVG
			out, frag, err = p.pdfToSVG(ctx, cur, dir, &SVGOptions{OutputName: name, Title: md.GetString(KeyTitle)})
		case curFmt == FormatSVG:
			stage = StageSVGToPNG
			var pages []PageDescriptor
			pages, frag, err = p.svgToPNG(ctx, cur, md.GetString(KeySourcePDF), dir)
			if err == nil {
				res.Pages = pages
			}
		}
		if err != nil {
			return nil, err
		}
		md.Merge(frag)

		if next == FormatPNG {
			for _, page := range res.Pages {
				if err := p.verify(stage, page.File, FormatPNG); err != nil {
					return nil, err
				}
				res.Outputs = append(res.Outputs, page.File)
			}
		} else {
			if err := p.verify(stage, out, next); err != nil {
				return nil, err
			}
			if next == to {
				res.Outputs = append(res.Outputs, out)
			} else {
				res.Intermediates = append(res.Intermediates, out)
			}
		}
		p.logger.Info().Str("stage", string(stage)).Str("input", cur).Msg("stage complete")
		cur, curFmt = out, next
	}

	return res, nil
}

// nextHop returns the format produced by the stage that follows from on
// the way to to.
func nextHop(from, to Format) Format {
	switch from {
	case FormatMarkdown:
		if to == FormatHTML {
			return FormatHTML
		}
		return FormatPDF
	case FormatHTML:
		return FormatPDF
	case FormatPDF:
		return FormatSVG
	default:
		return FormatPNG
	}
}

// verify checks the signature of a stage output when validation is enabled.
func (p *Processor) verify(stage Stage, path string, format Format) error {
	if !p.cfg.validate {
		return nil
	}
	ok, msg := ValidateFileSignature(path, format)
	if !ok {
		return stageErr(stage, path, ErrValidation, errors.New(msg))
	}
	return nil
}

// SaveMetadata writes md as JSON into the output directory. An empty name
// uses the configured pattern, metadata_YYYYMMDD_HHMMSS by default.
func (p *Processor) SaveMetadata(md Metadata, name string) (string, error) {
	if name == "" {
		stamp, err := dateutil.Format(p.cfg.metadataFormat, p.cfg.now())
		if err != nil {
			return "", stageErr(StageMetadata, "", ErrConversion, err)
		}
		name = stamp
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		name += ".json"
	}
	path := filepath.Join(p.cfg.outputDir, filepath.Base(name))
	if err := writeMetadataJSON(md, path); err != nil {
		return "", stageErr(StageMetadata, path, ErrConversion, err)
	}
	return path, nil
}

// outputPath joins dir with name, or with the input stem plus ext when name
// is empty.
func outputPath(dir, name, input string, ext Format) string {
	if name == "" {
		name = fileutil.Stem(input) + "." + string(ext)
	}
	return filepath.Join(dir, name)
}

// writeOutput creates the parent directory and writes data to path.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- generated documents are meant to be shared
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
