package enclose

import (
	"context"
	"errors"
	"strings"

	"github.com/alnah/go-enclose/internal/ocr"
)

// Recognition is what an OCREngine reads from one page image.
type Recognition struct {
	Text string
	// Confidences holds one value per recognized token, on a 0-100 scale.
	// Negative values mark rows that are not words.
	Confidences []float64
}

// OCREngine extracts text from an image file.
type OCREngine interface {
	Recognize(ctx context.Context, imagePath string) (*Recognition, error)
}

// TesseractEngine runs the tesseract command line tool.
type TesseractEngine struct {
	t *ocr.Tesseract
}

var _ OCREngine = (*TesseractEngine)(nil)

// NewTesseractEngine returns an engine using bin (default "tesseract") and
// language (default "eng").
func NewTesseractEngine(bin, language string) *TesseractEngine {
	return &TesseractEngine{t: ocr.NewTesseract(bin, language)}
}

// Recognize runs tesseract twice on the image: plain text, then TSV for the
// per-word confidences.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (*Recognition, error) {
	raw, err := e.t.Recognize(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	rec := &Recognition{Text: raw.Text, Confidences: make([]float64, 0, len(raw.Tokens))}
	for _, tok := range raw.Tokens {
		rec.Confidences = append(rec.Confidences, tok.Confidence)
	}
	return rec, nil
}

// Version reports the installed tesseract version.
func (e *TesseractEngine) Version(ctx context.Context) (string, error) {
	return e.t.Version(ctx)
}

// pageOutcome is the OCR result for one page, success or failure.
type pageOutcome struct {
	index  int
	result OCRResult
	failed bool
}

// ProcessOCR recognizes the text of every page, attaches the result to each
// page record and stores the per-page list under "ocr_data". A page that
// fails gets an error record instead; the count goes to "ocr_failed_pages".
// Only context cancellation is returned as an error.
//
// md receives the OCR keys and is returned. A nil md starts a new Metadata.
func (p *Processor) ProcessOCR(ctx context.Context, pages []PageDescriptor, md Metadata) (Metadata, error) {
	if md == nil {
		md = NewMetadata()
	}

	outcomes := make([]pageOutcome, 0, len(pages))
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := p.recognizePage(ctx, i, page)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	data := make([]PageOCR, 0, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		result := o.result
		pages[o.index].OCRResult = &result
		data = append(data, PageOCR{
			Page:      pages[o.index].Page,
			File:      pages[o.index].File,
			OCRResult: result,
		})
		if o.failed {
			failed++
		}
	}

	md.setPages(pages)
	md[KeyOCRData] = data
	md[KeyOCRFailed] = failed
	if p.cfg.legacyOCRKey {
		md[KeyOCRResults] = data
	}
	return md, nil
}

// recognizePage runs the engine on one page. The error is non-nil only when
// ctx was cancelled.
func (p *Processor) recognizePage(ctx context.Context, index int, page PageDescriptor) (pageOutcome, error) {
	rec, err := p.ocr.Recognize(ctx, page.File)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return pageOutcome{}, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return pageOutcome{}, err
		}
		p.logger.Warn().Err(err).Int("page", page.Page).Str("file", page.File).Msg("OCR failed")
		return pageOutcome{
			index:  index,
			result: OCRResult{Error: err.Error()},
			failed: true,
		}, nil
	}

	text := strings.TrimSpace(rec.Text)
	return pageOutcome{
		index: index,
		result: OCRResult{
			Text:       text,
			Confidence: meanConfidence(rec.Confidences),
			WordCount:  len(strings.Fields(text)),
		},
	}, nil
}

// meanConfidence averages the positive confidences and clamps the result
// to [0, 100]. No positive values gives 0.
func meanConfidence(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return min(max(sum/float64(n), 0), 100)
}
