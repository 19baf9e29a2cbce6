// Package ocr runs text recognition on page images through the tesseract
// command-line tool.
package ocr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alnah/go-enclose/internal/process"
)

// Sentinel errors.
var (
	ErrNotInstalled = errors.New("OCR engine not installed")
	ErrEngine       = errors.New("OCR engine failed")
	ErrBadTSV       = errors.New("malformed TSV output")
)

// Defaults.
const (
	DefaultBinary   = "tesseract"
	DefaultLanguage = "eng"
)

// CommandRunner executes a command and returns its captured output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner runs commands with os/exec. Cancelling ctx kills the whole
// process group.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	process.Isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Token is one recognized word with its confidence. Tesseract reports -1
// for non-word rows.
type Token struct {
	Text       string
	Confidence float64
}

// Recognition is the raw output for one image.
type Recognition struct {
	Text   string
	Tokens []Token
}

// Tesseract drives the tesseract binary.
type Tesseract struct {
	Bin      string
	Language string
	Runner   CommandRunner
}

// NewTesseract returns an engine using bin and language, with defaults for
// empty values.
func NewTesseract(bin, language string) *Tesseract {
	if bin == "" {
		bin = DefaultBinary
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &Tesseract{Bin: bin, Language: language, Runner: ExecRunner{}}
}

// Recognize extracts plain text and per-word confidences from the image at
// path. It runs tesseract twice: once for text, once for TSV.
func (t *Tesseract) Recognize(ctx context.Context, path string) (*Recognition, error) {
	text, err := t.run(ctx, path, "stdout", "-l", t.Language)
	if err != nil {
		return nil, err
	}
	tsv, err := t.run(ctx, path, "stdout", "-l", t.Language, "tsv")
	if err != nil {
		return nil, err
	}
	tokens, err := ParseTSV(strings.NewReader(tsv))
	if err != nil {
		return nil, err
	}
	return &Recognition{Text: text, Tokens: tokens}, nil
}

// Version returns the first line of `tesseract --version`.
func (t *Tesseract) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := t.Runner.Run(ctx, t.Bin, "--version")
	if err != nil {
		return "", t.wrap(err, stderr)
	}
	// Older releases print the banner on stderr.
	out := stdout
	if strings.TrimSpace(out) == "" {
		out = stderr
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}

func (t *Tesseract) run(ctx context.Context, args ...string) (string, error) {
	stdout, stderr, err := t.Runner.Run(ctx, t.Bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", t.wrap(err, stderr)
	}
	return stdout, nil
}

func (t *Tesseract) wrap(err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotInstalled, t.Bin)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%w: %v: %s", ErrEngine, err, msg)
	}
	return fmt.Errorf("%w: %v", ErrEngine, err)
}

// ParseTSV reads tesseract TSV output. Columns are located by header name;
// rows with an empty text cell are skipped.
func ParseTSV(r io.Reader) ([]Token, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadTSV, err)
		}
		return nil, nil
	}
	confCol, textCol := -1, -1
	for i, name := range strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t") {
		switch name {
		case "conf":
			confCol = i
		case "text":
			textCol = i
		}
	}
	if confCol < 0 || textCol < 0 {
		return nil, fmt.Errorf("%w: missing conf or text column", ErrBadTSV)
	}

	var tokens []Token
	line := 1
	for sc.Scan() {
		line++
		fields := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
		if len(fields) <= confCol {
			continue
		}
		var text string
		if textCol < len(fields) {
			text = strings.TrimSpace(fields[textCol])
		}
		if text == "" {
			continue
		}
		conf, err := strconv.ParseFloat(strings.TrimSpace(fields[confCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadTSV, line, err)
		}
		tokens = append(tokens, Token{Text: text, Confidence: conf})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTSV, err)
	}
	return tokens, nil
}
