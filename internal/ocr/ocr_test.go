package ocr

// Notes:
// - the tesseract binary is never invoked here; a mockRunner records calls
//   and returns canned output
// - a real engine run lives in the integration-tagged test of the root
//   package

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t800\t1000\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t96.5\tInvoice\n" +
	"5\t1\t1\t1\t1\t2\t70\t10\t50\t20\t88\tExample\n" +
	"5\t1\t1\t1\t1\t3\t70\t10\t50\t20\t-1\t \n"

type mockRunner struct {
	calls  [][]string
	stdout map[string]string // keyed by last argument
	err    error
	stderr string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.err != nil {
		return "", m.stderr, m.err
	}
	return m.stdout[args[len(args)-1]], "", nil
}

// ---------------------------------------------------------------------------
// TestParseTSV
// ---------------------------------------------------------------------------

func TestParseTSV(t *testing.T) {
	t.Parallel()

	tokens, err := ParseTSV(strings.NewReader(sampleTSV))
	if err != nil {
		t.Fatalf("ParseTSV() error: %v", err)
	}
	want := []Token{{"Invoice", 96.5}, {"Example", 88}}
	if !slices.Equal(tokens, want) {
		t.Errorf("ParseTSV() = %v, want %v", tokens, want)
	}
}

func TestParseTSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"missing columns", "a\tb\n1\t2\n"},
		{"bad confidence", "conf\ttext\nhigh\tword\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseTSV(strings.NewReader(tt.input)); !errors.Is(err, ErrBadTSV) {
				t.Errorf("ParseTSV() error = %v, want ErrBadTSV", err)
			}
		})
	}
}

func TestParseTSV_Empty(t *testing.T) {
	t.Parallel()

	tokens, err := ParseTSV(strings.NewReader(""))
	if err != nil || tokens != nil {
		t.Errorf("ParseTSV(empty) = %v, %v; want nil, nil", tokens, err)
	}
}

// ---------------------------------------------------------------------------
// TestTesseract_Recognize
// ---------------------------------------------------------------------------

func TestTesseract_Recognize(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{stdout: map[string]string{
		"eng": "Invoice Example\n",
		"tsv": sampleTSV,
	}}
	engine := NewTesseract("", "")
	engine.Runner = runner

	rec, err := engine.Recognize(context.Background(), "page_1.png")
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if rec.Text != "Invoice Example\n" {
		t.Errorf("Text = %q", rec.Text)
	}
	if len(rec.Tokens) != 2 {
		t.Errorf("Tokens = %v, want 2 tokens", rec.Tokens)
	}

	wantCalls := [][]string{
		{"tesseract", "page_1.png", "stdout", "-l", "eng"},
		{"tesseract", "page_1.png", "stdout", "-l", "eng", "tsv"},
	}
	if len(runner.calls) != len(wantCalls) {
		t.Fatalf("calls = %v", runner.calls)
	}
	for i := range wantCalls {
		if !slices.Equal(runner.calls[i], wantCalls[i]) {
			t.Errorf("call %d = %v, want %v", i, runner.calls[i], wantCalls[i])
		}
	}
}

func TestTesseract_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		stderr  string
		wantErr error
	}{
		{"not installed", fmt.Errorf("exec: %w", exec.ErrNotFound), "", ErrNotInstalled},
		{"engine failure", errors.New("exit status 1"), "Error in pixRead", ErrEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := NewTesseract("tess", "deu")
			engine.Runner = &mockRunner{err: tt.err, stderr: tt.stderr}

			_, err := engine.Recognize(context.Background(), "x.png")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recognize() error = %v, want %v", err, tt.wantErr)
			}
			if tt.stderr != "" && !strings.Contains(err.Error(), tt.stderr) {
				t.Errorf("error %q does not include stderr", err)
			}
		})
	}
}

func TestTesseract_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewTesseract("", "")
	engine.Runner = &mockRunner{err: errors.New("signal: killed")}

	if _, err := engine.Recognize(ctx, "x.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("Recognize() error = %v, want context.Canceled", err)
	}
}

func TestTesseract_Version(t *testing.T) {
	t.Parallel()

	engine := NewTesseract("", "")
	engine.Runner = &mockRunner{stdout: map[string]string{"--version": "tesseract 5.3.0\n leptonica-1.82.0\n"}}

	got, err := engine.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if got != "tesseract 5.3.0" {
		t.Errorf("Version() = %q", got)
	}
}
