package enclose

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// TestStageError - Message and unwrapping
// ---------------------------------------------------------------------------

func TestStageError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *StageError
		want string
	}{
		{
			name: "with path",
			err:  &StageError{Stage: StagePDFToSVG, Path: "out/doc.pdf", Err: errors.New("boom")},
			want: "pdf_to_svg: out/doc.pdf: boom",
		},
		{
			name: "without path",
			err:  &StageError{Stage: StageMetadata, Err: errors.New("boom")},
			want: "metadata: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStageErr_MatchesKindAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("chrome died")
	err := stageErr(StageMarkdownToPDF, "doc.md", ErrConversion, cause)

	if !errors.Is(err, ErrConversion) {
		t.Error("errors.Is(err, ErrConversion) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}

	var se *StageError
	if !errors.As(fmt.Errorf("outer: %w", err), &se) {
		t.Fatal("errors.As did not find *StageError")
	}
	if se.Stage != StageMarkdownToPDF || se.Path != "doc.md" {
		t.Errorf("StageError = %+v", se)
	}
}

func TestStageErr_DoesNotWrapKindTwice(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("%w: page_1.png", ErrValidation)
	err := stageErr(StageSVGToPNG, "page_1.png", ErrValidation, cause)

	if err.Err != cause {
		t.Errorf("Err = %v, want the cause unchanged", err.Err)
	}
}
