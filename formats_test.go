package enclose

import (
	"errors"
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseFormat - Name normalization
// ---------------------------------------------------------------------------

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr error
	}{
		{input: "md", want: FormatMarkdown},
		{input: "Markdown", want: FormatMarkdown},
		{input: ".html", want: FormatHTML},
		{input: "HTM", want: FormatHTML},
		{input: " pdf ", want: FormatPDF},
		{input: "svg", want: FormatSVG},
		{input: "png", want: FormatPNG},
		{input: "jpg", want: FormatJPEG},
		{input: "txt", want: FormatText},
		{input: "docx", wantErr: ErrUnsupportedFormat},
		{input: "", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "docs/readme.md", want: FormatMarkdown},
		{path: "OUT/REPORT.PDF", want: FormatPDF},
		{path: "archive.tar.svg", want: FormatSVG},
		{path: "Makefile", wantErr: true},
		{path: "data.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := FormatOf(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("FormatOf(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatOf(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCanConvert - Conversion matrix
// ---------------------------------------------------------------------------

func TestCanConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Format
		want     bool
	}{
		{FormatMarkdown, FormatHTML, true},
		{FormatMarkdown, FormatPDF, true},
		{FormatMarkdown, FormatSVG, true},
		{FormatMarkdown, FormatPNG, true},
		{FormatHTML, FormatPDF, true},
		{FormatHTML, FormatPNG, true},
		{FormatPDF, FormatSVG, true},
		{FormatPDF, FormatPNG, true},
		{FormatSVG, FormatPNG, true},
		{FormatHTML, FormatMarkdown, false},
		{FormatPDF, FormatHTML, false},
		{FormatSVG, FormatPDF, false},
		{FormatPNG, FormatSVG, false},
		{FormatPDF, FormatPDF, false},
		{FormatJPEG, FormatPNG, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			t.Parallel()

			if got := CanConvert(tt.from, tt.to); got != tt.want {
				t.Errorf("CanConvert(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSupportedConversions_ReturnsCopy(t *testing.T) {
	t.Parallel()

	m := SupportedConversions()
	m[FormatSVG] = append(m[FormatSVG], FormatPDF)

	if CanConvert(FormatSVG, FormatPDF) {
		t.Error("mutating the returned map changed the conversion matrix")
	}
}

func TestPipelineFormats(t *testing.T) {
	t.Parallel()

	want := []Format{FormatMarkdown, FormatHTML, FormatPDF, FormatSVG, FormatPNG}
	if got := PipelineFormats(); !slices.Equal(got, want) {
		t.Errorf("PipelineFormats() = %v, want %v", got, want)
	}
}
