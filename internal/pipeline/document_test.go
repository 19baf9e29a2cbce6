package pipeline

// Notes:
// - path tests use an OS-appropriate absolute source dir so file:// URLs are
//   predictable on Windows too
// - traversal checks assert the observable result (attribute unchanged)

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func wrapBody(body string) string {
	return "<!DOCTYPE html><html><head><title>Document</title></head><body>" + body + "</body></html>"
}

// ---------------------------------------------------------------------------
// TestStyleInjection
// ---------------------------------------------------------------------------

func TestStyleInjection_InjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{"before head close", "<html><head></head><body></body></html>", "p{}", "<html><head><style>p{}</style></head><body></body></html>"},
		{"uppercase head", "<HTML><HEAD></HEAD></HTML>", "p{}", "<HTML><HEAD><style>p{}</style></HEAD></HTML>"},
		{"after body open", `<body class="x">hi</body>`, "p{}", `<body class="x"><style>p{}</style>hi</body>`},
		{"prepend fallback", "<p>hi</p>", "p{}", "<style>p{}</style><p>hi</p>"},
		{"empty css no-op", "<p>hi</p>", "", "<p>hi</p>"},
		{"style close escaped", "<p></p>", "</style><script>", `<style><\/style><script></style><p></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := StyleInjection{}.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFinish
// ---------------------------------------------------------------------------

func TestFinish_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		opts      FinishOptions
		wantTitle string
	}{
		{"first h1 wins", "<h1>Invoice  Example</h1><h1>Second</h1>", FinishOptions{}, "Invoice Example"},
		{"explicit title", "<h1>Heading</h1>", FinishOptions{Title: "Custom"}, "Custom"},
		{"fallback when no heading", "<p>x</p>", FinishOptions{FallbackTitle: "report"}, "report"},
		{"nothing to use", "<p>x</p>", FinishOptions{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Finish(context.Background(), wrapBody(tt.body), tt.opts)
			if err != nil {
				t.Fatalf("Finish() unexpected error: %v", err)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if tt.wantTitle != "" && !strings.Contains(got.HTML, "<title>"+tt.wantTitle+"</title>") {
				t.Errorf("HTML missing title element for %q:\n%s", tt.wantTitle, got.HTML)
			}
		})
	}
}

func TestFinish_TitleEscaped(t *testing.T) {
	t.Parallel()

	got, err := Finish(context.Background(), "<html><head></head><body></body></html>", FinishOptions{Title: "A & <B>"})
	if err != nil {
		t.Fatalf("Finish() unexpected error: %v", err)
	}
	if !strings.Contains(got.HTML, "<title>A &amp; &lt;B&gt;</title>") {
		t.Errorf("title not escaped:\n%s", got.HTML)
	}
}

func TestFinish_RewritesRelativePaths(t *testing.T) {
	t.Parallel()

	dir := "/docs"
	if runtime.GOOS == "windows" {
		dir = `C:\docs`
	}
	wantURL := "file://" + filepath.ToSlash(filepath.Join(dir, "images", "logo.png"))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"relative img", `<img src="images/logo.png"/>`, `src="` + wantURL + `"`},
		{"dot relative img", `<img src="./images/logo.png"/>`, `src="` + wantURL + `"`},
		{"https unchanged", `<img src="https://example.com/a.png"/>`, `src="https://example.com/a.png"`},
		{"data URI unchanged", `<img src="data:image/png;base64,AAA"/>`, `src="data:image/png;base64,AAA"`},
		{"anchor unchanged", `<a href="#top">x</a>`, `href="#top"`},
		{"traversal unchanged", `<img src="../secret.png"/>`, `src="../secret.png"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Finish(context.Background(), wrapBody(tt.body), FinishOptions{SourceDir: dir})
			if err != nil {
				t.Fatalf("Finish() unexpected error: %v", err)
			}
			if !strings.Contains(got.HTML, tt.want) {
				t.Errorf("Finish() missing %q in:\n%s", tt.want, got.HTML)
			}
		})
	}
}

func TestFinish_NoSourceDirKeepsPaths(t *testing.T) {
	t.Parallel()

	got, err := Finish(context.Background(), wrapBody(`<img src="logo.png"/>`), FinishOptions{})
	if err != nil {
		t.Fatalf("Finish() unexpected error: %v", err)
	}
	if !strings.Contains(got.HTML, `src="logo.png"`) {
		t.Errorf("path rewritten without SourceDir:\n%s", got.HTML)
	}
}

// ---------------------------------------------------------------------------
// TestDocumentTitle
// ---------------------------------------------------------------------------

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"h1 preferred", "<html><head><title>T</title></head><body><h1>H</h1></body></html>", "H"},
		{"title element", "<html><head><title> T </title></head><body></body></html>", "T"},
		{"neither", "<p>x</p>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DocumentTitle(tt.html); got != tt.want {
				t.Errorf("DocumentTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
