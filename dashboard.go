package enclose

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-enclose/internal/assets"
	"github.com/alnah/go-enclose/internal/dateutil"
)

// DashboardFileName is the default dashboard output name.
const DashboardFileName = "dashboard.html"

const defaultDashboardTitle = "SVG Files Dashboard"

// xmlProlog matches a leading XML declaration and doctype, including a
// bracketed internal subset.
var xmlProlog = regexp.MustCompile(`^\s*(<\?xml[^>]*\?>\s*)?(<!DOCTYPE[^\[>]*(\[[^\]]*\])?[^>]*>\s*)?`)

// DashboardOptions controls RenderDashboard. The zero value is usable.
type DashboardOptions struct {
	Title  string
	Loader AssetLoader // nil uses the embedded template
	Now    time.Time   // zero uses time.Now
}

type dashboardPage struct {
	Title     string
	Generated string
	Rows      []dashboardRow
}

type dashboardRow struct {
	Preview     template.HTML
	Link        template.URL
	Path        string
	Size        int64
	Modified    string
	HasPDF      bool
	HasMetadata bool
	Title       string
}

// RenderDashboard writes an HTML page with one row per record. Each row
// inlines the SVG markup as a preview; files that cannot be read show a
// placeholder.
func RenderDashboard(w io.Writer, records []SvgFileRecord, opts *DashboardOptions) error {
	if opts == nil {
		opts = &DashboardOptions{}
	}
	loader := opts.Loader
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	src, err := loader.LoadTemplate(assets.DashboardTemplate)
	if err != nil {
		return fmt.Errorf("loading dashboard template: %w", err)
	}
	tmpl, err := template.New(assets.DashboardTemplate).Parse(src)
	if err != nil {
		return fmt.Errorf("parsing dashboard template: %w", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	page := dashboardPage{
		Title:     opts.Title,
		Generated: formatDashboardTime(now),
		Rows:      make([]dashboardRow, 0, len(records)),
	}
	if page.Title == "" {
		page.Title = defaultDashboardTitle
	}

	for _, rec := range records {
		modified := rec.Modified
		if t, err := time.Parse(time.RFC3339, rec.Modified); err == nil {
			modified = formatDashboardTime(t)
		}
		page.Rows = append(page.Rows, dashboardRow{
			Preview:     svgPreview(rec.Path),
			Link:        template.URL(fileURL(rec.Path)), // #nosec G203 -- local file link
			Path:        rec.Path,
			Size:        rec.Size,
			Modified:    modified,
			HasPDF:      rec.HasPDFData,
			HasMetadata: rec.HasMetadata,
			Title:       rec.Title,
		})
	}

	return tmpl.Execute(w, page)
}

// WriteDashboard renders the dashboard into the file at path.
func WriteDashboard(records []SvgFileRecord, path string, opts *DashboardOptions) error {
	var buf bytes.Buffer
	if err := RenderDashboard(&buf, records, opts); err != nil {
		return err
	}
	return writeOutput(path, buf.Bytes())
}

// OpenInBrowser opens the file at path with the system's default browser.
func OpenInBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, abs)
	}
	launcher.Open(fileURL(abs))
	return nil
}

// svgPreview returns the SVG markup without its prolog, or "" when the file
// cannot be read.
func svgPreview(path string) template.HTML {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from search results
	if err != nil {
		return ""
	}
	// #nosec G203 -- the dashboard inlines the user's own SVG files
	return template.HTML(xmlProlog.ReplaceAll(data, nil))
}

func formatDashboardTime(t time.Time) string {
	s, err := dateutil.Format(dateutil.DashboardDateTime, t)
	if err != nil {
		return t.Format(time.DateTime)
	}
	return s
}
