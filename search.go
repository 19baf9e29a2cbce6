package enclose

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/net/html/charset"
)

// dublinCoreNS is the namespace of dc:title.
const dublinCoreNS = "http://purl.org/dc/elements/1.1/"

// SvgFileRecord describes one SVG file found by SearchSVGFiles.
type SvgFileRecord struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Modified    string `json:"modified"`
	HasMetadata bool   `json:"has_metadata"`
	HasPDFData  bool   `json:"has_pdf_data"`
	Title       string `json:"title,omitempty"`
}

// SearchSVGFiles walks root and returns a record for every well-formed .svg
// file, in lexical path order. Files that cannot be read or parsed are
// skipped with a warning. A nil logger discards the warnings.
func SearchSVGFiles(ctx context.Context, root string, logger *log.Logger) ([]SvgFileRecord, error) {
	if logger == nil {
		logger = &log.Logger{Writer: &log.IOWriter{Writer: io.Discard}}
	}
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, root)
	}

	var records []SvgFileRecord
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".svg") {
			return nil
		}

		rec, err := inspectSVG(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping SVG")
			return nil
		}
		records = append(records, *rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// inspectSVG reads one file and fills its record.
func inspectSVG(path string) (*SvgFileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory walk
	if err != nil {
		return nil, err
	}

	hasMetadata, title, err := scanSVG(data)
	if err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}

	return &SvgFileRecord{
		Path:        path,
		Size:        info.Size(),
		Modified:    info.ModTime().Format(time.RFC3339),
		HasMetadata: hasMetadata,
		HasPDFData:  bytes.Contains(data, []byte(pdfDataURIPrefix)),
		Title:       title,
	}, nil
}

// scanSVG checks that data is well-formed XML and looks for a <metadata>
// element and a dc:title inside it.
func scanSVG(data []byte) (hasMetadata bool, title string, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	metadataDepth := 0
	inTitle := false
	titleFound := false
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if metadataDepth > 0 {
				metadataDepth++
			}
			if t.Name.Local == "metadata" && metadataDepth == 0 {
				hasMetadata = true
				metadataDepth = 1
			}
			if metadataDepth > 0 && !titleFound && isDublinCoreTitle(t.Name) {
				inTitle = true
			}
		case xml.CharData:
			if inTitle {
				text.Write(t)
			}
		case xml.EndElement:
			if inTitle && isDublinCoreTitle(t.Name) {
				inTitle = false
				titleFound = true
				title = strings.TrimSpace(text.String())
			}
			if metadataDepth > 0 {
				metadataDepth--
			}
		}
	}
	return hasMetadata, title, nil
}

func isDublinCoreTitle(name xml.Name) bool {
	return name.Local == "title" && (name.Space == dublinCoreNS || name.Space == "dc")
}

// SortRecords sorts records by path.
func SortRecords(records []SvgFileRecord) {
	slices.SortFunc(records, func(a, b SvgFileRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
}
