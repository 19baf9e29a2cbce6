package enclose

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
)

// validatedExtensions are the extensions ValidateDirectory checks.
var validatedExtensions = map[string]bool{
	".pdf":  true,
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".html": true,
	".md":   true,
}

// DirectoryReport is the outcome of ValidateDirectory.
type DirectoryReport struct {
	Directory string             `json:"directory"`
	Files     []ValidationResult `json:"files"`
	Summary   ValidationSummary  `json:"summary"`
}

// ValidationSummary counts results overall and per lowercased extension.
type ValidationSummary struct {
	TotalFiles   int                        `json:"total_files"`
	ValidFiles   int                        `json:"valid_files"`
	InvalidFiles int                        `json:"invalid_files"`
	ByExtension  map[string]*ExtensionStats `json:"by_extension"`
}

// ExtensionStats counts results for one extension.
type ExtensionStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Invalid returns the results that failed validation.
func (r *DirectoryReport) Invalid() []ValidationResult {
	var out []ValidationResult
	for _, f := range r.Files {
		if !f.IsValid {
			out = append(out, f)
		}
	}
	return out
}

// Err returns an ErrValidation error when any file is invalid.
func (r *DirectoryReport) Err() error {
	if r == nil || r.Summary.InvalidFiles == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d file(s) invalid in %s",
		ErrValidation, r.Summary.InvalidFiles, r.Summary.TotalFiles, r.Directory)
}

// ValidateDirectory walks dir and validates every produced file
// (pdf, svg, png, jpg, jpeg, html, md) against its extension, in lexical
// path order. Dotfiles are skipped. Unreadable entries are skipped with a
// warning. A nil logger discards the warnings.
func ValidateDirectory(ctx context.Context, dir string, logger *log.Logger) (*DirectoryReport, error) {
	if logger == nil {
		logger = &log.Logger{Writer: &log.IOWriter{Writer: io.Discard}}
	}
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	report := &DirectoryReport{
		Directory: abs,
		Files:     []ValidationResult{},
		Summary:   ValidationSummary{ByExtension: map[string]*ExtensionStats{}},
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
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
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !validatedExtensions[ext] {
			return nil
		}

		res := ValidateConvertedFile(path, "")
		report.add(ext, res)
		if !res.IsValid {
			logger.Debug().Str("path", path).Str("reason", res.ValidationMessage).Msg("invalid file")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *DirectoryReport) add(ext string, res ValidationResult) {
	r.Files = append(r.Files, res)

	stats, ok := r.Summary.ByExtension[ext]
	if !ok {
		stats = &ExtensionStats{}
		r.Summary.ByExtension[ext] = stats
	}
	r.Summary.TotalFiles++
	stats.Total++
	if res.IsValid {
		r.Summary.ValidFiles++
		stats.Valid++
	} else {
		r.Summary.InvalidFiles++
		stats.Invalid++
	}
}
