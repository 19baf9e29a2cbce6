package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/phuslu/log"

	"github.com/alnah/go-enclose"
	"github.com/alnah/go-enclose/internal/config"
)

// runValidate checks every produced file under dir and prints the report.
// Invalid files make it return an ErrValidation error.
func runValidate(ctx context.Context, dir string, f *cliFlags, logger *log.Logger, env *Environment) error {
	report, err := enclose.ValidateDirectory(ctx, dir, logger)
	if err != nil {
		return err
	}

	switch {
	case f.json:
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding validation report: %w", err)
		}
	case !f.common.quiet:
		printValidationReport(env.Stdout, report)
	}
	return report.Err()
}

// validateDir picks the directory for the validate command: the positional
// argument, else the output directory.
func validateDir(args []string, f *cliFlags, cfg *config.Config) (string, error) {
	switch len(args) {
	case 0:
		return resolveOutputDir(f.output, cfg), nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: validate takes at most one directory, got %v", ErrUsage, args)
}

// printValidationReport writes a human-readable report.
func printValidationReport(w io.Writer, r *enclose.DirectoryReport) {
	fmt.Fprintf(w, "Validation results for: %s\n", r.Directory)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)

	s := r.Summary
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total files:   %d\n", s.TotalFiles)
	fmt.Fprintf(w, "  Valid files:   %d\n", s.ValidFiles)
	fmt.Fprintf(w, "  Invalid files: %d\n", s.InvalidFiles)

	if len(s.ByExtension) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "By extension:")
		exts := make([]string, 0, len(s.ByExtension))
		for ext := range s.ByExtension {
			exts = append(exts, ext)
		}
		slices.Sort(exts)
		for _, ext := range exts {
			st := s.ByExtension[ext]
			fmt.Fprintf(w, "  %-6s total %d, valid %d, invalid %d\n", ext, st.Total, st.Valid, st.Invalid)
		}
	}

	if invalid := r.Invalid(); len(invalid) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Invalid files:")
		for _, res := range invalid {
			fmt.Fprintf(w, "  [ERROR] %s\n", res.File)
			if res.MIMEType != "" {
				fmt.Fprintf(w, "          MIME type: %s\n", res.MIMEType)
			}
			fmt.Fprintf(w, "          %s\n", res.ValidationMessage)
		}
	}

	fmt.Fprintln(w)
	if s.InvalidFiles > 0 {
		fmt.Fprintln(w, "Status: Validation failed")
	} else {
		fmt.Fprintln(w, "Status: All files are valid")
	}
}
