package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phuslu/log"

	"github.com/alnah/go-enclose"
	"github.com/alnah/go-enclose/internal/config"
	"github.com/alnah/go-enclose/internal/fileutil"
	"github.com/alnah/go-enclose/internal/hints"
)

// Pipeline steps accepted by --step.
const (
	stepCreate    = "create"
	stepProcess   = "process"
	stepSearch    = "search"
	stepAggregate = "aggregate"
	stepValidate  = "validate"
)

// searchResultsFile is written by the search step into the output directory.
const searchResultsFile = "svg_search_results.json"

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// runStep executes one --step.
func runStep(ctx context.Context, f *cliFlags, cfg *config.Config, logger *log.Logger, env *Environment) error {
	outDir := resolveOutputDir(f.output, cfg)

	switch f.step {
	case stepCreate, stepProcess:
		opts, err := buildOptions(outDir, f, cfg, logger, env)
		if err != nil {
			return err
		}
		p, err := enclose.NewProcessor(opts...)
		if err != nil {
			return err
		}
		defer p.Close()

		if f.step == stepCreate {
			path, err := p.CreateExampleMarkdown()
			if err != nil {
				return err
			}
			if !f.common.quiet {
				fmt.Fprintf(env.Stdout, "Created: %s\n", path)
			}
			return nil
		}
		return runProcess(ctx, p, f, env)

	case stepSearch:
		return runSearch(ctx, resolveSearchDir(f.searchDir, cfg, outDir), outDir, f.common.quiet, logger, env)

	case stepAggregate:
		return runAggregate(ctx, resolveSearchDir(f.searchDir, cfg, outDir), outDir, f, cfg, logger, env)

	case stepValidate:
		return runValidate(ctx, outDir, f, logger, env)
	}

	return fmt.Errorf("%w: %q (must be create, process, search, aggregate or validate)", ErrUnknownStep, f.step)
}

// runProcess runs the full chain. Without --input it reuses the example in
// the output directory, creating it when missing.
func runProcess(ctx context.Context, p *enclose.Processor, f *cliFlags, env *Environment) error {
	input := f.input
	if input == "" {
		if example := filepath.Join(p.OutputDir(), enclose.ExampleFileName); fileutil.FileExists(example) {
			input = example
		}
	}

	res, err := p.Run(ctx, input)
	if err != nil {
		return err
	}

	if ocrErr := res.OCRErr(); ocrErr != nil {
		fmt.Fprintf(env.Stderr, "warning: %v%s\n", ocrErr, hints.ForOCREngine())
	}
	if f.common.quiet {
		return nil
	}
	fmt.Fprintf(env.Stdout, "Markdown: %s\n", res.MarkdownPath)
	fmt.Fprintf(env.Stdout, "PDF:      %s\n", res.PDFPath)
	fmt.Fprintf(env.Stdout, "SVG:      %s\n", res.SVGPath)
	fmt.Fprintf(env.Stdout, "Pages:    %d\n", len(res.Pages))
	fmt.Fprintf(env.Stdout, "Metadata: %s\n", res.MetadataPath)
	return nil
}

// runSearch writes the SVG records under root to searchResultsFile.
func runSearch(ctx context.Context, root, outDir string, quiet bool, logger *log.Logger, env *Environment) error {
	records, err := searchRecords(ctx, root, logger)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding search results: %w", err)
	}
	path := filepath.Join(outDir, searchResultsFile)
	if err := writeFile(path, data); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "Found %d SVG file(s) in %s\n", len(records), root)
		fmt.Fprintf(env.Stdout, "Results: %s\n", path)
	}
	return nil
}

// runAggregate renders the dashboard and opens it on request.
func runAggregate(ctx context.Context, root, outDir string, f *cliFlags, cfg *config.Config, logger *log.Logger, env *Environment) error {
	records, err := searchRecords(ctx, root, logger)
	if err != nil {
		return err
	}
	loader, err := enclose.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", enclose.ErrWriteOutput, err)
	}

	path := filepath.Join(outDir, enclose.DashboardFileName)
	opts := &enclose.DashboardOptions{Title: cfg.Dashboard.Title, Loader: loader}
	if env.Now != nil {
		opts.Now = env.Now()
	}
	if err := enclose.WriteDashboard(records, path, opts); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Dashboard: %s (%d file(s))\n", path, len(records))
	}

	if (f.open || cfg.Dashboard.OpenBrowser) && env.Open != nil {
		if err := env.Open(path); err != nil {
			fmt.Fprintf(env.Stderr, "warning: could not open browser: %v\n", err)
		}
	}
	return nil
}

func searchRecords(ctx context.Context, root string, logger *log.Logger) ([]enclose.SvgFileRecord, error) {
	records, err := enclose.SearchSVGFiles(ctx, root, logger)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []enclose.SvgFileRecord{}
	}
	enclose.SortRecords(records)
	return records, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", enclose.ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", enclose.ErrWriteOutput, err)
	}
	return nil
}
