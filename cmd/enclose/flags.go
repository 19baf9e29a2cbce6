package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every mode.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// ocrFlags holds the OCR stage flags.
type ocrFlags struct {
	disabled bool
	language string
	legacy   bool
}

// cliFlags holds every flag the CLI accepts.
type cliFlags struct {
	common       commonFlags
	step         string
	output       string
	input        string
	searchDir    string
	engine       string
	dpi          float64
	noPageImages bool
	metadataName string
	open         bool
	timeout      time.Duration
	list         bool
	json         bool
	ocr          ocrFlags
}

// addFlags registers every flag on fs.
func addFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.step, "step", "", "pipeline step: create, process, search, aggregate, validate")
	fs.StringVarP(&f.output, "output", "o", "", "output directory, or output path for conversions")
	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.input, "input", "i", "", "markdown file for the process step")
	fs.StringVar(&f.searchDir, "search-dir", "", "directory scanned by search and aggregate")
	fs.StringVar(&f.engine, "engine", "", "PDF engine: chrome, native")
	fs.Float64Var(&f.dpi, "dpi", 0, "PNG resolution (36-600)")
	fs.BoolVar(&f.ocr.disabled, "no-ocr", false, "skip the OCR stage")
	fs.StringVar(&f.ocr.language, "ocr-lang", "", "tesseract language, e.g. eng or eng+fra")
	fs.BoolVar(&f.ocr.legacy, "legacy-ocr-key", false, "also write OCR results under ocr_results")
	fs.BoolVar(&f.noPageImages, "no-page-images", false, "do not embed base64 page images in metadata")
	fs.StringVar(&f.metadataName, "metadata-name", "", "metadata file name (default: dated)")
	fs.BoolVar(&f.open, "open", false, "open the dashboard in the browser")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "PDF generation timeout, e.g. 30s, 2m")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "show debug logs")
	fs.BoolVar(&f.list, "list", false, "list supported formats and conversions")
	fs.BoolVar(&f.json, "json", false, "JSON output (doctor, validate)")
}

// parseFlags parses args (args[0] is the program name) and returns the flags
// and the positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("enclose", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	f := &cliFlags{}
	addFlags(fs, f)

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
