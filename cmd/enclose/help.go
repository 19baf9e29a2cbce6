package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  enclose --step <step> [flags]")
	fmt.Fprintln(w, "  enclose <input> <format> [-o PATH] [flags]")
	fmt.Fprintln(w, "  enclose --list")
	fmt.Fprintln(w, "  enclose validate [DIR] [--json]")
	fmt.Fprintln(w, "  enclose <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Steps:")
	fmt.Fprintln(w, "  create     Write the example invoice markdown")
	fmt.Fprintln(w, "  process    Run markdown -> PDF -> SVG -> PNG -> OCR and save metadata")
	fmt.Fprintln(w, "  search     Find SVG files and write "+searchResultsFile)
	fmt.Fprintln(w, "  aggregate  Build an HTML dashboard of the SVG files")
	fmt.Fprintln(w, "  validate   Check every produced file in the output directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list       List supported formats and conversions")
	fmt.Fprintln(w, "  validate   Check the file signatures in a directory")
	fmt.Fprintln(w, "  doctor     Check Chrome, tesseract and MuPDF")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a step or command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'enclose help flags' for the flag reference.")
}

// printFlagsUsage prints the flag reference.
func printFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory (steps) or output path (conversion)")
	fmt.Fprintln(w, "  -i, --input <file>        Markdown file for the process step")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --search-dir <dir>    Directory scanned by search and aggregate")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <s>          PDF engine: chrome, native")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "      --dpi <f>             PNG resolution (36-600)")
	fmt.Fprintln(w, "      --no-page-images      Do not embed base64 page images in metadata")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OCR:")
	fmt.Fprintln(w, "      --no-ocr              Skip the OCR stage")
	fmt.Fprintln(w, "      --ocr-lang <s>        Tesseract language (e.g. eng, eng+fra)")
	fmt.Fprintln(w, "      --legacy-ocr-key      Also write OCR results under ocr_results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata and dashboard:")
	fmt.Fprintln(w, "      --metadata-name <s>   Metadata file name (default: dated)")
	fmt.Fprintln(w, "      --open                Open the dashboard in the browser")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --json                JSON output (doctor, validate)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ENCLOSE_CONFIG, ENCLOSE_OUTPUT_DIR, ENCLOSE_SEARCH_DIR, ENCLOSE_ENGINE,")
	fmt.Fprintln(w, "  ENCLOSE_STYLE, ENCLOSE_ASSET_PATH, ENCLOSE_TIMEOUT, ENCLOSE_DPI,")
	fmt.Fprintln(w, "  ENCLOSE_OCR_LANG, ENCLOSE_TESSERACT_BIN, ENCLOSE_LOG_LEVEL,")
	fmt.Fprintln(w, "  ENCLOSE_DASHBOARD_TITLE. A .env file in the working directory is loaded.")
}

// runHelp prints help for a topic and returns the exit code.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "flags":
		printFlagsUsage(env.Stdout)
	case stepCreate:
		fmt.Fprintln(env.Stdout, "Usage: enclose --step create [-o DIR]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Write the example invoice markdown into the output directory.")
	case stepProcess:
		fmt.Fprintln(env.Stdout, "Usage: enclose --step process [-i FILE] [-o DIR] [flags]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Run the full chain. Without --input, the example invoice in the")
		fmt.Fprintln(env.Stdout, "output directory is used (and created when missing).")
	case stepSearch:
		fmt.Fprintln(env.Stdout, "Usage: enclose --step search [--search-dir DIR] [-o DIR]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Find SVG files and write their records to "+searchResultsFile+".")
	case stepAggregate:
		fmt.Fprintln(env.Stdout, "Usage: enclose --step aggregate [--search-dir DIR] [-o DIR] [--open]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Write an HTML dashboard of the SVG files found.")
	case stepValidate:
		fmt.Fprintln(env.Stdout, "Usage: enclose validate [DIR] [--json]")
		fmt.Fprintln(env.Stdout, "       enclose --step validate [-o DIR] [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the signature of every pdf, svg, png, jpg, html and md file")
		fmt.Fprintln(env.Stdout, "under DIR (default: the output directory). Exits 1 when any is invalid.")
	case "list":
		fmt.Fprintln(env.Stdout, "Usage: enclose --list")
		fmt.Fprintln(env.Stdout)
		printConversions(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: enclose doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, tesseract, MuPDF and the temp directory.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: enclose version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: enclose help [topic]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a step or command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown help topic: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
