package main

import (
	"errors"
	"os"

	"github.com/alnah/go-enclose"
	"github.com/alnah/go-enclose/internal/config"
	"github.com/alnah/go-enclose/internal/ocr"
)

// Exit codes for the enclose CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, format or option
	ExitIO      = 3 // File not found, permission denied
	ExitEngine  = 4 // Browser, rasterizer or OCR engine errors
)

// exitCodeFor returns the exit code for err.
// It relies on errors.Is, so every layer must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Engine errors (exit 4)
	if errors.Is(err, enclose.ErrBrowserConnect) ||
		errors.Is(err, enclose.ErrPageCreate) ||
		errors.Is(err, enclose.ErrPageLoad) ||
		errors.Is(err, enclose.ErrPDFGeneration) ||
		errors.Is(err, enclose.ErrRasterize) ||
		errors.Is(err, ocr.ErrNotInstalled) {
		return ExitEngine
	}

	// I/O errors (exit 3)
	if errors.Is(err, enclose.ErrNotFound) ||
		errors.Is(err, enclose.ErrWriteOutput) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, enclose.ErrUnsupportedFormat) ||
		errors.Is(err, enclose.ErrEmptyMarkdown) ||
		errors.Is(err, enclose.ErrInvalidPageSize) ||
		errors.Is(err, enclose.ErrInvalidOrientation) ||
		errors.Is(err, enclose.ErrInvalidMargin) ||
		errors.Is(err, enclose.ErrInvalidDPI) ||
		errors.Is(err, enclose.ErrInvalidEngine) ||
		errors.Is(err, enclose.ErrInvalidAssetPath) ||
		errors.Is(err, enclose.ErrStyleNotFound) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownStep) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
