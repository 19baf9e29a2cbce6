// Package hints builds short, actionable suggestions appended to CLI error
// messages as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-enclose/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

func inCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests browser environment variables.
func ForBrowserConnect() string {
	var hints []string
	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or use --engine native")
	return format(strings.Join(hints, "; "))
}

// ForTimeout suggests a longer timeout.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound suggests --config or the user config location.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(p, ".config/go-enclose") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory suggests checking the output location.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available style names.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForOCREngine explains how to install or skip tesseract.
func ForOCREngine() string {
	return format("install tesseract-ocr or set ENCLOSE_TESSERACT_BIN; use --no-ocr to skip")
}

// ForRasterizer explains the MuPDF requirement of the PNG stage.
func ForRasterizer() string {
	return format("PNG output needs MuPDF (go-fitz); check the input is a valid PDF")
}

// ForUnsupportedFormat points at the conversion list.
func ForUnsupportedFormat() string {
	return format("run 'enclose --list' to see supported conversions")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
