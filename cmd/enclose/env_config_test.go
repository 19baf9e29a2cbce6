package main

// Notes:
// - loadEnvConfig: every ENCLOSE_* variable, plus invalid numbers and
//   durations, which are ignored rather than reported.
// - applyEnvConfig: env fills empty config fields and never overrides the file.
// - loadDotEnv: a .env file in the working directory is read; variables
//   already set win.
// - Tests use t.Setenv and t.Chdir, which rule out t.Parallel().

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-enclose/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("ENCLOSE_CONFIG", "/etc/enclose.yaml")
		t.Setenv("ENCLOSE_OUTPUT_DIR", "/out")
		t.Setenv("ENCLOSE_SEARCH_DIR", "/svgs")
		t.Setenv("ENCLOSE_ENGINE", "native")
		t.Setenv("ENCLOSE_STYLE", "technical")
		t.Setenv("ENCLOSE_ASSET_PATH", "/assets")
		t.Setenv("ENCLOSE_TIMEOUT", "90s")
		t.Setenv("ENCLOSE_DPI", "300")
		t.Setenv("ENCLOSE_OCR_LANG", "fra")
		t.Setenv("ENCLOSE_TESSERACT_BIN", "/opt/tesseract")
		t.Setenv("ENCLOSE_LOG_LEVEL", "debug")
		t.Setenv("ENCLOSE_DASHBOARD_TITLE", "Invoices")

		cfg := loadEnvConfig()

		checks := map[string][2]string{
			"ConfigPath":     {cfg.ConfigPath, "/etc/enclose.yaml"},
			"OutputDir":      {cfg.OutputDir, "/out"},
			"SearchDir":      {cfg.SearchDir, "/svgs"},
			"Engine":         {cfg.Engine, "native"},
			"Style":          {cfg.Style, "technical"},
			"AssetPath":      {cfg.AssetPath, "/assets"},
			"OCRLanguage":    {cfg.OCRLanguage, "fra"},
			"TesseractBin":   {cfg.TesseractBin, "/opt/tesseract"},
			"LogLevel":       {cfg.LogLevel, "debug"},
			"DashboardTitle": {cfg.DashboardTitle, "Invoices"},
		}
		for field, c := range checks {
			if c[0] != c[1] {
				t.Errorf("%s = %q, want %q", field, c[0], c[1])
			}
		}
		if cfg.Timeout != 90*time.Second {
			t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
		}
		if cfg.DPI != 300 {
			t.Errorf("DPI = %v, want 300", cfg.DPI)
		}
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		t.Setenv("ENCLOSE_TIMEOUT", "forever")
		t.Setenv("ENCLOSE_DPI", "-5")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
		if cfg.DPI != 0 {
			t.Errorf("DPI = %v, want 0", cfg.DPI)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("ENCLOSE_OUTPUT_DIRR", "x")
	t.Setenv("ENCLOSE_ENGINE", "native")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	if !strings.Contains(buf.String(), "ENCLOSE_OUTPUT_DIRR") {
		t.Errorf("expected warning for typo, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "ENCLOSE_ENGINE ") {
		t.Errorf("known variable should not warn, got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		OutputDir:      "/env-out",
		Engine:         "native",
		Timeout:        time.Minute,
		DPI:            300,
		TesseractBin:   "/env/tesseract",
		DashboardTitle: "Env title",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Output.Dir != "/env-out" {
			t.Errorf("Output.Dir = %q, want /env-out", cfg.Output.Dir)
		}
		if cfg.Render.Engine != "native" {
			t.Errorf("Render.Engine = %q, want native", cfg.Render.Engine)
		}
		if cfg.Render.Timeout != "1m0s" {
			t.Errorf("Render.Timeout = %q, want 1m0s", cfg.Render.Timeout)
		}
		if cfg.Raster.DPI != 300 {
			t.Errorf("Raster.DPI = %v, want 300", cfg.Raster.DPI)
		}
		if cfg.OCR.Command != "/env/tesseract" {
			t.Errorf("OCR.Command = %q, want /env/tesseract", cfg.OCR.Command)
		}
		if cfg.Dashboard.Title != "Env title" {
			t.Errorf("Dashboard.Title = %q, want Env title", cfg.Dashboard.Title)
		}
	})

	t.Run("file values win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Dir = "/file-out"
		cfg.Render.Engine = "chrome"
		cfg.Raster.DPI = 72
		applyEnvConfig(env, cfg)

		if cfg.Output.Dir != "/file-out" {
			t.Errorf("Output.Dir = %q, want /file-out", cfg.Output.Dir)
		}
		if cfg.Render.Engine != "chrome" {
			t.Errorf("Render.Engine = %q, want chrome", cfg.Render.Engine)
		}
		if cfg.Raster.DPI != 72 {
			t.Errorf("Raster.DPI = %v, want 72", cfg.Raster.DPI)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadDotEnv - .env file loading
// ---------------------------------------------------------------------------

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "ENCLOSE_OCR_LANG=deu\nENCLOSE_ENGINE=native\n"
	if err := os.WriteFile(filepath.Join(dir, dotEnvFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("ENCLOSE_ENGINE", "chrome")
	// t.Setenv restores the previous state; loadDotEnv sets this one itself.
	t.Setenv("ENCLOSE_OCR_LANG", "")
	os.Unsetenv("ENCLOSE_OCR_LANG")

	var buf bytes.Buffer
	loadDotEnv(&buf)

	if buf.Len() != 0 {
		t.Errorf("unexpected warning: %q", buf.String())
	}
	if got := os.Getenv("ENCLOSE_OCR_LANG"); got != "deu" {
		t.Errorf("ENCLOSE_OCR_LANG = %q, want deu", got)
	}
	if got := os.Getenv("ENCLOSE_ENGINE"); got != "chrome" {
		t.Errorf("ENCLOSE_ENGINE = %q, want chrome (already set wins)", got)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	loadDotEnv(&buf)

	if buf.Len() != 0 {
		t.Errorf("missing .env should be silent, got %q", buf.String())
	}
}
