package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-enclose/internal/config"
	"github.com/alnah/go-enclose/internal/fileutil"
)

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath     string        // ENCLOSE_CONFIG
	OutputDir      string        // ENCLOSE_OUTPUT_DIR
	SearchDir      string        // ENCLOSE_SEARCH_DIR
	Engine         string        // ENCLOSE_ENGINE
	Style          string        // ENCLOSE_STYLE
	AssetPath      string        // ENCLOSE_ASSET_PATH
	Timeout        time.Duration // ENCLOSE_TIMEOUT
	DPI            float64       // ENCLOSE_DPI
	OCRLanguage    string        // ENCLOSE_OCR_LANG
	TesseractBin   string        // ENCLOSE_TESSERACT_BIN
	LogLevel       string        // ENCLOSE_LOG_LEVEL
	DashboardTitle string        // ENCLOSE_DASHBOARD_TITLE
}

// knownEnvVars lists valid ENCLOSE_* environment variables.
var knownEnvVars = map[string]bool{
	"ENCLOSE_CONFIG":          true,
	"ENCLOSE_OUTPUT_DIR":      true,
	"ENCLOSE_SEARCH_DIR":      true,
	"ENCLOSE_ENGINE":          true,
	"ENCLOSE_STYLE":           true,
	"ENCLOSE_ASSET_PATH":      true,
	"ENCLOSE_TIMEOUT":         true,
	"ENCLOSE_DPI":             true,
	"ENCLOSE_OCR_LANG":        true,
	"ENCLOSE_TESSERACT_BIN":   true,
	"ENCLOSE_LOG_LEVEL":       true,
	"ENCLOSE_DASHBOARD_TITLE": true,
}

// loadDotEnv loads dotEnvFile into the process environment. Variables that
// are already set win over the file.
func loadDotEnv(w io.Writer) {
	if !fileutil.FileExists(dotEnvFile) {
		return
	}
	if err := godotenv.Load(dotEnvFile); err != nil {
		fmt.Fprintf(w, "warning: could not load %s: %v\n", dotEnvFile, err)
	}
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("ENCLOSE_CONFIG"),
		OutputDir:      os.Getenv("ENCLOSE_OUTPUT_DIR"),
		SearchDir:      os.Getenv("ENCLOSE_SEARCH_DIR"),
		Engine:         os.Getenv("ENCLOSE_ENGINE"),
		Style:          os.Getenv("ENCLOSE_STYLE"),
		AssetPath:      os.Getenv("ENCLOSE_ASSET_PATH"),
		OCRLanguage:    os.Getenv("ENCLOSE_OCR_LANG"),
		TesseractBin:   os.Getenv("ENCLOSE_TESSERACT_BIN"),
		LogLevel:       os.Getenv("ENCLOSE_LOG_LEVEL"),
		DashboardTitle: os.Getenv("ENCLOSE_DASHBOARD_TITLE"),
	}

	if timeout := os.Getenv("ENCLOSE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if dpi := os.Getenv("ENCLOSE_DPI"); dpi != "" {
		if v, err := strconv.ParseFloat(dpi, 64); err == nil && v > 0 {
			cfg.DPI = v
		}
	}
	return cfg
}

// warnUnknownEnvVars prints a warning for every unrecognized ENCLOSE_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "ENCLOSE_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig copies env values into cfg where cfg is still empty.
// Flags are applied afterwards, so the order is flags > env > file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.SearchDir != "" && cfg.Search.Dir == "" {
		cfg.Search.Dir = env.SearchDir
	}
	if env.Engine != "" && cfg.Render.Engine == "" {
		cfg.Render.Engine = env.Engine
	}
	if env.Style != "" && cfg.Render.Style == "" {
		cfg.Render.Style = env.Style
	}
	if env.Timeout > 0 && cfg.Render.Timeout == "" {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.DPI > 0 && cfg.Raster.DPI == 0 {
		cfg.Raster.DPI = env.DPI
	}
	if env.OCRLanguage != "" && cfg.OCR.Language == "" {
		cfg.OCR.Language = env.OCRLanguage
	}
	if env.TesseractBin != "" && cfg.OCR.Command == "" {
		cfg.OCR.Command = env.TesseractBin
	}
	if env.LogLevel != "" && cfg.Log.Level == "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.DashboardTitle != "" && cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = env.DashboardTitle
	}
}
