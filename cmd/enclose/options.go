package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/alnah/go-enclose"
	"github.com/alnah/go-enclose/internal/config"
)

// defaultOutputDir is used when neither flag, env nor config sets one.
const defaultOutputDir = "output"

// loadConfig resolves the config name (flag, then ENCLOSE_CONFIG), loads the
// file when one is named and applies the environment on top.
func loadConfig(f *cliFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name := configName(f, env); name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvConfig(env, cfg)
	return cfg, nil
}

func configName(f *cliFlags, env *envConfig) string {
	if f.common.config != "" {
		return f.common.config
	}
	return env.ConfigPath
}

// newLogger builds the stderr console logger. -q and -v win over the
// configured level; the default shows warnings and errors.
func newLogger(w io.Writer, f *cliFlags, cfg *config.Config) *log.Logger {
	level := log.WarnLevel
	if cfg.Log.Level != "" {
		level = log.ParseLevel(cfg.Log.Level)
	}
	switch {
	case f.common.quiet:
		level = log.ErrorLevel
	case f.common.verbose:
		level = log.DebugLevel
	}
	return &log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{Writer: w},
	}
}

// resolveOutputDir returns the output directory: flag > env/config > default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	if cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return defaultOutputDir
}

// resolveSearchDir returns the search root: flag > env/config > output dir.
func resolveSearchDir(flagDir string, cfg *config.Config, outputDir string) string {
	if flagDir != "" {
		return flagDir
	}
	if cfg.Search.Dir != "" {
		return cfg.Search.Dir
	}
	return outputDir
}

// resolveTimeout returns the flag timeout, else the configured one, else 0.
func resolveTimeout(flagTimeout time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagTimeout < 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, flagTimeout)
	}
	if flagTimeout > 0 {
		return flagTimeout, nil
	}
	if cfg.Render.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Render.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout: %q", config.ErrInvalidValue, cfg.Render.Timeout)
	}
	return d, nil
}

// buildPageSettings returns nil when the config leaves page geometry alone.
func buildPageSettings(cfg *config.Config) *enclose.PageSettings {
	pc := cfg.Render.Page
	if pc.Size == "" && pc.Orientation == "" && pc.Margin == 0 {
		return nil
	}
	ps := enclose.DefaultPageSettings()
	if pc.Size != "" {
		ps.Size = strings.ToLower(pc.Size)
	}
	if pc.Orientation != "" {
		ps.Orientation = strings.ToLower(pc.Orientation)
	}
	if pc.Margin != 0 {
		ps.Margin = pc.Margin
	}
	return ps
}

// buildOptions turns flags and config into processor options.
func buildOptions(outputDir string, f *cliFlags, cfg *config.Config, logger *log.Logger, env *Environment) ([]enclose.Option, error) {
	opts := []enclose.Option{
		enclose.WithOutputDir(outputDir),
		enclose.WithLogger(logger),
	}
	if env.Now != nil {
		opts = append(opts, enclose.WithClock(env.Now))
	}

	engineName := f.engine
	if engineName == "" {
		engineName = cfg.Render.Engine
	}
	if engineName != "" {
		engine, err := enclose.ParseEngine(engineName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, enclose.WithEngine(engine))
	}

	if cfg.Render.Style != "" {
		opts = append(opts, enclose.WithStyle(cfg.Render.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, enclose.WithAssetPath(cfg.Assets.BasePath))
	}
	if ps := buildPageSettings(cfg); ps != nil {
		opts = append(opts, enclose.WithPageSettings(ps))
	}

	timeout, err := resolveTimeout(f.timeout, cfg)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, enclose.WithTimeout(timeout))
	}

	dpi := f.dpi
	if dpi == 0 {
		dpi = cfg.Raster.DPI
	}
	if dpi != 0 {
		opts = append(opts, enclose.WithDPI(dpi))
	}
	opts = append(opts, enclose.WithEmbedPageImages(!f.noPageImages && config.BoolOr(cfg.Raster.EmbedImages, true)))

	opts = append(opts, enclose.WithOCR(!f.ocr.disabled && config.BoolOr(cfg.OCR.Enabled, true)))
	lang := f.ocr.language
	if lang == "" {
		lang = cfg.OCR.Language
	}
	if lang != "" || cfg.OCR.Command != "" {
		opts = append(opts, enclose.WithOCREngine(enclose.NewTesseractEngine(cfg.OCR.Command, lang)))
	}
	opts = append(opts, enclose.WithLegacyOCRKey(f.ocr.legacy || cfg.Metadata.LegacyOCRKey))

	if f.metadataName != "" {
		opts = append(opts, enclose.WithMetadataName(f.metadataName))
	}
	if cfg.Metadata.FilenameFormat != "" {
		opts = append(opts, enclose.WithMetadataNameFormat(cfg.Metadata.FilenameFormat))
	}

	return append(opts, env.Options...), nil
}
