// Package config loads and validates the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/go-enclose/internal/fileutil"
	"github.com/alnah/go-enclose/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDir is the directory name under os.UserConfigDir.
const appDir = "go-enclose"

// Config mirrors the YAML file. Zero values mean "use the default".
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Assets    AssetsConfig    `yaml:"assets"`
	Raster    RasterConfig    `yaml:"raster"`
	OCR       OCRConfig       `yaml:"ocr"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Search    SearchConfig    `yaml:"search"`
	Log       LogConfig       `yaml:"log"`
}

// OutputConfig sets where pipeline files are written.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"max=4096"`
}

// RenderConfig controls HTML and PDF rendering.
type RenderConfig struct {
	Engine  string     `yaml:"engine" validate:"omitempty,oneof=chrome native"`
	Style   string     `yaml:"style" validate:"max=4096"` // name, path or inline CSS
	Timeout string     `yaml:"timeout" validate:"omitempty,max=20,duration"`
	Page    PageConfig `yaml:"page"`
}

// PageConfig defines PDF page geometry.
type PageConfig struct {
	Size        string  `yaml:"size" validate:"omitempty,max=10,oneof=letter a4 legal"`
	Orientation string  `yaml:"orientation" validate:"omitempty,max=10,oneof=portrait landscape"`
	Margin      float64 `yaml:"margin" validate:"omitempty,gte=0.25,lte=3"` // inches
}

// AssetsConfig points at a directory overriding embedded styles/templates.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" validate:"max=4096"`
}

// RasterConfig controls PNG page images.
type RasterConfig struct {
	DPI         float64 `yaml:"dpi" validate:"omitempty,gte=36,lte=600"`
	EmbedImages *bool   `yaml:"embedImages"`
}

// OCRConfig controls the tesseract stage.
type OCRConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	Command  string `yaml:"command" validate:"max=4096"`
	Language string `yaml:"language" validate:"max=64"`
}

// MetadataConfig controls the metadata JSON file.
type MetadataConfig struct {
	LegacyOCRKey   bool   `yaml:"legacyOCRKey"`
	FilenameFormat string `yaml:"filenameFormat" validate:"max=64"`
}

// DashboardConfig controls the aggregate step.
type DashboardConfig struct {
	OpenBrowser bool   `yaml:"openBrowser"`
	Title       string `yaml:"title" validate:"max=200"`
}

// SearchConfig sets the default search root.
type SearchConfig struct {
	Dir string `yaml:"dir" validate:"max=4096"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

// DefaultConfig returns an empty configuration; every zero value falls back
// to the library default.
func DefaultConfig() *Config {
	return &Config{}
}

// BoolOr returns *b, or def when b is nil.
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
})

// Validate checks value ranges, enumerations and field lengths.
// LoadConfig calls it; callers building a Config by hand can too.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	if fe.Tag() == "max" && fe.Kind() == reflect.String {
		return fmt.Errorf("%w: %s (%d chars, max %s)", ErrFieldTooLong, field, len(fe.Value().(string)), fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Errorf("%w: %s: %v (must satisfy %s=%s)", ErrInvalidValue, field, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %s: %v (must be a valid %s)", ErrInvalidValue, field, fe.Value(), fe.Tag())
}

// LoadConfig loads a config by file path or by name. A value containing a
// path separator is a path; a bare name is looked up as <name>.yaml or
// <name>.yml in the working directory, then in the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-selected config file
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, 2*len(exts))
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, appDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
