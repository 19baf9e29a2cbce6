package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyle         = "default"
	SVGContainerTemplate = "svg-container"
	DashboardTemplate    = "dashboard"
)

// Loader loads stylesheets and templates by name.
type Loader interface {
	// LoadStyle returns the CSS for name (no .css extension).
	LoadStyle(name string) (string, error)
	// LoadTemplate returns the template source for name (no .tmpl extension).
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName rejects empty names and names containing separators or
// dots.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// IsNotFound reports whether err means the asset does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}
