package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css templates/*.tmpl
var embedded embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader returns an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readEmbedded("styles/", name, ".css", ErrStyleNotFound)
}

func (EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readEmbedded("templates/", name, ".tmpl", ErrTemplateNotFound)
}

func readEmbedded(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := embedded.ReadFile(dir + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(data), nil
}

// StyleNames lists the embedded stylesheet names.
func StyleNames() []string {
	entries, err := embedded.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name()[:len(e.Name())-len(".css")])
	}
	return names
}

var _ Loader = (*EmbeddedLoader)(nil)
