package assets

// Resolver tries a custom directory first and falls back to the embedded
// assets when the custom copy does not exist. Validation and I/O errors
// from the custom directory are returned as-is.
type Resolver struct {
	custom   Loader
	embedded Loader
}

// NewResolver returns a Resolver. An empty customBasePath uses only the
// embedded assets.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.load(func(l Loader) (string, error) { return l.LoadStyle(name) })
}

func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.load(func(l Loader) (string, error) { return l.LoadTemplate(name) })
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *Resolver) load(fn func(Loader) (string, error)) (string, error) {
	if r.custom != nil {
		content, err := fn(r.custom)
		if err == nil || !IsNotFound(err) {
			return content, err
		}
	}
	return fn(r.embedded)
}

var _ Loader = (*Resolver)(nil)
