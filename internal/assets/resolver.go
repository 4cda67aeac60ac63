package assets

import "errors"

// Resolver combines a user-supplied asset directory with the embedded
// defaults. When an override directory is configured it is tried first,
// falling back to embedded per asset.
type Resolver struct {
	custom   Loader // nil when no override directory is configured
	embedded Loader
}

// NewResolver creates a Resolver. With an empty overridePath only embedded
// assets are served. Returns an error if overridePath is set but invalid.
func NewResolver(overridePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if overridePath != "" {
		fsLoader, err := NewFilesystemLoader(overridePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// Style loads a stylesheet, override directory first.
func (r *Resolver) Style(name string) (string, error) {
	return r.resolve(func(l Loader) (string, error) { return l.Style(name) })
}

// Template loads a template, override directory first.
func (r *Resolver) Template(name string) (string, error) {
	return r.resolve(func(l Loader) (string, error) { return l.Template(name) })
}

func (r *Resolver) resolve(load func(Loader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	// Fall back only when the asset is absent, not on validation or I/O
	// errors.
	if !isNotFound(err) {
		return "", err
	}
	return load(r.embedded)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// HasOverride reports whether an override directory is configured.
func (r *Resolver) HasOverride() bool { return r.custom != nil }

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
