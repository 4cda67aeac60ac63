package assets

// Loader is the contract for loading stylesheets and HTML templates.
// Implementations load from embedded assets or a directory on disk.
type Loader interface {
	// Style loads a CSS stylesheet by name (without the .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	Style(name string) (string, error)

	// Template loads an HTML template by name (without the .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	Template(name string) (string, error)
}

// Template names the renderer requires. Every loader must be able to serve
// these three; the embedded defaults guarantee it.
const (
	TemplateDocument = "document"
	TemplateCover    = "cover"
	TemplateGrid     = "grid"
)

// DefaultStyle is the stylesheet name used when none is configured.
const DefaultStyle = "catalogue"
