// Package assets provides the presentation assets the catalogue renderer
// needs: the default stylesheet and the HTML templates for the document
// shell, category cover pages, and grid pages. Defaults are embedded in the
// binary; a user-supplied asset directory overrides them per asset with
// fallback to the embedded copy.
package assets
