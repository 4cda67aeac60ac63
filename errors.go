package catalogue

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoProducts      = errors.New("no products to lay out")
	ErrIntroConversion = errors.New("intro conversion failed")
	ErrTemplateRender  = errors.New("template rendering failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
)
