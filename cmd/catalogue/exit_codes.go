package main

import (
	"errors"
	"os"

	catalogue "github.com/yScroww/Catalogue-Automation"
	"github.com/yScroww/Catalogue-Automation/internal/assets"
	"github.com/yScroww/Catalogue-Automation/internal/config"
	"github.com/yScroww/Catalogue-Automation/internal/dateutil"
	"github.com/yScroww/Catalogue-Automation/internal/layout"
	"github.com/yScroww/Catalogue-Automation/internal/sheet"
)

// Exit codes for the catalogue CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126.
const (
	ExitSuccess = 0 // Catalogue generated
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, catalogue.ErrBrowserConnect) ||
		errors.Is(err, catalogue.ErrPageCreate) ||
		errors.Is(err, catalogue.ErrPageLoad) ||
		errors.Is(err, catalogue.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, sheet.ErrMissingInput) ||
		errors.Is(err, ErrReadIntro) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, sheet.ErrMissingColumn) ||
		errors.Is(err, sheet.ErrUnsupportedFormat) ||
		errors.Is(err, sheet.ErrEmptyTable) ||
		errors.Is(err, layout.ErrInvalidColumns) ||
		errors.Is(err, layout.ErrInvalidRows) ||
		errors.Is(err, layout.ErrInvalidPageSize) ||
		errors.Is(err, layout.ErrInvalidOrientation) ||
		errors.Is(err, layout.ErrNegativeSpacing) ||
		errors.Is(err, layout.ErrNoUsableArea) ||
		errors.Is(err, layout.ErrInvalidGroupMode) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, dateutil.ErrInvalidFormat) ||
		errors.Is(err, catalogue.ErrNoProducts) ||
		errors.Is(err, ErrNoProductsTable) {
		return ExitUsage
	}

	return ExitGeneral
}
