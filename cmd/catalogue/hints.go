package main

import (
	"errors"

	catalogue "github.com/yScroww/Catalogue-Automation"
	"github.com/yScroww/Catalogue-Automation/internal/config"
	"github.com/yScroww/Catalogue-Automation/internal/hints"
	"github.com/yScroww/Catalogue-Automation/internal/sheet"
)

// hintFor returns an actionable suggestion to append to well-known errors,
// or an empty string when there is nothing useful to add.
func hintFor(err error) string {
	switch {
	case errors.Is(err, catalogue.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, catalogue.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, sheet.ErrMissingColumn):
		return hints.ForMissingColumn(sheet.RequiredHeaders())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
