// Package layout arranges catalogue entries into fixed-size grids across
// pages, grouped by category then family. Pagination is a pure function of
// its input: the whole assignment is recomputed on every run, so removing an
// entry reflows everything after it.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Grouping mode constants. In category mode families flow one after another
// within a category's pages; in family mode every family change starts a new
// page. Categories never share a page in either mode.
const (
	GroupByCategory = "category"
	GroupByFamily   = "family"
)

// Sentinel errors for layout configuration.
var (
	ErrInvalidColumns     = errors.New("columns must be at least 1")
	ErrInvalidRows        = errors.New("rows must be at least 1")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrNegativeSpacing    = errors.New("margins, bands, and gaps must not be negative")
	ErrNoUsableArea       = errors.New("layout parameters leave no usable tile area")
	ErrInvalidGroupMode   = errors.New("invalid group mode")
)

// paperDims maps page sizes to portrait width/height in inches.
var paperDims = map[string][2]float64{
	PageSizeLetter: {8.5, 11.0},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14.0},
}

// Config holds the numeric layout parameters. All lengths are inches.
type Config struct {
	Columns     int
	Rows        int
	PageSize    string
	Orientation string

	// Margin applies to all four page edges. TopBand and BottomBand are
	// additional reserved strips for the category header and the footer.
	Margin     float64
	TopBand    float64
	BottomBand float64

	// HGap and VGap separate adjacent tiles.
	HGap float64
	VGap float64

	GroupMode string
}

// DefaultConfig mirrors the catalogue's standard 3x3 A4 layout.
func DefaultConfig() Config {
	return Config{
		Columns:     3,
		Rows:        3,
		PageSize:    PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      0.4,
		TopBand:     1.1,
		BottomBand:  0.3,
		HGap:        0.25,
		VGap:        0.25,
		GroupMode:   GroupByCategory,
	}
}

// Validate fails fast on parameters that cannot produce a drawable grid.
// Invalid configuration is fatal at startup: no partial catalogue is built.
func (c Config) Validate() error {
	if c.Columns < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidColumns, c.Columns)
	}
	if c.Rows < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRows, c.Rows)
	}
	if _, ok := paperDims[strings.ToLower(c.PageSize)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, c.PageSize)
	}
	switch strings.ToLower(c.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, c.Orientation)
	}
	if c.Margin < 0 || c.TopBand < 0 || c.BottomBand < 0 || c.HGap < 0 || c.VGap < 0 {
		return ErrNegativeSpacing
	}
	switch c.GroupMode {
	case GroupByCategory, GroupByFamily:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidGroupMode, c.GroupMode)
	}

	w, h := c.TileSize()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: tile %.2fx%.2fin", ErrNoUsableArea, w, h)
	}
	return nil
}

// PageDims returns the page width and height in inches, honoring orientation.
func (c Config) PageDims() (w, h float64) {
	dims := paperDims[strings.ToLower(c.PageSize)]
	w, h = dims[0], dims[1]
	if strings.ToLower(c.Orientation) == OrientationLandscape {
		w, h = h, w
	}
	return w, h
}

// TileSize returns the width and height of one grid cell in inches.
func (c Config) TileSize() (w, h float64) {
	pw, ph := c.PageDims()
	usableW := pw - 2*c.Margin - float64(c.Columns-1)*c.HGap
	usableH := ph - 2*c.Margin - c.TopBand - c.BottomBand - float64(c.Rows-1)*c.VGap
	return usableW / float64(c.Columns), usableH / float64(c.Rows)
}

// SlotsPerPage returns the grid capacity of one page.
func (c Config) SlotsPerPage() int {
	return c.Columns * c.Rows
}
