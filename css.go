package catalogue

import (
	"fmt"
	"strings"

	"github.com/yScroww/Catalogue-Automation/internal/layout"
)

// buildLayoutCSS derives the page geometry CSS from the grid configuration.
// Typography and tile presentation live in the stylesheet asset; every
// size-related rule is generated here so the printed grid matches the
// computed pagination exactly. Chrome prints with zero native margins and
// the page padding carries the configured margin instead.
func buildLayoutCSS(cfg layout.Config) string {
	pw, ph := cfg.PageDims()
	gridH := ph - 2*cfg.Margin - cfg.TopBand - cfg.BottomBand

	var b strings.Builder

	fmt.Fprintf(&b, "@page {\n  size: %gin %gin;\n  margin: 0;\n}\n\n", pw, ph)
	fmt.Fprintf(&b, ".page {\n  width: %gin;\n  height: %gin;\n  padding: %gin;\n}\n\n",
		pw, ph, cfg.Margin)
	fmt.Fprintf(&b, ".page-header {\n  height: %gin;\n}\n\n", cfg.TopBand)
	fmt.Fprintf(&b, ".grid {\n"+
		"  grid-template-columns: repeat(%d, 1fr);\n"+
		"  grid-template-rows: repeat(%d, 1fr);\n"+
		"  column-gap: %gin;\n"+
		"  row-gap: %gin;\n"+
		"  height: %gin;\n"+
		"}\n\n",
		cfg.Columns, cfg.Rows, cfg.HGap, cfg.VGap, gridH)
	fmt.Fprintf(&b, ".page-footer {\n  height: %gin;\n  bottom: %gin;\n}\n",
		cfg.BottomBand, cfg.Margin)

	return b.String()
}
