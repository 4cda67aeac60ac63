// Package report builds the audit trail of per-SKU inclusion decisions and
// writes it as spreadsheet-friendly CSV plus a markdown run summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yScroww/Catalogue-Automation/internal/imagecache"
	"github.com/yScroww/Catalogue-Automation/internal/sheet"
)

// Exclusion reasons. Image reasons mirror the fetcher's classification so
// the missing-image report and the cache agree on vocabulary.
const (
	ReasonFilteredOut = "filtered-out"
	ReasonNoImage     = string(imagecache.ReasonNoSource)
	ReasonFetchFailed = string(imagecache.ReasonFetchFailed)
	ReasonCorrupt     = string(imagecache.ReasonDecode)
)

// Decision is one row of the full report: every candidate SKU gets exactly
// one, placed or not.
type Decision struct {
	SKU      string
	Name     string
	Included bool
	Reason   string
}

// imageFailure reports whether the exclusion came from image resolution
// rather than a business filter.
func (d Decision) imageFailure() bool {
	switch d.Reason {
	case ReasonNoImage, ReasonFetchFailed, ReasonCorrupt:
		return true
	}
	return false
}

// Build derives one decision per candidate, in candidate order. The
// candidate slice is the pre-filter universe, so business-filtered SKUs
// show up as excluded with reason filtered-out. placed holds the SKUs that
// ended up on a page.
func Build(candidates []sheet.Product, resolutions []imagecache.Resolution, placed map[string]bool) []Decision {
	bySKU := make(map[string]imagecache.Resolution, len(resolutions))
	for _, res := range resolutions {
		bySKU[res.SKU] = res
	}

	decisions := make([]Decision, 0, len(candidates))
	for _, p := range candidates {
		d := Decision{SKU: p.SKU, Name: p.Name, Included: placed[p.SKU]}
		if !d.Included {
			switch {
			case !p.Eligible():
				d.Reason = ReasonFilteredOut
			default:
				res, ok := bySKU[p.SKU]
				if ok && res.Failed() && res.Reason != imagecache.ReasonNone {
					d.Reason = string(res.Reason)
				} else {
					d.Reason = ReasonNoImage
				}
			}
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// MissingImage filters the decisions excluded for image resolution
// failures. Business-filter exclusions stay out.
func MissingImage(decisions []Decision) []Decision {
	missing := make([]Decision, 0)
	for _, d := range decisions {
		if !d.Included && d.imageFailure() {
			missing = append(missing, d)
		}
	}
	return missing
}

// utf8BOM makes the CSV open cleanly in spreadsheet tools on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteFull writes the full report: one row per candidate SKU with a
// YES/NO inclusion flag, semicolon-delimited.
func WriteFull(w io.Writer, decisions []Decision) error {
	return writeCSV(w, []string{"SKU", "Name", "Included", "Reason"}, decisions, func(d Decision) []string {
		flag := "NO"
		if d.Included {
			flag = "YES"
		}
		return []string{d.SKU, d.Name, flag, d.Reason}
	})
}

// WriteMissing writes the missing-image report rows.
func WriteMissing(w io.Writer, missing []Decision) error {
	return writeCSV(w, []string{"SKU", "Name", "Reason"}, missing, func(d Decision) []string {
		return []string{d.SKU, d.Name, d.Reason}
	})
}

func writeCSV(w io.Writer, header []string, decisions []Decision, row func(Decision) []string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, d := range decisions {
		if err := cw.Write(row(d)); err != nil {
			return fmt.Errorf("writing row for %s: %w", d.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
