package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// Stats are the run totals the summary reports alongside the per-SKU
// decisions.
type Stats struct {
	Candidates int
	Placed     int
	Pages      int
	Cached     int
	Fetched    int
	Generated  time.Time
}

// WriteSummary writes a human-readable markdown run summary: totals table
// plus a table of excluded SKUs.
func WriteSummary(w io.Writer, stats Stats, decisions []Decision) error {
	md := markdown.NewMarkdown(w)

	md.H1("Catalogue Run Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Generated", stats.Generated.Format("2006-01-02 15:04:05 MST")},
			{"Candidate SKUs", strconv.Itoa(stats.Candidates)},
			{"Placed", strconv.Itoa(stats.Placed)},
			{"Excluded", strconv.Itoa(stats.Candidates - stats.Placed)},
			{"Pages", strconv.Itoa(stats.Pages)},
			{"Images from cache", strconv.Itoa(stats.Cached)},
			{"Images fetched", strconv.Itoa(stats.Fetched)},
		},
	})
	md.PlainText("")

	excluded := make([][]string, 0)
	for _, d := range decisions {
		if !d.Included {
			excluded = append(excluded, []string{d.SKU, d.Name, d.Reason})
		}
	}

	md.H2("Excluded SKUs")
	md.PlainText("")
	if len(excluded) == 0 {
		md.Tip("Every candidate SKU was placed.")
	} else {
		md.Table(markdown.TableSet{
			Header: []string{"SKU", "Name", "Reason"},
			Rows:   excluded,
		})
	}
	md.PlainText("")

	return md.Build()
}
