package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"imageCompressor/compressor/batch"
	"imageCompressor/compressor/models"
	"imageCompressor/compressor/results"
)

func formatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// printReport lists every result with its savings and the batch totals.
func printReport(w io.Writer, summary *batch.Summary, rs []models.TransformResult, totals results.Totals) {
	for _, r := range rs {
		fmt.Fprintf(w, "%s  %s (before %s) -%d%%\n",
			r.Name, formatBytes(r.NewSize), formatBytes(r.OriginalSize), r.SavedPercent())
	}
	for _, f := range summary.Failures {
		fmt.Fprintf(w, "skipped %s: %v\n", f.Name, f.Err)
	}
	if summary.Canceled {
		fmt.Fprintf(w, "canceled after %d of %d images\n", summary.Progress.Completed, summary.Progress.Total)
	}
	if len(rs) > 0 {
		fmt.Fprintf(w, "Total saved: %s (from %s to %s)\n",
			formatBytes(totals.Saved), formatBytes(totals.OriginalTotal), formatBytes(totals.NewTotal))
	}
}
