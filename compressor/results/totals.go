package results

import (
	"math"

	"imageCompressor/compressor/models"
)

type Totals struct {
	OriginalTotal int64 `yaml:"original_total"`
	NewTotal      int64 `yaml:"new_total"`
	Saved         int64 `yaml:"saved"`
}

// Aggregate sums a result set. It is recomputed from the full set on
// every call.
func Aggregate(results []models.TransformResult) Totals {
	var t Totals
	for _, r := range results {
		t.OriginalTotal += r.OriginalSize
		t.NewTotal += r.NewSize
	}
	t.Saved = max(0, t.OriginalTotal-t.NewTotal)
	return t
}

func (t Totals) SavedPercent() int {
	if t.OriginalTotal <= 0 {
		return 0
	}
	return int(math.Round(float64(t.Saved) / float64(t.OriginalTotal) * 100))
}
