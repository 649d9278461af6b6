package models

import (
	"math"
	"time"
)

// BatchProgress is a snapshot of a running batch.
type BatchProgress struct {
	Completed int
	Total     int
	StartedAt time.Time
}

// Percent returns completion in whole percent.
func (p BatchProgress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
}

// ETA estimates the remaining time from the average rate so far. The
// second return value is false until at least one item has completed.
func (p BatchProgress) ETA(now time.Time) (time.Duration, bool) {
	if p.StartedAt.IsZero() || p.Total <= 0 || p.Completed <= 0 {
		return 0, false
	}

	elapsed := math.Max(1, now.Sub(p.StartedAt).Seconds())
	rate := math.Max(0.001, float64(p.Completed)/elapsed)
	remaining := float64(p.Total - p.Completed)

	seconds := math.Max(1, math.Round(remaining/rate))
	return time.Duration(seconds) * time.Second, true
}
