package batch

import (
	"sync"
	"time"

	"imageCompressor/compressor/models"
)

// Tracker holds the progress record of the current run. Only the
// coordinator mutates it; observers read snapshots.
type Tracker struct {
	mu sync.Mutex
	p  models.BatchProgress
}

func (t *Tracker) Reset(total int, startedAt time.Time) {
	t.mu.Lock()
	t.p = models.BatchProgress{Completed: 0, Total: total, StartedAt: startedAt}
	t.mu.Unlock()
}

// Advance counts one finished item, capped at the total.
func (t *Tracker) Advance() models.BatchProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.p.Completed = min(t.p.Completed+1, t.p.Total)
	return t.p
}

func (t *Tracker) Snapshot() models.BatchProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
