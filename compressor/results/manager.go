// Package results owns the current result set and the preview handles
// its artifacts hold.
package results

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"imageCompressor/compressor/models"
	"imageCompressor/compressor/preview"
)

type Manager struct {
	logger *zap.Logger
	store  preview.Store

	mu      sync.Mutex
	current []models.TransformResult
}

func NewManager(logger *zap.Logger, store preview.Store) *Manager {
	return &Manager{logger: logger, store: store}
}

// Replace releases every handle of the current set and installs next.
func (m *Manager) Replace(ctx context.Context, next []models.TransformResult) {
	m.mu.Lock()
	prev := m.current
	m.current = slices.Clone(next)
	m.mu.Unlock()

	m.release(ctx, prev)
}

// Discard releases every handle and empties the set.
func (m *Manager) Discard(ctx context.Context) {
	m.Replace(ctx, nil)
}

func (m *Manager) Current() []models.TransformResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.current)
}

func (m *Manager) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Aggregate(m.current)
}

func (m *Manager) release(ctx context.Context, set []models.TransformResult) {
	if len(set) == 0 {
		return
	}

	// handles are released even when the caller is shutting down
	ctx = context.WithoutCancel(ctx)

	released := 0
	for _, r := range set {
		if r.Preview == "" {
			continue
		}
		if err := m.store.Revoke(ctx, r.Preview); err != nil {
			m.logger.Warn("Failed to release preview",
				zap.String("name", r.Name),
				zap.String("handle", string(r.Preview)),
				zap.Error(err),
			)
			continue
		}
		released++
	}

	m.logger.Debug("Released previews", zap.Int("count", released))
}
