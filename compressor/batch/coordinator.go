// Package batch runs the image transform over a list of sources, one item
// at a time, with cooperative cancellation and progress reporting.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"imageCompressor/compressor/models"
	"imageCompressor/compressor/results"
)

type Transformer interface {
	Transform(ctx context.Context, src models.SourceImage, cfg models.TransformConfig) (*models.TransformResult, error)
}

type ProgressFunc func(models.BatchProgress)

type Failure struct {
	Name string
	Err  error
}

type Summary struct {
	RunID    string
	Results  []models.TransformResult
	Failures []Failure
	Canceled bool
	Progress models.BatchProgress
	Duration time.Duration
}

type runOptions struct {
	cancel   CancelFlag
	progress ProgressFunc
}

type RunOption func(*runOptions)

func WithCancelFlag(flag CancelFlag) RunOption {
	return func(o *runOptions) { o.cancel = flag }
}

// WithProgress registers the check-in hook called after every item.
func WithProgress(fn ProgressFunc) RunOption {
	return func(o *runOptions) { o.progress = fn }
}

type Coordinator struct {
	logger      *zap.Logger
	transformer Transformer
	results     *results.Manager
	tracker     Tracker
	running     atomic.Bool
	now         func() time.Time
}

func NewCoordinator(logger *zap.Logger, transformer Transformer, manager *results.Manager) *Coordinator {
	return &Coordinator{
		logger:      logger,
		transformer: transformer,
		results:     manager,
		now:         time.Now,
	}
}

func (c *Coordinator) Progress() models.BatchProgress {
	return c.tracker.Snapshot()
}

func (c *Coordinator) Results() *results.Manager {
	return c.results
}

// Run processes sources in order with the configuration captured at the
// start of the run. Failed items are logged and skipped; cancellation
// keeps the results produced so far. The result set replaces the
// previous one when the run ends.
func (c *Coordinator) Run(ctx context.Context, sources []models.SourceImage, cfg models.TransformConfig, opts ...RunOption) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrBatchRunning
	}
	defer c.running.Store(false)

	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	summary := &Summary{RunID: ulid.Make().String()}
	if len(sources) == 0 {
		return summary, nil
	}

	logger := c.logger.With(zap.String("run_id", summary.RunID))
	start := c.now()
	c.tracker.Reset(len(sources), start)

	logger.Info("Batch started",
		zap.Int("total", len(sources)),
		zap.Int("max_width", cfg.MaxWidth),
		zap.Int("max_height", cfg.MaxHeight),
		zap.Float64("quality", cfg.Quality),
		zap.String("format", cfg.Format.String()),
	)

	out := make([]models.TransformResult, 0, len(sources))
	for _, src := range sources {
		if canceled(ctx, o.cancel) {
			summary.Canceled = true
			logger.Info("Batch canceled", zap.Int("completed", c.tracker.Snapshot().Completed))
			break
		}

		// an item that has started always runs to completion
		res, err := c.transform(context.WithoutCancel(ctx), logger, src, cfg)
		if err != nil {
			logger.Warn("Failed to process image",
				zap.String("name", src.Name),
				zap.Error(err),
			)
			summary.Failures = append(summary.Failures, Failure{Name: src.Name, Err: err})
		} else {
			out = append(out, *res)
		}

		p := c.tracker.Advance()
		if o.progress != nil {
			o.progress(p)
		}
		runtime.Gosched()
	}

	c.results.Replace(ctx, out)

	summary.Results = out
	summary.Progress = c.tracker.Snapshot()
	summary.Duration = c.now().Sub(start)

	logger.Info("Batch completed",
		zap.Int("succeeded", len(out)),
		zap.Int("failed", len(summary.Failures)),
		zap.Bool("canceled", summary.Canceled),
		zap.Duration("duration", summary.Duration),
	)

	return summary, nil
}

// transform turns a panicking transformer, or one that returns no
// result, into an item failure.
func (c *Coordinator) transform(ctx context.Context, logger *zap.Logger, src models.SourceImage, cfg models.TransformConfig) (res *models.TransformResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered",
				zap.String("name", src.Name),
				zap.Any("error", r),
			)
			res, err = nil, fmt.Errorf("%w: %v", ErrTransformPanic, r)
		}
	}()

	res, err = c.transformer.Transform(ctx, src, cfg)
	if err == nil && res == nil {
		return nil, ErrNoResult
	}
	return res, err
}

// Clear discards the current result set and resets progress.
func (c *Coordinator) Clear(ctx context.Context) {
	c.results.Discard(ctx)
	c.tracker.Reset(0, time.Time{})
}

func canceled(ctx context.Context, flag CancelFlag) bool {
	if ctx.Err() != nil {
		return true
	}
	return flag != nil && flag.Requested()
}
