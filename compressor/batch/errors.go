package batch

import "errors"

var (
	ErrBatchRunning   = errors.New("batch already running")
	ErrTransformPanic = errors.New("transform panicked")
	ErrNoResult       = errors.New("transform returned no result")
)
