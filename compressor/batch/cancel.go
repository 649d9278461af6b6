package batch

import "sync/atomic"

// CancelFlag is polled once per item boundary.
type CancelFlag interface {
	Requested() bool
}

// Flag is a CancelFlag that can be raised from any goroutine.
type Flag struct {
	v atomic.Bool
}

func (f *Flag) Request() { f.v.Store(true) }
func (f *Flag) Requested() bool { return f.v.Load() }
