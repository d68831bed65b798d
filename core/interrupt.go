package core

import "sync/atomic"

// InterruptFlag is the single concurrency primitive of the engine. The
// search loop and the groupify hot loop poll it at well-defined boundaries
// and abandon work once it is set. Setting is sticky for the duration of a
// run; Reset rearms the flag for the next run.
type InterruptFlag struct {
	stopped atomic.Bool
}

// Stop requests cooperative cancellation.
func (f *InterruptFlag) Stop() {
	f.stopped.Store(true)
}

// Stopped reports whether cancellation was requested.
func (f *InterruptFlag) Stopped() bool {
	return f.stopped.Load()
}

// Reset rearms the flag.
func (f *InterruptFlag) Reset() {
	f.stopped.Store(false)
}
