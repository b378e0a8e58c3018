// ABOUTME: Dirty flag shared between control-plane and audio-plane callers
// ABOUTME: Set from any thread, consumed atomically by the audio thread
package vban

import "sync/atomic"

// DirtyFlag signals that configuration changed and runtime state must be
// rebuilt before the next sample is written. Set may be called from any
// goroutine; Check is intended for the single audio goroutine. A Set
// racing a Check is never lost: either that Check observes it, or the
// flag remains set for the next one.
type DirtyFlag struct {
	dirty atomic.Bool
}

// Set marks the flag. Idempotent and safe for concurrent use.
func (f *DirtyFlag) Set() {
	f.dirty.Store(true)
}

// Check reports whether the flag was set since the last Check and
// atomically clears it.
func (f *DirtyFlag) Check() bool {
	return f.dirty.Swap(false)
}
