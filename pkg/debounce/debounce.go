// Package debounce delays propagation of a rapidly changing value until it
// settles: only the most recent value is forwarded, and only after the
// configured delay elapses with no newer value arriving. Intermediate values
// inside the delay window are dropped, never delivered.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces calls to Trigger into at most one fn invocation per
// quiet period. Safe for concurrent use.
//
// Concurrency model: mu guards all fields. fn runs on the timer goroutine
// without holding mu, so fn may call back into code that triggers the same
// debouncer. Each Trigger bumps a generation counter; a timer that lost the
// race to a newer Trigger observes the stale generation and delivers nothing.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	armed   bool
	gen     uint64
}

// New creates a Debouncer that invokes fn with the settled value after delay.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v as the latest value and restarts the delay window.
// A value superseded before the window elapses is discarded.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush delivers the pending value immediately, if any, cancelling the timer.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v, armed := d.pending, d.armed
	d.armed = false
	d.mu.Unlock()

	if armed {
		d.fn(v)
	}
}

// Stop cancels any pending delivery. The debouncer remains usable.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.armed = false
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.mu.Unlock()

	d.fn(v)
}
