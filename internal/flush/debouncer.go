// Package flush provides the single-slot delayed task that coalesces bursts
// of store mutations into one persistence write. Each Schedule call cancels
// any pending flush and arms a fresh timer, so only one write is ever
// outstanding per process.
package flush

import (
	"sync"
	"time"
)

// Debouncer runs fn once per quiet period. It is safe for concurrent use.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	fn     func()
	timer  *time.Timer
	closed bool
}

// NewDebouncer creates a debouncer that invokes fn after delay has elapsed
// with no intervening Schedule call. A zero delay still defers fn to the
// timer goroutine rather than running it inline.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Schedule arms the flush timer, replacing any pending flush.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Cancel drops any pending flush without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a flush is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancels the timer and, if a flush was still pending, runs it
// synchronously so shutdown never loses the final state. Schedule calls
// after Close are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()

	if pending {
		d.fn()
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	// Run outside the lock so fn may call Schedule again.
	d.fn()
}
