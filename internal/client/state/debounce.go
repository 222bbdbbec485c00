package state

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period applied to search input.
const DefaultDebounceDelay = 500 * time.Millisecond

// Debouncer collapses a burst of triggers into a single call: each
// Trigger cancels the previously armed timer, so fn runs once the
// input has been quiet for the full delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger arms the timer with fn, cancelling any previously armed call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the armed call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
