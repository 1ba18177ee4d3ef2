package live

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period live feeds wait before recomputing.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer calls fn once, wait after the most recent Trigger.
type Debouncer struct {
	wait time.Duration
	fn   func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	run sync.Mutex
}

func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
}

// Stop drops any pending call and waits for a running one to return, so fn
// is never called once Stop returns. Triggers after Stop are ignored. Stop
// must not be called from fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	// Wait out an in-flight fire.
	d.run.Lock()
	d.run.Unlock()
}

func (d *Debouncer) fire() {
	// fn calls never overlap.
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return
	}
	d.fn()
}
