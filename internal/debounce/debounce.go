// Package debounce delays keyed calls until a quiet period has passed.
package debounce

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	fn    func()
}

// Debouncer runs the last function scheduled for a key once no new call for
// that key arrived within the configured duration. A superseded call never
// runs.
type Debouncer struct {
	mutex    sync.Mutex
	pending  map[string]*pending
	duration time.Duration
	stopped  bool
}

func New(duration time.Duration) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]*pending),
		duration: duration,
	}
}

// Debounce schedules fn for key, replacing any call still pending for it.
// It does nothing after Stop.
func (d *Debouncer) Debounce(key string, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pending{fn: fn}
	p.timer = time.AfterFunc(d.duration, func() {
		d.mutex.Lock()
		// the timer may have fired while a newer call was replacing it
		if d.pending[key] != p {
			d.mutex.Unlock()
			return
		}
		delete(d.pending, key)
		d.mutex.Unlock()
		fn()
	})
	d.pending[key] = p
}

// Cancel drops the pending call for key without running it.
func (d *Debouncer) Cancel(key string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Flush runs the pending call for key now, in the caller's goroutine.
// It reports whether there was anything to run.
func (d *Debouncer) Flush(key string) bool {
	d.mutex.Lock()
	p, ok := d.pending[key]
	if ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
	d.mutex.Unlock()

	if ok {
		p.fn()
	}
	return ok
}

// FlushAll runs every pending call now and returns how many ran.
func (d *Debouncer) FlushAll() int {
	d.mutex.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, key)
	}
	d.mutex.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of scheduled calls.
func (d *Debouncer) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.pending)
}

// Stop cancels every pending call and rejects new ones.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}
