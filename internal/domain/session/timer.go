package session

import (
	"sync"
	"time"
)

// Timer is a single cancelable deadline. Arm schedules fire to run once
// after d, atomically replacing any previously armed deadline; Cancel
// disarms. fire runs while holding the timer's lock, so Arm and Cancel
// block until an in-flight fire returns: once either of them has
// returned, no earlier deadline's effect can land afterwards. A logout
// before expiry therefore can never be followed by a stale expiry
// firing, and a re-arm can never be killed by the deadline it replaced.
//
// fire must not call Arm or Cancel on the same timer.
//
// Concurrency model: gen is bumped under mu on every Arm and Cancel;
// the scheduled callback re-checks gen under mu and keeps mu across
// fire, so at most one fire runs per armed generation.
type Timer struct {
	mu  sync.Mutex
	gen uint64
	t   *time.Timer
}

// Arm schedules fire to run once after d, replacing any pending deadline.
func (t *Timer) Arm(d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	if t.t != nil {
		t.t.Stop()
	}
	t.t = time.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen != gen {
			return
		}
		t.t = nil
		fire()
	})
}

// Cancel disarms any pending deadline. It is safe to call on a timer
// that was never armed or has already fired.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}
