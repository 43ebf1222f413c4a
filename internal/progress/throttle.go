package progress

import (
	"sync"
	"time"
)

// Throttle suppresses updates that arrive faster than a fixed interval.
// Callers that must deliver an update regardless (first and final
// updates) bypass it.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a throttle with the given minimum interval.
// A zero or negative interval allows every update through.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Allow reports whether enough time has passed since the last allowed
// update, and marks the current instant as the last one if so.
func (t *Throttle) Allow() bool {
	if t.interval <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
