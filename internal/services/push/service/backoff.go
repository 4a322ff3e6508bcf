package service

import (
	"sync"
	"time"
)

// SharedBackoff holds a process-wide pause-until timestamp set when the CRM
// answers 429. Every sender and limiter consulting it stops dialing out until
// the timestamp passes
type SharedBackoff struct {
	mu    sync.Mutex
	until time.Time
	now   func() time.Time
}

// NewSharedBackoff returns a backoff with no pause active
func NewSharedBackoff() *SharedBackoff {
	return &SharedBackoff{now: time.Now}
}

// Set pauses all outbound calls for d from now
func (b *SharedBackoff) Set(d time.Duration) {
	if d <= 0 {
		return
	}
	b.mu.Lock()
	b.until = b.now().Add(d)
	b.mu.Unlock()
}

// Remaining reports how much of the pause is left, zero when none is active
func (b *SharedBackoff) Remaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.until.Sub(b.now())
	if r < 0 {
		return 0
	}
	return r
}
