package service

import (
	"context"
	"sync"
	"time"
)

// window is the span a rate slot occupies
const window = time.Second

// Limiter admits at most rps sends per sliding one-second window.
// A pending shared backoff always wins over window availability
type Limiter struct {
	rps     int
	backoff *SharedBackoff

	mu     sync.Mutex
	stamps []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter builds a limiter that consults backoff before admitting sends
func NewLimiter(rps int, backoff *SharedBackoff) *Limiter {
	if rps < 1 {
		rps = 1
	}
	return &Limiter{
		rps:     rps,
		backoff: backoff,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Wait blocks until a send slot is free. It returns false when the deadline
// passes (or ctx is done) before a slot opens; the zero deadline never expires
func (l *Limiter) Wait(ctx context.Context, deadline time.Time) bool {
	for {
		if ctx.Err() != nil {
			return false
		}
		now := l.now()
		if !deadline.IsZero() && !now.Before(deadline) {
			return false
		}

		// respect global backoff first
		if remain := l.backoff.Remaining(); remain > 0 {
			slice := remain
			if !deadline.IsZero() {
				if left := deadline.Sub(now); left < slice {
					slice = left
				}
			}
			if slice > 0 {
				l.sleep(slice)
			}
			continue
		}

		waitFor, ok := l.tryReserve(now)
		if ok {
			return true
		}
		slice := waitFor
		if !deadline.IsZero() {
			if left := deadline.Sub(now); left < slice {
				slice = left
			}
		}
		if slice > 0 {
			l.sleep(slice)
		}
	}
}

// tryReserve claims a slot or reports how long until the oldest stamp expires
func (l *Limiter) tryReserve(now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-window)
	keep := 0
	for _, s := range l.stamps {
		if s.After(cutoff) {
			l.stamps[keep] = s
			keep++
		}
	}
	l.stamps = l.stamps[:keep]

	if len(l.stamps) < l.rps {
		l.stamps = append(l.stamps, now)
		return 0, true
	}
	waitFor := l.stamps[0].Add(window).Sub(now)
	if waitFor < 0 {
		waitFor = 0
	}
	return waitFor, false
}
