// Package ratelimit provides a fixed-window request counter used to pace
// outbound catalog API calls. It is a counter that resets at window
// boundaries, not a token bucket: once the window's budget is spent, every
// caller waits for the same window edge and then proceeds. Acceptable for a
// single-process CLI; not meant for a service under fan-in.
package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const defaultMessage = "⏳ Request limit reached, waiting for the window to reset..."

// Options configures a Limiter.
type Options struct {
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
	Message string        // logged once per enforced wait; optional
}

// Limiter is a fixed-window rate limiter. One instance must be shared by
// every caller whose aggregate throughput it is meant to bound. Safe for
// concurrent use; waiters are serialized behind the mutex, which also keeps
// the counter/window pair consistent.
type Limiter struct {
	mu           sync.Mutex
	clock        clockwork.Clock
	limit        int
	window       time.Duration
	message      string
	requestCount int
	windowStart  time.Time
}

// New creates a limiter using the wall clock.
func New(opts Options) *Limiter {
	return NewWithClock(opts, clockwork.NewRealClock())
}

// NewWithClock creates a limiter with an injected clock for tests.
func NewWithClock(opts Options, clock clockwork.Clock) *Limiter {
	message := opts.Message
	if message == "" {
		message = defaultMessage
	}
	return &Limiter{
		clock:       clock,
		limit:       opts.Limit,
		window:      opts.Window,
		message:     message,
		windowStart: clock.Now(),
	}
}

// Acquire blocks until the caller is permitted to make a request. It counts
// the call against the current window, waiting out the remainder of the
// window first when the budget is already spent. Returns early with the
// context's error if ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Sub(l.windowStart) > l.window {
		// Window elapsed on its own, e.g. after idle time.
		l.requestCount = 0
		l.windowStart = now
	}

	if l.requestCount >= l.limit {
		remaining := l.window - now.Sub(l.windowStart)
		log.Print(l.message)
		select {
		case <-l.clock.After(remaining):
		case <-ctx.Done():
			return ctx.Err()
		}
		l.requestCount = 0
		l.windowStart = l.clock.Now()
	}

	l.requestCount++
	return nil
}
