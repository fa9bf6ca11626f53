package llm

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// rpmLimiter is a minute-granularity token bucket. A zero or negative
// limit disables it.
type rpmLimiter struct {
	mu       sync.Mutex
	limit    int
	tokens   int
	lastTick time.Time
}

func newRPMLimiter(limit int) *rpmLimiter {
	return &rpmLimiter{limit: limit, tokens: limit, lastTick: time.Now()}
}

func (l *rpmLimiter) wait(ctx context.Context) error {
	if l.limit <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastTick)
	if elapsed >= time.Minute {
		l.tokens = l.limit
		l.lastTick = now
	}

	if l.tokens > 0 {
		l.tokens--
		return nil
	}

	wait := time.Minute - elapsed
	l.mu.Unlock()
	slog.Info("rate limit reached, waiting", "duration", wait)
	select {
	case <-ctx.Done():
		l.mu.Lock()
		return ctx.Err()
	case <-time.After(wait):
	}
	l.mu.Lock()
	l.tokens = l.limit - 1
	l.lastTick = time.Now()
	return nil
}
