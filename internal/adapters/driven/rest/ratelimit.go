package rest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultBackoff applies when a 429 carries no usable Retry-After.
const defaultBackoff = 5 * time.Second

// limiter is a token bucket plus a pause set by 429 responses.
// A nil limiter never waits.
type limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

func newLimiter(perSecond float64, burst int) *limiter {
	l := &limiter{}
	if perSecond > 0 {
		l.bucket = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return l
}

// Wait blocks until a request may be sent.
func (l *limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	if l.bucket == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}

// Observe records a 429 so that later requests hold back until the
// server's Retry-After has passed. The failed request itself is not
// retried.
func (l *limiter) Observe(resp *http.Response) {
	if resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	backoff := defaultBackoff
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			backoff = time.Duration(secs) * time.Second
		} else if at, err := http.ParseTime(v); err == nil {
			backoff = time.Until(at)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if until := time.Now().Add(backoff); until.After(l.retryAt) {
		l.retryAt = until
	}
}
