package nis

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Fetcher produces one status snapshot per call.
// Params: none.
// Returns: snapshot source abstraction; Client satisfies it via Status.
type Fetcher interface {
	Status(ctx context.Context) (map[string]string, error)
}

// Throttled caches the outcome of an expensive fetch and refuses to repeat it
// within the configured interval. Concurrent callers inside a refresh share
// its result: the fetch runs while the mutex is held, so only one flight is
// ever in progress.
// Params: none.
// Returns: caching wrapper around a Fetcher.
type Throttled struct {
	fetcher  Fetcher
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	data        map[string]string
	err         error
	lastAttempt time.Time
}

// NewThrottled creates a throttled fetch cache. The first Fetch always hits
// the underlying fetcher.
// Params: fetcher snapshot source; interval minimum spacing between attempts.
// Returns: throttled cache instance.
func NewThrottled(fetcher Fetcher, interval time.Duration) *Throttled {
	return &Throttled{
		fetcher:     fetcher,
		interval:    interval,
		now:         time.Now,
		data:        map[string]string{},
		lastAttempt: time.Now().Add(-interval),
	}
}

// Fetch returns the cached snapshot, refreshing it first when the interval
// since the last attempt has elapsed. Failed fetches are cached like
// successes so a down UPS is retried at the throttle rate, not per scrape. A
// context canceled mid-fetch keeps the previous outcome and does not count as
// an attempt.
// Params: ctx bounds a refresh fetch.
// Returns: copy of the cached snapshot, or the cached fetch error.
func (t *Throttled) Fetch(ctx context.Context) (map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.now().Sub(t.lastAttempt) >= t.interval {
		data, err := t.fetcher.Status(ctx)
		if ctx.Err() == nil {
			t.data, t.err = data, err
			t.lastAttempt = t.now()
		}
	}

	if t.err != nil {
		return nil, t.err
	}
	return maps.Clone(t.data), nil
}
