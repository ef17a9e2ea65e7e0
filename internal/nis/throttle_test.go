package nis

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeFetcher counts calls and replays scripted outcomes.
// Params: none.
// Returns: scriptable Fetcher for cache tests.
type fakeFetcher struct {
	calls int
	data  map[string]string
	err   error
}

// Status returns the scripted outcome and counts the call.
// Params: ctx ignored.
// Returns: scripted snapshot or error.
func (f *fakeFetcher) Status(_ context.Context) (map[string]string, error) {
	f.calls++
	return f.data, f.err
}

// newTestThrottled builds a cache with a controllable clock.
// Params: fetcher scripted source; interval throttle window.
// Returns: cache and a pointer to the fake clock value.
func newTestThrottled(fetcher Fetcher, interval time.Duration) (*Throttled, *time.Time) {
	throttled := NewThrottled(fetcher, interval)
	current := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	throttled.now = func() time.Time { return current }
	throttled.lastAttempt = current.Add(-interval)
	return throttled, &current
}

// TestThrottledFetch_Window verifies repeat calls inside the window are served
// from cache.
// Params: testing.T for assertions.
// Returns: none.
func TestThrottledFetch_Window(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]string{"LINEV": "230.0 Volts"}}
	throttled, clock := newTestThrottled(fetcher, time.Second)

	for i := 0; i < 3; i++ {
		snapshot, err := throttled.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if snapshot["LINEV"] != "230.0 Volts" {
			t.Fatalf("unexpected snapshot: %v", snapshot)
		}
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected single fetch inside window, got %d", fetcher.calls)
	}

	*clock = clock.Add(time.Second)
	if _, err := throttled.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected refresh after window, got %d calls", fetcher.calls)
	}
}

// TestThrottledFetch_ErrorCached verifies a failed fetch is replayed from
// cache until the window elapses.
// Params: testing.T for assertions.
// Returns: none.
func TestThrottledFetch_ErrorCached(t *testing.T) {
	wantErr := &UnavailableError{Address: "127.0.0.1:3551", Err: errors.New("connection refused")}
	fetcher := &fakeFetcher{err: wantErr}
	throttled, clock := newTestThrottled(fetcher, time.Second)

	for i := 0; i < 2; i++ {
		if _, err := throttled.Fetch(context.Background()); !errors.Is(err, wantErr) {
			t.Fatalf("expected cached error, got %v", err)
		}
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected single fetch, got %d", fetcher.calls)
	}

	fetcher.err = nil
	fetcher.data = map[string]string{"LINEV": "230.0 Volts"}
	*clock = clock.Add(time.Second)

	snapshot, err := throttled.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error after recovery: %v", err)
	}
	if snapshot["LINEV"] != "230.0 Volts" {
		t.Fatalf("unexpected snapshot: %v", snapshot)
	}
}

// TestThrottledFetch_CloneIsolation verifies callers cannot mutate the cache.
// Params: testing.T for assertions.
// Returns: none.
func TestThrottledFetch_CloneIsolation(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]string{"LINEV": "230.0 Volts"}}
	throttled, _ := newTestThrottled(fetcher, time.Second)

	first, err := throttled.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	first["LINEV"] = "tampered"
	delete(first, "LINEV")

	second, err := throttled.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if second["LINEV"] != "230.0 Volts" {
		t.Fatalf("cache mutated through returned snapshot: %v", second)
	}
}

// TestThrottledFetch_CanceledContextKeepsStale verifies a canceled refresh
// keeps the previous outcome and does not consume the window.
// Params: testing.T for assertions.
// Returns: none.
func TestThrottledFetch_CanceledContextKeepsStale(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]string{"LINEV": "230.0 Volts"}}
	throttled, clock := newTestThrottled(fetcher, time.Second)

	if _, err := throttled.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	*clock = clock.Add(time.Second)
	fetcher.data = map[string]string{"LINEV": "231.0 Volts"}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	snapshot, err := throttled.Fetch(canceled)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if snapshot["LINEV"] != "230.0 Volts" {
		t.Fatalf("expected stale snapshot, got %v", snapshot)
	}

	snapshot, err = throttled.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if snapshot["LINEV"] != "231.0 Volts" {
		t.Fatalf("expected refresh after canceled attempt, got %v", snapshot)
	}
	if fetcher.calls != 3 {
		t.Fatalf("unexpected call count: %d", fetcher.calls)
	}
}
