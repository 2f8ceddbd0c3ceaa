package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/logger"
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

func TestDoReturnsFirstResponse(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	rt := NewRetrying(ts.Client(), 3, time.Millisecond, 10*time.Millisecond, testLogger())

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL, http.NoBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := rt.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := calls.Load(); got != 1 {
		t.Errorf("successful request made %d calls, want 1", got)
	}
}

func TestDoDoesNotRetryHTTPErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// A 403 is a conclusive API answer, never a transient failure.
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	rt := NewRetrying(ts.Client(), 3, time.Millisecond, 10*time.Millisecond, testLogger())

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL, http.NoBody)
	resp, err := rt.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("conclusive HTTP error made %d calls, want 1", got)
	}
}

func TestDoRetriesNetworkFailuresExactlyMaxRetriesTimes(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Hijack and drop the connection to simulate a network failure.
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack failed: %v", err)
		}
		_ = conn.Close()
	}))
	defer ts.Close()

	rt := NewRetrying(ts.Client(), 3, time.Millisecond, 5*time.Millisecond, testLogger())

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL, http.NoBody)
	resp, err := rt.Do(req)
	if err == nil {
		_ = resp.Body.Close()
		t.Fatal("Do() should fail when every attempt is dropped")
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("made %d attempts, want exactly 3", got)
	}
}

func TestDoRecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			hj := w.(http.Hijacker)
			conn, _, _ := hj.Hijack()
			_ = conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	rt := NewRetrying(ts.Client(), 3, time.Millisecond, 5*time.Millisecond, testLogger())

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL, http.NoBody)
	resp, err := rt.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v, want recovery on second attempt", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := calls.Load(); got != 2 {
		t.Errorf("made %d attempts, want 2", got)
	}
}

func TestDoStopsOnContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		_ = conn.Close()
	}))
	defer ts.Close()

	// Long backoff so cancellation must interrupt the wait, not the attempts.
	rt := NewRetrying(ts.Client(), 5, 10*time.Second, 30*time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, http.NoBody)

	done := make(chan error, 1)
	go func() {
		_, err := rt.Do(req)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Do() = nil error after cancellation, want failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do() did not return promptly after context cancellation")
	}
}

func TestBackoffGrowsAndIsCapped(t *testing.T) {
	rt := NewRetrying(nil, 5, 100*time.Millisecond, 400*time.Millisecond, testLogger())

	for attempt := 1; attempt <= 5; attempt++ {
		wait := rt.backoff(attempt)

		base := 100 * time.Millisecond << (attempt - 1)
		if base > 400*time.Millisecond {
			base = 400 * time.Millisecond
		}
		// Jitter adds at most 25% on top of the deterministic part.
		if wait < base || wait > base+base/4 {
			t.Errorf("backoff(%d) = %v, want within [%v, %v]", attempt, wait, base, base+base/4)
		}
	}
}
