package transport

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/logger"
)

// Retrying wraps an HTTP client with bounded retry and exponential backoff.
//
// Only network-class failures (connection errors, timeouts) are retried:
// any HTTP response (success or API error) is conclusive and returned
// as-is, because probe classification happens on response content, not here.
// After exhausting attempts the last error is returned; callers treat it as
// inconclusive rather than fatal.
type Retrying struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     logger.Logger
}

// NewRetrying builds a retrying transport. maxRetries is the total number of
// attempts (1 means no retry). A nil client falls back to a plain
// http.Client; per-request deadlines come from the request context.
func NewRetrying(client *http.Client, maxRetries int, baseDelay, maxDelay time.Duration, log logger.Logger) *Retrying {
	if client == nil {
		client = &http.Client{}
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}
	return &Retrying{
		client:     client,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		logger:     log,
	}
}

// Do executes the request, retrying transient failures with backoff.
// The request must be body-less (probes are GETs) so it can be cloned for
// each attempt. Cancellation of the request context stops the retry loop.
func (t *Retrying) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		resp, err := t.client.Do(req.Clone(ctx))
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == t.maxRetries {
			break
		}
		if ctx.Err() != nil {
			// Context already expired: a retry would fail the same way.
			break
		}

		wait := t.backoff(attempt)
		t.logger.Debug("transient request failure, backing off",
			logger.String("url", req.URL.Host),
			logger.Int("attempt", attempt),
			logger.Duration("wait", wait),
			logger.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// backoff returns base * 2^(attempt-1), capped at maxDelay, plus up to 25%
// jitter so concurrent probes for the same key do not retry in lockstep.
func (t *Retrying) backoff(attempt int) time.Duration {
	wait := t.baseDelay
	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= t.maxDelay {
			wait = t.maxDelay
			break
		}
	}
	if jitter := wait / 4; jitter > 0 {
		wait += rand.N(jitter)
	}
	return wait
}
