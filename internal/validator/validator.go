package validator

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
)

// Prober runs one service check. Satisfied by *probe.Prober.
type Prober interface {
	Probe(ctx context.Context, key domain.APIKey, svc domain.ServiceID) domain.ProbeResult
}

// ResultCache memoizes validation records by API key. A (nil, nil) Get is a
// miss. Implemented by cache.Memory and the redis store.
type ResultCache interface {
	Get(ctx context.Context, key domain.APIKey) (*domain.ValidationRecord, error)
	Put(ctx context.Context, key domain.APIKey, record *domain.ValidationRecord) error
}

// inflight tracks one in-progress fan-out so concurrent callers for the
// same key share a single probe set instead of duplicating it.
type inflight struct {
	done   chan struct{}
	record *domain.ValidationRecord
	err    error
}

// Validator orchestrates the concurrent probing of all monitored services
// for a key and aggregates the results into a ValidationRecord.
type Validator struct {
	prober      Prober
	cache       ResultCache // nil = caching disabled, every call re-probes
	services    []domain.ServiceID
	maxParallel int
	timeout     time.Duration // hard cap on a whole fan-out
	logger      logger.Logger

	mu    sync.Mutex
	calls map[domain.APIKey]*inflight
}

// New creates a validator over the full monitored service set.
// cache may be nil to disable memoization entirely.
func New(prober Prober, cache ResultCache, maxParallel int, timeout time.Duration, log logger.Logger) *Validator {
	if maxParallel < 1 {
		maxParallel = len(domain.AllServices())
	}
	return &Validator{
		prober:      prober,
		cache:       cache,
		services:    domain.AllServices(),
		maxParallel: maxParallel,
		timeout:     timeout,
		logger:      log,
		calls:       make(map[domain.APIKey]*inflight),
	}
}

// Validate returns the validation record for a key: cached when fresh,
// otherwise from a full probe fan-out. Concurrent calls for the same key
// wait for the single in-flight fan-out and share its result.
//
// The only error returned is cancellation of the caller's context; probe
// failures degrade to TransientError results inside the record.
func (v *Validator) Validate(ctx context.Context, key domain.APIKey) (*domain.ValidationRecord, error) {
	if v.cache != nil {
		cached, err := v.cache.Get(ctx, key)
		if err != nil {
			v.logger.Warn("cache lookup failed, re-probing",
				logger.String("key", key.Redacted()),
				logger.Error(err))
		} else if cached != nil {
			v.logger.Debug("cache hit", logger.String("key", key.Redacted()))
			return cached, nil
		}
	}

	v.mu.Lock()
	if call, ok := v.calls[key]; ok {
		v.mu.Unlock()
		select {
		case <-call.done:
			return call.record.Clone(), call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflight{done: make(chan struct{})}
	v.calls[key] = call
	v.mu.Unlock()

	record, err := v.probeAll(ctx, key)

	call.record, call.err = record, err
	close(call.done)

	v.mu.Lock()
	delete(v.calls, key)
	v.mu.Unlock()

	if err != nil {
		// Cancelled mid-flight: partial results are discarded, never cached.
		return nil, err
	}

	if v.cache != nil {
		if cerr := v.cache.Put(ctx, key, record); cerr != nil {
			v.logger.Warn("failed to cache validation record",
				logger.String("key", key.Redacted()),
				logger.Error(cerr))
		}
	}

	return record.Clone(), nil
}

// probeAll fans out one probe per service under bounded parallelism and
// collects results in completion order. The validator timeout is a hard cap:
// when it fires, probes still pending are recorded as TransientError and
// their contexts cancelled; nothing waits for a straggler.
func (v *Validator) probeAll(ctx context.Context, key domain.APIKey) (*domain.ValidationRecord, error) {
	probeCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	v.logger.Info("validating key",
		logger.String("key", key.Redacted()),
		logger.Int("services", len(v.services)))

	sem := make(chan struct{}, v.maxParallel)
	resultCh := make(chan domain.ProbeResult, len(v.services))

	for _, svc := range v.services {
		go func(svc domain.ServiceID) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-probeCtx.Done():
				resultCh <- domain.ProbeResult{
					Service:  svc,
					Outcome:  domain.OutcomeTransientError,
					Detail:   "validation timed out before probe started",
					ProbedAt: time.Now(),
				}
				return
			}
			resultCh <- v.prober.Probe(probeCtx, key, svc)
		}(svc)
	}

	results := make([]domain.ProbeResult, 0, len(v.services))
	seen := make(map[domain.ServiceID]bool, len(v.services))

collect:
	for range v.services {
		select {
		case res := <-resultCh:
			results = append(results, res)
			seen[res.Service] = true
		case <-probeCtx.Done():
			break collect
		}
	}

	if err := ctx.Err(); err != nil {
		// The caller went away (shutdown), not our per-key timeout.
		return nil, err
	}

	// Per-key timeout fired: anything unseen counts as inconclusive.
	for _, svc := range v.services {
		if !seen[svc] {
			results = append(results, domain.ProbeResult{
				Service:  svc,
				Outcome:  domain.OutcomeTransientError,
				Detail:   "validation timed out",
				ProbedAt: time.Now(),
			})
		}
	}

	record := &domain.ValidationRecord{
		Key:       key,
		Results:   results,
		Status:    domain.DeriveRestrictionStatus(results),
		CheckedAt: time.Now(),
	}

	v.logger.Info("key validated",
		logger.String("key", key.Redacted()),
		logger.String("status", string(record.Status)))

	return record, nil
}
