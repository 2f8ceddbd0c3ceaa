package cache

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

type entry struct {
	record    *domain.ValidationRecord
	expiresAt time.Time
}

// Memory is an in-process TTL cache of validation records keyed by API key.
//
// Expiry is enforced lazily at read time: an entry past its TTL is treated
// as absent and dropped on the next lookup. A periodic sweep (scheduler)
// keeps memory bounded on quiet keys, but is not required for correctness.
//
// The cache owns the records it stores: Put and Get both copy, so a caller
// mutating its record can never corrupt a cached one.
type Memory struct {
	mu      sync.Mutex
	entries map[domain.APIKey]entry
	ttl     time.Duration

	// now is the clock, injectable for TTL tests.
	now func() time.Time
}

// NewMemory creates a memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[domain.APIKey]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached record for a key, or nil when absent or expired.
// Expired entries are discarded, never refreshed in place.
func (c *Memory) Get(_ context.Context, key domain.APIKey) (*domain.ValidationRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}
	return e.record.Clone(), nil
}

// Put stores a copy of the record with a fresh TTL, replacing any previous
// entry for the key.
func (c *Memory) Put(_ context.Context, key domain.APIKey, record *domain.ValidationRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		record:    record.Clone(),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the entry for a key, if any.
func (c *Memory) Invalidate(_ context.Context, key domain.APIKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *Memory) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries currently held, expired included.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
