package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

// Store is a redis-backed result cache for validation records. TTL is
// enforced by redis itself (SET with expiry), so lazy eviction comes for
// free and survives process restarts, useful when several scanner
// instances share one cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a record store writing entries with the given TTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cached record for a key. A missing or expired entry
// returns (nil, nil).
func (s *Store) Get(ctx context.Context, key domain.APIKey) (*domain.ValidationRecord, error) {
	data, err := s.client.Get(ctx, RecordKey(string(key))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get validation record: %w", err)
	}

	var record domain.ValidationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation record: %w", err)
	}
	return &record, nil
}

// Put stores a record with a fresh TTL, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key domain.APIKey, record *domain.ValidationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal validation record: %w", err)
	}

	if err := s.client.Set(ctx, RecordKey(string(key)), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save validation record: %w", err)
	}
	return nil
}

// Invalidate removes the cached record for a key.
func (s *Store) Invalidate(ctx context.Context, key domain.APIKey) error {
	if err := s.client.Del(ctx, RecordKey(string(key))).Err(); err != nil {
		return fmt.Errorf("failed to invalidate validation record: %w", err)
	}
	return nil
}

// Flush removes every cached validation record.
func (s *Store) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixRecord+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete record key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}
