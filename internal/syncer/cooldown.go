package syncer

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// CooldownStore remembers when each tag was last force-synced.
type CooldownStore interface {
	// Get returns the last recorded time for key, and false if none is recorded.
	Get(ctx context.Context, key string) (time.Time, bool, error)
	Set(ctx context.Context, key string, at time.Time) error
}

// MemoryCooldownStore is process-local.
type MemoryCooldownStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryCooldownStore() *MemoryCooldownStore {
	return &MemoryCooldownStore{entries: make(map[string]time.Time)}
}

func (s *MemoryCooldownStore) Get(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.entries[key]
	return at, ok, nil
}

func (s *MemoryCooldownStore) Set(_ context.Context, key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = at
	return nil
}

const cooldownKeyPrefix = "sync:cooldown:"

// RedisCooldownStore shares cooldowns across instances. Entries expire after ttl,
// so an expired key reads the same as one never set.
type RedisCooldownStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCooldownStore(client *redis.Client, ttl time.Duration) *RedisCooldownStore {
	return &RedisCooldownStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisCooldownStore) Get(ctx context.Context, key string) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, cooldownKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.Wrap(err, "read cooldown")
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, errors.Wrapf(err, "corrupt cooldown entry for %s", key)
	}
	return time.Unix(0, nanos).UTC(), true, nil
}

func (s *RedisCooldownStore) Set(ctx context.Context, key string, at time.Time) error {
	value := strconv.FormatInt(at.UnixNano(), 10)
	if err := s.client.Set(ctx, cooldownKeyPrefix+key, value, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "write cooldown")
	}
	return nil
}
