package idempotency

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// memoryStore keeps records in process. Used when no redis is configured.
type memoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() IStore {
	return &memoryStore{cache: cache.New(DefaultTTL, 10*time.Minute)}
}

func (s *memoryStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := s.cache.Add(key, Record{Pending: true}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (*Record, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, nil
	}
	record := v.(Record)
	return &record, nil
}

func (s *memoryStore) Save(ctx context.Context, key string, record Record, ttl time.Duration) error {
	s.cache.Set(key, record, ttl)
	return nil
}

func (s *memoryStore) Release(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return nil
}
