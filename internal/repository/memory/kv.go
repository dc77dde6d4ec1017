package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/sepsisai/clinical-api/internal/repository"
)

type kvStore struct {
	c *cache.Cache
}

// NewKVStore returns an in-process key-value backend. Used by the dev
// profile and by tests; entries never expire.
func NewKVStore() repository.KVStore {
	return &kvStore{c: cache.New(cache.NoExpiration, cache.NoExpiration)}
}

func (s *kvStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *kvStore) Set(_ context.Context, key, value string) error {
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *kvStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
