package verify

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

var MemoryCacheSize = 1024

// Cache remembers verified requests until they expire.
type Cache interface {
	// Has reports whether key was verified and is still valid.
	Has(ctx context.Context, key string) (bool, error)
	// Put records key as verified until expiresAt.
	Put(ctx context.Context, key string, expiresAt time.Time) error
}

type MemoryCache struct {
	data *lru.Cache[string, time.Time]
	now  func() time.Time
}

func (m *MemoryCache) Has(ctx context.Context, key string) (bool, error) {
	exp, ok := m.data.Get(key)
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		m.data.Remove(key)
		return false, nil
	}
	return true, nil
}

func (m *MemoryCache) Put(ctx context.Context, key string, expiresAt time.Time) error {
	m.data.Add(key, expiresAt)
	return nil
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an in memory LRU cache of verified requests. Pass a
// size less than 1 to use [MemoryCacheSize]. A nil clock uses time.Now.
func NewMemoryCache(size int, now func() time.Time) (*MemoryCache, error) {
	if size <= 0 {
		size = MemoryCacheSize
	}
	if now == nil {
		now = time.Now
	}
	cache, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("creating verification LRU: %w", err)
	}
	return &MemoryCache{data: cache, now: now}, nil
}
