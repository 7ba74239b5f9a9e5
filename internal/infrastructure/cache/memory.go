package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore 进程内缓存，用于 Redis 不可用时
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore 创建进程内缓存，过期条目每 5 分钟清理一次
func NewMemoryStore(defaultExpiration time.Duration) *MemoryStore {
	if defaultExpiration <= 0 {
		defaultExpiration = time.Minute
	}
	return &MemoryStore{items: gocache.New(defaultExpiration, 5*time.Minute)}
}

func (s *MemoryStore) GetBytes(_ context.Context, key string) ([]byte, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v.([]byte), nil
}

func (s *MemoryStore) SetBytes(_ context.Context, key string, value []byte, expiration time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	s.items.Set(key, buf, expiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.items.Delete(key)
	}
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	for key := range s.items.Items() {
		if strings.HasPrefix(key, prefix) {
			s.items.Delete(key)
		}
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Backend() string { return "memory" }

// Count 当前条目数（含未清理的过期条目）
func (s *MemoryStore) Count() int {
	return s.items.ItemCount()
}
