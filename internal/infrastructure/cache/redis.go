package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore 基于 go-redis 的缓存
type RedisStore struct {
	Client *redis.Client
}

// NewRedisStore 使用已有客户端创建缓存
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

// 1 GetBytes 读取原始值
func (s *RedisStore) GetBytes(ctx context.Context, key string) ([]byte, error) {
	val, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

// 2 SetBytes 写入原始值
func (s *RedisStore) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return s.Client.Set(ctx, key, value, expiration).Err()
}

// 3 Delete 删除键
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(ctx, keys...).Err()
}

// 4 DeletePrefix 按前缀删除，使用 SCAN 避免阻塞
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.Delete(ctx, keys...)
}

// 5 Ping 检查连接
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisStore) Backend() string { return "redis" }

// Close 关闭连接
func (s *RedisStore) Close() error {
	return s.Client.Close()
}
