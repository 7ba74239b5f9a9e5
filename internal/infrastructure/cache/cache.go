// Package cache 提供响应缓存使用的键值存储，优先使用 Redis，不可用时退化为进程内缓存。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/logger"
)

// ErrMiss 键不存在或已过期
var ErrMiss = errors.New("cache: miss")

// Store 缓存存储接口
type Store interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Backend() string
}

// NewStore 连接 Redis，连接失败时使用进程内缓存
func NewStore(cfg *config.Config) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warning("Redis连接测试失败: %v，将使用进程内缓存", err)
		_ = client.Close()
		return NewMemoryStore(cfg.CacheTTL)
	}
	logger.Info("Redis连接成功: %s", cfg.GetRedisAddr())
	return NewRedisStore(client)
}

// SetJSON 序列化后写入
func SetJSON(ctx context.Context, s Store, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.SetBytes(ctx, key, data, expiration)
}

// GetJSON 读取并反序列化
func GetJSON(ctx context.Context, s Store, key string, dest interface{}) error {
	data, err := s.GetBytes(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
