package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.GetBytes(ctx, "stats:overview")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, SetJSON(ctx, s, "stats:overview", map[string]int{"totalDevices": 3}, time.Minute))
	var got map[string]int
	require.NoError(t, GetJSON(ctx, s, "stats:overview", &got))
	assert.Equal(t, 3, got["totalDevices"])

	require.NoError(t, s.SetBytes(ctx, "market:a", []byte("1"), time.Minute))
	require.NoError(t, s.SetBytes(ctx, "market:b", []byte("2"), time.Minute))
	require.NoError(t, s.DeletePrefix(ctx, "market:"))
	_, err = s.GetBytes(ctx, "market:a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Delete(ctx, "stats:overview"))
	_, err = s.GetBytes(ctx, "stats:overview")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, s.Ping(ctx))
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t)
	exerciseStore(t, s)
	assert.Equal(t, "redis", s.Backend())
}

func TestRedisStore_Expiration(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetBytes(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := s.GetBytes(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	exerciseStore(t, s)
	assert.Equal(t, "memory", s.Backend())
}

func TestMemoryStore_CopiesValue(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, s.SetBytes(ctx, "k", buf, time.Minute))
	buf[0] = 'x'

	got, err := s.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
