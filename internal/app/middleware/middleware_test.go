package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/error/response"
	"energy-ops-console/internal/infrastructure/cache"
	"energy-ops-console/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthentication(t *testing.T) {
	svc := services.NewJWTService(&config.Config{JWTSecretKey: "middleware-secret", JWTExpireHours: 1}, nil)
	InitAuthMiddleware(svc)

	r := gin.New()
	r.GET("/me", Authentication(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "userName": GetUserName(c), "role": c.GetString(ContextRole)})
	})

	w := perform(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := svc.GenerateToken(42, "operator", "admin")
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":42,"userName":"operator","role":"admin"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2, LimitType: "ip"}), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", nil).Code)
	w := perform(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "请求过于频繁")
}

func cachedRouter(store cache.Store, hits *int) *gin.Engine {
	r := gin.New()
	r.GET("/statistics/device/overview", Cache(CacheConfig{Store: store, Expiration: time.Minute}), func(c *gin.Context) {
		*hits++
		if c.Query("fail") != "" {
			response.ParamError(c, "bad")
			return
		}
		response.Data(c, "查询成功", gin.H{"hits": *hits})
	})
	return r
}

func TestCache_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewRedisStore(client)

	hits := 0
	r := cachedRouter(store, &hits)

	first := perform(r, http.MethodGet, "/statistics/device/overview?b=2&a=1", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := perform(r, http.MethodGet, "/statistics/device/overview?a=1&b=2", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits)

	require.NoError(t, PurgeCache(context.Background(), store, "/statistics"))
	perform(r, http.MethodGet, "/statistics/device/overview?a=1&b=2", nil)
	assert.Equal(t, 2, hits)
}

func TestCache_SkipsFailures(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	hits := 0
	r := cachedRouter(store, &hits)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/statistics/device/overview?fail=1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/statistics/device/overview?fail=1", nil).Code)
	assert.Equal(t, 2, hits)
	assert.Zero(t, store.Count())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(response.RequestIDKey))
	})

	w := perform(r, http.MethodGet, "/ping", map[string]string{RequestIDHeader: "trace-1"})
	assert.Equal(t, "trace-1", w.Body.String())
	assert.Equal(t, "trace-1", w.Header().Get(RequestIDHeader))

	w = perform(r, http.MethodGet, "/ping", nil)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://console.example.com"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodOptions, "/ping", map[string]string{"Origin": "https://console.example.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/ping", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
