package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/error/response"
)

// TokenBucket 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// NewTokenBucket 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 闲置限流器的过期时间
	LimitType  string                    // 限流类型: "ip", "path", "combined"
	KeyFunc    func(*gin.Context) string // 自定义键生成函数
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       10,
	Burst:      20,
	ExpiryTime: 1 * time.Hour,
	LimitType:  "ip",
}

// limiterRegistry 按键保存令牌桶，闲置超过过期时间后由 go-cache 回收
type limiterRegistry struct {
	mu    sync.Mutex
	items *gocache.Cache
	cfg   RateLimiterConfig
}

func newLimiterRegistry(cfg RateLimiterConfig) *limiterRegistry {
	return &limiterRegistry{
		items: gocache.New(cfg.ExpiryTime, cfg.ExpiryTime/2),
		cfg:   cfg,
	}
}

func (r *limiterRegistry) get(key string) *TokenBucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, found := r.items.Get(key); found {
		limiter := v.(*TokenBucket)
		// 访问时续期
		r.items.SetDefault(key, limiter)
		return limiter
	}
	limiter := NewTokenBucket(r.cfg.Rate, r.cfg.Burst)
	r.items.SetDefault(key, limiter)
	return limiter
}

func (cfg RateLimiterConfig) key(c *gin.Context) string {
	switch cfg.LimitType {
	case "path":
		return c.Request.URL.Path
	case "combined":
		return c.ClientIP() + ":" + c.Request.URL.Path
	case "ip":
		return c.ClientIP()
	default:
		if cfg.KeyFunc != nil {
			return cfg.KeyFunc(c)
		}
		return c.ClientIP()
	}
}

// RateLimiter 创建限流中间件
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	var cfg RateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultRateLimiterConfig
	}

	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.LimitType == "" {
		cfg.LimitType = DefaultRateLimiterConfig.LimitType
	}

	registry := newLimiterRegistry(cfg)

	return func(c *gin.Context) {
		if !registry.get(cfg.key(c)).Allow() {
			response.Fail(c, code.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:      rate,
		Burst:     burst,
		LimitType: "ip",
	})
}

// CombinedRateLimiter 按IP和路径组合限流
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:      rate,
		Burst:     burst,
		LimitType: "combined",
	})
}
