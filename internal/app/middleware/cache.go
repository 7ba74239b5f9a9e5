package middleware

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/infrastructure/cache"
	"energy-ops-console/pkg/logger"
)

// ResponseCachePrefix 响应缓存键前缀
const ResponseCachePrefix = "resp:"

// CacheConfig 缓存配置
type CacheConfig struct {
	Store      cache.Store
	Expiration time.Duration             // 缓存过期时间
	KeyFunc    func(*gin.Context) string // 自定义缓存键生成函数
}

// cacheKey 路径 + 排序后查询参数的 MD5
func cacheKey(c *gin.Context) string {
	path := c.Request.URL.Path

	queryParams := c.Request.URL.Query()
	queryKeys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var b strings.Builder
	for _, key := range queryKeys {
		values := append([]string(nil), queryParams[key]...)
		sort.Strings(values)
		for _, value := range values {
			b.WriteString(key + "=" + value + "&")
		}
	}

	hasher := md5.New()
	hasher.Write([]byte(b.String()))
	return ResponseCachePrefix + path + ":" + hex.EncodeToString(hasher.Sum(nil))
}

// Cache 缓存 GET 请求的成功响应
func Cache(cfg CacheConfig) gin.HandlerFunc {
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Minute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = cacheKey
	}

	return func(c *gin.Context) {
		if cfg.Store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)
		ctx := c.Request.Context()

		if content, err := cfg.Store.GetBytes(ctx, key); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", content)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if writer.Status() != http.StatusOK || c.IsAborted() {
			return
		}
		if err := cfg.Store.SetBytes(context.Background(), key, writer.body.Bytes(), cfg.Expiration); err != nil {
			logger.Warning("写入响应缓存失败: %v", err)
		}
	}
}

// PurgeCache 清除指定路径前缀下的缓存响应
func PurgeCache(ctx context.Context, store cache.Store, pathPrefix string) error {
	return store.DeletePrefix(ctx, ResponseCachePrefix+pathPrefix)
}

// responseWriter 捕获响应内容
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
