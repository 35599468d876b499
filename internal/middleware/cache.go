package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheConfig holds configuration for the cache middleware
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	PrefixKey string
}

// ResponseCache caches successful GET responses in Redis. Keys include the
// dataset version so a reload naturally bypasses stale entries.
func ResponseCache(redisClient *redis.Client, config CacheConfig, version func() int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled || redisClient == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := generateCacheKey(c, config.PrefixKey, version())

		cached, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil {
			logger.Debug("Cache hit",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey))

			c.Header("Content-Type", "application/json; charset=utf-8")
			c.Header("X-Cache", "HIT")
			c.Writer.WriteHeader(http.StatusOK)
			_, _ = c.Writer.Write(cached)
			c.Abort()
			return
		}
		if err != redis.Nil {
			logger.Warn("Cache lookup failed", zap.Error(err), zap.String("cache_key", cacheKey))
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		// Only cache successful responses
		if c.Writer.Status() != http.StatusOK {
			return
		}
		if err := redisClient.Set(ctx, cacheKey, writer.body.Bytes(), config.TTL).Err(); err != nil {
			logger.Error("Failed to set cache",
				zap.Error(err),
				zap.String("cache_key", cacheKey))
		}
	}
}

// responseWriter captures the response body for caching
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write captures the response for caching
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// generateCacheKey creates a unique cache key for a request
func generateCacheKey(c *gin.Context, prefix string, version int) string {
	hash := sha256.New()
	io.WriteString(hash, c.Request.URL.Path)
	if query := c.Request.URL.RawQuery; query != "" {
		io.WriteString(hash, "?"+query)
	}
	return prefix + ":v" + strconv.Itoa(version) + ":" + hex.EncodeToString(hash.Sum(nil))
}

// FlushCache removes every cached response under the prefix
func FlushCache(ctx context.Context, redisClient *redis.Client, prefix string) error {
	iter := redisClient.Scan(ctx, 0, prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return redisClient.Del(ctx, keys...).Err()
}
