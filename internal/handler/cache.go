package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResponseCache is a Redis-backed cache for idempotent GET responses. Hits
// carry ETag and X-Cache headers, which the metrics middleware reads to
// count a cache hit.
type ResponseCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewResponseCache wraps an existing Redis client. A nil client disables
// caching; callers may pass the result straight to RegisterRoutes.
func NewResponseCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	if rdb == nil {
		return nil
	}
	return &ResponseCache{rdb: rdb, ttl: ttl, logger: logger.Named("ResponseCache")}
}

type cachingWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func cacheKey(c *gin.Context) string {
	sum := sha256.Sum256([]byte(c.Request.URL.RequestURI()))
	return "cache:" + hex.EncodeToString(sum[:])
}

// Wrap serves a cached body when present, otherwise runs the handler and
// stores a 200 response. Redis failures degrade to a plain miss.
func (rc *ResponseCache) Wrap(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cacheKey(c)

		val, err := rc.rdb.Get(c.Request.Context(), key).Bytes()
		if err == nil {
			etag := key[len("cache:"):][:16]
			c.Header("X-Cache", "HIT")
			c.Header("ETag", `"`+etag+`"`)
			c.Data(http.StatusOK, "application/json; charset=utf-8", val)
			c.Abort()
			return
		}
		if err != redis.Nil {
			rc.logger.Warn("Cache lookup failed", zap.Error(err))
		}

		writer := &cachingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		handler(c)

		if writer.Status() == http.StatusOK && len(writer.body) > 0 {
			if err := rc.rdb.Set(c.Request.Context(), key, writer.body, rc.ttl).Err(); err != nil {
				rc.logger.Warn("Cache store failed", zap.Error(err))
			}
		}
	}
}
