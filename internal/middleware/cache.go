package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// cacheWriter captures the response body while forwarding it to the client
type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ListingCache caches successful GET responses in Redis, keyed by request
// path and query. Used on the public hotel and room listing routes, which are
// read-heavy and tolerate short staleness. A nil client disables caching.
func ListingCache(client *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "listing:" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery

		if cached, err := client.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK && writer.buf.Len() > 0 {
			// Best effort: a failed write just means the next request misses
			client.Set(c.Request.Context(), key, writer.buf.Bytes(), ttl)
		}
	}
}
