package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/techlab/challenge-backend/pkg/metrics"
)

// redisWindow is a fixed-window counter shared by every replica. A client may
// make floor(rps*window)+burst requests per window.
type redisWindow struct {
	client  *redis.Client
	seconds int64
	allowed int64
}

// hit counts one request for key in the current window. INCR and EXPIRE go in
// one transaction so a counter never outlives its window.
func (w *redisWindow) hit(ctx context.Context, key string, now time.Time) (int64, error) {
	bucket := fmt.Sprintf("rl:%s:%d", key, now.Unix()/w.seconds)
	var incr *redis.IntCmd
	_, err := w.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, bucket)
		p.Expire(ctx, bucket, time.Duration(w.seconds+1)*time.Second)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RedisRateLimitMiddleware limits requests per client across replicas. With a
// nil client it falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	seconds := int64(window.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	w := &redisWindow{
		client:  client,
		seconds: seconds,
		allowed: int64(rps*float64(seconds)) + int64(burst),
	}
	return func(c *gin.Context) {
		cnt, err := w.hit(c.Request.Context(), limitKey(c), time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Rate limit check failed", "error": err.Error()})
			return
		}
		if cnt > w.allowed {
			c.Header("Retry-After", strconv.FormatInt(w.seconds, 10))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
