package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techlab/challenge-backend/pkg/metrics"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long a client's bucket survives without traffic.
const DefaultLimiterIdle = 10 * time.Minute

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one token bucket per key and drops buckets idle for
// longer than idle. Sweeps run inline, at most once per idle period.
type limiterStore struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	rps       rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterStore(rps float64, burst int, idle time.Duration) *limiterStore {
	// a bucket idle this long has refilled, so dropping it changes nothing
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &limiterStore{
		entries:   make(map[string]*limiterEntry),
		rps:       rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now()
	if t.Sub(s.lastSweep) >= s.idle {
		for k, e := range s.entries {
			if t.Sub(e.lastSeen) >= s.idle {
				delete(s.entries, k)
			}
		}
		s.lastSweep = t
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = t
	return e.lim
}

func (s *limiterStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RateLimitMiddleware enforces an in-process token bucket per client, keyed by
// token subject when the bearer check ran first and by client IP otherwise.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return rateLimitWithStore(newLimiterStore(rps, burst, DefaultLimiterIdle))
}

func rateLimitWithStore(store *limiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.get(limitKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
