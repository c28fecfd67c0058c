package middlewares

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/clubsantiago/sistema-billar/utils"
)

var errTooManyRequests = errors.New("too many requests, slow down")

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects callers over their budget with 429. Limiter errors let
// the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			utils.ErrorLogger.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", "1")
			utils.RespondError(c, http.StatusTooManyRequests, errTooManyRequests)
			return
		}
		c.Next()
	}
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	sweeps  int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    3 * time.Minute,
		buckets: make(map[string]*bucket),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	l.sweeps++
	if l.sweeps >= 1000 {
		l.sweeps = 0
		for k, v := range l.buckets {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.buckets, k)
			}
		}
	}

	return b.limiter.AllowN(now, 1), nil
}

// RedisLimiter shares the budget between server instances with a fixed
// window counter: at most limit requests per key per window.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter maps a token bucket of rps/burst onto a fixed window that
// admits burst requests every burst/rps seconds.
func NewRedisLimiter(client *redis.Client, rps float64, burst int) *RedisLimiter {
	window := time.Duration(math.Ceil(float64(burst)/rps*1000)) * time.Millisecond
	if window < time.Second {
		window = time.Second
	}
	return &RedisLimiter{
		client: client,
		limit:  int64(burst),
		window: window,
		prefix: "rl:",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixMilli() / l.window.Milliseconds()
	k := l.prefix + key + ":" + strconv.FormatInt(slot, 10)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, 2*l.window).Err(); err != nil {
			return true, err
		}
	}
	return n <= l.limit, nil
}
