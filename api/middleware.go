package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"podcatch/api/types"
)

const (
	limiterIdleExpiry    = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

// CORS allows the status API to be read from anywhere.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// RequestSizeLimit caps mutating request bodies at one megabyte.
func RequestSizeLimit() gin.HandlerFunc {
	const maxBytes = 1 << 20
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// clientLimiter is one client's token bucket within a route group.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // UnixNano
}

// rateLimiters owns per-client token buckets for every limited route group
// and expires idle clients in the background. Each group keeps its own
// client map, so a client's budget on one group never leaks into another.
type rateLimiters struct {
	mu     sync.Mutex
	groups []*sync.Map

	stop  chan struct{}
	start sync.Once
	halt  sync.Once
}

func newRateLimiters() *rateLimiters {
	return &rateLimiters{stop: make(chan struct{})}
}

// close stops the background sweeper. Safe to call more than once.
func (rl *rateLimiters) close() {
	rl.halt.Do(func() { close(rl.stop) })
}

// perClient returns middleware enforcing rps/burst per client IP.
func (rl *rateLimiters) perClient(rps, burst int) gin.HandlerFunc {
	clients := &sync.Map{}
	rl.mu.Lock()
	rl.groups = append(rl.groups, clients)
	rl.mu.Unlock()

	rl.start.Do(func() { go rl.sweep() })

	return func(c *gin.Context) {
		ip := c.ClientIP()
		v, _ := clients.LoadOrStore(ip, &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst),
		})
		cl := v.(*clientLimiter)
		cl.lastSeen.Store(time.Now().UnixNano())

		if !cl.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, types.ErrorResponse{
				Error: "rate limit exceeded, slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// sweep drops clients not seen within the idle expiry.
func (rl *rateLimiters) sweep() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleExpiry).UnixNano()
			rl.mu.Lock()
			groups := make([]*sync.Map, len(rl.groups))
			copy(groups, rl.groups)
			rl.mu.Unlock()

			for _, clients := range groups {
				clients.Range(func(key, value any) bool {
					if value.(*clientLimiter).lastSeen.Load() < cutoff {
						clients.Delete(key)
					}
					return true
				})
			}
		case <-rl.stop:
			return
		}
	}
}
