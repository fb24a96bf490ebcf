package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRequestsPerMinute bounds chart and export requests per client IP.
// Every such request costs a remote login plus a fetch.
const DefaultRequestsPerMinute = 60

// rateLimiter is a fixed-window per-IP limiter.
type rateLimiter struct {
	mu           sync.Mutex
	limit        int
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	windowStart time.Time
	requests    int
}

func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		limit = DefaultRequestsPerMinute
	}
	rl := &rateLimiter{
		limit:       limit,
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries(time.Now())
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-10 * time.Minute)
	for ip, c := range rl.clients {
		if c.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether clientIP is still under its limit for the current minute.
func (rl *rateLimiter) allow(clientIP string, now time.Time, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.windowStart) > time.Minute {
		rl.clients[clientIP] = &clientInfo{windowStart: now, requests: 1}
		return true
	}

	c.requests++
	if c.requests > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
