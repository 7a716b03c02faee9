package http

import (
	"sync"
	"time"
)

const (
	// writeBudget is how many write requests one client gets per window.
	writeBudget = 60
	writeWindow = time.Minute

	limiterScanGap = 5 * time.Minute
	limiterIdleTTL = 10 * time.Minute
)

// rateLimiter throttles writes per client IP over a fixed one-minute
// window. State is in-memory only; a restart hands every client a fresh
// budget.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	windowStart time.Time
	used        int
	lastSeen    time.Time
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		done:     make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

// allow consumes one unit of the client's budget. A window starts at the
// first request and rolls over once writeWindow has elapsed.
func (rl *rateLimiter) allow(clientIP string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[clientIP]
	if !ok || now.Sub(v.windowStart) >= writeWindow {
		rl.visitors[clientIP] = &visitor{windowStart: now, used: 1, lastSeen: now}
		return true
	}

	v.used++
	v.lastSeen = now
	return v.used <= writeBudget
}

// evictIdle drops clients quiet past limiterIdleTTL so the map does not
// grow with every IP ever seen. Runs until stop.
func (rl *rateLimiter) evictIdle() {
	ticker := time.NewTicker(limiterScanGap)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleTTL)
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if v.lastSeen.Before(cutoff) {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}
