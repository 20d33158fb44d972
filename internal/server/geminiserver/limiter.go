package geminiserver

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterRegistry holds one token bucket per client IP.
type limiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	perSec   int
}

func newLimiterRegistry(perSec int) *limiterRegistry {
	return &limiterRegistry{
		limiters: make(map[string]*rate.Limiter),
		perSec:   perSec,
	}
}

// allow reports whether ip may open another connection now.
func (r *limiterRegistry) allow(ip string) bool {
	return r.getOrCreate(ip).Allow()
}

func (r *limiterRegistry) getOrCreate(ip string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[ip]
	r.mu.RUnlock()
	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, exists := r.limiters[ip]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(r.perSec), r.perSec)
	r.limiters[ip] = limiter
	return limiter
}

// sweep drops buckets that have refilled completely. A dropped client
// starts again with a full bucket, which is the state it was in anyway.
func (r *limiterRegistry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for ip, limiter := range r.limiters {
		if limiter.Tokens() >= float64(limiter.Burst()) {
			delete(r.limiters, ip)
			removed++
		}
	}
	return removed
}

func (r *limiterRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}
