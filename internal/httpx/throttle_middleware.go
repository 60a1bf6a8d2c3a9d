package httpx

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleMiddleware is a coarse token-bucket throttle over the whole API,
// keyed per caller. It is independent of the borrow-admission window, which
// has its own component with stricter semantics.
type ThrottleMiddleware struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idleFor  time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewThrottleMiddleware(rps float64, burst int) *ThrottleMiddleware {
	tm := &ThrottleMiddleware{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		idleFor:  5 * time.Minute,
	}

	go tm.evictIdle()
	return tm
}

func (tm *ThrottleMiddleware) evictIdle() {
	ticker := time.NewTicker(tm.idleFor)
	defer ticker.Stop()
	for range ticker.C {
		tm.mu.Lock()
		for key, cl := range tm.limiters {
			if time.Since(cl.lastSeen) > tm.idleFor {
				delete(tm.limiters, key)
			}
		}
		tm.mu.Unlock()
	}
}

func (tm *ThrottleMiddleware) limiterFor(key string) *rate.Limiter {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	cl, ok := tm.limiters[key]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(tm.rate, tm.burst),
		}
		tm.limiters[key] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter
}

func (tm *ThrottleMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tm.limiterFor(ClientKey(r)).Allow() {
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
