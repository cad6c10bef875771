package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

// Manual sync triggers are the expensive calls; the per-IP budget is
// sized so a dashboard stays responsive but cannot hammer the channels.
const (
	defaultRatePerSec = 5
	defaultBurst      = 20
)

var (
	limiters      = make(map[string]*rate.Limiter)
	limitersMutex sync.Mutex

	whitelistedIPs = map[string]bool{
		"127.0.0.1": true, // local portal
	}
)

func rateConfig() (rate.Limit, int) {
	perSec := defaultRatePerSec
	burst := defaultBurst
	if raw := os.Getenv("RATE_LIMIT_PER_SEC"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			perSec = n
		}
	}
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			burst = n
		}
	}
	return rate.Limit(perSec), burst
}

func getLimiter(ip string) *rate.Limiter {
	limitersMutex.Lock()
	defer limitersMutex.Unlock()

	if limiter, exists := limiters[ip]; exists {
		return limiter
	}
	perSec, burst := rateConfig()
	limiter := rate.NewLimiter(perSec, burst)
	limiters[ip] = limiter
	return limiter
}

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, _ := net.SplitHostPort(r.RemoteAddr)
		if whitelistedIPs[ip] {
			next.ServeHTTP(w, r)
			return
		}

		limiter := getLimiter(ip)
		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
