package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limitePorSegundo = 5
	rafagaMaxima     = 30
	visitanteTTL     = 3 * time.Minute
)

type visitante struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitantes = make(map[string]*visitante)
	mu         sync.Mutex
)

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		if !getLimiter(ip).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getLimiter(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitantes[ip]
	if !exists {
		limiter := rate.NewLimiter(limitePorSegundo, rafagaMaxima)
		visitantes[ip] = &visitante{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// CleanupVisitors drops limiters for IPs not seen recently. Runs until
// the context is cancelled.
func CleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			for ip, v := range visitantes {
				if time.Since(v.lastSeen) > visitanteTTL {
					delete(visitantes, ip)
				}
			}
			mu.Unlock()
		}
	}
}
