package middleware

import (
	"sync"
	"time"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = time.Minute
)

// LoginRateLimiter throttles failed login attempts per client IP. Successful
// logins are never counted.
type LoginRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow
}

type attemptWindow struct {
	count     int
	startedAt time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	rl := &LoginRateLimiter{
		windows: make(map[string]*attemptWindow),
	}
	go rl.cleanup()
	return rl
}

// Blocked reports whether the IP has exhausted its failure budget for the
// current window.
func (r *LoginRateLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[ip]
	if !ok || time.Since(w.startedAt) > loginAttemptWindow {
		return false
	}
	return w.count >= loginAttemptLimit
}

// RecordFailure charges one failed attempt against the IP.
func (r *LoginRateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w, ok := r.windows[ip]
	if !ok || now.Sub(w.startedAt) > loginAttemptWindow {
		r.windows[ip] = &attemptWindow{count: 1, startedAt: now}
		return
	}
	w.count++
}

// Reset clears the IP's failure count after a successful login.
func (r *LoginRateLimiter) Reset(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, ip)
}

func (r *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, w := range r.windows {
			if now.Sub(w.startedAt) > loginAttemptWindow {
				delete(r.windows, ip)
			}
		}
		r.mu.Unlock()
	}
}
