// Package ratelimit provides per-client rate limiting for the login
// surface, keyed by remote IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config defines the rate limiting configuration.
type Config struct {
	RPS             float64       // Requests per second per client
	Burst           int           // Burst size per client
	CleanupInterval time.Duration // How often to drop idle limiters
}

// DefaultConfig is tuned for the auth endpoints: browsers hit them a
// handful of times per login, so anything sustained is abuse.
var DefaultConfig = Config{
	RPS:             5,
	Burst:           10,
	CleanupInterval: time.Hour,
}

type entry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Limiter manages one token bucket per client key.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*entry
	config   Config

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a limiter and starts its background cleanup goroutine.
func New(config Config) *Limiter {
	l := &Limiter{
		limiters: make(map[string]*entry),
		config:   config,
		stopCh:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from the given client key is within
// its rate limit.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.RLock()
	e, ok := l.limiters[key]
	if ok {
		e.lastUsed = time.Now()
		l.mu.RUnlock()
		return e.limiter
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.limiters[key]; ok {
		e.lastUsed = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)
	l.limiters[key] = &entry{limiter: lim, lastUsed: time.Now()}
	return lim
}

// Cleanup drops limiters idle for longer than the cleanup interval.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-l.config.CleanupInterval)
	for key, e := range l.limiters {
		if e.lastUsed.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

func (l *Limiter) cleanupLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// Stop terminates the cleanup goroutine and waits for it.
func (l *Limiter) Stop() {
	close(l.stopCh)
	l.wg.Wait()
}

// Len returns the number of tracked clients. Useful in tests.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}
