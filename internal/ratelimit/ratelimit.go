package ratelimit

import (
	"sync"
	"time"
)

// Limiter - локальный sliding-window лимитер на исходящие запросы к поисковику
type Limiter struct {
	mu       sync.Mutex
	requests []time.Time
	limit    int
	window   time.Duration
}

type Config struct {
	RequestsPerMinute int
}

func New(cfg Config) *Limiter {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = 10
	}

	return &Limiter{
		limit:  limit,
		window: time.Minute,
	}
}

func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	// оставляем только свежие запросы
	fresh := l.requests[:0] // reuse underlying array
	for _, t := range l.requests {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.limit {
		l.requests = fresh
		return false
	}

	l.requests = append(fresh, now)
	return true
}

func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.window)
	cnt := 0
	for _, t := range l.requests {
		if t.After(cutoff) {
			cnt++
		}
	}

	if rem := l.limit - cnt; rem > 0 {
		return rem
	}
	return 0
}

// ResetTime - когда окно освободится (приблизительно)
func (l *Limiter) ResetTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.requests) == 0 {
		return time.Now()
	}

	oldest := l.requests[0]
	for _, t := range l.requests[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	return oldest.Add(l.window)
}
