package ratelimit

import (
	"context"
	"sync"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pruneEvery - через сколько вызовов Allow чистятся ключи без вызовов в окне.
const pruneEvery = 1000

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest call in the window expires and frees a slot.
	ResetAt time.Time
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *SlidingWindow) {
		if now != nil {
			s.now = now
		}
	}
}

// SlidingWindow permits at most limit calls per key within any trailing window.
// It keeps the timestamps of accepted calls; rejected calls are not recorded.
// SlidingWindow implements rateli.Store.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	calls  map[string][]time.Time
	// вызовы Allow с последней полной чистки
	sincePrune int
}

var _ rateli.Store = (*SlidingWindow)(nil)

// NewSlidingWindow creates a limiter allowing limit calls per window.
func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	s := &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		calls:  make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records a call for key if the window has room for it.
func (s *SlidingWindow) Allow(key string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sincePrune++
	if s.sincePrune >= pruneEvery {
		s.prune(now)
	}
	calls := s.evict(key, now)

	if len(calls) >= s.limit {
		return Decision{
			Allowed:   false,
			Limit:     s.limit,
			Remaining: 0,
			ResetAt:   calls[0].Add(s.window),
		}
	}

	calls = append(calls, now)
	s.calls[key] = calls
	return Decision{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - len(calls),
		ResetAt:   calls[0].Add(s.window),
	}
}

// evict drops timestamps that fell out of the window. Caller holds mu.
func (s *SlidingWindow) evict(key string, now time.Time) []time.Time {
	calls := s.calls[key]
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(calls) && !calls[i].After(cutoff) {
		i++
	}
	if i == len(calls) {
		delete(s.calls, key)
		return nil
	}
	if i > 0 {
		calls = append(calls[:0:0], calls[i:]...)
		s.calls[key] = calls
	}
	return calls
}

// Limit implements rateli.Store.
func (s *SlidingWindow) Limit(key string, _ *gin.Context) rateli.Info {
	d := s.Allow(key)
	return rateli.Info{
		Limit:         uint(d.Limit),
		RateLimited:   !d.Allowed,
		ResetTime:     d.ResetAt,
		RemainingHits: uint(d.Remaining),
	}
}

// Prune drops every key whose calls all fell out of the window and returns how many were dropped.
func (s *SlidingWindow) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prune(s.now())
}

// prune. Caller holds mu.
func (s *SlidingWindow) prune(now time.Time) int {
	before := len(s.calls)
	for key := range s.calls {
		s.evict(key, now)
	}
	s.sincePrune = 0
	return before - len(s.calls)
}

// Keys returns the number of tracked keys, including stale ones not yet pruned.
func (s *SlidingWindow) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// RunPruner calls Prune every interval until ctx is done.
func RunPruner(ctx context.Context, s *SlidingWindow, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	log := logger.Named("RateLimitPruner")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Prune(); removed > 0 {
				log.Debug("Pruned idle rate limit keys", zap.Int("removed", removed), zap.Int("remaining", s.Keys()))
			}
		}
	}
}
