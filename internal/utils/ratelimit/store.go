// Package ratelimit keeps one token-bucket limiter per client so a single
// caller cannot flood the state API.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Rate defines the sustained request rate and burst size for a client.
type Rate struct {
	RequestsPerSecond float64
	Burst             int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store manages rate limiters for multiple clients.
type Store struct {
	rate    Rate
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	clients map[string]*client
}

// NewStore creates a new store for managing rate limiters.
//
// Parameters:
//   - r: The rate applied to every client
//   - ttl: How long an idle client's limiter is kept before cleanup
//
// Returns:
//   - A configured limiter store
func NewStore(r Rate, ttl time.Duration) *Store {
	return &Store{
		rate:    r,
		ttl:     ttl,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// GetLimiter returns the limiter for clientID, creating one on first use.
func (s *Store) GetLimiter(clientID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(s.rate.RequestsPerSecond), s.rate.Burst)}
		s.clients[clientID] = c
	}
	c.lastSeen = s.now()
	return c.limiter
}

// Allow reports whether clientID may make a request now. When it may not,
// retryAfter is the wait before the next token becomes available.
func (s *Store) Allow(clientID string) (allowed bool, retryAfter time.Duration) {
	limiter := s.GetLimiter(clientID)
	now := s.now()

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Duration(math.MaxInt64)
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Len returns the number of tracked clients.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Cleanup removes limiters idle for longer than the store's TTL and returns how many were dropped.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, c := range s.clients {
		if c.lastSeen.Before(cutoff) {
			delete(s.clients, id)
			removed++
		}
	}
	return removed
}

// Run periodically cleans up idle limiters until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Cleanup(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("Cleaned up idle rate limiters")
			}
		}
	}
}
