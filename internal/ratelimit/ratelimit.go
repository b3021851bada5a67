// Package ratelimit throttles sources that share a backend.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobhydra/internal/model"
)

// KindLimiter hands out one token-bucket limiter per source kind, so every
// source of the same kind shares its budget.
type KindLimiter struct {
	mu       sync.Mutex
	limiters map[model.SourceKind]*rate.Limiter
	minDelay time.Duration
	burst    int
}

// NewKindLimiter enforces minDelay between consecutive requests of the same
// kind. A non-positive minDelay disables throttling.
func NewKindLimiter(minDelay time.Duration) *KindLimiter {
	return &KindLimiter{
		limiters: make(map[model.SourceKind]*rate.Limiter),
		minDelay: minDelay,
		burst:    1,
	}
}

func (l *KindLimiter) limiter(kind model.SourceKind) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[kind]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.minDelay), l.burst)
		l.limiters[kind] = lim
	}
	return lim
}

// Wait blocks until a request of the given kind is allowed.
func (l *KindLimiter) Wait(ctx context.Context, kind model.SourceKind) error {
	if l.minDelay <= 0 {
		return nil
	}
	if err := l.limiter(kind).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", kind, err)
	}
	return nil
}

// Source is a decorator that waits on the shared limiter before delegating
// to the wrapped source.
type Source struct {
	inner   model.Source
	limiter *KindLimiter
}

var _ model.Source = (*Source)(nil)

// Wrap decorates inner. All sources should share the same limiter instance.
func Wrap(inner model.Source, limiter *KindLimiter) *Source {
	return &Source{inner: inner, limiter: limiter}
}

func (s *Source) Name() string { return s.inner.Name() }

func (s *Source) Kind() model.SourceKind { return s.inner.Kind() }

// Fetch waits for the limiter, then fetches.
func (s *Source) Fetch(ctx context.Context) ([]model.Candidate, error) {
	if err := s.limiter.Wait(ctx, s.inner.Kind()); err != nil {
		return nil, err
	}
	return s.inner.Fetch(ctx)
}
