package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/GTDGit/gtd_jewel/internal/metrics"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// FxRateFetcher retrieves a live exchange rate for the quote currency.
type FxRateFetcher interface {
	GetRate(ctx context.Context, quote string) (float64, error)
}

// FxConverter returns the foreign -> local conversion rate. It never fails:
// lookup errors are absorbed with a configured fallback constant.
type FxConverter interface {
	Rate(ctx context.Context) float64
}

// FxService memoises the USD -> local rate for a TTL and falls back to a
// constant when the lookup fails. Concurrent misses share one lookup.
type FxService struct {
	fetcher  FxRateFetcher
	quote    string
	fallback float64
	ttl      time.Duration
	now      func() time.Time
	group    singleflight.Group

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
}

// NewFxService creates an FxService.
func NewFxService(fetcher FxRateFetcher, quote string, fallback float64, ttl time.Duration) *FxService {
	return &FxService{
		fetcher:  fetcher,
		quote:    quote,
		fallback: fallback,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Rate returns the cached live rate, refreshing it when older than the TTL.
// Fallback values are not memoised so the next call retries the lookup.
func (s *FxService) Rate(ctx context.Context) float64 {
	if rate, ok := s.cached(); ok {
		return rate
	}
	v, _, _ := s.group.Do(s.quote, func() (interface{}, error) {
		if rate, ok := s.cached(); ok {
			return rate, nil
		}
		return s.lookup(ctx), nil
	})
	return v.(float64)
}

func (s *FxService) cached() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rate > 0 && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.rate, true
	}
	return 0, false
}

// lookup runs the network call without holding mu.
func (s *FxService) lookup(ctx context.Context) float64 {
	if s.fetcher == nil {
		return s.useFallback(errors.New("no fx fetcher configured"))
	}

	rate, err := s.fetcher.GetRate(ctx, s.quote)
	if err != nil {
		return s.useFallback(err)
	}
	if rate <= 0 {
		return s.useFallback(errors.New("non-positive fx rate"))
	}

	s.mu.Lock()
	s.rate = rate
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return rate
}

func (s *FxService) useFallback(cause error) float64 {
	metrics.FxFallbacks.Inc()
	log.Warn().
		Err(errors.Join(utils.ErrFxLookupFailed, cause)).
		Str("quote", s.quote).
		Float64("fallback_rate", s.fallback).
		Msg("FX lookup failed, using fallback rate")
	return s.fallback
}
