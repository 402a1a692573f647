package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_jewel/internal/metrics"
	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// DefaultSourceTimeout bounds a single source fetch.
const DefaultSourceTimeout = 15 * time.Second

// RateAggregator tries rate sources in priority order and falls back to a
// static table when all of them fail.
type RateAggregator struct {
	sources  []RateSource
	fallback FallbackTable
	timeout  time.Duration
	now      func() time.Time
}

// NewRateAggregator creates a RateAggregator. sources are tried in slice order.
func NewRateAggregator(sources []RateSource, fallback FallbackTable, timeout time.Duration) *RateAggregator {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	if err := fallback.Validate(); err != nil {
		log.Warn().Err(err).Msg("Invalid fallback rates, using built-in defaults")
		fallback = DefaultFallbackTable()
	}
	return &RateAggregator{
		sources:  sources,
		fallback: fallback,
		timeout:  timeout,
		now:      time.Now,
	}
}

// SourceNames returns the configured source names in priority order.
func (a *RateAggregator) SourceNames() []string {
	names := make([]string, 0, len(a.sources))
	for _, s := range a.sources {
		names = append(names, s.Name())
	}
	return names
}

// Refresh returns the first valid snapshot from the sources, or the fallback
// snapshot when every source fails. fallback reports the latter. It never
// returns an error.
func (a *RateAggregator) Refresh(ctx context.Context) (snap *models.MetalRateSnapshot, fallback bool) {
	var failures []error

	for _, src := range a.sources {
		live, err := a.fetch(ctx, src)
		if err != nil {
			failures = append(failures, err)
			log.Warn().
				Err(err).
				Str("source", src.Name()).
				Msg("Rate source failed, trying next source")
			continue
		}

		log.Info().
			Str("source", src.Name()).
			Float64("gold_per_gram", live.Gold.PricePerGram).
			Float64("silver_per_gram", live.Silver.PricePerGram).
			Msg("Metal rates refreshed")
		return live, false
	}

	metrics.RateFallbacks.Inc()
	snap = a.fallback.Snapshot(a.now())
	log.Error().
		Err(errors.Join(append([]error{utils.ErrAggregationExhausted}, failures...)...)).
		Int("sources_tried", len(a.sources)).
		Str("source", snap.Source).
		Msg("All rate sources failed, serving fallback rates")
	return snap, true
}

// fetch runs one source under the per-call timeout and enforces the
// positive-price invariant regardless of the source implementation.
func (a *RateAggregator) fetch(ctx context.Context, src RateSource) (*models.MetalRateSnapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	snap, err := src.Fetch(cctx)
	metrics.RateSourceLatency.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())

	if err == nil {
		err = validateSnapshot(src.Name(), snap)
	}
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			metrics.RateSourceRequests.WithLabelValues(src.Name(), "timeout").Inc()
		} else {
			metrics.RateSourceRequests.WithLabelValues(src.Name(), "error").Inc()
		}
		return nil, err
	}

	metrics.RateSourceRequests.WithLabelValues(src.Name(), "success").Inc()
	out := *snap
	out.Source = src.Name()
	return &out, nil
}

// OrderSources reorders sources by name. Named sources come first in the
// given order; the rest keep their relative order. Unknown names are ignored.
func OrderSources(sources []RateSource, order []string) []RateSource {
	if len(order) == 0 {
		return sources
	}
	byName := make(map[string]RateSource, len(sources))
	for _, s := range sources {
		byName[s.Name()] = s
	}
	out := make([]RateSource, 0, len(sources))
	used := make(map[string]bool, len(sources))
	for _, name := range order {
		if s, ok := byName[name]; ok && !used[name] {
			out = append(out, s)
			used[name] = true
		}
	}
	for _, s := range sources {
		if !used[s.Name()] {
			out = append(out, s)
		}
	}
	return out
}
