package service

import (
	"context"
	"time"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/pkg/goldspot"
)

// GoldSpotRateSource adapts gold-api.com, which publishes gold only. Silver
// is derived from gold with GoldSilverRatio.
type GoldSpotRateSource struct {
	client *goldspot.Client
	fx     FxConverter
	now    func() time.Time
}

// NewGoldSpotRateSource creates a GoldSpotRateSource.
func NewGoldSpotRateSource(client *goldspot.Client, fx FxConverter) *GoldSpotRateSource {
	return &GoldSpotRateSource{client: client, fx: fx, now: time.Now}
}

// Name returns the source name.
func (s *GoldSpotRateSource) Name() string {
	return SourceGoldSpot
}

// Fetch retrieves the gold quote and derives silver.
func (s *GoldSpotRateSource) Fetch(ctx context.Context) (*models.MetalRateSnapshot, error) {
	resp, err := s.client.GetPrice(ctx)
	if err != nil {
		return nil, providerErr(s.Name(), "request failed", err)
	}

	goldPerGram := ouncePriceToGram(resp.Price, s.fx.Rate(ctx))
	snap := &models.MetalRateSnapshot{
		Gold:        quote(goldPerGram, 0, 0),
		Silver:      quote(goldPerGram/GoldSilverRatio, 0, 0),
		LastUpdated: s.now(),
		Source:      s.Name(),
	}
	if !resp.UpdatedAt.IsZero() {
		snap.LastUpdated = resp.UpdatedAt
	}
	if err := validateSnapshot(s.Name(), snap); err != nil {
		return nil, err
	}
	return snap, nil
}
