package service

import (
	"context"
	"time"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/pkg/goldprice"
)

// GoldPriceRateSource adapts the goldprice.org feed (USD per troy ounce).
type GoldPriceRateSource struct {
	client *goldprice.Client
	fx     FxConverter
	now    func() time.Time
}

// NewGoldPriceRateSource creates a GoldPriceRateSource.
func NewGoldPriceRateSource(client *goldprice.Client, fx FxConverter) *GoldPriceRateSource {
	return &GoldPriceRateSource{client: client, fx: fx, now: time.Now}
}

// Name returns the source name.
func (s *GoldPriceRateSource) Name() string {
	return SourceGoldPrice
}

// Fetch retrieves both metals from a single call and converts to INR/gram.
func (s *GoldPriceRateSource) Fetch(ctx context.Context) (*models.MetalRateSnapshot, error) {
	item, err := s.client.GetRates(ctx)
	if err != nil {
		return nil, providerErr(s.Name(), "request failed", err)
	}

	fx := s.fx.Rate(ctx)
	snap := &models.MetalRateSnapshot{
		Gold:        quote(ouncePriceToGram(item.XauPrice, fx), ouncePriceToGram(item.ChgXau, fx), item.PcXau),
		Silver:      quote(ouncePriceToGram(item.XagPrice, fx), ouncePriceToGram(item.ChgXag, fx), item.PcXag),
		LastUpdated: s.now(),
		Source:      s.Name(),
	}
	if err := validateSnapshot(s.Name(), snap); err != nil {
		return nil, err
	}
	return snap, nil
}
