package service

import (
	"context"
	"time"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/pkg/metalslive"
)

// MetalsLiveRateSource adapts the metals.live spot feed (USD per troy ounce).
// The feed carries no change figures, so change fields are zero.
type MetalsLiveRateSource struct {
	client *metalslive.Client
	fx     FxConverter
	now    func() time.Time
}

// NewMetalsLiveRateSource creates a MetalsLiveRateSource.
func NewMetalsLiveRateSource(client *metalslive.Client, fx FxConverter) *MetalsLiveRateSource {
	return &MetalsLiveRateSource{client: client, fx: fx, now: time.Now}
}

// Name returns the source name.
func (s *MetalsLiveRateSource) Name() string {
	return SourceMetalsLive
}

// Fetch retrieves spot prices and converts them to INR/gram.
func (s *MetalsLiveRateSource) Fetch(ctx context.Context) (*models.MetalRateSnapshot, error) {
	spot, err := s.client.GetSpot(ctx)
	if err != nil {
		return nil, providerErr(s.Name(), "request failed", err)
	}

	goldOz, okGold := spot["gold"]
	silverOz, okSilver := spot["silver"]
	if !okGold || !okSilver {
		return nil, providerErr(s.Name(), "response missing gold or silver", nil)
	}

	fx := s.fx.Rate(ctx)
	snap := &models.MetalRateSnapshot{
		Gold:        quote(ouncePriceToGram(goldOz, fx), 0, 0),
		Silver:      quote(ouncePriceToGram(silverOz, fx), 0, 0),
		LastUpdated: s.now(),
		Source:      s.Name(),
	}
	if err := validateSnapshot(s.Name(), snap); err != nil {
		return nil, err
	}
	return snap, nil
}
