package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/pkg/goldapi"
)

// GoldAPIRateSource adapts the paid goldapi.io feed. The feed quotes one metal
// per call, so gold and silver are fetched in parallel and both must succeed.
type GoldAPIRateSource struct {
	client   *goldapi.Client
	currency string
	now      func() time.Time
}

// NewGoldAPIRateSource creates a GoldAPIRateSource quoting in currency.
func NewGoldAPIRateSource(client *goldapi.Client, currency string) *GoldAPIRateSource {
	if currency == "" {
		currency = "INR"
	}
	return &GoldAPIRateSource{client: client, currency: currency, now: time.Now}
}

// Name returns the source name.
func (s *GoldAPIRateSource) Name() string {
	return SourceGoldAPI
}

// Fetch retrieves XAU and XAG concurrently under the caller's deadline.
func (s *GoldAPIRateSource) Fetch(ctx context.Context) (*models.MetalRateSnapshot, error) {
	var gold, silver *goldapi.PriceResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gold, err = s.client.GetPrice(gctx, goldapi.SymbolGold, s.currency)
		return err
	})
	g.Go(func() error {
		var err error
		silver, err = s.client.GetPrice(gctx, goldapi.SymbolSilver, s.currency)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, providerErr(s.Name(), "request failed", err)
	}

	snap := &models.MetalRateSnapshot{
		Gold:        s.normalize(gold),
		Silver:      s.normalize(silver),
		LastUpdated: s.now(),
		Source:      s.Name(),
	}
	if gold.Timestamp > 0 {
		snap.LastUpdated = time.Unix(gold.Timestamp, 0)
	}
	if err := validateSnapshot(s.Name(), snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// normalize prefers the per-gram 24k price; otherwise it converts the ounce
// price, which is already in the local currency.
func (s *GoldAPIRateSource) normalize(r *goldapi.PriceResponse) models.MetalQuote {
	perGram := r.PriceGram24k
	if perGram <= 0 {
		perGram = ouncePriceToGram(r.Price, 1)
	}
	return quote(perGram, r.Ch/TroyOunceGrams, r.Chp)
}
