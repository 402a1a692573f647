package service

import (
	"context"
	"fmt"
	"math"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

const (
	// TroyOunceGrams is the number of grams in one troy ounce.
	TroyOunceGrams = 31.1035

	// GoldSilverRatio is the typical gold:silver price ratio used to derive a
	// silver quote from sources that only publish gold. It is a documented
	// approximation, not a live quote.
	GoldSilverRatio = 80.0
)

// Rate source names, also used as the snapshot source tag.
const (
	SourceGoldAPI    = "goldapi"
	SourceGoldPrice  = "goldprice"
	SourceMetalsLive = "metalslive"
	SourceGoldSpot   = "goldspot"
)

// RateSource is a single external provider of gold/silver prices.
// Fetch returns a normalized snapshot or a *ProviderError.
type RateSource interface {
	// Name returns the stable source name used for ordering and tagging.
	Name() string

	// Fetch retrieves and normalizes the provider's current quote.
	Fetch(ctx context.Context) (*models.MetalRateSnapshot, error)
}

// ProviderError reports a failed fetch from one rate source.
type ProviderError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rate source %s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("rate source %s: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err != nil {
		return []error{utils.ErrRateSourceFailed, e.Err}
	}
	return []error{utils.ErrRateSourceFailed}
}

func providerErr(provider, reason string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Reason: reason, Err: err}
}

// ouncePriceToGram converts a per-troy-ounce price in a foreign currency to
// a per-gram price in the local currency.
func ouncePriceToGram(pricePerOunce, fxRate float64) float64 {
	return (pricePerOunce / TroyOunceGrams) * fxRate
}

// quote builds a MetalQuote in the canonical unit.
func quote(pricePerGram, change, changePercent float64) models.MetalQuote {
	return models.MetalQuote{
		PricePerGram:  pricePerGram,
		Unit:          models.RateUnit,
		Change:        change,
		ChangePercent: changePercent,
	}
}

// validateSnapshot rejects snapshots whose derived prices are not positive
// finite numbers.
func validateSnapshot(provider string, snap *models.MetalRateSnapshot) error {
	if snap == nil {
		return providerErr(provider, "empty snapshot", nil)
	}
	for metal, q := range map[models.MetalType]models.MetalQuote{
		models.MetalGold:   snap.Gold,
		models.MetalSilver: snap.Silver,
	} {
		if math.IsNaN(q.PricePerGram) || math.IsInf(q.PricePerGram, 0) || q.PricePerGram <= 0 {
			return providerErr(provider, fmt.Sprintf("non-positive %s price %v", metal, q.PricePerGram), nil)
		}
	}
	return nil
}
