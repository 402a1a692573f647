package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

// RateReader serves the current metal rate snapshot.
type RateReader interface {
	Get(ctx context.Context) (*models.MetalRateSnapshot, bool)
}

// ProductStore is the product persistence used by pricing flows.
type ProductStore interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error)
	UpdatePriceBreakup(ctx context.Context, id int, b models.PriceBreakup) error
}

// QuoteRequest asks for a live price of a piece of a given metal.
type QuoteRequest struct {
	MetalType   models.MetalType
	Weight      float64
	MakingCost  float64
	WastageCost float64
	GSTPercent  float64
}

// Quote is a live price calculation.
type Quote struct {
	MetalType   models.MetalType
	RatePerGram float64
	Breakdown   *PriceBreakdown
	LastUpdated time.Time
	Source      string
	Cached      bool
}

// PricingService prices pieces against the live metal rate.
type PricingService struct {
	rates    RateReader
	products ProductStore
}

// NewPricingService creates a PricingService.
func NewPricingService(rates RateReader, products ProductStore) *PricingService {
	return &PricingService{rates: rates, products: products}
}

// Quote prices a piece at the current rate for its metal.
func (s *PricingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.MetalType == "" {
		req.MetalType = models.DefaultMetalType
	}

	snap, cached := s.rates.Get(ctx)
	rate := snap.Quote(req.MetalType).PricePerGram

	breakdown, err := Calculate(PriceInput{
		RatePerGram: rate,
		Weight:      req.Weight,
		MakingCost:  req.MakingCost,
		WastageCost: req.WastageCost,
		GSTPercent:  req.GSTPercent,
	})
	if err != nil {
		return nil, err
	}

	return &Quote{
		MetalType:   req.MetalType,
		RatePerGram: rate,
		Breakdown:   breakdown,
		LastUpdated: snap.LastUpdated,
		Source:      snap.Source,
		Cached:      cached,
	}, nil
}

// RecalculateProduct reprices a stored product at the live rate and writes
// the breakup audit trail back. The admin-set price fields other than
// memberPrice are left untouched.
func (s *PricingService) RecalculateProduct(ctx context.Context, productID int) (*models.Product, *Quote, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	metal := product.MetalType
	if metal == "" {
		metal = models.DefaultMetalType
	}

	quote, err := s.Quote(ctx, QuoteRequest{
		MetalType:   metal,
		Weight:      product.ProductWeight,
		MakingCost:  product.MakingCost,
		WastageCost: product.WastageCost,
		GSTPercent:  product.GST,
	})
	if err != nil {
		return nil, nil, err
	}

	breakup := quote.Breakdown.Breakup(quote.RatePerGram)
	if err := s.products.UpdatePriceBreakup(ctx, productID, breakup); err != nil {
		return nil, nil, fmt.Errorf("failed to save price breakup: %w", err)
	}

	product.CurrentRatePerGram = breakup.CurrentRatePerGram
	product.MaterialValue = breakup.MaterialValue
	product.TotalCalculatedPrice = breakup.TotalCalculatedPrice
	product.MemberPrice = breakup.MemberPrice

	log.Info().
		Int("product_id", productID).
		Str("metal_type", string(metal)).
		Float64("rate_per_gram", quote.RatePerGram).
		Float64("total_calculated_price", breakup.TotalCalculatedPrice).
		Str("source", quote.Source).
		Msg("Product price breakup recalculated")

	return product, quote, nil
}
