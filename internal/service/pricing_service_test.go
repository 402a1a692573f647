package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

type staticRates struct {
	snap   *models.MetalRateSnapshot
	cached bool
}

func (s staticRates) Get(context.Context) (*models.MetalRateSnapshot, bool) {
	out := *s.snap
	return &out, s.cached
}

type memProducts struct {
	items   map[int]*models.Product
	saved   map[int]models.PriceBreakup
	saveErr error
}

func newMemProducts(products ...*models.Product) *memProducts {
	m := &memProducts{items: map[int]*models.Product{}, saved: map[int]models.PriceBreakup{}}
	for _, p := range products {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) GetByID(_ context.Context, id int) (*models.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, utils.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetByIDs(_ context.Context, ids []int) (map[int]*models.Product, error) {
	out := map[int]*models.Product{}
	for _, id := range ids {
		if p, ok := m.items[id]; ok && p.IsActive {
			out[id] = p
		}
	}
	return out, nil
}

func (m *memProducts) UpdatePriceBreakup(_ context.Context, id int, b models.PriceBreakup) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.items[id]; !ok {
		return utils.ErrProductNotFound
	}
	m.saved[id] = b
	return nil
}

func liveRates() staticRates {
	return staticRates{snap: &models.MetalRateSnapshot{
		Gold:        quote(6000, 0, 0),
		Silver:      quote(90, 0, 0),
		LastUpdated: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
		Source:      SourceGoldPrice,
	}, cached: true}
}

func TestQuoteUsesMetalRate(t *testing.T) {
	svc := NewPricingService(liveRates(), newMemProducts())

	q, err := svc.Quote(context.Background(), QuoteRequest{MetalType: models.MetalGold, Weight: 10, MakingCost: 500, WastageCost: 200, GSTPercent: 3})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.RatePerGram != 6000 || q.Breakdown.TotalPrice != 62521 {
		t.Fatalf("unexpected gold quote %+v %+v", q, q.Breakdown)
	}
	if !q.Cached || q.Source != SourceGoldPrice {
		t.Fatalf("expected cached goldprice quote, got cached=%v source=%q", q.Cached, q.Source)
	}

	q, err = svc.Quote(context.Background(), QuoteRequest{Weight: 10, GSTPercent: 0})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.MetalType != models.MetalSilver || q.Breakdown.MaterialValue != 900 {
		t.Fatalf("expected default silver quote, got %s %v", q.MetalType, q.Breakdown.MaterialValue)
	}
}

func TestQuoteRejectsInvalidGST(t *testing.T) {
	svc := NewPricingService(liveRates(), newMemProducts())
	_, err := svc.Quote(context.Background(), QuoteRequest{MetalType: models.MetalGold, Weight: 1, GSTPercent: 40})
	if !errors.Is(err, utils.ErrInvalidPriceInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRecalculateProductSavesBreakup(t *testing.T) {
	products := newMemProducts(&models.Product{
		ID: 7, MetalType: models.MetalGold, IsActive: true,
		ProductPriceFields: models.ProductPriceFields{Price: 70000, SalePrice: 65000, ProductWeight: 10, MakingCost: 500, WastageCost: 200, GST: 3},
	})
	svc := NewPricingService(liveRates(), products)

	p, q, err := svc.RecalculateProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	want := models.PriceBreakup{CurrentRatePerGram: 6000, MaterialValue: 60000, TotalCalculatedPrice: 62521, MemberPrice: 60000}
	if products.saved[7] != want {
		t.Fatalf("saved %+v, want %+v", products.saved[7], want)
	}
	if p.MemberPrice != 60000 || p.TotalCalculatedPrice != 62521 {
		t.Fatalf("returned product not updated: %+v", p.ProductPriceFields)
	}
	if p.Price != 70000 || p.SalePrice != 65000 {
		t.Fatalf("admin prices must be untouched: %+v", p.ProductPriceFields)
	}
	if q.Source != SourceGoldPrice {
		t.Fatalf("unexpected source %q", q.Source)
	}
}

func TestRecalculateProductErrors(t *testing.T) {
	products := newMemProducts(&models.Product{ID: 1, ProductPriceFields: models.ProductPriceFields{Price: 10, ProductWeight: 1}})
	svc := NewPricingService(liveRates(), products)

	if _, _, err := svc.RecalculateProduct(context.Background(), 99); !errors.Is(err, utils.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	products.saveErr = errors.New("db down")
	if _, _, err := svc.RecalculateProduct(context.Background(), 1); err == nil || errors.Is(err, utils.ErrProductNotFound) {
		t.Fatalf("expected save failure, got %v", err)
	}
}
