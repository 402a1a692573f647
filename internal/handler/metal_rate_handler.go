package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_jewel/internal/cache"
	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/internal/service"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// MetalRateHandler serves live metal rates and live price calculation.
type MetalRateHandler struct {
	rates      *cache.RateCache
	pricing    *service.PricingService
	defaultGST float64
}

// NewMetalRateHandler constructs a MetalRateHandler.
func NewMetalRateHandler(rates *cache.RateCache, pricing *service.PricingService, defaultGST float64) *MetalRateHandler {
	return &MetalRateHandler{rates: rates, pricing: pricing, defaultGST: defaultGST}
}

// CalculatePriceRequest is the body of POST /metal-rates/calculate-price.
// MetalType wins over the legacy Brand rule when both are given.
type CalculatePriceRequest struct {
	Brand         string   `json:"brand"`
	MetalType     string   `json:"metalType"`
	ProductWeight *float64 `json:"productWeight" binding:"required"`
	MakingCost    *float64 `json:"makingCost"`
	WastageCost   *float64 `json:"wastageCost"`
	GST           *float64 `json:"gst"`
}

// CalculatePriceResponse is the data of a live price calculation. TotalPrice
// is the pre-tax subtotal; PriceWithGST is the non-member price.
type CalculatePriceResponse struct {
	MetalType     models.MetalType `json:"metalType"`
	RatePerGram   float64          `json:"ratePerGram"`
	MaterialValue float64          `json:"materialValue"`
	Subtotal      float64          `json:"subtotal"`
	GSTAmount     float64          `json:"gstAmount"`
	TotalPrice    float64          `json:"totalPrice"`
	PriceWithGST  float64          `json:"priceWithGST"`
	MemberPrice   float64          `json:"memberPrice"`
	LastUpdated   time.Time        `json:"lastUpdated"`
	Source        string           `json:"source"`
}

// GetLive handles GET /metal-rates/live
func (h *MetalRateHandler) GetLive(c *gin.Context) {
	snap, cached := h.rates.Get(c.Request.Context())
	utils.SuccessCached(c, 200, "Live metal rates retrieved", snap, cached)
}

// Refresh handles POST /metal-rates/refresh
func (h *MetalRateHandler) Refresh(c *gin.Context) {
	snap := h.rates.ForceRefresh(c.Request.Context())
	utils.SuccessCached(c, 200, "Metal rates refreshed", snap, false)
}

// CalculatePrice handles POST /metal-rates/calculate-price
func (h *MetalRateHandler) CalculatePrice(c *gin.Context) {
	var req CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "productWeight is required")
		return
	}

	metal, err := resolveMetalType(req.Brand, req.MetalType)
	if err != nil {
		handlePricingError(c, err)
		return
	}

	quote, err := h.pricing.Quote(c.Request.Context(), service.QuoteRequest{
		MetalType:   metal,
		Weight:      *req.ProductWeight,
		MakingCost:  valueOr(req.MakingCost, 0),
		WastageCost: valueOr(req.WastageCost, 0),
		GSTPercent:  valueOr(req.GST, h.defaultGST),
	})
	if err != nil {
		handlePricingError(c, err)
		return
	}

	b := quote.Breakdown
	utils.Success(c, 200, "Price calculated", CalculatePriceResponse{
		MetalType:     quote.MetalType,
		RatePerGram:   utils.RoundMoney(quote.RatePerGram),
		MaterialValue: utils.RoundMoney(b.MaterialValue),
		Subtotal:      utils.RoundMoney(b.Subtotal),
		GSTAmount:     utils.RoundMoney(b.GSTAmount),
		TotalPrice:    utils.RoundMoney(b.Subtotal),
		PriceWithGST:  utils.RoundMoney(b.TotalPrice),
		MemberPrice:   utils.RoundMoney(b.MemberPrice),
		LastUpdated:   quote.LastUpdated,
		Source:        quote.Source,
	})
}

// resolveMetalType applies an explicit metalType, or the brand rule when it
// is absent.
func resolveMetalType(brand, metalType string) (models.MetalType, error) {
	if metalType == "" {
		return models.MetalTypeFromBrand(brand), nil
	}
	m, ok := models.ParseMetalType(metalType)
	if !ok {
		return "", fmt.Errorf("%w: %q", utils.ErrInvalidMetalType, metalType)
	}
	return m, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
