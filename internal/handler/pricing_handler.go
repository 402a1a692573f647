package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_jewel/internal/middleware"
	"github.com/GTDGit/gtd_jewel/internal/service"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// PricingHandler exposes tiered unit prices to cart/order flows and the
// admin price breakup recalculation.
type PricingHandler struct {
	lineItems *service.LineItemService
	pricing   *service.PricingService
}

// NewPricingHandler constructs a PricingHandler.
func NewPricingHandler(lineItems *service.LineItemService, pricing *service.PricingService) *PricingHandler {
	return &PricingHandler{lineItems: lineItems, pricing: pricing}
}

// LineItemsRequest is the body of POST /pricing/line-items.
type LineItemsRequest struct {
	Items []service.LineItemRequest `json:"items" binding:"required"`
}

// PriceLineItems handles POST /pricing/line-items
func (h *PricingHandler) PriceLineItems(c *gin.Context) {
	var req LineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "items is required")
		return
	}

	lines, err := h.lineItems.PriceLines(c.Request.Context(), middleware.GetUserID(c), req.Items)
	if err != nil {
		handlePricingError(c, err)
		return
	}

	for i := range lines.Items {
		lines.Items[i].UnitPrice = utils.RoundMoney(lines.Items[i].UnitPrice)
		lines.Items[i].LineTotal = utils.RoundMoney(lines.Items[i].LineTotal)
	}
	lines.Total = utils.RoundMoney(lines.Total)

	utils.Success(c, 200, "Line items priced", lines)
}

// GetProductPrice handles GET /products/:id/price
func (h *PricingHandler) GetProductPrice(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	line, isMember, err := h.lineItems.UnitPrice(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		handlePricingError(c, err)
		return
	}

	utils.Success(c, 200, "Product price resolved", gin.H{
		"productId": line.ProductID,
		"unitPrice": utils.RoundMoney(line.UnitPrice),
		"tier":      line.Tier,
		"isMember":  isMember,
	})
}

// RecalculateProduct handles POST /admin/products/:id/price-breakup
func (h *PricingHandler) RecalculateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	product, quote, err := h.pricing.RecalculateProduct(c.Request.Context(), id)
	if err != nil {
		handlePricingError(c, err)
		return
	}

	utils.Success(c, 200, "Price breakup updated", gin.H{
		"product":   product,
		"breakdown": quote.Breakdown,
		"source":    quote.Source,
	})
}

func productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_PRODUCT_ID", "Product id must be a positive integer")
		return 0, false
	}
	return id, true
}

// handlePricingError maps pricing failures to API error codes.
func handlePricingError(c *gin.Context, err error) {
	var pe *service.PricingError
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, utils.ErrInvalidMetalType):
		utils.Error(c, 400, "INVALID_METAL_TYPE", "metalType must be 'gold' or 'silver'")
	case errors.Is(err, utils.ErrEmptyLineItems):
		utils.Error(c, 400, "EMPTY_LINE_ITEMS", "At least one line item is required")
	case errors.Is(err, utils.ErrInvalidPriceInput) && errors.As(err, &pe):
		utils.Error(c, 400, "INVALID_PRICE_INPUT", pe.Error())
	case errors.Is(err, utils.ErrMissingProductPrice):
		utils.Error(c, 400, "PRICING_ERROR", err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Pricing request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
