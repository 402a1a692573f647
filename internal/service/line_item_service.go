package service

import (
	"context"
	"fmt"

	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// LineItemRequest is one cart/order line to price.
type LineItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// PricedLine is a resolved line ready to persist as unitPrice/lineTotal.
type PricedLine struct {
	ProductID int    `json:"productId"`
	SkuCode   string `json:"skuCode"`
	Name      string `json:"productName"`
	LinePrice
}

// PricedLines is the result of pricing a cart or order.
type PricedLines struct {
	Items    []PricedLine `json:"items"`
	Total    float64      `json:"total"`
	IsMember bool         `json:"isMember"`
}

// MemberChecker decides member status for a user.
type MemberChecker interface {
	IsMember(ctx context.Context, userID int) (bool, error)
}

// LineItemService builds priced cart/order lines so that catalog, cart and
// order prices always come from the same resolver.
type LineItemService struct {
	products   ProductStore
	membership MemberChecker
}

// NewLineItemService creates a LineItemService.
func NewLineItemService(products ProductStore, membership MemberChecker) *LineItemService {
	return &LineItemService{products: products, membership: membership}
}

// PriceLines resolves every line for userID. Any unknown product or
// incomplete price record fails the whole request.
func (s *LineItemService) PriceLines(ctx context.Context, userID int, items []LineItemRequest) (*PricedLines, error) {
	if len(items) == 0 {
		return nil, utils.ErrEmptyLineItems
	}

	isMember, err := s.membership.IsMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	out := &PricedLines{Items: make([]PricedLine, 0, len(items)), IsMember: isMember}
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, utils.ErrProductNotFound)
		}
		line, err := ResolveLine(&p.ProductPriceFields, isMember, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, err)
		}
		out.Items = append(out.Items, PricedLine{
			ProductID: p.ID,
			SkuCode:   p.SkuCode,
			Name:      p.Name,
			LinePrice: *line,
		})
		out.Total += line.LineTotal
	}
	return out, nil
}

// UnitPrice resolves the price of a single product for userID.
func (s *LineItemService) UnitPrice(ctx context.Context, userID, productID int) (*PricedLine, bool, error) {
	lines, err := s.PriceLines(ctx, userID, []LineItemRequest{{ProductID: productID, Quantity: 1}})
	if err != nil {
		return nil, false, err
	}
	return &lines.Items[0], lines.IsMember, nil
}
