package service

import (
	"github.com/GTDGit/gtd_jewel/internal/models"
)

// PriceTier names the product field a unit price was taken from.
type PriceTier string

const (
	TierMember PriceTier = "memberPrice"
	TierSale   PriceTier = "salePrice"
	TierUser   PriceTier = "userPrice"
	TierBase   PriceTier = "price"
)

// LinePrice is a resolved cart/order line.
type LinePrice struct {
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"lineTotal"`
	Tier      PriceTier `json:"tier"`
}

// ResolveUnitPrice picks the effective unit price for a caller.
//
//	member:     memberPrice > salePrice > price
//	non-member: salePrice > userPrice > price
//
// The first positive field wins. price is the terminal fallback and must be
// positive; otherwise a *PricingError is returned.
func ResolveUnitPrice(p *models.ProductPriceFields, isMember bool) (float64, PriceTier, error) {
	if p == nil {
		return 0, "", missingPrice("product", "is missing")
	}
	if p.Price <= 0 {
		return 0, "", missingPrice("price", "must be greater than 0")
	}

	if isMember {
		switch {
		case p.MemberPrice > 0:
			return p.MemberPrice, TierMember, nil
		case p.SalePrice > 0:
			return p.SalePrice, TierSale, nil
		}
		return p.Price, TierBase, nil
	}

	switch {
	case p.SalePrice > 0:
		return p.SalePrice, TierSale, nil
	case p.UserPrice > 0:
		return p.UserPrice, TierUser, nil
	}
	return p.Price, TierBase, nil
}

// ResolveLine resolves the unit price and line total. Quantities below 1 are
// clamped to 1.
func ResolveLine(p *models.ProductPriceFields, isMember bool, quantity int) (*LinePrice, error) {
	unit, tier, err := ResolveUnitPrice(p, isMember)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		quantity = 1
	}
	return &LinePrice{
		UnitPrice: unit,
		Quantity:  quantity,
		LineTotal: unit * float64(quantity),
		Tier:      tier,
	}, nil
}
