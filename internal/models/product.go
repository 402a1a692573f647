package models

import "time"

// Product represents a jewelry product in the catalog.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID        int       `db:"id" json:"id"`
	SkuCode   string    `db:"sku_code" json:"skuCode"`
	Name      string    `db:"name" json:"productName"`
	Brand     string    `db:"brand" json:"brand"`
	MetalType MetalType `db:"metal_type" json:"metalType"`
	IsActive  bool      `db:"is_active" json:"productStatus"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	ProductPriceFields
}

// ProductPriceFields is the pricing subset of a product. Price is the only
// field guaranteed non-zero for a well-formed product; the rest default to 0.
// The breakup fields (rate, weight, material value, making, wastage, gst,
// total) are kept as an audit trail of how the price was derived.
type ProductPriceFields struct {
	Price                float64 `db:"price" json:"price"`
	SalePrice            float64 `db:"sale_price" json:"salePrice"`
	UserPrice            float64 `db:"user_price" json:"userPrice"`
	MemberPrice          float64 `db:"member_price" json:"memberPrice"`
	CurrentRatePerGram   float64 `db:"current_rate_per_gram" json:"currentRatePerGram"`
	ProductWeight        float64 `db:"product_weight" json:"productWeight"`
	MaterialValue        float64 `db:"material_value" json:"materialValue"`
	MakingCost           float64 `db:"making_cost" json:"makingCost"`
	WastageCost          float64 `db:"wastage_cost" json:"wastageCost"`
	GST                  float64 `db:"gst" json:"gst"`
	TotalCalculatedPrice float64 `db:"total_calculated_price" json:"totalCalculatedPrice"`
}

// PriceBreakup is the audit trail written back to a product after a
// recalculation against a live rate.
type PriceBreakup struct {
	CurrentRatePerGram   float64
	MaterialValue        float64
	TotalCalculatedPrice float64
	MemberPrice          float64
}
