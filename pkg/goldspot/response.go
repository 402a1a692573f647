package goldspot

import "time"

// PriceResponse is the gold-api.com quote payload.
type PriceResponse struct {
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	Symbol            string    `json:"symbol"`
	UpdatedAt         time.Time `json:"updatedAt"`
	UpdatedAtReadable string    `json:"updatedAtReadable"`
}
