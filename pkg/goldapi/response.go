package goldapi

// PriceResponse is the goldapi.io quote payload. Price is per troy ounce;
// the price_gram_* fields are already per gram in the quote currency.
type PriceResponse struct {
	Timestamp      int64   `json:"timestamp"`
	Metal          string  `json:"metal"`
	Currency       string  `json:"currency"`
	Exchange       string  `json:"exchange"`
	Symbol         string  `json:"symbol"`
	PrevClosePrice float64 `json:"prev_close_price"`
	OpenPrice      float64 `json:"open_price"`
	LowPrice       float64 `json:"low_price"`
	HighPrice      float64 `json:"high_price"`
	Price          float64 `json:"price"`
	Ch             float64 `json:"ch"`
	Chp            float64 `json:"chp"`
	Ask            float64 `json:"ask"`
	Bid            float64 `json:"bid"`
	PriceGram24k   float64 `json:"price_gram_24k"`
	PriceGram22k   float64 `json:"price_gram_22k"`
	PriceGram18k   float64 `json:"price_gram_18k"`
	Error          string  `json:"error,omitempty"`
}
