package goldprice

// RatesResponse is the goldprice.org dbXRates payload.
type RatesResponse struct {
	Ts    int64      `json:"ts"`
	Tsj   int64      `json:"tsj"`
	Date  string     `json:"date"`
	Items []RateItem `json:"items"`
}

// RateItem holds spot prices per troy ounce in Curr.
type RateItem struct {
	Curr     string  `json:"curr"`
	XauPrice float64 `json:"xauPrice"`
	XagPrice float64 `json:"xagPrice"`
	ChgXau   float64 `json:"chgXau"`
	ChgXag   float64 `json:"chgXag"`
	PcXau    float64 `json:"pcXau"`
	PcXag    float64 `json:"pcXag"`
	XauClose float64 `json:"xauClose"`
	XagClose float64 `json:"xagClose"`
}
