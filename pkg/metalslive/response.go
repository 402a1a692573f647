package metalslive

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SpotPrices maps a metal name ("gold", "silver", ...) to USD per troy ounce.
type SpotPrices map[string]float64

// ParseSpot decodes the feed's array-of-single-key-objects shape, e.g.
// [{"gold":2345.1},{"silver":29.4}], into a flat map.
func ParseSpot(body []byte) (SpotPrices, error) {
	var items []map[string]float64
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	out := make(SpotPrices, len(items))
	for _, item := range items {
		for k, v := range item {
			out[strings.ToLower(k)] = v
		}
	}
	return out, nil
}
