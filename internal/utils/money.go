package utils

import "math"

// RoundMoney rounds an amount to the smallest currency unit (paise).
// Only presentation code should call it; calculations keep full precision.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
