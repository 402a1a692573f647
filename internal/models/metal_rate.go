package models

import (
	"strings"
	"time"
)

// MetalType identifies the precious metal a product or rate refers to.
type MetalType string

const (
	MetalGold   MetalType = "gold"
	MetalSilver MetalType = "silver"
)

// DefaultMetalType is used when a product or request carries no metal type.
const DefaultMetalType = MetalSilver

// RateUnit is the canonical unit of every quote after normalization.
const RateUnit = "INR/gram"

// ParseMetalType parses an explicit metal type. An empty string yields the
// default; any other unknown value is rejected.
func ParseMetalType(s string) (MetalType, bool) {
	switch MetalType(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMetalType, true
	case MetalGold:
		return MetalGold, true
	case MetalSilver:
		return MetalSilver, true
	}
	return "", false
}

// MetalTypeFromBrand applies the legacy brand rule: a case-insensitive
// substring match on "silver" then "gold", defaulting to silver.
func MetalTypeFromBrand(brand string) MetalType {
	b := strings.ToLower(brand)
	switch {
	case strings.Contains(b, "silver"):
		return MetalSilver
	case strings.Contains(b, "gold"):
		return MetalGold
	}
	return DefaultMetalType
}

// MetalQuote is a single metal's normalized price.
type MetalQuote struct {
	PricePerGram  float64 `json:"pricePerGram"`
	Unit          string  `json:"unit"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// MetalRateSnapshot is a point-in-time gold/silver quote from one source.
type MetalRateSnapshot struct {
	Gold        MetalQuote `json:"gold"`
	Silver      MetalQuote `json:"silver"`
	LastUpdated time.Time  `json:"lastUpdated"`
	Source      string     `json:"source"`
}

// Valid reports whether both metals carry a strictly positive price.
func (s *MetalRateSnapshot) Valid() bool {
	return s != nil && s.Gold.PricePerGram > 0 && s.Silver.PricePerGram > 0
}

// Quote returns the quote for the given metal.
func (s *MetalRateSnapshot) Quote(m MetalType) MetalQuote {
	if m == MetalGold {
		return s.Gold
	}
	return s.Silver
}

// RateCacheEntry is the unit stored by the rate cache. It is replaced
// wholesale on every refresh. Fallback marks a static snapshot served after
// every source failed; such entries are never reported as cached.
type RateCacheEntry struct {
	Snapshot  MetalRateSnapshot `json:"snapshot"`
	FetchedAt time.Time         `json:"fetchedAt"`
	TTL       time.Duration     `json:"ttl"`
	Fallback  bool              `json:"fallback,omitempty"`
}

// Fresh reports whether the entry is still within its TTL at now.
func (e *RateCacheEntry) Fresh(now time.Time) bool {
	return e != nil && now.Sub(e.FetchedAt) < e.TTL
}
