package service

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

// Built-in approximate market rates in INR per gram. Overridden by
// FALLBACK_RATES_FILE or the FALLBACK_*_PER_GRAM variables.
const (
	defaultFallbackGold   = 12500.0
	defaultFallbackSilver = 160.0
)

// FallbackTable is the static rate table served when every source fails.
type FallbackTable struct {
	GoldPerGram   float64 `yaml:"gold_per_gram"`
	SilverPerGram float64 `yaml:"silver_per_gram"`
	// AsOf is the date the table was last reviewed (YYYY-MM-DD). When empty
	// the current date is used in the source tag.
	AsOf string `yaml:"as_of"`
}

// DefaultFallbackTable returns the built-in table.
func DefaultFallbackTable() FallbackTable {
	return FallbackTable{GoldPerGram: defaultFallbackGold, SilverPerGram: defaultFallbackSilver}
}

// LoadFallbackTable reads a YAML table from path. Missing metals keep the
// built-in defaults.
func LoadFallbackTable(path string) (FallbackTable, error) {
	table := DefaultFallbackTable()
	raw, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("failed to read fallback rates: %w", err)
	}
	var parsed FallbackTable
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return table, fmt.Errorf("failed to parse fallback rates: %w", err)
	}
	return table.Merge(parsed), nil
}

// Merge overlays the positive values of other onto t.
func (t FallbackTable) Merge(other FallbackTable) FallbackTable {
	if other.GoldPerGram > 0 {
		t.GoldPerGram = other.GoldPerGram
	}
	if other.SilverPerGram > 0 {
		t.SilverPerGram = other.SilverPerGram
	}
	if other.AsOf != "" {
		t.AsOf = other.AsOf
	}
	return t
}

// Validate checks that both rates are positive.
func (t FallbackTable) Validate() error {
	if t.GoldPerGram <= 0 || t.SilverPerGram <= 0 {
		return fmt.Errorf("fallback rates must be positive (gold=%v silver=%v)", t.GoldPerGram, t.SilverPerGram)
	}
	return nil
}

// FallbackSourceTag returns the source tag for a fallback snapshot.
func FallbackSourceTag(date string) string {
	return fmt.Sprintf("Current Market Rates (%s)", date)
}

// Snapshot builds the fallback snapshot at now.
func (t FallbackTable) Snapshot(now time.Time) *models.MetalRateSnapshot {
	date := t.AsOf
	if date == "" {
		date = now.Format("2006-01-02")
	}
	return &models.MetalRateSnapshot{
		Gold:        quote(t.GoldPerGram, 0, 0),
		Silver:      quote(t.SilverPerGram, 0, 0),
		LastUpdated: now,
		Source:      FallbackSourceTag(date),
	}
}
