package service

import (
	"math"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

// MaxGSTPercent is the highest legal GST slab.
const MaxGSTPercent = 28.0

// PriceInput are the raw cost components of a piece.
type PriceInput struct {
	RatePerGram float64
	Weight      float64
	MakingCost  float64
	WastageCost float64
	GSTPercent  float64
}

// PriceBreakdown is the calculator output. Values are unrounded.
type PriceBreakdown struct {
	MaterialValue float64 `json:"materialValue"`
	Subtotal      float64 `json:"subtotal"`
	GSTAmount     float64 `json:"gstAmount"`
	TotalPrice    float64 `json:"totalPrice"`
	MemberPrice   float64 `json:"memberPrice"`
}

// Breakup converts the breakdown to the product audit trail.
func (b *PriceBreakdown) Breakup(ratePerGram float64) models.PriceBreakup {
	return models.PriceBreakup{
		CurrentRatePerGram:   ratePerGram,
		MaterialValue:        b.MaterialValue,
		TotalCalculatedPrice: b.TotalPrice,
		MemberPrice:          b.MemberPrice,
	}
}

// Calculate prices a piece. Non-members pay metal, making, wastage and GST;
// members pay the metal value only.
func Calculate(in PriceInput) (*PriceBreakdown, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	materialValue := in.RatePerGram * in.Weight
	subtotal := materialValue + in.MakingCost + in.WastageCost
	gstAmount := subtotal * in.GSTPercent / 100

	return &PriceBreakdown{
		MaterialValue: materialValue,
		Subtotal:      subtotal,
		GSTAmount:     gstAmount,
		TotalPrice:    subtotal + gstAmount,
		MemberPrice:   materialValue,
	}, nil
}

func (in PriceInput) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"ratePerGram", in.RatePerGram},
		{"productWeight", in.Weight},
		{"makingCost", in.MakingCost},
		{"wastageCost", in.WastageCost},
		{"gst", in.GSTPercent},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidInput(f.name, "must be a finite number")
		}
	}

	switch {
	case in.RatePerGram <= 0:
		return invalidInput("ratePerGram", "must be greater than 0")
	case in.Weight < 0:
		return invalidInput("productWeight", "must be >= 0")
	case in.MakingCost < 0:
		return invalidInput("makingCost", "must be >= 0")
	case in.WastageCost < 0:
		return invalidInput("wastageCost", "must be >= 0")
	case in.GSTPercent < 0 || in.GSTPercent > MaxGSTPercent:
		return invalidInput("gst", "must be between 0 and 28")
	}
	return nil
}
