package service

import (
	"errors"
	"math"
	"testing"

	"github.com/GTDGit/gtd_jewel/internal/utils"
)

func TestCalculateKnownPiece(t *testing.T) {
	b, err := Calculate(PriceInput{RatePerGram: 6000, Weight: 10, MakingCost: 500, WastageCost: 200, GSTPercent: 3})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	want := PriceBreakdown{MaterialValue: 60000, Subtotal: 60700, GSTAmount: 1821, TotalPrice: 62521, MemberPrice: 60000}
	if *b != want {
		t.Fatalf("got %+v, want %+v", *b, want)
	}
}

func TestCalculateFormula(t *testing.T) {
	const eps = 1e-6
	for _, rate := range []float64{1, 85.5, 160, 6000, 12500.75} {
		for _, weight := range []float64{0, 0.5, 3, 10, 250} {
			for _, gst := range []float64{0, 3, 12.5, 28} {
				in := PriceInput{RatePerGram: rate, Weight: weight, MakingCost: 120, WastageCost: 35.5, GSTPercent: gst}
				b, err := Calculate(in)
				if err != nil {
					t.Fatalf("%+v: %v", in, err)
				}
				if b.MemberPrice != b.MaterialValue {
					t.Fatalf("%+v: member price %v differs from material value %v", in, b.MemberPrice, b.MaterialValue)
				}
				if math.Abs(b.TotalPrice-b.Subtotal*(1+gst/100)) > eps {
					t.Fatalf("%+v: total %v != subtotal*(1+gst)", in, b.TotalPrice)
				}
				if b.TotalPrice < b.MemberPrice {
					t.Fatalf("%+v: total %v below member price %v", in, b.TotalPrice, b.MemberPrice)
				}
			}
		}
	}
}

func TestCalculateZeroWeight(t *testing.T) {
	b, err := Calculate(PriceInput{RatePerGram: 6000, MakingCost: 100, GSTPercent: 3})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if b.MaterialValue != 0 || b.MemberPrice != 0 {
		t.Fatalf("expected zero material value, got %+v", *b)
	}
	if b.TotalPrice != 103 {
		t.Fatalf("expected 103, got %v", b.TotalPrice)
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	base := PriceInput{RatePerGram: 6000, Weight: 1, GSTPercent: 3}
	cases := map[string]func(in *PriceInput){
		"zero rate":        func(in *PriceInput) { in.RatePerGram = 0 },
		"negative weight":  func(in *PriceInput) { in.Weight = -1 },
		"negative making":  func(in *PriceInput) { in.MakingCost = -5 },
		"negative wastage": func(in *PriceInput) { in.WastageCost = -5 },
		"negative gst":     func(in *PriceInput) { in.GSTPercent = -1 },
		"gst above slab":   func(in *PriceInput) { in.GSTPercent = 28.5 },
		"nan weight":       func(in *PriceInput) { in.Weight = math.NaN() },
		"inf rate":         func(in *PriceInput) { in.RatePerGram = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := Calculate(in)
			if !errors.Is(err, utils.ErrInvalidPriceInput) {
				t.Fatalf("expected ErrInvalidPriceInput, got %v", err)
			}
			var pe *PricingError
			if !errors.As(err, &pe) || pe.Field == "" {
				t.Fatalf("expected *PricingError with field, got %#v", err)
			}
		})
	}
}

func TestBreakupCarriesRate(t *testing.T) {
	b, err := Calculate(PriceInput{RatePerGram: 160, Weight: 5, MakingCost: 50, GSTPercent: 3})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	bu := b.Breakup(160)
	if bu.CurrentRatePerGram != 160 || bu.MaterialValue != 800 || bu.MemberPrice != 800 || bu.TotalCalculatedPrice != b.TotalPrice {
		t.Fatalf("unexpected breakup %+v", bu)
	}
}
