package services

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/autoservice-app/config"
)

func TestBillingCalculatorScenario(t *testing.T) {
	calc := NewBillingCalculator(config.DefaultBillingRates())

	// parts 50, services 20, exterior wash 25, 2h labor = 100, deposit 100
	got := calc.Compute(BillingInput{
		Parts:         []PartLine{{SellPrice: 25, Quantity: 2}},
		ServicePrices: []float64{20},
		WashType:      2,
		TimeSpent:     2,
		Deposit:       100,
	})

	assert.Equal(t, 50.0, got.PartsCost)
	assert.Equal(t, 20.0, got.ServicesCost)
	assert.Equal(t, 25.0, got.WashCost)
	assert.Equal(t, 100.0, got.LaborCost)
	assert.Equal(t, 0.0, got.OilChangeCost)
	assert.Equal(t, 195.0, got.Subtotal)
	assert.Equal(t, 27.3, got.Tax)
	assert.Equal(t, 122.3, got.Total)
}

func TestBillingCalculatorComponents(t *testing.T) {
	calc := NewBillingCalculator(config.DefaultBillingRates())
	override := 80.0

	tests := []struct {
		name  string
		in    BillingInput
		check func(t *testing.T, b BillingBreakdown)
	}{
		{
			name: "no wash selected",
			in:   BillingInput{WashType: 0},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, 0.0, b.WashCost)
			},
		},
		{
			name: "unknown wash tier",
			in:   BillingInput{WashType: 9},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, 0.0, b.WashCost)
			},
		},
		{
			name: "each wash tier",
			in:   BillingInput{WashType: 4},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, 75.0, b.WashCost)
			},
		},
		{
			name: "labor override replaces hourly rate",
			in:   BillingInput{TimeSpent: 3, LaborOverride: &override},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, 80.0, b.LaborCost)
			},
		},
		{
			name: "manual oil change cost",
			in:   BillingInput{OilChangeCost: 120},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, 120.0, b.OilChangeCost)
				assert.Equal(t, 120.0, b.Subtotal)
				assert.Equal(t, 16.8, b.Tax)
			},
		},
		{
			name: "deposit larger than total goes negative",
			in:   BillingInput{ServicePrices: []float64{10}, Deposit: 100},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, -88.6, b.Total)
			},
		},
		{
			name: "fractional hours",
			in:   BillingInput{TimeSpent: 1.5},
			check: func(t *testing.T, b BillingBreakdown) {
				assert.Equal(t, 75.0, b.LaborCost)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, calc.Compute(tt.in))
		})
	}
}

func TestBillingCalculatorTotalProperty(t *testing.T) {
	calc := NewBillingCalculator(config.DefaultBillingRates())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		in := BillingInput{
			WashType:      rng.Intn(5),
			TimeSpent:     float64(rng.Intn(200)) / 4,
			OilChangeCost: float64(rng.Intn(50000)) / 100,
			Deposit:       float64(rng.Intn(100000)) / 100,
		}
		for j := 0; j < rng.Intn(4); j++ {
			in.Parts = append(in.Parts, PartLine{SellPrice: float64(rng.Intn(100000)) / 100, Quantity: rng.Intn(5) + 1})
		}
		for j := 0; j < rng.Intn(3); j++ {
			in.ServicePrices = append(in.ServicePrices, float64(rng.Intn(30000))/100)
		}

		b := calc.Compute(in)

		subtotal := decimal.NewFromFloat(b.PartsCost).
			Add(decimal.NewFromFloat(b.ServicesCost)).
			Add(decimal.NewFromFloat(b.WashCost)).
			Add(decimal.NewFromFloat(b.LaborCost)).
			Add(decimal.NewFromFloat(b.OilChangeCost))
		tax := subtotal.Mul(decimal.NewFromFloat(0.14))
		total := subtotal.Add(tax).Sub(decimal.NewFromFloat(in.Deposit))

		assert.InDelta(t, subtotal.InexactFloat64(), b.Subtotal, 1e-9)
		assert.InDelta(t, tax.InexactFloat64(), b.Tax, 1e-9)
		assert.InDelta(t, total.InexactFloat64(), b.Total, 1e-9)
		assert.InDelta(t, b.Subtotal+b.Tax-in.Deposit, b.Total, 1e-6)
	}
}
