package services

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/autoservice-app/config"
)

type PartLine struct {
	SellPrice float64
	Quantity  int
}

type BillingInput struct {
	Parts         []PartLine
	ServicePrices []float64
	WashType      int
	TimeSpent     float64
	// LaborOverride replaces the hourly computation when set.
	LaborOverride *float64
	OilChangeCost float64
	Deposit       float64
}

type BillingBreakdown struct {
	PartsCost     float64 `json:"parts_cost"`
	ServicesCost  float64 `json:"services_cost"`
	WashCost      float64 `json:"wash_cost"`
	LaborCost     float64 `json:"labor_cost"`
	OilChangeCost float64 `json:"oil_change_cost"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Deposit       float64 `json:"deposit"`
	Total         float64 `json:"total"`
}

// BillingCalculator derives invoice figures from consumed parts, services and time.
type BillingCalculator struct {
	Rates config.BillingRates
}

func NewBillingCalculator(rates config.BillingRates) BillingCalculator {
	return BillingCalculator{Rates: rates}
}

// Compute is pure. total = subtotal + tax - deposit and is not floored at zero.
func (bc BillingCalculator) Compute(in BillingInput) BillingBreakdown {
	parts := decimal.Zero
	for _, p := range in.Parts {
		parts = parts.Add(decimal.NewFromFloat(p.SellPrice).Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	services := decimal.Zero
	for _, price := range in.ServicePrices {
		services = services.Add(decimal.NewFromFloat(price))
	}

	wash := decimal.NewFromFloat(bc.WashPrice(in.WashType))

	labor := decimal.NewFromFloat(in.TimeSpent).Mul(decimal.NewFromFloat(bc.Rates.LaborRatePerHour))
	if in.LaborOverride != nil {
		labor = decimal.NewFromFloat(*in.LaborOverride)
	}

	oil := decimal.NewFromFloat(in.OilChangeCost)
	deposit := decimal.NewFromFloat(in.Deposit)

	subtotal := parts.Add(services).Add(wash).Add(labor).Add(oil)
	tax := subtotal.Mul(decimal.NewFromFloat(bc.Rates.TaxRate))
	total := subtotal.Add(tax).Sub(deposit)

	return BillingBreakdown{
		PartsCost:     parts.InexactFloat64(),
		ServicesCost:  services.InexactFloat64(),
		WashCost:      wash.InexactFloat64(),
		LaborCost:     labor.InexactFloat64(),
		OilChangeCost: oil.InexactFloat64(),
		Subtotal:      subtotal.InexactFloat64(),
		Tax:           tax.InexactFloat64(),
		Deposit:       deposit.InexactFloat64(),
		Total:         total.InexactFloat64(),
	}
}

// WashPrice returns the tier price, or 0 for no wash or an unknown tier.
func (bc BillingCalculator) WashPrice(washType int) float64 {
	if washType <= 0 {
		return 0
	}
	return bc.Rates.WashPrices[washType]
}
