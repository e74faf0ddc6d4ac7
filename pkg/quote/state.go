package quote

import (
	"github.com/shopspring/decimal"
)

// Multiplier is one named factor appended to the pricing accumulator.
// Multipliers compose multiplicatively in append order.
type Multiplier struct {
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
	Note  *string         `json:"note"`
}

// PricingState is the mutable accumulator a pricing rule pass builds up.
// One instance exists per quote build; it is never shared across requests.
type PricingState struct {
	BaseRate           decimal.Decimal
	FactorPerRiskUnit  decimal.Decimal
	RiskWeightSum      int64
	DeductibleDiscount decimal.Decimal
	Multipliers        []Multiplier

	TariffTotal  decimal.Decimal
	PremiumTotal int64
}

// NewPricingState returns a zeroed accumulator.
func NewPricingState() *PricingState {
	return &PricingState{}
}

// Reset returns the accumulator to its zero state in one assignment, so a
// pricing_reset can never leave partial state behind.
func (s *PricingState) Reset() {
	*s = PricingState{}
}

// MultipliersProduct is the running product of all multiplier values,
// one when none have been appended.
func (s *PricingState) MultipliersProduct() decimal.Decimal {
	product := decimal.NewFromInt(1)
	for _, m := range s.Multipliers {
		product = product.Mul(m.Value)
	}
	return product
}

// Attr exposes the accumulator to pricing expressions as the "pricing"
// root. Unknown attributes resolve to nil like any namespace.
func (s *PricingState) Attr(name string) any {
	switch name {
	case "base_rate":
		return s.BaseRate
	case "factor_per_risk_unit":
		return s.FactorPerRiskUnit
	case "risk_weight_sum":
		return decimal.NewFromInt(s.RiskWeightSum)
	case "deductible_discount":
		return s.DeductibleDiscount
	case "multipliers_product":
		return s.MultipliersProduct()
	case "tariff_total":
		return s.TariffTotal
	case "premium_total":
		return decimal.NewFromInt(s.PremiumTotal)
	}
	return nil
}

// BreakdownMultiplier is the serialized form of one multiplier.
type BreakdownMultiplier struct {
	Code  string  `json:"code"`
	Value string  `json:"value"`
	Note  *string `json:"note"`
}

// Breakdown is the full pricing decomposition exposed on the quote.
// Decimal amounts are rendered as exact strings; only the premium is an
// integer amount.
type Breakdown struct {
	BaseRate           string                `json:"base_rate"`
	Multipliers        []BreakdownMultiplier `json:"multipliers"`
	MultipliersProduct string                `json:"multipliers_product"`
	RiskWeightSum      int64                 `json:"risk_weight_sum"`
	FactorPerRiskUnit  string                `json:"factor_per_risk_unit"`
	DeductibleDiscount string                `json:"deductible_discount"`
	TariffTotal        string                `json:"tariff_total"`
	PremiumTotal       int64                 `json:"premium_total"`
}

// Breakdown snapshots the accumulator.
func (s *PricingState) Breakdown() Breakdown {
	multipliers := make([]BreakdownMultiplier, 0, len(s.Multipliers))
	for _, m := range s.Multipliers {
		multipliers = append(multipliers, BreakdownMultiplier{
			Code:  m.Code,
			Value: m.Value.String(),
			Note:  m.Note,
		})
	}
	return Breakdown{
		BaseRate:           s.BaseRate.String(),
		Multipliers:        multipliers,
		MultipliersProduct: s.MultipliersProduct().String(),
		RiskWeightSum:      s.RiskWeightSum,
		FactorPerRiskUnit:  s.FactorPerRiskUnit.String(),
		DeductibleDiscount: s.DeductibleDiscount.String(),
		TariffTotal:        s.TariffTotal.String(),
		PremiumTotal:       s.PremiumTotal,
	}
}
