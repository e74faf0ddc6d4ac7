package quote

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"polaris-hq/borealis/pkg/catalog"
)

// Output field ids the quote assembly gives a fixed numeric
// representation.
const (
	FieldTariffTotal  = "FLD_TARIFF_TOTAL"
	FieldPremiumTotal = "FLD_PREMIUM_TOTAL"
)

// Quote is the immutable priced result. Outputs carries the
// catalog-declared extra output fields; they are flattened to the top
// level when the quote is serialized, next to the fixed keys.
type Quote struct {
	QuoteID          string
	Currency         string
	PremiumTotal     int64
	TariffTotal      float64
	Breakdown        Breakdown
	Computed         map[string]any
	ValidatedAnswers map[string]any
	Outputs          map[string]any
	Warnings         []string
}

// BuildQuote prices validated answers: loads parameter defaults, evaluates
// computed fields in catalog order, executes the pricing rules, and
// assembles the quote under a fresh random identifier.
//
// For a fixed catalog and fixed answers everything but the QuoteID is
// deterministic. Callers must only pass answers that already went through
// visibility filtering and validation.
func BuildQuote(cat *catalog.Catalog, validated map[string]any) (*Quote, error) {
	params, err := BuildParams(cat)
	if err != nil {
		return nil, err
	}
	computed, err := ComputeComputed(cat, validated, params)
	if err != nil {
		return nil, err
	}
	state, outputs, err := ExecutePricing(cat, validated, computed, params)
	if err != nil {
		return nil, err
	}

	normalized := make(map[string]any, len(outputs))
	for id, v := range outputs {
		switch id {
		case FieldTariffTotal:
			d, err := asDecimal(v)
			if err != nil {
				return nil, err
			}
			normalized[id] = d.InexactFloat64()
		case FieldPremiumTotal:
			d, err := asDecimal(v)
			if err != nil {
				return nil, err
			}
			normalized[id] = d.IntPart()
		default:
			normalized[id] = jsonValue(v)
		}
	}

	return &Quote{
		QuoteID:          uuid.NewString(),
		Currency:         cat.Currency(),
		PremiumTotal:     state.PremiumTotal,
		TariffTotal:      state.TariffTotal.InexactFloat64(),
		Breakdown:        state.Breakdown(),
		Computed:         jsonMap(computed),
		ValidatedAnswers: jsonMap(validated),
		Outputs:          normalized,
		Warnings:         []string{},
	}, nil
}

// MarshalJSON serializes the quote with the catalog-declared output fields
// flattened alongside the fixed keys.
func (q *Quote) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8+len(q.Outputs))
	out["quoteId"] = q.QuoteID
	out["currency"] = q.Currency
	out["premium_total"] = q.PremiumTotal
	out["tariff_total"] = q.TariffTotal
	out["breakdown"] = q.Breakdown
	out["computed"] = q.Computed
	out["validatedAnswers"] = q.ValidatedAnswers
	out["warnings"] = q.Warnings
	for id, v := range q.Outputs {
		out[id] = v
	}
	return json.Marshal(out)
}

// jsonValue converts expression values to their plain JSON
// representation: exact decimals become numbers, lists and maps recurse.
func jsonValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	case map[string]any:
		return jsonMap(x)
	}
	return v
}

func jsonMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = jsonValue(v)
	}
	return out
}
