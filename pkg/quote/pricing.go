package quote

import (
	"fmt"

	"github.com/shopspring/decimal"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/expr"
)

// BuildParams maps every declared pricing parameter to its exact decimal
// default (zero when no default is declared).
func BuildParams(cat *catalog.Catalog) (map[string]decimal.Decimal, error) {
	params := make(map[string]decimal.Decimal)
	for _, p := range cat.Pricing().Parameters {
		if p.Default == "" {
			params[p.Key] = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(p.Default.String())
		if err != nil {
			return nil, fmt.Errorf("pricing parameter %q has a non-numeric default %q: %w", p.Key, p.Default, err)
		}
		params[p.Key] = d
	}
	return params, nil
}

// ComputeComputed evaluates every computed entry in catalog order. Each
// entry sees the entries evaluated before it; forward references are not
// supported. Evaluation is strictly sequential, single pass.
func ComputeComputed(cat *catalog.Catalog, answers map[string]any, params map[string]decimal.Decimal) (map[string]any, error) {
	computed := make(map[string]any)
	for _, c := range cat.ComputedEntries() {
		env, cfg := ruleEnv(answers, computed, params, nil)
		v, err := expr.Evaluate(c.Expr, env, cfg)
		if err != nil {
			return nil, fmt.Errorf("computed %q: %w", c.ComputedID, err)
		}
		computed[c.ComputedID] = v
	}
	return computed, nil
}

// SumRiskWeights sums the dictionary-declared weights of every risk id in
// the given selection lists. Unknown risk ids weigh zero.
func SumRiskWeights(cat *catalog.Catalog, riskLists ...[]string) int64 {
	weights := make(map[string]int64)
	if items, ok := cat.DictionaryItems(DictRisks); ok {
		for _, it := range items {
			weights[it.ID] = int64(it.Weight)
		}
	}
	var total int64
	for _, list := range riskLists {
		for _, id := range list {
			total += weights[id]
		}
	}
	return total
}

// pricer carries the per-request state of one pricing pass: the catalog,
// the validated answers, the parameter map, and the single mutable
// accumulator the rules build up.
type pricer struct {
	cat     *catalog.Catalog
	answers map[string]any
	params  map[string]decimal.Decimal
	state   *PricingState

	env expr.Env
	cfg *expr.Config
}

func newPricer(cat *catalog.Catalog, answers, computed map[string]any, params map[string]decimal.Decimal) *pricer {
	p := &pricer{
		cat:     cat,
		answers: answers,
		params:  params,
		state:   NewPricingState(),
	}

	env, _ := ruleEnv(answers, computed, params, p.state)

	// Pricing-only helpers. The recompute hooks read (and, through the
	// formulas, depend on) the live accumulator, so they are allow-listed
	// here and nowhere else.
	env["round"] = expr.Callable(expr.Round)
	env["sumRiskWeights"] = expr.Callable(p.helperSumRiskWeights)
	env["computeTariffTotal"] = expr.Callable(p.helperComputeTariffTotal)
	env["computePremiumTotal"] = expr.Callable(p.helperComputePremiumTotal)
	env["computeBreakdown"] = expr.Callable(p.helperComputeBreakdown)

	p.env = env
	p.cfg = expr.ConfigForEnv(env, attrRoots)
	return p
}

func (p *pricer) helperSumRiskWeights(args []any) (any, error) {
	lists := make([][]string, 0, len(args))
	for _, a := range args {
		lists = append(lists, asAnyStringList(a))
	}
	return decimal.NewFromInt(SumRiskWeights(p.cat, lists...)), nil
}

func (p *pricer) helperComputeTariffTotal(args []any) (any, error) {
	return p.computeTariffTotal()
}

func (p *pricer) helperComputePremiumTotal(args []any) (any, error) {
	n, err := p.computePremiumTotal()
	if err != nil {
		return nil, err
	}
	return decimal.NewFromInt(n), nil
}

func (p *pricer) helperComputeBreakdown(args []any) (any, error) {
	return p.state.Breakdown(), nil
}

// computeTariffTotal evaluates the catalog's tariff-total formula against
// the current accumulator state.
func (p *pricer) computeTariffTotal() (decimal.Decimal, error) {
	v, err := expr.Evaluate(p.cat.Pricing().TariffFormula.TariffTotalExpr, p.env, p.cfg)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("tariff_total_expr: %w", err)
	}
	d, err := asDecimal(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("tariff_total_expr yielded a non-numeric value: %w", err)
	}
	return d, nil
}

// computePremiumTotal evaluates the premium-total formula and coerces to
// an integer amount by truncation; any rounding is the formula's job.
func (p *pricer) computePremiumTotal() (int64, error) {
	v, err := expr.Evaluate(p.cat.Pricing().TariffFormula.PremiumTotalExpr, p.env, p.cfg)
	if err != nil {
		return 0, fmt.Errorf("premium_total_expr: %w", err)
	}
	d, err := asDecimal(v)
	if err != nil {
		return 0, fmt.Errorf("premium_total_expr yielded a non-numeric value: %w", err)
	}
	return d.IntPart(), nil
}

// ExecutePricing runs pricing-typed rules in catalog order against a fresh
// accumulator and returns it together with the finalize outputs.
//
// A rule's `when` defaults to true and a false `when` skips the rule
// outright (pricing rules have no else branch). The first pricing_compute
// finalizes the pass: totals are recomputed, outputs evaluated, and the
// engine returns immediately. Remaining rules never run.
func ExecutePricing(cat *catalog.Catalog, answers, computed map[string]any, params map[string]decimal.Decimal) (*PricingState, map[string]any, error) {
	p := newPricer(cat, answers, computed, params)

	for _, rule := range cat.Rules() {
		if rule.Type != catalog.RuleTypePricing {
			continue
		}
		when := rule.When
		if when == "" {
			when = "true"
		}
		cond, err := expr.EvaluateBool(when, p.env, p.cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("pricing rule %q: %w", rule.RuleID, err)
		}
		if !cond {
			continue
		}

		for _, op := range rule.Then {
			switch op.Op {
			case catalog.OpPricingReset:
				p.state.Reset()

			case catalog.OpPricingSet:
				if err := p.applySet(op); err != nil {
					return nil, nil, fmt.Errorf("pricing rule %q: %w", rule.RuleID, err)
				}

			case catalog.OpPricingAddMultiplier:
				if err := p.applyAddMultiplier(op); err != nil {
					return nil, nil, fmt.Errorf("pricing rule %q: %w", rule.RuleID, err)
				}

			case catalog.OpPricingCompute:
				outputs, err := p.finalize(op)
				if err != nil {
					return nil, nil, fmt.Errorf("pricing rule %q: %w", rule.RuleID, err)
				}
				return p.state, outputs, nil

			default:
				return nil, nil, fmt.Errorf("%w: %q", ErrUnknownPricingOp, op.Op)
			}
		}
	}

	return p.state, map[string]any{}, nil
}

func (p *pricer) applySet(op catalog.Operation) error {
	v, err := expr.Evaluate(op.ValueExpr, p.env, p.cfg)
	if err != nil {
		return fmt.Errorf("pricing_set %q: %w", op.Key, err)
	}
	switch op.Key {
	case "base_rate":
		d, err := asDecimal(v)
		if err != nil {
			return fmt.Errorf("pricing_set base_rate: %w", err)
		}
		p.state.BaseRate = d
	case "factor_per_risk_unit":
		d, err := asDecimal(v)
		if err != nil {
			return fmt.Errorf("pricing_set factor_per_risk_unit: %w", err)
		}
		p.state.FactorPerRiskUnit = d
	case "deductible_discount":
		d, err := asDecimal(v)
		if err != nil {
			return fmt.Errorf("pricing_set deductible_discount: %w", err)
		}
		p.state.DeductibleDiscount = d
	case "risk_weight_sum":
		d, err := asDecimal(v)
		if err != nil {
			return fmt.Errorf("pricing_set risk_weight_sum: %w", err)
		}
		p.state.RiskWeightSum = d.IntPart()
	default:
		return fmt.Errorf("pricing_set targets unknown accumulator field %q", op.Key)
	}
	return nil
}

func (p *pricer) applyAddMultiplier(op catalog.Operation) error {
	v, err := expr.Evaluate(op.MultiplierExpr, p.env, p.cfg)
	if err != nil {
		return fmt.Errorf("pricing_add_multiplier %q: %w", op.Code, err)
	}
	d, err := asDecimal(v)
	if err != nil {
		return fmt.Errorf("pricing_add_multiplier %q: %w", op.Code, err)
	}
	var note *string
	if op.NoteExpr != "" {
		nv, err := expr.Evaluate(op.NoteExpr, p.env, p.cfg)
		if err != nil {
			return fmt.Errorf("pricing_add_multiplier %q note: %w", op.Code, err)
		}
		if nv != nil {
			s := fmt.Sprintf("%v", nv)
			note = &s
		}
	}
	p.state.Multipliers = append(p.state.Multipliers, Multiplier{Code: op.Code, Value: d, Note: note})
	return nil
}

// finalize recomputes the accumulator's totals from the catalog formulas
// and evaluates the declared output mappings. Direct references to the
// three recompute helpers resolve to the just-computed values instead of
// re-evaluating, which keeps self-referencing formulas from recursing.
func (p *pricer) finalize(op catalog.Operation) (map[string]any, error) {
	tariff, err := p.computeTariffTotal()
	if err != nil {
		return nil, err
	}
	p.state.TariffTotal = tariff

	premium, err := p.computePremiumTotal()
	if err != nil {
		return nil, err
	}
	p.state.PremiumTotal = premium

	outputs := make(map[string]any, len(op.Outputs))
	for _, out := range op.Outputs {
		switch out.ValueExpr {
		case "computeTariffTotal()":
			outputs[out.TargetFieldID] = p.state.TariffTotal
		case "computePremiumTotal()":
			outputs[out.TargetFieldID] = p.state.PremiumTotal
		case "computeBreakdown()":
			outputs[out.TargetFieldID] = p.state.Breakdown()
		default:
			v, err := expr.Evaluate(out.ValueExpr, p.env, p.cfg)
			if err != nil {
				return nil, fmt.Errorf("output %q: %w", out.TargetFieldID, err)
			}
			outputs[out.TargetFieldID] = v
		}
	}
	return outputs, nil
}

// asAnyStringList is asStringList tolerant of a nil expression value.
func asAnyStringList(v any) []string {
	if v == nil {
		return nil
	}
	return asStringList(v)
}
