package quote

import (
	"encoding/json"
	"testing"

	"polaris-hq/borealis/pkg/catalog"
)

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load("../../catalog/schema.json")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return c
}

// baseAnswers is the minimal valid answer set, shaped the way decoded
// request JSON arrives (float64 numbers, []any lists).
func baseAnswers() map[string]any {
	return map[string]any{
		"FLD_OBJECTS_SELECTED":    []any{"OBJ_SANTA"},
		"FLD_INSURED_SUM":         float64(500000),
		"FLD_DEDUCTIBLE":          float64(0),
		"FLD_COVERAGE_LIMIT":      float64(500000),
		"FLD_POLICYHOLDER_NAME":   "Ivan Ivanov",
		"FLD_POLICYHOLDER_PHONE":  "+79990000000",
		"FLD_POLICYHOLDER_EMAIL":  "demo@example.test",
		"FLD_PAYMENT_METHOD":      "PAY_CARD",
		"FLD_RISKS_SLED":          []any{},
		"FLD_RISKS_REINDEER":      []any{},
		"FLD_RISKS_BAG":           []any{},
		"FLD_RISKS_ELVES":         []any{},
		"FLD_RISKS_PROD_BREAK":    []any{},
		"FLD_RISKS_TPL":           []any{},
		"FLD_RISKS_FORCE_MAJEURE": []any{},
	}
}

// runPipeline mirrors the API handlers: visibility, gates, clearing,
// validation, then the quote build.
func runPipeline(t *testing.T, cat *catalog.Catalog, answers map[string]any) *Quote {
	t.Helper()
	validated := runIntake(t, cat, answers)
	q, err := BuildQuote(cat, validated)
	if err != nil {
		t.Fatalf("BuildQuote() failed: %v", err)
	}
	return q
}

func runIntake(t *testing.T, cat *catalog.Catalog, answers map[string]any) map[string]any {
	t.Helper()
	visible, err := ComputeVisibility(cat, answers, map[string]any{})
	if err != nil {
		t.Fatalf("ComputeVisibility() failed: %v", err)
	}
	visible = ApplyRiskCategoryGates(cat, answers, visible)
	answers = ClearInvisible(answers, visible)
	validated, err := ValidateAnswers(cat, answers, visible, true)
	if err != nil {
		t.Fatalf("ValidateAnswers() failed: %v", err)
	}
	return validated
}

func TestPipeline_BaseScenario(t *testing.T) {
	cat := loadTestCatalog(t)
	q := runPipeline(t, cat, baseAnswers())

	if q.QuoteID == "" {
		t.Error("QuoteID is empty")
	}
	if q.Currency != "RUB" {
		t.Errorf("Currency = %q, want RUB", q.Currency)
	}
	if q.PremiumTotal <= 0 {
		t.Errorf("PremiumTotal = %d, want positive", q.PremiumTotal)
	}
	// base_rate 0.012 * 500000, no risks, no multipliers, no deductible.
	if q.PremiumTotal != 6000 {
		t.Errorf("PremiumTotal = %d, want 6000", q.PremiumTotal)
	}
	if q.TariffTotal != 6000 {
		t.Errorf("TariffTotal = %v, want 6000", q.TariffTotal)
	}
	if len(q.Warnings) != 0 {
		t.Errorf("Warnings = %v, want empty", q.Warnings)
	}
}

func TestPipeline_DeterministicExceptQuoteID(t *testing.T) {
	cat := loadTestCatalog(t)
	q1 := runPipeline(t, cat, baseAnswers())
	q2 := runPipeline(t, cat, baseAnswers())

	if q1.QuoteID == q2.QuoteID {
		t.Error("QuoteID repeated across builds")
	}
	if q1.PremiumTotal != q2.PremiumTotal {
		t.Errorf("PremiumTotal differs: %d vs %d", q1.PremiumTotal, q2.PremiumTotal)
	}
	if q1.TariffTotal != q2.TariffTotal {
		t.Errorf("TariffTotal differs: %v vs %v", q1.TariffTotal, q2.TariffTotal)
	}
	b1, _ := json.Marshal(q1.Breakdown)
	b2, _ := json.Marshal(q2.Breakdown)
	if string(b1) != string(b2) {
		t.Errorf("Breakdown differs:\n%s\n%s", b1, b2)
	}
}

func TestPipeline_MonotonicityAddingRisk(t *testing.T) {
	cat := loadTestCatalog(t)

	one := baseAnswers()
	one["FLD_RISKS_TPL"] = []any{"R_TPL_CHIMNEY_DAMAGE"}
	q1 := runPipeline(t, cat, one)

	two := baseAnswers()
	two["FLD_RISKS_TPL"] = []any{"R_TPL_CHIMNEY_DAMAGE", "R_TPL_ROOF_DAMAGE"}
	q2 := runPipeline(t, cat, two)

	if q2.PremiumTotal < q1.PremiumTotal {
		t.Errorf("premium decreased when adding a risk: %d -> %d", q1.PremiumTotal, q2.PremiumTotal)
	}
	if q1.PremiumTotal <= 6000 {
		t.Errorf("premium with one risk = %d, want above the riskless 6000", q1.PremiumTotal)
	}
}

func TestPipeline_GatedRisksDoNotPrice(t *testing.T) {
	cat := loadTestCatalog(t)

	// Sled risks are gated behind OBJ_SLED; with only OBJ_SANTA selected
	// the answer is cleared before pricing and must not move the premium.
	ans := baseAnswers()
	ans["FLD_RISKS_SLED"] = []any{"R_SLED_THEFT"}
	q := runPipeline(t, cat, ans)
	if q.PremiumTotal != 6000 {
		t.Errorf("PremiumTotal = %d, want 6000 (gated risk cleared)", q.PremiumTotal)
	}

	// Selecting the sled object unlocks the category.
	ans = baseAnswers()
	ans["FLD_OBJECTS_SELECTED"] = []any{"OBJ_SANTA", "OBJ_SLED"}
	ans["FLD_RISKS_SLED"] = []any{"R_SLED_THEFT"}
	q = runPipeline(t, cat, ans)
	if q.PremiumTotal <= 6000 {
		t.Errorf("PremiumTotal = %d, want above 6000 (risk now priced)", q.PremiumTotal)
	}
}

func TestQuote_MarshalFlattensOutputs(t *testing.T) {
	cat := loadTestCatalog(t)
	q := runPipeline(t, cat, baseAnswers())

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	for _, key := range []string{
		"quoteId", "currency", "premium_total", "tariff_total",
		"breakdown", "computed", "validatedAnswers", "warnings",
		"FLD_TARIFF_TOTAL", "FLD_PREMIUM_TOTAL", "FLD_BREAKDOWN",
	} {
		if _, ok := body[key]; !ok {
			t.Errorf("serialized quote missing key %q", key)
		}
	}

	if v, ok := body["FLD_TARIFF_TOTAL"].(float64); !ok || v != 6000 {
		t.Errorf("FLD_TARIFF_TOTAL = %v, want 6000", body["FLD_TARIFF_TOTAL"])
	}
	if v, ok := body["FLD_PREMIUM_TOTAL"].(float64); !ok || v != 6000 {
		t.Errorf("FLD_PREMIUM_TOTAL = %v, want 6000", body["FLD_PREMIUM_TOTAL"])
	}

	breakdown, ok := body["breakdown"].(map[string]any)
	if !ok {
		t.Fatalf("breakdown = %T, want object", body["breakdown"])
	}
	// Decimal amounts in the breakdown serialize as exact strings.
	if v, ok := breakdown["base_rate"].(string); !ok || v != "6000" {
		t.Errorf("breakdown.base_rate = %v, want the string 6000", breakdown["base_rate"])
	}
}
