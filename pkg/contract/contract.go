package contract

import (
	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/quote"
)

// VCContext is the W3C verifiable-credential context the contract
// document is framed in.
const VCContext = "https://www.w3.org/2018/credentials/v1"

// Field and dictionary ids the contract narrative reads from the answers.
const (
	DictInsuranceObjects = "DICT_INSURANCE_OBJECTS"

	fieldInsuredSum    = "FLD_INSURED_SUM"
	fieldDeductible    = "FLD_DEDUCTIBLE"
	fieldCoverageLimit = "FLD_COVERAGE_LIMIT"
	fieldHolderName    = "FLD_POLICYHOLDER_NAME"
	fieldHolderPhone   = "FLD_POLICYHOLDER_PHONE"
	fieldHolderEmail   = "FLD_POLICYHOLDER_EMAIL"
)

// Params carries the quote-derived values the contract embeds. The
// contract builder performs no business logic of its own; it only renders
// what the pricing pipeline already produced.
type Params struct {
	QuoteID      string
	PolicyNumber string
	IssuedAtUTC  string
	PremiumTotal int64
	TariffTotal  float64
}

// Selection is one insured object or risk resolved to its dictionary
// label.
type Selection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Build assembles the verifiable-credential style contract document from
// validated answers and catalog label lookups.
func Build(cat *catalog.Catalog, answers map[string]any, p Params) map[string]any {
	appContext := map[string]any{
		"@vocab":        "https://example.invalid/polaris-insurance#",
		"quoteId":       "quoteId",
		"policyNumber":  "policyNumber",
		"currency":      "currency",
		"premium_total": "premium_total",
		"tariff_total":  "tariff_total",
		"holder":        "holder",
		"selections":    "selections",
	}

	objects := make([]Selection, 0)
	for _, id := range stringList(answers[quote.FieldObjectsSelected]) {
		objects = append(objects, Selection{ID: id, Label: cat.ItemLabel(DictInsuranceObjects, id)})
	}

	risks := make([]Selection, 0)
	for _, id := range SelectedRisks(cat, answers) {
		risks = append(risks, Selection{ID: id, Label: cat.ItemLabel(quote.DictRisks, id)})
	}

	selections := map[string]any{
		"objects": objects,
		"risks":   risks,
		"conditions": map[string]any{
			"insured_sum":    answers[fieldInsuredSum],
			"deductible":     answers[fieldDeductible],
			"coverage_limit": answers[fieldCoverageLimit],
		},
	}

	holder := map[string]any{
		"full_name": answers[fieldHolderName],
		"phone":     answers[fieldHolderPhone],
		"email":     answers[fieldHolderEmail],
	}

	return map[string]any{
		"@context":     []any{VCContext, appContext},
		"type":         []string{"VerifiableCredential", "InsurancePolicyCredential"},
		"issuer":       issuerName(cat),
		"issuanceDate": p.IssuedAtUTC,
		"credentialSubject": map[string]any{
			"quoteId":       p.QuoteID,
			"policyNumber":  p.PolicyNumber,
			"currency":      cat.Currency(),
			"premium_total": p.PremiumTotal,
			"tariff_total":  p.TariffTotal,
			"holder":        holder,
			"selections":    selections,
		},
	}
}

// SelectedRisks collects the risk ids selected across every risk-group
// field on the risks screen, deduplicated in first-seen order. The risk
// fields are discovered from the catalog rather than hard-coded.
func SelectedRisks(cat *catalog.Catalog, answers map[string]any) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range cat.FieldsForScreen(quote.ScreenRisks, "") {
		if f.DictionaryID != quote.DictRisks {
			continue
		}
		for _, id := range stringList(answers[f.FieldID]) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func issuerName(cat *catalog.Catalog) string {
	if cat.Document().Meta.Name != "" {
		return cat.Document().Meta.Name
	}
	return "Polaris Insurance (demo)"
}

func stringList(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
