package catalog

import "encoding/json"

// Document is the raw shape of the catalog JSON: the declarative schema
// describing every field, dictionary, rule, and pricing formula the quoting
// wizard runs on. The document structure itself is trusted input supplied
// by catalog authors; the engines defend against malformed expressions and
// malformed answers, not against a malformed document.
type Document struct {
	Meta         Meta                  `json:"meta"`
	Dictionaries map[string]Dictionary `json:"dictionaries"`
	Inventory    Inventory             `json:"inventory"`
	Rules        []Rule                `json:"rules"`
	Computed     []Computed            `json:"computed"`
	Pricing      Pricing               `json:"pricing"`
}

// Meta carries catalog-level metadata.
type Meta struct {
	Name     string         `json:"name"`
	Version  string         `json:"version"`
	Currency string         `json:"currency"`
	Engine   map[string]any `json:"engine"`
}

// Dictionary is a named, ordered list of selectable items.
type Dictionary struct {
	Label string           `json:"label"`
	Items []DictionaryItem `json:"items"`
}

// DictionaryItem is one selectable option. Weight feeds risk-weight
// summation in pricing; Category groups risk items under a risk category;
// ObjectGate names the insured-object selection that unlocks a risk
// category.
type DictionaryItem struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Weight     int    `json:"weight"`
	Category   string `json:"category"`
	ObjectGate string `json:"object_gate"`
}

// Inventory groups the declared screens, fields, and actions.
type Inventory struct {
	Screens []Screen `json:"screens"`
	Fields  []Field  `json:"fields"`
	Actions []Action `json:"actions"`
}

// Screen is one wizard page.
type Screen struct {
	ScreenID string `json:"screen_id"`
	Order    int    `json:"order"`
	Title    string `json:"title"`
}

// Field is a single answerable unit with a declared data type, optional
// dictionary binding, and constraints.
type Field struct {
	FieldID          string            `json:"field_id"`
	ScreenID         string            `json:"screen_id"`
	Step             string            `json:"step"`
	Label            string            `json:"label"`
	DataType         string            `json:"data_type"`
	Required         bool              `json:"required"`
	Constraints      *Constraints      `json:"constraints"`
	DictionaryID     string            `json:"dictionary_id"`
	DictionaryFilter *DictionaryFilter `json:"dictionary_filter"`
}

// Field data types. The validation engine coerces each answer to its
// field's declared type before constraint checks.
const (
	DataTypeInt        = "int"
	DataTypeDecimal    = "decimal"
	DataTypeString     = "string"
	DataTypeStringList = "string[]"
	DataTypeObject     = "object"
)

// Constraints holds the per-type validation limits. Pointer fields
// distinguish "absent" from zero.
type Constraints struct {
	Min       *int64 `json:"min"`
	Max       *int64 `json:"max"`
	Step      *int64 `json:"step"`
	MinLength *int   `json:"min_length"`
	MaxLength *int   `json:"max_length"`
}

// DictionaryFilter restricts a field's dictionary binding to the items
// matching a value (used to split one risk dictionary across per-category
// fields).
type DictionaryFilter struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// Action is a declared wizard action (navigation, submit). The engines do
// not interpret actions; they are surfaced for the UI layer.
type Action struct {
	ActionID string `json:"action_id"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
}

// Rule types. Visibility rules toggle field visibility; pricing rules
// drive the pricing accumulator.
const (
	RuleTypeVisibility = "visibility"
	RuleTypePricing    = "pricing"
)

// Rule is a catalog-declared conditional. When holds an expression in the
// catalog dialect; an empty When defaults to true. Rules run in declaration
// order, which is semantically significant for both rule kinds.
type Rule struct {
	RuleID string      `json:"rule_id"`
	Type   string      `json:"type"`
	When   string      `json:"when"`
	Then   []Operation `json:"then"`
	Else   []Operation `json:"else"`
}

// Operation op names.
const (
	OpSetVisible           = "set_visible"
	OpPricingReset         = "pricing_reset"
	OpPricingSet           = "pricing_set"
	OpPricingAddMultiplier = "pricing_add_multiplier"
	OpPricingCompute       = "pricing_compute"
)

// Operation is a single rule operation. Only the fields relevant to the Op
// are populated.
type Operation struct {
	Op string `json:"op"`

	// set_visible
	FieldID   string `json:"field_id"`
	Value     *bool  `json:"value"`
	ValueExpr string `json:"value_expr"`

	// pricing_set reuses ValueExpr.
	Key string `json:"key"`

	// pricing_add_multiplier
	Code           string `json:"code"`
	MultiplierExpr string `json:"multiplier_expr"`
	NoteExpr       string `json:"note_expr"`

	// pricing_compute
	Outputs []Output `json:"outputs"`
}

// Output maps a target field id to a value expression evaluated when a
// pricing pass finalizes.
type Output struct {
	TargetFieldID string `json:"target_field_id"`
	ValueExpr     string `json:"value_expr"`
}

// Computed is a named intermediate value derived once per quote build.
// Entries evaluate strictly in declaration order; later entries may
// reference earlier ones.
type Computed struct {
	ComputedID string `json:"computed_id"`
	Expr       string `json:"expr"`
}

// Pricing groups the parameter defaults and the two top-level formulas.
type Pricing struct {
	Parameters    []Parameter   `json:"parameters"`
	TariffFormula TariffFormula `json:"tariff_formula"`
}

// Parameter declares a pricing parameter and its default. Default is kept
// as a json.Number so the exact decimal text survives into pricing math.
type Parameter struct {
	Key     string      `json:"key"`
	Label   string      `json:"label"`
	Default json.Number `json:"default"`
}

// TariffFormula holds the catalog's two named expressions: the total
// tariff and the total premium.
type TariffFormula struct {
	TariffTotalExpr  string `json:"tariff_total_expr"`
	PremiumTotalExpr string `json:"premium_total_expr"`
}
