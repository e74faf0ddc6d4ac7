package quote

import (
	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/expr"
)

// Catalog ids the risk-category safety gate is keyed on. The gate itself
// is data-driven through each category's object_gate attribute; these ids
// locate that data in the document.
const (
	FieldObjectsSelected = "FLD_OBJECTS_SELECTED"
	ObjectAllRisks       = "OBJ_ALL_RISKS"
	DictRiskCategories   = "DICT_RISK_CATEGORIES"
	DictRisks            = "DICT_RISKS"
	ScreenRisks          = "SCR_03_RISKS"
)

// ComputeVisibility runs the catalog's visibility rules over the current
// answers and returns a visibility flag for every declared field.
//
// Every field starts visible. Rules apply in catalog order: a true `when`
// applies the rule's then-operations, otherwise its else-operations. The
// only recognized operation is set_visible, whose value is a literal
// boolean or an evaluated sub-expression. Later rules overwrite earlier
// decisions for the same field: last write wins, by contract.
func ComputeVisibility(cat *catalog.Catalog, answers, computed map[string]any) (map[string]bool, error) {
	visible := make(map[string]bool, len(cat.Fields()))
	for _, f := range cat.Fields() {
		visible[f.FieldID] = true
	}

	env, cfg := ruleEnv(answers, computed, nil, nil)

	for _, rule := range cat.Rules() {
		if rule.Type != catalog.RuleTypeVisibility {
			continue
		}
		when := rule.When
		if when == "" {
			when = "true"
		}
		cond, err := expr.EvaluateBool(when, env, cfg)
		if err != nil {
			return nil, err
		}
		ops := rule.Then
		if !cond {
			ops = rule.Else
		}
		for _, op := range ops {
			if op.Op != catalog.OpSetVisible {
				continue
			}
			val := false
			switch {
			case op.ValueExpr != "":
				v, err := expr.EvaluateBool(op.ValueExpr, env, cfg)
				if err != nil {
					return nil, err
				}
				val = v
			case op.Value != nil:
				val = *op.Value
			}
			visible[op.FieldID] = val
		}
	}

	return visible, nil
}

// ApplyRiskCategoryGates AND-composes a catalog-data-driven safety gate
// on top of the rule-computed visibility map: each risk-group field on the
// risks screen stays visible only while the user selected either the
// all-risks object or the object named by its category's object_gate.
//
// The gate composes with, and never replaces, rule decisions. Catalogs
// without a risk-category dictionary are left untouched.
func ApplyRiskCategoryGates(cat *catalog.Catalog, answers map[string]any, visible map[string]bool) map[string]bool {
	selected := make(map[string]bool)
	for _, id := range asStringList(answers[FieldObjectsSelected]) {
		selected[id] = true
	}
	hasAll := selected[ObjectAllRisks]

	items, ok := cat.DictionaryItems(DictRiskCategories)
	if !ok {
		return visible
	}
	gates := make(map[string]string, len(items))
	for _, it := range items {
		gates[it.ID] = it.ObjectGate
	}

	for _, f := range cat.FieldsForScreen(ScreenRisks, "") {
		if f.DictionaryFilter == nil {
			continue
		}
		gate := gates[f.DictionaryFilter.Equals]
		if gate == "" {
			continue
		}
		visible[f.FieldID] = visible[f.FieldID] && (hasAll || selected[gate])
	}
	return visible
}

// ClearInvisible returns a copy of answers with every hidden field's
// answer discarded. Invisible data is never validated and never reaches
// pricing.
func ClearInvisible(answers map[string]any, visible map[string]bool) map[string]any {
	cleaned := make(map[string]any, len(answers))
	for id, v := range answers {
		cleaned[id] = v
	}
	for id, vis := range visible {
		if !vis {
			delete(cleaned, id)
		}
	}
	return cleaned
}
