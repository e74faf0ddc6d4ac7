package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const testDoc = `{
  "meta": {"name": "Test Product", "version": "1.0.0", "currency": "RUB"},
  "dictionaries": {
    "DICT_COLORS": {
      "label": "Colors",
      "items": [
        {"id": "RED", "label": "Red", "weight": 1},
        {"id": "BLUE", "weight": 2}
      ]
    }
  },
  "inventory": {
    "screens": [
      {"screen_id": "SCR_B", "order": 2, "title": "Second"},
      {"screen_id": "SCR_A", "order": 1, "title": "First"}
    ],
    "fields": [
      {"field_id": "FLD_ONE", "screen_id": "SCR_A", "data_type": "int", "required": true},
      {"field_id": "FLD_TWO", "screen_id": "SCR_A", "step": "s2", "data_type": "string"},
      {"field_id": "FLD_THREE", "screen_id": "SCR_B", "data_type": "string[]", "dictionary_id": "DICT_COLORS", "required": true}
    ],
    "actions": [
      {"action_id": "ACT_GO", "label": "Go", "kind": "submit"}
    ]
  },
  "rules": [
    {"rule_id": "RULE_1", "type": "visibility", "when": "true", "then": []}
  ],
  "computed": [
    {"computed_id": "CMP_1", "expr": "1 + 1"}
  ],
  "pricing": {
    "parameters": [
      {"key": "base_rate", "default": 0.012}
    ],
    "tariff_formula": {
      "tariff_total_expr": "pricing.base_rate",
      "premium_total_expr": "round(computeTariffTotal())"
    }
  }
}`

func parseTestDoc(t *testing.T) *Catalog {
	t.Helper()
	c, err := Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return c
}

func TestParse_Accessors(t *testing.T) {
	c := parseTestDoc(t)

	if c.Currency() != "RUB" {
		t.Errorf("Currency() = %q, want RUB", c.Currency())
	}
	if len(c.Fields()) != 3 {
		t.Errorf("len(Fields()) = %d, want 3", len(c.Fields()))
	}

	f, ok := c.FieldByID("FLD_TWO")
	if !ok {
		t.Fatal("FieldByID(FLD_TWO) not found")
	}
	if f.DataType != DataTypeString {
		t.Errorf("DataType = %q, want string", f.DataType)
	}
	if _, ok := c.FieldByID("FLD_NOPE"); ok {
		t.Error("FieldByID(FLD_NOPE) found, want miss")
	}

	if got := c.FieldsForScreen("SCR_A", ""); len(got) != 2 {
		t.Errorf("FieldsForScreen(SCR_A) = %d fields, want 2", len(got))
	}
	if got := c.FieldsForScreen("SCR_A", "s2"); len(got) != 1 || got[0].FieldID != "FLD_TWO" {
		t.Errorf("FieldsForScreen(SCR_A, s2) = %v, want [FLD_TWO]", got)
	}

	if got := c.RequiredFieldIDs(); len(got) != 2 {
		t.Errorf("RequiredFieldIDs() = %v, want 2 ids", got)
	}
}

func TestParse_ScreensSortedByOrder(t *testing.T) {
	c := parseTestDoc(t)
	screens := c.Screens()
	if len(screens) != 2 {
		t.Fatalf("len(Screens()) = %d, want 2", len(screens))
	}
	if screens[0].ScreenID != "SCR_A" || screens[1].ScreenID != "SCR_B" {
		t.Errorf("Screens() order = %s, %s; want SCR_A, SCR_B", screens[0].ScreenID, screens[1].ScreenID)
	}
}

func TestDictionaryLookups(t *testing.T) {
	c := parseTestDoc(t)

	items, ok := c.DictionaryItems("DICT_COLORS")
	if !ok || len(items) != 2 {
		t.Fatalf("DictionaryItems(DICT_COLORS) = %v, %v", items, ok)
	}
	if _, ok := c.DictionaryItems("DICT_NOPE"); ok {
		t.Error("DictionaryItems(DICT_NOPE) found, want miss")
	}

	item, ok := c.DictionaryItemByID("DICT_COLORS", "BLUE")
	if !ok {
		t.Fatal("DictionaryItemByID(BLUE) not found")
	}
	if item.Weight != 2 {
		t.Errorf("Weight = %d, want 2", item.Weight)
	}

	if got := c.ItemLabel("DICT_COLORS", "RED"); got != "Red" {
		t.Errorf("ItemLabel(RED) = %q, want Red", got)
	}
	// Items without a label and unknown ids fall back to the id itself.
	if got := c.ItemLabel("DICT_COLORS", "BLUE"); got != "BLUE" {
		t.Errorf("ItemLabel(BLUE) = %q, want BLUE", got)
	}
	if got := c.ItemLabel("DICT_COLORS", "GREEN"); got != "GREEN" {
		t.Errorf("ItemLabel(GREEN) = %q, want GREEN", got)
	}
}

func TestParse_KeepsParameterDefaultsExact(t *testing.T) {
	c := parseTestDoc(t)
	params := c.Pricing().Parameters
	if len(params) != 1 {
		t.Fatalf("len(Parameters) = %d, want 1", len(params))
	}
	if params[0].Default.String() != "0.012" {
		t.Errorf("Default = %q, want the exact text 0.012", params[0].Default)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse() succeeded on junk, want error")
	}
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load("../../catalog/schema.json")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if c.Currency() == "" {
		t.Error("shipped catalog has no currency")
	}
	if len(c.Rules()) == 0 {
		t.Error("shipped catalog has no rules")
	}
	if c.Pricing().TariffFormula.TariffTotalExpr == "" {
		t.Error("shipped catalog has no tariff formula")
	}
}

func TestActions_DeclarationOrder(t *testing.T) {
	c := parseTestDoc(t)
	acts := c.Actions()
	if len(acts) != 1 || acts[0].ActionID != "ACT_GO" || acts[0].Kind != "submit" {
		t.Errorf("Actions() = %v, want [ACT_GO submit]", acts)
	}

	shipped, err := Load("../../catalog/schema.json")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	want := []string{"ACT_BACK", "ACT_NEXT", "ACT_SUBMIT"}
	got := shipped.Actions()
	if len(got) != len(want) {
		t.Fatalf("len(Actions()) = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ActionID != id {
			t.Errorf("Actions()[%d] = %q, want %q", i, got[i].ActionID, id)
		}
	}
}

func TestStore_ReloadKeepsLastGoodOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(path, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	first := store.Current()
	if first.Currency() != "RUB" {
		t.Fatalf("Currency = %q, want RUB", first.Currency())
	}

	// Break the file; reload must fail and keep the previous catalog.
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err == nil {
		t.Error("Reload() succeeded on broken file, want error")
	}
	if store.Current() != first {
		t.Error("Current() changed after failed reload")
	}

	// Fix the file; reload must swap in the new catalog.
	fixed := []byte(testDoc)
	if err := os.WriteFile(path, fixed, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Errorf("Reload() failed after fix: %v", err)
	}
	if store.Current() == first {
		t.Error("Current() did not change after successful reload")
	}
}
