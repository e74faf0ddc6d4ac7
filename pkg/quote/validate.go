package quote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"polaris-hq/borealis/pkg/catalog"
)

// ValidateAnswers type-checks and constraint-checks each visible answer
// against its field definition. It either returns the normalized answers
// (type-coerced, invisible fields excluded) or a single *ValidationError
// aggregating every field problem found; validation is never fail-fast.
//
// visible may be nil to validate without a visibility filter. With
// requireAllRequired set, every required visible field must carry a
// non-empty answer.
func ValidateAnswers(cat *catalog.Catalog, answers map[string]any, visible map[string]bool, requireAllRequired bool) (map[string]any, error) {
	fieldErrors := make(map[string]string)
	normalized := make(map[string]any)

	// Unknown field ids are rejected outright, keyed by the offending id.
	for id := range answers {
		if _, ok := cat.FieldByID(id); !ok {
			fieldErrors[id] = "Unknown field."
		}
	}

	for _, f := range cat.Fields() {
		if visible != nil && !visible[f.FieldID] {
			continue
		}

		raw, present := answers[f.FieldID]
		provided := present && raw != nil && raw != ""

		if f.Required && requireAllRequired && !provided {
			fieldErrors[f.FieldID] = "Field is required."
			continue
		}
		if !provided {
			continue
		}

		value, err := validateField(cat, &f, raw)
		if err != nil {
			fieldErrors[f.FieldID] = err.Error()
			continue
		}
		normalized[f.FieldID] = value
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{
			Title:       "Validation failed",
			Detail:      "One or more answers are invalid. Fix them and try again.",
			FieldErrors: fieldErrors,
		}
	}

	// Drop anything a visibility rule hid, even if it validated.
	if visible != nil {
		for id, vis := range visible {
			if !vis {
				delete(normalized, id)
			}
		}
	}

	return normalized, nil
}

func validateField(cat *catalog.Catalog, f *catalog.Field, raw any) (any, error) {
	switch f.DataType {
	case catalog.DataTypeInt:
		v, err := asInt(raw)
		if err != nil {
			return nil, err
		}
		if err := checkIntConstraints(v, f.Constraints); err != nil {
			return nil, err
		}
		return v, nil

	case catalog.DataTypeDecimal:
		// Decimal fields are engine outputs; still validated if supplied.
		return asDecimal(raw)

	case catalog.DataTypeString:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string")
		}
		if err := checkStringConstraints(v, f.Constraints); err != nil {
			return nil, err
		}
		if err := checkDictionaryString(cat, f, v); err != nil {
			return nil, err
		}
		return v, nil

	case catalog.DataTypeStringList:
		v, err := asCleanStringList(raw)
		if err != nil {
			return nil, err
		}
		if err := checkDictionaryList(cat, f, v); err != nil {
			return nil, err
		}
		return v, nil

	case catalog.DataTypeObject:
		if m, ok := raw.(map[string]any); ok {
			return m, nil
		}
		return nil, fmt.Errorf("expected an object")
	}
	return nil, fmt.Errorf("unsupported data_type %q", f.DataType)
}

func asInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("expected an integer")
		}
		return int64(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer")
		}
		return n, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, fmt.Errorf("expected an integer")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected an integer")
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected an integer")
}

func asDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("expected a number")
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("expected a number")
		}
		return d, nil
	}
	return decimal.Decimal{}, fmt.Errorf("expected a number")
}

// asCleanStringList coerces to []string and deduplicates while preserving
// first-seen order. A bare string arrives when a single selection was
// submitted without list wrapping.
func asCleanStringList(v any) ([]string, error) {
	var items []string
	switch x := v.(type) {
	case nil:
		items = nil
	case string:
		items = []string{x}
	case []string:
		items = x
	case []any:
		items = make([]string, 0, len(x))
		for _, e := range x {
			items = append(items, fmt.Sprintf("%v", e))
		}
	default:
		return nil, fmt.Errorf("expected a list of strings")
	}

	seen := make(map[string]bool, len(items))
	uniq := make([]string, 0, len(items))
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, s)
		}
	}
	return uniq, nil
}

func checkIntConstraints(v int64, c *catalog.Constraints) error {
	if c == nil {
		return nil
	}
	if c.Min != nil && v < *c.Min {
		return fmt.Errorf("value is below the minimum %d", *c.Min)
	}
	if c.Max != nil && v > *c.Max {
		return fmt.Errorf("value is above the maximum %d", *c.Max)
	}
	if c.Step != nil && *c.Step > 0 {
		min := int64(0)
		if c.Min != nil {
			min = *c.Min
		}
		if (v-min)%*c.Step != 0 {
			return fmt.Errorf("value does not align to the step %d", *c.Step)
		}
	}
	return nil
}

func checkStringConstraints(v string, c *catalog.Constraints) error {
	if c == nil {
		return nil
	}
	if c.MinLength != nil && len([]rune(v)) < *c.MinLength {
		return fmt.Errorf("too short (minimum %d characters)", *c.MinLength)
	}
	if c.MaxLength != nil && len([]rune(v)) > *c.MaxLength {
		return fmt.Errorf("too long (maximum %d characters)", *c.MaxLength)
	}
	return nil
}

func checkDictionaryString(cat *catalog.Catalog, f *catalog.Field, v string) error {
	if f.DictionaryID == "" {
		return nil
	}
	if _, ok := cat.DictionaryItemByID(f.DictionaryID, v); !ok {
		return fmt.Errorf("value is not in the dictionary")
	}
	return nil
}

func checkDictionaryList(cat *catalog.Catalog, f *catalog.Field, values []string) error {
	if f.DictionaryID == "" {
		return nil
	}
	var bad []string
	for _, v := range values {
		if _, ok := cat.DictionaryItemByID(f.DictionaryID, v); !ok {
			bad = append(bad, v)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("values are not in the dictionary: %s", strings.Join(bad, ", "))
	}
	return nil
}
