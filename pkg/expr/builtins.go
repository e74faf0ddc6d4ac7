package expr

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Builtins returns the helper functions exposed to every expression
// context: includes, anySelected, count, coalesce, min, and the Decimal
// constructor. Callers copy the map into their env and extend it with any
// site-specific helpers (pricing adds round and the recompute hooks).
func Builtins() map[string]Callable {
	return map[string]Callable{
		"includes":    Includes,
		"anySelected": AnySelected,
		"count":       Count,
		"coalesce":    Coalesce,
		"min":         Min,
		"Decimal":     DecimalCtor,
	}
}

// Includes tests membership: substring for strings, element membership for
// lists. Null-safe; any type mismatch yields false rather than an error.
func Includes(args []any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("includes expects 2 arguments, got %d", len(args))
	}
	haystack, needle := args[0], args[1]
	if haystack == nil {
		return false, nil
	}
	if s, ok := haystack.(string); ok {
		return containsSubstring(s, formatValue(needle)), nil
	}
	if list, ok := toList(haystack); ok {
		for _, v := range list {
			if looseEqual(v, needle) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// AnySelected reports whether a list has at least one element.
func AnySelected(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("anySelected expects 1 argument, got %d", len(args))
	}
	list, ok := toList(args[0])
	return ok && len(list) > 0, nil
}

// Count returns the length of a list, zero for null or non-list values.
func Count(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("count expects 1 argument, got %d", len(args))
	}
	list, ok := toList(args[0])
	if !ok {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(int64(len(list))), nil
}

// Coalesce returns the first non-null argument, or null.
func Coalesce(args []any) (any, error) {
	for _, a := range args {
		if a != nil {
			return a, nil
		}
	}
	return nil, nil
}

// Min returns the smallest numeric argument.
func Min(args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("min expects at least 1 argument")
	}
	best, ok := toDecimal(args[0])
	if !ok {
		return nil, fmt.Errorf("min expects numeric arguments, got %s", typeName(args[0]))
	}
	for _, a := range args[1:] {
		d, ok := toDecimal(a)
		if !ok {
			return nil, fmt.Errorf("min expects numeric arguments, got %s", typeName(a))
		}
		if d.LessThan(best) {
			best = d
		}
	}
	return best, nil
}

// Round rounds half-to-even, matching the runtime the catalog formulas
// were authored against. An optional second argument gives the number of
// decimal places.
func Round(args []any) (any, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, fmt.Errorf("round expects 1 or 2 arguments, got %d", len(args))
	}
	d, ok := toDecimal(args[0])
	if !ok {
		return nil, fmt.Errorf("round expects a numeric argument, got %s", typeName(args[0]))
	}
	places := int64(0)
	if len(args) == 2 {
		p, ok := toDecimal(args[1])
		if !ok {
			return nil, fmt.Errorf("round expects a numeric precision, got %s", typeName(args[1]))
		}
		places = p.IntPart()
	}
	return d.RoundBank(int32(places)), nil
}

// DecimalCtor constructs an exact decimal from a string or number. It backs
// the Decimal('...') form catalogs use for explicit literal construction.
func DecimalCtor(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Decimal expects 1 argument, got %d", len(args))
	}
	switch x := args[0].(type) {
	case decimal.Decimal:
		return x, nil
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return nil, fmt.Errorf("Decimal: %w", err)
		}
		return d, nil
	}
	if d, ok := toDecimal(args[0]); ok {
		return d, nil
	}
	return nil, fmt.Errorf("Decimal cannot convert %s", typeName(args[0]))
}

// formatValue renders a value the way the dialect prints it, used for
// substring matching in Includes.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case decimal.Decimal:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}
