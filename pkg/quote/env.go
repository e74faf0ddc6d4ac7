package quote

import (
	"github.com/shopspring/decimal"

	"polaris-hq/borealis/pkg/expr"
)

// attrRoots are the only names expressions may dot into, in every
// evaluation context the quoting engines build.
var attrRoots = []string{"answers", "computed", "params", "pricing"}

// ruleEnv assembles the environment for visibility rules and computed
// fields: answers and computed namespaces, pricing parameters, an empty
// (or live) pricing root, and the shared builtins. The allow-lists are
// derived from exactly what the env holds.
func ruleEnv(answers, computed map[string]any, params map[string]decimal.Decimal, pricing any) (expr.Env, *expr.Config) {
	env := expr.Env{
		"answers":  expr.NewNamespace(answers),
		"computed": expr.NewNamespace(computed),
		"params":   expr.NewNamespace(paramsAsAny(params)),
		"pricing":  pricing,
	}
	if pricing == nil {
		env["pricing"] = expr.NewNamespace(nil)
	}
	for name, fn := range expr.Builtins() {
		env[name] = fn
	}
	return env, expr.ConfigForEnv(env, attrRoots)
}

func paramsAsAny(params map[string]decimal.Decimal) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// asStringList widens an answer value to a string slice; non-list values
// yield nil.
func asStringList(v any) []string {
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
