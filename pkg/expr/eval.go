package expr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"

	"polaris-hq/borealis/pkg/expr/ast"
	exprErrors "polaris-hq/borealis/pkg/expr/errors"
	"polaris-hq/borealis/pkg/expr/parser"
)

// Evaluate parses src and evaluates it against env under cfg. Parse
// failures and allow-list violations both surface as
// *errors.RejectedError; all other errors indicate an operand type the
// dialect cannot combine (for example dividing a string).
func Evaluate(src string, env Env, cfg *Config) (any, error) {
	node, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return EvaluateNode(node, env, cfg)
}

// EvaluateNode evaluates an already parsed expression tree. Evaluation is
// deterministic and side-effect-free except through Callables the caller
// chose to expose.
func EvaluateNode(node *ast.Node, env Env, cfg *Config) (any, error) {
	ev := &evaluator{env: env, cfg: cfg}
	return ev.eval(node)
}

// EvaluateBool evaluates src and reduces the result to its truthiness.
func EvaluateBool(src string, env Env, cfg *Config) (bool, error) {
	v, err := Evaluate(src, env, cfg)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

type evaluator struct {
	env Env
	cfg *Config
}

func (ev *evaluator) eval(n *ast.Node) (any, error) {
	switch n.Kind {
	case ast.KindLiteral:
		return n.Literal, nil

	case ast.KindList:
		out := make([]any, 0, len(n.Elems))
		for _, elem := range n.Elems {
			v, err := ev.eval(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case ast.KindObject:
		out := make(map[string]any, len(n.Entries))
		for _, e := range n.Entries {
			v, err := ev.eval(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = v
		}
		return out, nil

	case ast.KindName:
		if !ev.cfg.AllowedNames[n.Name] {
			return nil, exprErrors.Reject("name not allowed", n.Name, n.Pos)
		}
		return ev.env[n.Name], nil

	case ast.KindAttr:
		return ev.evalAttr(n)

	case ast.KindUnary:
		return ev.evalUnary(n)

	case ast.KindLogical:
		return ev.evalLogical(n)

	case ast.KindBinary:
		return ev.evalBinary(n)

	case ast.KindCompare:
		return ev.evalCompare(n)

	case ast.KindConditional:
		cond, err := ev.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return ev.eval(n.Then)
		}
		return ev.eval(n.Else)

	case ast.KindCall:
		return ev.evalCall(n)
	}
	return nil, exprErrors.Reject("unsupported expression node", string(n.Kind), n.Pos)
}

// evalAttr resolves single-level dotted access. Only bare allow-listed
// roots may be dotted into; deeper chains are rejected.
func (ev *evaluator) evalAttr(n *ast.Node) (any, error) {
	if n.X.Kind != ast.KindName {
		return nil, exprErrors.Reject("only simple dotted access is allowed", n.Name, n.Pos)
	}
	root := n.X.Name
	if !ev.cfg.AllowedAttrRoots[root] {
		return nil, exprErrors.Reject("attribute root not allowed", root, n.Pos)
	}
	obj, err := ev.eval(n.X)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case AttrResolver:
		return o.Attr(n.Name), nil
	case map[string]any:
		return o[n.Name], nil
	case nil:
		return nil, nil
	}
	return nil, exprErrors.Reject("attribute access on unsupported value", root+"."+n.Name, n.Pos)
}

func (ev *evaluator) evalUnary(n *ast.Node) (any, error) {
	operand, err := ev.eval(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNot:
		return !Truthy(operand), nil
	case ast.OpNeg:
		d, ok := toDecimal(operand)
		if !ok {
			return nil, fmt.Errorf("cannot negate %s", typeName(operand))
		}
		return d.Neg(), nil
	}
	return nil, exprErrors.Reject("unsupported unary operator", string(n.Op), n.Pos)
}

// evalLogical short-circuits left to right and always yields a boolean.
func (ev *evaluator) evalLogical(n *ast.Node) (any, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	lt := Truthy(left)
	if n.Op == ast.OpAnd && !lt {
		return false, nil
	}
	if n.Op == ast.OpOr && lt {
		return true, nil
	}
	right, err := ev.eval(n.Right)
	if err != nil {
		return nil, err
	}
	return Truthy(right), nil
}

func (ev *evaluator) evalBinary(n *ast.Node) (any, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.Right)
	if err != nil {
		return nil, err
	}

	if ls, lok := left.(string); lok && n.Op == ast.OpAdd {
		if rs, rok := right.(string); rok {
			return ls + rs, nil
		}
	}

	ld, lok := toDecimal(left)
	rd, rok := toDecimal(right)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q not supported for %s and %s",
			n.Op, typeName(left), typeName(right))
	}
	switch n.Op {
	case ast.OpAdd:
		return ld.Add(rd), nil
	case ast.OpSub:
		return ld.Sub(rd), nil
	case ast.OpMul:
		return ld.Mul(rd), nil
	case ast.OpDiv:
		if rd.IsZero() {
			return nil, fmt.Errorf("division by zero")
		}
		return ld.Div(rd), nil
	}
	return nil, exprErrors.Reject("unsupported binary operator", string(n.Op), n.Pos)
}

// evalCompare walks a comparison chain left to right, short-circuiting to
// false on the first failing link.
func (ev *evaluator) evalCompare(n *ast.Node) (any, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range n.Ops {
		right, err := ev.eval(n.Comparators[i])
		if err != nil {
			return nil, err
		}
		ok, err := compareLink(op, left, right)
		if err != nil {
			return nil, err
		}
		if !ok {
			return false, nil
		}
		left = right
	}
	return true, nil
}

func compareLink(op ast.Op, left, right any) (bool, error) {
	switch op {
	case ast.OpEq:
		return looseEqual(left, right), nil
	case ast.OpNe:
		return !looseEqual(left, right), nil
	}
	cmp, err := orderValues(left, right)
	if err != nil {
		return false, err
	}
	switch op {
	case ast.OpLt:
		return cmp < 0, nil
	case ast.OpGt:
		return cmp > 0, nil
	case ast.OpLe:
		return cmp <= 0, nil
	case ast.OpGe:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("unsupported comparison operator %q", op)
}

func (ev *evaluator) evalCall(n *ast.Node) (any, error) {
	if n.X.Kind != ast.KindName {
		return nil, exprErrors.Reject("only direct function calls are allowed", "", n.Pos)
	}
	name := n.X.Name
	if !ev.cfg.AllowedCallables[name] {
		return nil, exprErrors.Reject("call not allowed", name, n.Pos)
	}
	fn, ok := ev.env[name].(Callable)
	if !ok {
		return nil, exprErrors.Reject("name is not callable", name, n.Pos)
	}
	args := make([]any, 0, len(n.Elems))
	for _, a := range n.Elems {
		v, err := ev.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	out, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Truthy reduces an expression value to a boolean using empty/zero
// semantics: nil, false, zero, the empty string, and empty collections are
// false; everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case decimal.Decimal:
		return !x.IsZero()
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// toDecimal coerces the numeric representations that can appear in an
// environment (exact decimals from the parser, ints from validation,
// floats from raw catalog JSON) to an exact decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	}
	return decimal.Decimal{}, false
}

// toList widens the two list shapes answers can carry into []any.
func toList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ad, ok := toDecimal(a); ok {
		if bd, ok := toDecimal(b); ok {
			return ad.Equal(bd)
		}
		return false
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	if al, ok := toList(a); ok {
		bl, ok := toList(b)
		if !ok || len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !looseEqual(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func orderValues(a, b any) (int, error) {
	if ad, ok := toDecimal(a); ok {
		if bd, ok := toDecimal(b); ok {
			return ad.Cmp(bd), nil
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), nil
		}
	}
	return 0, fmt.Errorf("cannot order %s and %s", typeName(a), typeName(b))
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}
