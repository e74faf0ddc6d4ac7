// Package expr evaluates the restricted expression dialect used in catalog
// rules, computed fields, and pricing formulas.
//
// The dialect lets catalog authors (not engineers) write conditions and
// formulas without enabling arbitrary code execution: there is no host
// eval, no method calls, no loops, and every name, attribute root, and
// function call is checked against an allow-list supplied by the caller.
// All numeric literals evaluate to exact decimals so currency math never
// drifts through binary floats.
//
// The package is organized into subpackages:
//
//   - ast: tagged-variant expression tree definitions
//   - parser: hand-written lexer and recursive-descent parser
//   - errors: the RejectedError type shared by parser and evaluator
//
// # Basic Usage
//
//	env := expr.Env{"answers": expr.NewNamespace(answers)}
//	for name, fn := range expr.Builtins() {
//	    env[name] = fn
//	}
//	cfg := expr.ConfigForEnv(env, []string{"answers"})
//
//	v, err := expr.Evaluate("answers.FLD_DEDUCTIBLE > 0 ? 0.9 : 1", env, cfg)
//
// Evaluation is deterministic and side-effect-free unless the caller wires
// in a Callable that intentionally mutates shared state (the pricing
// engine's recompute hooks do). A single evaluation is pure CPU work over a
// small tree and needs no context or cancellation.
package expr
