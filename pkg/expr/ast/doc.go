// Package ast defines the Abstract Syntax Tree for the catalog expression
// dialect used in quoting rules, computed fields, and pricing formulas.
//
// The dialect is deliberately small: literals (numbers are always exact
// decimals), single-quoted strings, lists and inline objects, allow-listed
// names with single-level dotted access, unary negation and logical not,
// short-circuiting && and ||, the four arithmetic operators, chained
// comparisons, nested ternaries, and direct calls to allow-listed functions.
//
// The tree is a tagged variant: every node is an *ast.Node whose Kind
// selects which fields are meaningful. The evaluator in pkg/expr walks the
// tree directly; there is no compilation step and no host-language eval.
package ast
