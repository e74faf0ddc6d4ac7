// Package catalog loads the declarative quoting schema and exposes it as
// an immutable, order-preserving read view.
//
// The catalog document describes everything the quoting engines replay:
// fields with types and constraints, dictionaries of selectable items,
// visibility and pricing rules, computed-field expressions, and pricing
// parameters and formulas. It is loaded once at startup and cached; the
// only mutation path is the optional Watcher, which swaps a freshly loaded
// document into the Store atomically.
//
// Declaration order is part of the contract: rules evaluate in catalog
// order (later visibility writes win) and computed entries evaluate
// strictly sequentially.
package catalog
