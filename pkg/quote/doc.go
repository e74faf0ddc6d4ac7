// Package quote implements the three rule engines that replay the catalog
// over an answer set: visibility, validation, and pricing.
//
// The mandatory pipeline for any externally supplied answers is:
//
//	vis, _ := quote.ComputeVisibility(cat, answers, nil)
//	vis = quote.ApplyRiskCategoryGates(cat, answers, vis)
//	answers = quote.ClearInvisible(answers, vis)
//	validated, err := quote.ValidateAnswers(cat, answers, vis, true)
//	q, err := quote.BuildQuote(cat, validated)
//
// Skipping steps (for example pricing unvalidated answers) is unsupported
// and may produce undefined results.
//
// Two error kinds cross the package boundary. *ValidationError is the
// recoverable, user-facing aggregate of per-field problems. Everything
// else (rejected expressions, unknown pricing operations) signals a
// catalog-authoring defect and is opaque to end users.
//
// Each call builds its own environment and accumulator; the catalog is the
// only shared input and is never mutated, so concurrent invocations need
// no locks.
package quote
