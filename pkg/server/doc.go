// Package server implements the HTTP API for the Polaris quoting service.
//
// Endpoints:
//
//	GET  /healthz              liveness probe
//	GET  /metrics              Prometheus metrics
//	GET  /api/catalog          the catalog document as loaded
//	POST /api/quote            price a set of answers
//	POST /api/policy/contract  price and build the contract document
//	POST /api/policy/pdf       price and render the policy PDF
//
// The quote and policy endpoints accept {"answers": {...}} and run the
// same pipeline: visibility, risk-category gates, clearing of invisible
// answers, validation, then pricing. Validation failures come back as
// 400 with per-field messages; any other failure is an opaque 500. Both
// carry the request ID assigned by the middleware chain.
package server
