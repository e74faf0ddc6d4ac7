package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/contract"
	"polaris-hq/borealis/pkg/quote"
)

// quoteRequest is the body shape shared by the quote and policy endpoints.
type quoteRequest struct {
	Answers map[string]any `json:"answers"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleCatalog returns the full catalog document as loaded.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordCatalogRequest()
	writeJSON(w, http.StatusOK, s.store.Current().Document())
}

// handleQuote runs the full pipeline over the submitted answers and
// returns the priced quote.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	cat, validated, ok := s.runIntake(w, r)
	if !ok {
		return
	}

	start := time.Now()
	q, err := quote.BuildQuote(cat, validated)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.RecordQuote(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, q)
}

// handleContract prices the answers and returns the policy contract
// document derived from the quote.
func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	cat, validated, ok := s.runIntake(w, r)
	if !ok {
		return
	}

	q, err := quote.BuildQuote(cat, validated)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	doc := contract.Build(cat, validated, contractParams(q))
	writeJSON(w, http.StatusOK, doc)
}

// handlePDF prices the answers and renders the policy document as a PDF.
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	cat, validated, ok := s.runIntake(w, r)
	if !ok {
		return
	}

	q, err := quote.BuildQuote(cat, validated)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	pdf, err := contract.BuildPolicyPDF(cat, validated, contractParams(q))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// runIntake decodes the request body and runs the front half of the
// pipeline: visibility, risk-category gates, clearing invisible answers,
// then validation. On failure it writes the error response and returns
// ok=false.
func (s *Server) runIntake(w http.ResponseWriter, r *http.Request) (*catalog.Catalog, map[string]any, bool) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"title":     "Invalid request",
			"detail":    "Request body must be a JSON object.",
			"requestId": GetRequestID(r.Context()),
		})
		return nil, nil, false
	}
	answers := req.Answers
	if answers == nil {
		answers = map[string]any{}
	}

	cat := s.store.Current()

	visible, err := quote.ComputeVisibility(cat, answers, map[string]any{})
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	visible = quote.ApplyRiskCategoryGates(cat, answers, visible)
	answers = quote.ClearInvisible(answers, visible)

	validated, err := quote.ValidateAnswers(cat, answers, visible, true)
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	return cat, validated, true
}

// fail maps pipeline errors to HTTP responses. Validation failures are
// returned to the caller field by field; everything else is an opaque
// internal error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	if verr, ok := quote.AsValidationError(err); ok {
		s.metrics.RecordValidationFailure()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"title":       verr.Title,
			"detail":      verr.Detail,
			"fieldErrors": verr.FieldErrors,
			"requestId":   requestID,
		})
		return
	}

	slog.ErrorContext(r.Context(), "request failed",
		"error", err,
		"request_id", requestID,
		"path", r.URL.Path,
	)
	writeInternalError(w, r)
}

// contractParams derives the contract inputs from a priced quote.
func contractParams(q *quote.Quote) contract.Params {
	return contract.Params{
		QuoteID:      q.QuoteID,
		PolicyNumber: policyNumber(q.QuoteID),
		IssuedAtUTC:  time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		PremiumTotal: q.PremiumTotal,
		TariffTotal:  q.TariffTotal,
	}
}

// policyNumber derives the policy number from the quote identifier.
func policyNumber(quoteID string) string {
	prefix := quoteID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "NY-" + strings.ToUpper(prefix)
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeInternalError writes the opaque 500 response.
func writeInternalError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"title":     "Internal error",
		"detail":    "An internal error occurred. Please try again later.",
		"requestId": GetRequestID(r.Context()),
	})
}
