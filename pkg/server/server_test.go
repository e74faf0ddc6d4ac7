package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/config"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.Load("../../catalog/schema.json")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	cfg := config.NewDefaultConfig()
	srv := NewServer(&cfg.Server, catalog.NewStoreWith(cat))
	return srv.setupRoutes()
}

func baseAnswers() map[string]any {
	return map[string]any{
		"FLD_OBJECTS_SELECTED":    []string{"OBJ_SANTA"},
		"FLD_INSURED_SUM":         500000,
		"FLD_DEDUCTIBLE":          0,
		"FLD_COVERAGE_LIMIT":      500000,
		"FLD_POLICYHOLDER_NAME":   "Ivan Ivanov",
		"FLD_POLICYHOLDER_PHONE":  "+79990000000",
		"FLD_POLICYHOLDER_EMAIL":  "demo@example.test",
		"FLD_PAYMENT_METHOD":      "PAY_CARD",
		"FLD_RISKS_SLED":          []string{},
		"FLD_RISKS_REINDEER":      []string{},
		"FLD_RISKS_BAG":           []string{},
		"FLD_RISKS_ELVES":         []string{},
		"FLD_RISKS_PROD_BREAK":    []string{},
		"FLD_RISKS_TPL":           []string{},
		"FLD_RISKS_FORCE_MAJEURE": []string{},
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	handler := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetCatalog(t *testing.T) {
	handler := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	meta, ok := doc["meta"].(map[string]any)
	if !ok || meta["currency"] != "RUB" {
		t.Errorf("meta = %v, want currency RUB", doc["meta"])
	}
}

func TestPostQuote_OK(t *testing.T) {
	handler := testHandler(t)
	rec := postJSON(t, handler, "/api/quote", map[string]any{"answers": baseAnswers()})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["quoteId"] == "" || body["quoteId"] == nil {
		t.Error("quoteId missing")
	}
	if premium, ok := body["premium_total"].(float64); !ok || premium <= 0 {
		t.Errorf("premium_total = %v, want positive number", body["premium_total"])
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("X-Request-ID response header missing")
	}
}

func TestPostQuote_ValidationFailure(t *testing.T) {
	handler := testHandler(t)
	answers := baseAnswers()
	answers["FLD_OBJECTS_SELECTED"] = []string{"OBJ_NOPE"}
	rec := postJSON(t, handler, "/api/quote", map[string]any{"answers": answers})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	fieldErrors, ok := body["fieldErrors"].(map[string]any)
	if !ok {
		t.Fatalf("fieldErrors = %T, want object", body["fieldErrors"])
	}
	if _, ok := fieldErrors["FLD_OBJECTS_SELECTED"]; !ok {
		t.Errorf("fieldErrors = %v, want FLD_OBJECTS_SELECTED entry", fieldErrors)
	}
	if body["requestId"] == "" || body["requestId"] == nil {
		t.Error("requestId missing from error body")
	}
}

func TestPostQuote_MalformedBody(t *testing.T) {
	handler := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPostPolicyPDF(t *testing.T) {
	handler := testHandler(t)
	rec := postJSON(t, handler, "/api/policy/pdf", map[string]any{"answers": baseAnswers()})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("body prefix = %q, want %%PDF", rec.Body.Bytes()[:min(4, rec.Body.Len())])
	}
}

func TestPostPolicyContract(t *testing.T) {
	handler := testHandler(t)
	rec := postJSON(t, handler, "/api/policy/contract", map[string]any{"answers": baseAnswers()})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	subject, ok := doc["credentialSubject"].(map[string]any)
	if !ok {
		t.Fatalf("credentialSubject = %T, want object", doc["credentialSubject"])
	}
	policyNumber, _ := subject["policyNumber"].(string)
	if !strings.HasPrefix(policyNumber, "NY-") || len(policyNumber) != len("NY-")+8 {
		t.Errorf("policyNumber = %q, want NY- plus 8 characters", policyNumber)
	}
	if policyNumber != strings.ToUpper(policyNumber) {
		t.Errorf("policyNumber = %q, want upper case", policyNumber)
	}
}

func TestRequestIDEchoedFromClient(t *testing.T) {
	handler := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want the client-supplied id", got)
	}
}

func TestPolicyNumberDerivation(t *testing.T) {
	if got := policyNumber("abcdef12-3456"); got != "NY-ABCDEF12" {
		t.Errorf("policyNumber() = %q, want NY-ABCDEF12", got)
	}
	if got := policyNumber("ab"); got != "NY-AB" {
		t.Errorf("policyNumber() = %q, want NY-AB", got)
	}
}
