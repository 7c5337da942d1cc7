package drafts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"legalmail-backend/internal/analyses"
	"legalmail-backend/internal/llm"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	draftSvc := &Service{LLM: llm.MockClient{}}
	analysisSvc := &analyses.Service{LLM: llm.MockClient{}, Provider: "mock", Model: "mock"}
	NewHandler(draftSvc, analysisSvc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestDraftEndpoint(t *testing.T) {
	router := newTestRouter()

	body := `{
		"email_text": "We may need to terminate the agreement.",
		"analysis": {"intent": "termination_notice", "urgency_level": "high"},
		"variant": "A"
	}`
	w := postJSON(t, router, "/api/v1/draft", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Draft     string `json:"draft"`
		RiskScore int    `json:"risk_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.TrimSpace(resp.Draft) == "" {
		t.Fatal("expected non-empty draft")
	}
	if resp.RiskScore != 60 {
		t.Fatalf("risk_score = %d, want 60 (high urgency + termination)", resp.RiskScore)
	}
}

func TestDraftEndpointValidation(t *testing.T) {
	router := newTestRouter()
	w := postJSON(t, router, "/api/v1/draft", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestProcessEndpoint(t *testing.T) {
	router := newTestRouter()

	body := `{"email_text": "Please terminate the agreement asap. There is a liability concern."}`
	w := postJSON(t, router, "/api/v1/process", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Analysis  analyses.Record `json:"analysis"`
		Draft     string          `json:"draft"`
		RiskScore int             `json:"risk_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Analysis.Intent != "termination_notice" {
		t.Errorf("analysis intent = %q", resp.Analysis.Intent)
	}
	if resp.Analysis.UrgencyLevel != "high" {
		t.Errorf("urgency = %q", resp.Analysis.UrgencyLevel)
	}
	if strings.TrimSpace(resp.Draft) == "" {
		t.Error("expected non-empty draft")
	}
	// high urgency + termination intent + liability question
	if resp.RiskScore != 80 {
		t.Errorf("risk_score = %d, want 80", resp.RiskScore)
	}
}

func TestProcessEndpointValidation(t *testing.T) {
	router := newTestRouter()
	w := postJSON(t, router, "/api/v1/process", `{"contract_snippet": "clause"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
