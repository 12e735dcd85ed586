package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aegisai/aegis/pkg/advisory"
	"aegisai/aegis/pkg/auditlog"
	alstorage "aegisai/aegis/pkg/auditlog/storage"
	"aegisai/aegis/pkg/auditor"
	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/config"
	"aegisai/aegis/pkg/feedback"
	"aegisai/aegis/pkg/guard"
	"aegisai/aegis/pkg/pipeline"
	"aegisai/aegis/pkg/policy/engine"
	"aegisai/aegis/pkg/policy/store"
	"aegisai/aegis/pkg/scoring"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	rater := classifier.Disabled{}
	scorer := scoring.NewScorer(rater)
	eng := engine.New(store.NewMemoryWithDefaults(), rater, nil)

	auditStore := alstorage.NewMemoryStorage()
	recorder := auditlog.NewRecorder(auditStore, config.AuditConfig{}, nil)
	t.Cleanup(func() { recorder.Close() })

	verifier := auth.NewStaticVerifier(config.AuthConfig{AllowDemoTokens: true})
	orch := pipeline.New(pipeline.Deps{
		Guard:      guard.New(scorer, eng, rater),
		Auditor:    auditor.New(scorer, eng, rater),
		Engine:     eng,
		Advisor:    advisory.New(rater),
		Feedback:   feedback.NewCollector(feedback.NewMemory(), rater),
		Verifier:   verifier,
		AuditSink:  recorder,
		AuditStore: auditStore,
	})

	cfg := &config.ServerConfig{
		CORS: config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         3600,
		},
	}
	return NewServer(cfg, orch, verifier, nil).routes()
}

type testEnvelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	SessionID string          `json:"session_id"`
}

func doRequest(t *testing.T, handler http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("response not JSON: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestAnalyzePrompt_Success(t *testing.T) {
	handler := newTestHandler(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/analyze-prompt", "demo_user",
		`{"prompt": "Explain the benefits of renewable energy."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Errorf("success = false, error = %q", env.Error)
	}
	if env.SessionID == "" {
		t.Error("session_id empty")
	}

	var result struct {
		Stages map[string]json.RawMessage `json:"stages"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("data not a pipeline result: %v", err)
	}
	if _, ok := result.Stages[pipeline.StagePromptGuard]; !ok {
		t.Errorf("stages = %v, want prompt_guard present", result.Stages)
	}
}

func TestAnalyzePrompt_MissingPrompt(t *testing.T) {
	handler := newTestHandler(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/analyze-prompt", "demo_user", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Success || env.Error == "" {
		t.Errorf("envelope = %+v, want failure with message", env)
	}
}

func TestAnalyzePrompt_MalformedBody(t *testing.T) {
	handler := newTestHandler(t)

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/analyze-prompt", "demo_user", `{"prompt":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzePrompt_Unauthenticated(t *testing.T) {
	handler := newTestHandler(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/analyze-prompt", "",
		`{"prompt": "hello"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if env.Success {
		t.Error("success = true, want false")
	}
}

func TestAnalyzePrompt_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	rec, _ := doRequest(t, handler, http.MethodGet, "/api/analyze-prompt", "demo_user", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestSubmitFeedback_Success(t *testing.T) {
	handler := newTestHandler(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/submit-feedback", "demo_user",
		`{"feedback": {"feedback_type": "general", "feedback_content": "The screening works well.", "rating": 5}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Errorf("success = false, error = %q", env.Error)
	}
}

func TestGetAdvisory_EmptyBody(t *testing.T) {
	handler := newTestHandler(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/get-advisory", "demo_user", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Errorf("success = false, error = %q", env.Error)
	}
}

func TestAuditLogs_Permissions(t *testing.T) {
	handler := newTestHandler(t)

	// Generate one audit record first.
	if rec, _ := doRequest(t, handler, http.MethodPost, "/api/analyze-prompt", "demo_user",
		`{"prompt": "Explain the benefits of renewable energy."}`); rec.Code != http.StatusOK {
		t.Fatalf("seed request status = %d, want 200", rec.Code)
	}

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/audit-logs", "demo_user",
		`{"report_type": "logs"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for user role", rec.Code)
	}

	rec, env := doRequest(t, handler, http.MethodPost, "/api/audit-logs", "demo_admin",
		`{"report_type": "logs"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for admin\nbody: %s", rec.Code, rec.Body.String())
	}
	var listing struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		t.Fatalf("data not a log listing: %v", err)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t)

	rec, env := doRequest(t, handler, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !env.Success {
		t.Error("success = false, want true")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze-prompt", nil)
	req.Header.Set("Origin", "https://governance.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Access-Control-Allow-Origin missing")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST included", got)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-abc-123" {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, "req-abc-123")
	}
}

func TestRequestIDGenerated(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("generated request ID missing from response")
	}
}
