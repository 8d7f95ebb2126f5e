package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentic-insurtech/insurtech/internal/config"
	"github.com/agentic-insurtech/insurtech/internal/server"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               8000,
		APIPrefix:          config.DefaultAPIPrefix,
		CORSOrigins:        config.DefaultCORSOrigins,
		APIKeyHeader:       "X-API-Key",
		APIKeys:            []string{"test-key"},
		EnableAuth:         true,
		RateLimitPerMinute: 100,
		PolicyCacheTTL:     time.Minute,
		BaseRisk:           config.DefaultBaseRisk,
		BaseCoverage:       config.DefaultBaseCoverage,
		PerItemCoverage:    config.DefaultPerItemCoverage,
		PremiumRate:        config.DefaultPremiumRate,
		EnableDataMasking:  true,
		SensitiveFields:    config.DefaultSensitiveFields,
		EnablePIIDetection: true,
		PIIKeywords:        config.DefaultPIIKeywords,
		ActivityLogSize:    100,
		AgentTargets:       config.DefaultTargets,
		AgentTimeout:       config.DefaultAgentTimeout,
	}
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	srv, err := server.New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv.Handler()
}

func call(h http.Handler, method, path, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthIsPublic(t *testing.T) {
	h := newHandler(t)
	for _, path := range []string{"/", "/health"} {
		rr := call(h, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, body = %s", path, rr.Code, rr.Body)
		}
	}
}

func TestAPIRequiresKey(t *testing.T) {
	h := newHandler(t)
	if rr := call(h, http.MethodGet, "/api/v1/tools", "", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d", rr.Code)
	}
	if rr := call(h, http.MethodGet, "/api/v1/tools", "", "wrong"); rr.Code != http.StatusForbidden && rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d", rr.Code)
	}
	if rr := call(h, http.MethodGet, "/api/v1/tools", "", "test-key"); rr.Code != http.StatusOK {
		t.Errorf("valid key status = %d", rr.Code)
	}
}

func TestToolInvocationFeedsPerformance(t *testing.T) {
	h := newHandler(t)

	rr := call(h, http.MethodPost, "/api/v1/tools/sentiment_analysis_tool", `{"text":"thank you, great service"}`, "test-key")
	if rr.Code != http.StatusOK {
		t.Fatalf("invoke status = %d, body = %s", rr.Code, rr.Body)
	}

	rr = call(h, http.MethodGet, "/api/v1/agents/performance", "", "test-key")
	var report struct {
		Agents map[string]struct {
			TotalTasks int `json:"total_tasks"`
		} `json:"agents"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Agents["customer"].TotalTasks != 1 {
		t.Errorf("performance = %s", rr.Body)
	}
}

func TestPolicyRoutesMaskContactDetails(t *testing.T) {
	h := newHandler(t)
	rr := call(h, http.MethodGet, "/api/v1/policies/POL-20250101-1234", "", "test-key")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if strings.Contains(rr.Body.String(), "john.smith@example.com") {
		t.Errorf("email should be masked: %s", rr.Body)
	}
}

func TestAssistantDisabledWithoutKey(t *testing.T) {
	h := newHandler(t)
	rr := call(h, http.MethodPost, "/api/v1/assistant", `{"prompt":"what is my premium"}`, "test-key")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestUnreachableDatabaseDegradesHealth(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "postgres://insurtech@127.0.0.1:1/insurtech?sslmode=disable&connect_timeout=2"
	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(srv.Close)
	h := srv.Handler()

	rr := call(h, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("health status = %d, body = %s", rr.Code, rr.Body)
	}
	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "degraded" || !strings.HasPrefix(health.Checks["postgres"], "unavailable") {
		t.Errorf("health = %+v", health)
	}
	if health.Checks["elasticsearch"] != "disabled" {
		t.Errorf("unconfigured backend should be disabled: %+v", health.Checks)
	}

	if rr := call(h, http.MethodGet, "/api/v1/policies/POL-20250101-1234", "", "test-key"); rr.Code != http.StatusOK {
		t.Errorf("sample policies should still be served, status = %d", rr.Code)
	}
}
