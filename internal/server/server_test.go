package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cortexai/igs/internal/config"
	"github.com/cortexai/igs/internal/metrics"
	"github.com/cortexai/igs/internal/models"
	"github.com/cortexai/igs/internal/search"
	"github.com/cortexai/igs/internal/server"
	"github.com/cortexai/igs/internal/service"
	"github.com/cortexai/igs/internal/tools"
)

type cannedSearcher struct {
	results []search.Result
	pingErr error
}

func (c cannedSearcher) Name() string { return "canned" }

func (c cannedSearcher) Search(context.Context, string) ([]search.Result, error) {
	return c.results, nil
}

func (c cannedSearcher) Ping(context.Context) error { return c.pingErr }

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               8000,
		APIPrefix:          "/api/v1",
		APIKeyHeader:       "X-API-Key",
		RateLimitPerMinute: 100,
		MaxQueryLength:     50,
		CORSOrigins:        []string{"*"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, searcher search.Searcher) http.Handler {
	t.Helper()
	d := service.NewDispatcher(
		service.NewIntentRouter(),
		tools.NewArithmetic(),
		tools.NewWebLookup(searcher),
		tools.Unavailable(tools.KindGenerative, "openai: API key is not set"),
	)
	return server.New(cfg, d).Handler()
}

func postQuery(t *testing.T, h http.Handler, body string, headers map[string]string) (*httptest.ResponseRecorder, models.QueryResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp models.QueryResponse
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rr.Body.String())
		}
	}
	return rr, resp
}

func TestQueryArithmetic(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	rr, resp := postQuery(t, h, `{"query":"2 + 2"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if resp.Status != "success" || resp.Result != "4" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Provider != "arithmetic" || resp.Backend != "arith" {
		t.Errorf("provider/backend = %s/%s", resp.Provider, resp.Backend)
	}
	if resp.Routing.Rule != service.RuleArithmetic {
		t.Errorf("rule = %s", resp.Routing.Rule)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID missing")
	}
}

func TestQueryCompound(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{results: []search.Result{{Snippet: "68000000"}}})

	// Lookup answers read "Top result: ...", never a bare number.
	_, resp := postQuery(t, h, `{"query":"France population multiplied by 2"}`, nil)
	if resp.Compound == nil {
		t.Fatalf("expected compound info, got %+v", resp)
	}
	if resp.Compound.Subject != "France population" || resp.Compound.Multiplier != 2 {
		t.Errorf("compound = %+v", resp.Compound)
	}
	if resp.Compound.SubjectProvider != "web_lookup" {
		t.Errorf("subject provider = %s", resp.Compound.SubjectProvider)
	}
	if resp.Status != "failed" || resp.FailureCategory != string(tools.CategoryMalformedArithmetic) {
		t.Errorf("expected cascading arithmetic failure, got %+v", resp)
	}
}

func TestQueryFailedProviderIs200(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	rr, resp := postQuery(t, h, `{"query":"tell me a joke"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if resp.Status != "failed" || resp.FailureCategory != string(tools.CategoryGenerativeUnavailable) {
		t.Errorf("unexpected response %+v", resp)
	}

	_, resp = postQuery(t, h, `{"query":"who is zzqxv"}`, nil)
	if resp.Result != "No results found." {
		t.Errorf("result = %q", resp.Result)
	}
}

func TestQueryDryRun(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	_, resp := postQuery(t, h, `{"query":"Tom Cruise age * 2","dry_run":true}`, nil)
	if resp.Status != "dry_run" {
		t.Errorf("status = %s", resp.Status)
	}
	if resp.Result != "" {
		t.Errorf("dry run should not produce a result, got %q", resp.Result)
	}
	if resp.Compound == nil || resp.Compound.Intermediate != "" {
		t.Errorf("compound = %+v", resp.Compound)
	}
}

func TestQueryDryRunKeepsDecompositionFailure(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	_, resp := postQuery(t, h, `{"query":"x multiplied by 99999999999999999999","dry_run":true}`, nil)
	if resp.Status != "failed" {
		t.Errorf("status = %s, want failed", resp.Status)
	}
	if resp.FailureCategory != string(tools.CategoryDecompositionUnparseable) {
		t.Errorf("failure category = %s", resp.FailureCategory)
	}
	if !strings.HasPrefix(resp.Result, "Error in processing complex query: ") {
		t.Errorf("result = %q", resp.Result)
	}
}

func TestQueryBadRequests(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	rr, _ := postQuery(t, h, `{"query":`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: expected 400, got %d", rr.Code)
	}

	long, _ := json.Marshal(map[string]string{"query": strings.Repeat("a", 51)})
	rr, _ = postQuery(t, h, string(long), nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("long query: expected 400, got %d", rr.Code)
	}
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.EnableAuth = true
	cfg.APIKeys = []string{"secret"}
	h := newTestServer(t, cfg, cannedSearcher{})

	rr, _ := postQuery(t, h, `{"query":"1+1"}`, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	rr, _ = postQuery(t, h, `{"query":"1+1"}`, map[string]string{"X-API-Key": "secret"})
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("health should stay public, got %d", rr.Code)
	}
}

func TestTools(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp models.ToolsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 3 {
		t.Fatalf("expected 3 tools, got %d", resp.Count)
	}
	if resp.Tools[1].Kind != "web_lookup" || resp.Tools[1].Name != "canned" {
		t.Errorf("unexpected tool %+v", resp.Tools[1])
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp models.HealthResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Status != "healthy" {
		t.Errorf("status = %s", resp.Status)
	}
	if !strings.Contains(resp.Checks["generative"], "not configured") {
		t.Errorf("generative check = %q", resp.Checks["generative"])
	}
}

func TestHealthDegraded(t *testing.T) {
	h := newTestServer(t, testConfig(), cannedSearcher{pingErr: context.DeadlineExceeded})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("degraded")) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec, metricsH, shutdown, err := metrics.Setup()
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(context.Background())

	cfg := testConfig()
	cfg.MetricsPath = "/metrics"
	cfg.EnableAuth = true
	cfg.APIKeys = []string{"secret"}

	d := service.NewDispatcher(
		service.NewIntentRouter(),
		rec.Instrument(tools.NewArithmetic()),
		rec.Instrument(tools.NewWebLookup(cannedSearcher{pingErr: context.DeadlineExceeded})),
	)
	h := server.New(cfg, d, server.WithMetrics(metricsH)).Handler()

	rr, _ := postQuery(t, h, `{"query":"3 * 4"}`, map[string]string{"X-API-Key": "secret"})
	if rr.Code != http.StatusOK {
		t.Fatalf("query: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics should be public, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "igs_provider_calls_total") {
		t.Errorf("missing call counter in %s", rr.Body.String())
	}

	// The wrapped searcher is still pinged.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 through instrumented provider, got %d", rr.Code)
	}
}
