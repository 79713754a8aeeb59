package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/middleware"
	"salesdash/internal/observability"
	"salesdash/internal/provider"
	"salesdash/internal/services"
)

const providerPayload = `[
  {"Data da Compra": "15/01/2021", "Vendedor": "Ana", "Local da compra": "SP", "Categoria do Produto": "eletronicos", "Preço": 1500.10, "lat": -22.19, "lon": -48.79},
  {"Data da Compra": "20/02/2021", "Vendedor": "Bruno", "Local da compra": "RS", "Categoria do Produto": "moveis", "Preço": 300, "lat": -30.17, "lon": -53.5}
]`

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		Provider:  config.ProviderConfig{Endpoint: endpoint, Timeout: 5 * time.Second},
		Dashboard: config.DashboardConfig{MinYear: 2020, MaxYear: 2023, DefaultTopSellers: 10},
		Security: config.SecurityConfig{
			EnableCompression: true,
			AllowedOrigins:    []string{"http://localhost:8084"},
		},
	}
}

// newTestApp wires the full handler against a fake provider.
func newTestApp(t *testing.T, providerHandler http.HandlerFunc) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(providerHandler)
	t.Cleanup(upstream.Close)

	cfg := testConfig(upstream.URL + "/produtos")
	logger := observability.Discard()

	analytics := services.NewAnalytics(provider.NewClient(cfg.Provider, logger), logger)
	handler, err := newHandler(cfg, logger, analytics, middleware.NewRateLimiter(cfg.Security))
	if err != nil {
		t.Fatalf("newHandler() error = %v", err)
	}
	return handler
}

func servePayload(payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}
}

func TestServer_Routes(t *testing.T) {
	app := newTestApp(t, servePayload(providerPayload))

	tests := []struct {
		path        string
		contentType string
	}{
		{"/", "text/html"},
		{"/health", "application/json"},
		{"/admin/stats", "application/json"},
		{"/api/dashboard", "application/json"},
		{"/api/views/revenue", "application/json"},
		{"/api/filters", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("expected content-type %q, got %q", tt.contentType, ct)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
		})
	}
}

func TestServer_DashboardForwardsFilters(t *testing.T) {
	var seen url.Values
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		io.WriteString(w, providerPayload)
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard?region=Sul&year=2021", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if seen.Get("regiao") != "sul" || seen.Get("ano") != "2021" {
		t.Errorf("unexpected provider query %v", seen)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			RecordCount int `json:"record_count"`
			Aggregates  struct {
				MonthlyRevenue []struct {
					MonthName string `json:"month_name"`
				} `json:"monthly_revenue"`
			} `json:"aggregates"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !response.Success || response.Data.RecordCount != 2 {
		t.Errorf("unexpected response %+v", response)
	}
	if months := response.Data.Aggregates.MonthlyRevenue; len(months) != 2 || months[1].MonthName != "February" {
		t.Errorf("unexpected monthly revenue %+v", months)
	}
}

func TestServer_ProviderFailure(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service down", http.StatusServiceUnavailable)
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			Details   string `json:"details"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if response.Success {
		t.Error("expected success=false")
	}
	if response.Error.Code != "UPSTREAM_ERROR" || !strings.Contains(response.Error.Message, "503") {
		t.Errorf("unexpected error %+v", response.Error)
	}
	if !strings.Contains(response.Error.Details, "service down") {
		t.Errorf("expected raw provider body in details, got %q", response.Error.Details)
	}
	if response.Error.RequestID != w.Header().Get("X-Request-ID") {
		t.Errorf("request id %q does not match header %q", response.Error.RequestID, w.Header().Get("X-Request-ID"))
	}
}

func TestServer_SSEDashboard(t *testing.T) {
	app := newTestApp(t, servePayload(providerPayload))

	signals := `{"region":"Brasil","allYears":true,"year":2023,"sellers":[],"topSellers":10}`
	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard?"+url.Values{"datastar": {signals}}.Encode(), nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	app.ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}
	if ce := w.Header().Get("Content-Encoding"); ce != "" {
		t.Errorf("event stream should not be compressed, got %q", ce)
	}

	body := w.Body.String()
	for _, content := range []string{`id="view-revenue"`, `id="seller-select"`, `"_charts"`} {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE body to contain %q", content)
		}
	}
}

func TestServer_ErrorHandling(t *testing.T) {
	app := newTestApp(t, servePayload(providerPayload))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/nonexistent", http.StatusNotFound},
		{http.MethodPost, "/api/dashboard", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/dashboard?region=Marte", http.StatusBadRequest},
		{http.MethodGet, "/api/views/profit", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestDashboardTemplate(t *testing.T) {
	app := newTestApp(t, servePayload(providerPayload))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	expected := []string{
		"<!doctype html>",
		"Sales Dashboard",
		`id="view-revenue"`,
		`id="view-sales-count"`,
		`id="view-sellers"`,
		"@get('/sse/dashboard')",
		"Centro-Oeste",
	}
	for _, content := range expected {
		if !strings.Contains(body, content) {
			t.Errorf("expected page to contain %q", content)
		}
	}
	if cc := w.Header().Get("Cache-Control"); cc != cacheMaxAge {
		t.Errorf("expected cache-control %q, got %q", cacheMaxAge, cc)
	}
}

func TestShutdownReport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	upstream := httptest.NewServer(servePayload(providerPayload))
	defer upstream.Close()

	cfg := testConfig(upstream.URL)
	analytics := services.NewAnalytics(provider.NewClient(cfg.Provider, observability.Discard()), observability.Discard())
	if _, err := analytics.Run(context.Background(), services.Params{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := shutdownReport(analytics, logger)(context.Background()); err != nil {
		t.Fatalf("shutdown hook error = %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "analytics summary" || entry["runs"].(float64) != 1 || entry["failures"].(float64) != 0 {
		t.Errorf("unexpected log entry %v", entry)
	}
}
