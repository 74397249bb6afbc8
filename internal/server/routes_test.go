package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bobmcallan/ticket-mcp/internal/app"
	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/config"
)

func newTestApp(t *testing.T, backendURL string) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.API.BaseURL = backendURL
	cfg.Defaults.ParentID = "c1"
	cfg.Defaults.Token = "tok"

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutes_HealthEndpoints(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:4242"))

	for _, path := range []string{"/health", "/api/health"} {
		w := serve(srv, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if body["status"] != "ok" {
			t.Errorf("%s: expected status ok, got %s", path, body["status"])
		}
	}
}

func TestRoutes_VersionAndStatus(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:4242"))

	if w := serve(srv, "GET", "/api/version", ""); w.Code != http.StatusOK {
		t.Errorf("expected status 200 for /api/version, got %d", w.Code)
	}

	w := serve(srv, "GET", "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for /status, got %d", w.Code)
	}
	var body struct {
		Name  string `json:"name"`
		Stats struct {
			Tools int `json:"tools"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body.Name != "mcpaas-streamable-server" {
		t.Errorf("expected default server name, got %q", body.Name)
	}
	if body.Stats.Tools != 10 {
		t.Errorf("expected 10 tools, got %d", body.Stats.Tools)
	}
}

func TestRoutes_NotFound(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:4242"))

	w := serve(srv, "GET", "/api/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRoutes_ToolsMethodNotAllowed(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:4242"))

	w := serve(srv, "DELETE", "/api/tools/get-tickets", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestRoutes_InvokeRecordsMetrics(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"tickets":[]}`))
	}))
	defer backend.Close()

	srv := New(newTestApp(t, backend.URL))

	w := serve(srv, "POST", "/api/tools/get-tickets", `{"status":"open"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"tickets":[]}` {
		t.Errorf("expected backend payload, got %s", w.Body.String())
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 backend request, got %d", hits.Load())
	}

	metrics := serve(srv, "GET", "/metrics", "").Body.String()
	if !strings.Contains(metrics, `ticket_mcp_invocations_total{operation="get-tickets",outcome="success"} 1`) {
		t.Errorf("expected invocation counter in metrics output")
	}
	if !strings.Contains(metrics, "ticket_mcp_registered_operations 9") {
		t.Errorf("expected registered operations gauge in metrics output")
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:4242"))

	w := serve(srv, "GET", "/api/tools", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers from middleware")
	}
}
