package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/ticket-mcp/internal/common"
	"github.com/bobmcallan/ticket-mcp/internal/credential"
	"github.com/bobmcallan/ticket-mcp/internal/dispatch"
	"github.com/bobmcallan/ticket-mcp/internal/mcp"
	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/tools"
)

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	handler := NewVersionHandler(nil)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["version"] != common.GetVersion() {
		t.Errorf("expected version %s, got %s", common.GetVersion(), body["version"])
	}
	for _, key := range []string{"build", "git_commit"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %s field in response", key)
		}
	}
}

func TestStatusHandler_ReportsStats(t *testing.T) {
	handler := NewStatusHandler(nil, "mcpaas-streamable-server", mcp.Stats{Operations: 9, Tools: 10}, true)
	handler.started = time.Now().Add(-90 * time.Second)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Name != "mcpaas-streamable-server" {
		t.Errorf("expected server name, got %q", body.Name)
	}
	if body.Stats.Operations != 9 || body.Stats.Tools != 10 || body.Stats.Resources != 0 || body.Stats.Prompts != 0 {
		t.Errorf("unexpected stats %+v", body.Stats)
	}
	if body.UptimeSeconds < 90 {
		t.Errorf("expected uptime >= 90s, got %d", body.UptimeSeconds)
	}
	if !body.MCPaaSEnabled {
		t.Error("expected mcpaas_configured true")
	}
}

func TestRequireMethod_Matches(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	ok := RequireMethod(w, req, "GET")
	if !ok {
		t.Error("expected RequireMethod to return true for matching method")
	}
}

func TestRequireMethod_Mismatch(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", nil)
	w := httptest.NewRecorder()

	ok := RequireMethod(w, req, "GET")
	if ok {
		t.Error("expected RequireMethod to return false for mismatching method")
	}
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	data := map[string]string{"key": "value"}
	WriteJSON(w, http.StatusCreated, data)

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["key"] != "value" {
		t.Errorf("expected key=value, got key=%s", body["key"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["error"] != "something went wrong" {
		t.Errorf("expected error message 'something went wrong', got %s", body["error"])
	}
	if body["status"] != "error" {
		t.Errorf("expected status 'error', got %s", body["status"])
	}
}

// --- Auth Handler Tests ---

// --- Tools handler ---

type toolsFixture struct {
	mux     *http.ServeMux
	hits    *atomic.Int32
	lastURL *atomic.Value
}

func newToolsFixture(t *testing.T, status int, payload string) *toolsFixture {
	t.Helper()
	f := &toolsFixture{hits: &atomic.Int32{}, lastURL: &atomic.Value{}}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.lastURL.Store(r.URL.String())
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(backend.Close)

	logger := common.NewSilentLogger()
	creds := credential.NewStore("tok")
	reg := registry.New()
	if err := tools.RegisterAll(reg, tools.Defaults{BaseURL: backend.URL, ParentID: "c1", Credentials: creds}, logger); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	h := NewToolsHandler(dispatch.New(reg, creds, logger), logger)

	f.mux = http.NewServeMux()
	f.mux.HandleFunc("GET /api/tools", h.List)
	f.mux.HandleFunc("GET /api/tools/{name}", h.Get)
	f.mux.HandleFunc("POST /api/tools/{name}", h.Invoke)
	return f
}

func (f *toolsFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dispatch.ErrorDetail {
	t.Helper()
	var body struct {
		Error dispatch.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal error: %v (%s)", err, w.Body.String())
	}
	return body.Error
}

func TestToolsHandler_List(t *testing.T) {
	f := newToolsFixture(t, http.StatusOK, `{}`)

	w := f.do("GET", "/api/tools", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Tools []ToolInfo `json:"tools"`
		Count int        `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body.Count != 9 || len(body.Tools) != 9 {
		t.Fatalf("expected 9 tools, got %d", body.Count)
	}
	if body.Tools[0].Name != "get-tickets" || body.Tools[0].Method != "GET" || body.Tools[0].Auth != "bearer" {
		t.Errorf("unexpected first tool %+v", body.Tools[0])
	}
}

func TestToolsHandler_GetDescribesPlacement(t *testing.T) {
	f := newToolsFixture(t, http.StatusOK, `{}`)

	w := f.do("GET", "/api/tools/create-ticket", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var info ToolInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	in := map[string]ParamInfo{}
	for _, p := range info.Params {
		in[p.Name] = p
	}
	if in["title"].In != "body" || !in["title"].Required {
		t.Errorf("unexpected title param %+v", in["title"])
	}
	if in["token"].In != "header" || !in["token"].Dynamic || in["token"].Default != nil {
		t.Errorf("unexpected token param %+v", in["token"])
	}
	if in["parentId"].Default != "c1" {
		t.Errorf("unexpected parentId default %v", in["parentId"].Default)
	}
	if len(in["status"].Enum) != 5 {
		t.Errorf("unexpected status enum %v", in["status"].Enum)
	}
}

func TestToolsHandler_GetUnknown(t *testing.T) {
	f := newToolsFixture(t, http.StatusOK, `{}`)

	w := f.do("GET", "/api/tools/get-widgets", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if d := decodeError(t, w); d.Type != dispatch.TypeUnknownOperation || d.Operation != "get-widgets" {
		t.Errorf("unexpected error %+v", d)
	}
}

func TestToolsHandler_InvokeSuccess(t *testing.T) {
	f := newToolsFixture(t, http.StatusOK, `{"count":3}`)

	w := f.do("POST", "/api/tools/get-ticket-count", `{"status":"open"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"count":3}` {
		t.Errorf("expected payload verbatim, got %s", w.Body.String())
	}
	if got := f.lastURL.Load().(string); got != "/getTicketCount?parentId=c1&status=open" {
		t.Errorf("unexpected backend URL %s", got)
	}
}

func TestToolsHandler_InvokeEmptyBody(t *testing.T) {
	f := newToolsFixture(t, http.StatusOK, `[]`)

	w := f.do("POST", "/api/tools/get-tickets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := f.lastURL.Load().(string); got != "/getTickets?parentId=c1&limit=10" {
		t.Errorf("unexpected backend URL %s", got)
	}
}

func TestToolsHandler_InvokeErrors(t *testing.T) {
	tests := []struct {
		name       string
		backend    int
		path       string
		body       string
		wantStatus int
		wantType   string
		wantHits   int32
	}{
		{"unknown operation", http.StatusOK, "/api/tools/nope", `{}`, http.StatusNotFound, dispatch.TypeUnknownOperation, 0},
		{"missing required", http.StatusOK, "/api/tools/create-ticket", `{"title":"t"}`, http.StatusBadRequest, dispatch.TypeValidation, 0},
		{"not in enum", http.StatusOK, "/api/tools/get-tickets", `{"status":"bogus"}`, http.StatusBadRequest, dispatch.TypeValidation, 0},
		{"body not an object", http.StatusOK, "/api/tools/get-tickets", `[1,2]`, http.StatusBadRequest, dispatch.TypeValidation, 0},
		{"upstream 404", http.StatusNotFound, "/api/tools/get-ticket-by-id", `{"ticketId":"x"}`, http.StatusBadGateway, dispatch.TypeUpstream, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newToolsFixture(t, tt.backend, `{"error":"nope"}`)

			w := f.do("POST", tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if d := decodeError(t, w); d.Type != tt.wantType {
				t.Errorf("expected type %s, got %+v", tt.wantType, d)
			}
			if got := f.hits.Load(); got != tt.wantHits {
				t.Errorf("expected %d backend requests, got %d", tt.wantHits, got)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&dispatch.TransportError{Cause: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{&dispatch.TransportError{Cause: errors.New("connection refused")}, http.StatusBadGateway},
		{&dispatch.MalformedResponseError{StatusCode: 200}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
