package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/askdb/askdb/internal/completion"
	"github.com/askdb/askdb/internal/connector"
	"github.com/askdb/askdb/internal/connector/sqlite"
	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/prompt"
	"github.com/askdb/askdb/internal/query"
	"github.com/askdb/askdb/internal/service"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const testJWTSecret = "test-secret-for-jwt-integration-tests"

type fixedCompleter struct{ text string }

func (f fixedCompleter) Complete(_ context.Context, _ []prompt.Message) (completion.Result, error) {
	return completion.Result{Text: f.text, Model: "fixed"}, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

// testEnv holds the wired server and its database.
type testEnv struct {
	server  *Server
	conn    connector.Connector
	authSvc *service.AuthService
}

func newTestEnv(t *testing.T, jwtSecret, completionText string) *testEnv {
	t.Helper()

	conn := sqlite.New()
	if err := conn.Connect(connector.ConnectionConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { conn.Disconnect() })

	for _, stmt := range []string{
		`CREATE TABLE Person (BusinessEntityID INTEGER PRIMARY KEY, FirstName NVARCHAR(50), LastName NVARCHAR(50))`,
		`INSERT INTO Person VALUES (1, 'Ken', 'Sánchez'), (2, 'Terri', 'Duffy')`,
	} {
		if _, err := conn.DB().Exec(stmt); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	querySvc := service.NewQueryService(conn, fixedCompleter{text: completionText}, query.NewExecutor(conn.DB()), service.Options{}, logger)
	authSvc := service.NewAuthService(jwtSecret)

	cfg := DefaultConfig()
	cfg.Version = "test"
	return &testEnv{
		server:  New(cfg, conn, querySvc, authSvc, logger),
		conn:    conn,
		authSvc: authSvc,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Health checks
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, "", "")
	rr := env.do(t, "GET", "/healthz", nil)
	assertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t, "", "")
	assertStatus(t, env.do(t, "GET", "/readyz", nil), http.StatusOK)
}

func TestReadyzUnavailable(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.server.db = failingPinger{}

	rr := env.do(t, "GET", "/readyz", nil)
	assertStatus(t, rr, http.StatusServiceUnavailable)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "unavailable" || !strings.Contains(body.Checks["database"], "connection refused") {
		t.Errorf("unexpected body: %+v", body)
	}
}

// ---------------------------------------------------------------------------
// Query route
// ---------------------------------------------------------------------------

func TestPersonRoute(t *testing.T) {
	env := newTestEnv(t, "", "SELECT BusinessEntityID, FirstName, LastName FROM Person ORDER BY BusinessEntityID")

	rr := env.do(t, "GET", "/person?q=everyone", nil)
	assertStatus(t, rr, http.StatusOK)

	var people []model.Person
	if err := json.Unmarshal(rr.Body.Bytes(), &people); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(people) != 2 || people[1].FirstName != "Terri" {
		t.Errorf("unexpected rows: %+v", people)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestPersonRouteErrorCarriesRequestID(t *testing.T) {
	env := newTestEnv(t, "", "Sorry, I can't do that.")

	rr := env.do(t, "GET", "/person?q=everyone", map[string]string{"X-Request-ID": "req-123"})
	assertStatus(t, rr, http.StatusInternalServerError)

	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Message != service.PublicMessage {
		t.Errorf("message = %q", resp.Error.Message)
	}
	if resp.Error.Context["request_id"] != "req-123" {
		t.Errorf("context = %v", resp.Error.Context)
	}
}

func TestPersonRouteRequiresTokenWhenAuthEnabled(t *testing.T) {
	env := newTestEnv(t, testJWTSecret, "SELECT FirstName FROM Person")

	assertStatus(t, env.do(t, "GET", "/person?q=x", nil), http.StatusUnauthorized)
	assertStatus(t, env.do(t, "GET", "/person?q=x", map[string]string{"Authorization": "Bearer nope"}), http.StatusUnauthorized)

	token, err := env.authSvc.IssueJWT("tests", time.Hour)
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	assertStatus(t, env.do(t, "GET", "/person?q=x", map[string]string{"Authorization": "Bearer " + token}), http.StatusOK)

	// Operational routes stay open.
	assertStatus(t, env.do(t, "GET", "/healthz", nil), http.StatusOK)
	assertStatus(t, env.do(t, "GET", "/openapi.json", nil), http.StatusOK)
}

// ---------------------------------------------------------------------------
// Metrics and OpenAPI
// ---------------------------------------------------------------------------

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "", "SELECT FirstName FROM Person")
	env.do(t, "GET", "/person?q=x", nil)

	rr := env.do(t, "GET", "/metrics", nil)
	assertStatus(t, rr, http.StatusOK)
	body := rr.Body.String()
	for _, want := range []string{"askdb_http_requests_total", `route="/person"`, "askdb_pipeline_requests_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestOpenAPIDocument(t *testing.T) {
	env := newTestEnv(t, testJWTSecret, "")

	rr := env.do(t, "GET", "/openapi.json", nil)
	assertStatus(t, rr, http.StatusOK)

	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
		Components struct {
			SecuritySchemes map[string]interface{} `json:"securitySchemes"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info.Version != "test" {
		t.Errorf("version = %q", doc.Info.Version)
	}
	if _, ok := doc.Components.SecuritySchemes["bearerAuth"]; !ok {
		t.Error("expected bearerAuth scheme when auth is enabled")
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, "", "")
	rr := env.do(t, "OPTIONS", "/person", map[string]string{
		"Origin":                        "https://example.com",
		"Access-Control-Request-Method": "GET",
	})
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
