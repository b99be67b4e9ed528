package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/todograph/internal/model"
)

// mockViewerResolver はmiddleware.ViewerResolverのモック。
type mockViewerResolver struct {
	resolveBearerFn  func(ctx context.Context, token string) (*model.User, error)
	resolveSessionFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockViewerResolver) ResolveBearer(ctx context.Context, token string) (*model.User, error) {
	if m.resolveBearerFn != nil {
		return m.resolveBearerFn(ctx, token)
	}
	return nil, nil
}

func (m *mockViewerResolver) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	if m.resolveSessionFn != nil {
		return m.resolveSessionFn(ctx, sessionID)
	}
	return nil, nil
}

// mockPinger はPingerのモック。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

func newTestRouter(t *testing.T, deps *RouterDeps) http.Handler {
	t.Helper()

	if deps.Schema.QueryType() == nil {
		deps.Schema = newTestSchema(t)
	}
	if deps.ViewerResolver == nil {
		deps.ViewerResolver = &mockViewerResolver{}
	}
	if deps.CORSAllowedOrigin == "" {
		deps.CORSAllowedOrigin = "http://localhost:3000"
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return NewRouter(deps)
}

func TestRouter_GraphQL_Post_Returns200(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{DB: &mockPinger{}})

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query": "{ viewerID }"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_GraphQL_Get_Returns405(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{DB: &mockPinger{}})

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

// TestRouter_AuthMiddleware_ResolvesBearer はルーター経由でベアラートークンが
// Viewerに解決されることを検証する。
func TestRouter_AuthMiddleware_ResolvesBearer(t *testing.T) {
	resolver := &mockViewerResolver{
		resolveBearerFn: func(ctx context.Context, token string) (*model.User, error) {
			return &model.User{ID: "user-1"}, nil
		},
	}
	router := newTestRouter(t, &RouterDeps{ViewerResolver: resolver, DB: &mockPinger{}})

	body := bytes.NewReader([]byte(`{"query": "{ viewerID }"}`))
	req := httptest.NewRequest(http.MethodPost, "/graphql", body)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	var result struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Data["viewerID"] != "user-1" {
		t.Errorf("viewerID = %v, want user-1", result.Data["viewerID"])
	}
}

func TestRouter_Health_DBReachable_Returns200(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{DB: &mockPinger{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestRouter_Health_DBDown_Returns503(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{DB: &mockPinger{err: errors.New("connection refused")}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

// TestRouter_SecurityHeaders_Applied は全ルートにセキュリティヘッダーが付与されることを検証する。
func TestRouter_SecurityHeaders_Applied(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{DB: &mockPinger{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}

func TestRouter_Metrics_Served(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("todograph_operations_total 0\n"))
	})
	router := newTestRouter(t, &RouterDeps{DB: &mockPinger{}, MetricsHandler: metricsHandler})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "todograph_operations_total") {
		t.Error("response should contain metrics output")
	}
}
