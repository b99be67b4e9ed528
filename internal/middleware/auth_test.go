package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/todograph/internal/model"
)

// mockResolver はViewerResolverのモック。
type mockResolver struct {
	resolveBearerFn  func(ctx context.Context, token string) (*model.User, error)
	resolveSessionFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockResolver) ResolveBearer(ctx context.Context, token string) (*model.User, error) {
	if m.resolveBearerFn != nil {
		return m.resolveBearerFn(ctx, token)
	}
	return nil, nil
}

func (m *mockResolver) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	if m.resolveSessionFn != nil {
		return m.resolveSessionFn(ctx, sessionID)
	}
	return nil, nil
}

func TestAuthMiddleware_BearerToken_SetsViewer(t *testing.T) {
	resolver := &mockResolver{
		resolveBearerFn: func(ctx context.Context, token string) (*model.User, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return &model.User{ID: "user-1", Username: "alice"}, nil
		},
	}

	var got *Viewer
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.User == nil {
		t.Fatal("expected authenticated viewer")
	}
	if got.User.ID != "user-1" {
		t.Errorf("user ID = %q, want %q", got.User.ID, "user-1")
	}
	// ベアラー認証にはセッションがない
	if got.SessionID != "" {
		t.Errorf("session ID = %q, want empty", got.SessionID)
	}
}

func TestAuthMiddleware_SessionCookie_SetsViewerAndSessionID(t *testing.T) {
	resolver := &mockResolver{
		resolveSessionFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID != "sess-1" {
				t.Errorf("session ID = %q, want %q", sessionID, "sess-1")
			}
			return &model.User{ID: "user-1"}, nil
		},
	}

	var got *Viewer
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.User == nil {
		t.Fatal("expected authenticated viewer")
	}
	if got.SessionID != "sess-1" {
		t.Errorf("session ID = %q, want %q", got.SessionID, "sess-1")
	}
}

// TestAuthMiddleware_BearerPreferredOverCookie はベアラートークンが
// セッションCookieより優先されることを検証する。
func TestAuthMiddleware_BearerPreferredOverCookie(t *testing.T) {
	sessionCalled := false
	resolver := &mockResolver{
		resolveBearerFn: func(ctx context.Context, token string) (*model.User, error) {
			return &model.User{ID: "bearer-user"}, nil
		},
		resolveSessionFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			sessionCalled = true
			return &model.User{ID: "cookie-user"}, nil
		},
	}

	var got *Viewer
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.User == nil || got.User.ID != "bearer-user" {
		t.Errorf("viewer = %+v, want bearer-user", got.User)
	}
	if sessionCalled {
		t.Error("session resolver should not be called when bearer succeeds")
	}
}

// TestAuthMiddleware_InvalidBearer_FallsBackToCookie は不正なトークンの場合に
// セッションCookieでの解決にフォールバックすることを検証する。
func TestAuthMiddleware_InvalidBearer_FallsBackToCookie(t *testing.T) {
	resolver := &mockResolver{
		resolveBearerFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, nil
		},
		resolveSessionFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return &model.User{ID: "cookie-user"}, nil
		},
	}

	var got *Viewer
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.User == nil || got.User.ID != "cookie-user" {
		t.Errorf("viewer = %+v, want cookie-user", got.User)
	}
}

// TestAuthMiddleware_Anonymous_PassesThrough は認証情報がない場合も
// 401を返さず未認証のまま通すことを検証する。
func TestAuthMiddleware_Anonymous_PassesThrough(t *testing.T) {
	resolver := &mockResolver{}

	handlerCalled := false
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		viewer := ViewerFromContext(r.Context())
		if viewer.User != nil {
			t.Errorf("viewer.User = %+v, want nil", viewer.User)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("next handler should be called for anonymous request")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestAuthMiddleware_ExpiredSession_Anonymous は期限切れセッションが
// 未認証として扱われることを検証する。
func TestAuthMiddleware_ExpiredSession_Anonymous(t *testing.T) {
	resolver := &mockResolver{
		resolveSessionFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return nil, nil
		},
	}

	var got *Viewer
	handler := NewAuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.User != nil {
		t.Errorf("viewer.User = %+v, want nil", got.User)
	}
	if got.SessionID != "" {
		t.Errorf("session ID = %q, want empty", got.SessionID)
	}
}

func TestViewerFromContext_MissingValue_ReturnsAnonymous(t *testing.T) {
	viewer := ViewerFromContext(context.Background())
	if viewer == nil {
		t.Fatal("expected non-nil viewer")
	}
	if viewer.User != nil {
		t.Errorf("viewer.User = %+v, want nil", viewer.User)
	}
}

func TestContextWithViewer_RoundTrip(t *testing.T) {
	want := &Viewer{User: &model.User{ID: "user-1"}, SessionID: "sess-1"}
	ctx := ContextWithViewer(context.Background(), want)

	got := ViewerFromContext(ctx)
	if got != want {
		t.Errorf("got = %+v, want %+v", got, want)
	}
}
