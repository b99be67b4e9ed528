// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/todograph/internal/model"
)

// SessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// viewerContextKey はリクエストコンテキストに認証情報を格納するためのキー。
var viewerContextKey = contextKey("viewer")

// Viewer はリクエストの認証結果を表す。
// Userは未認証の場合nil。SessionIDはCookie認証の場合のみ設定される
// （ベアラートークン認証にはサーバーサイドセッションがない）。
type Viewer struct {
	User      *model.User
	SessionID string
}

// ViewerResolver は認証情報からユーザーを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type ViewerResolver interface {
	// ResolveBearer はベアラートークンからユーザーを解決する。
	// トークン不正の場合はnilを返す（エラーは内部障害のみ）。
	ResolveBearer(ctx context.Context, token string) (*model.User, error)
	// ResolveSession はセッションIDからユーザーを解決する。
	// セッション不在・期限切れの場合はnilを返す（エラーは内部障害のみ）。
	ResolveSession(ctx context.Context, sessionID string) (*model.User, error)
}

// NewAuthMiddleware はAuthorizationヘッダーまたはセッションCookieから
// 認証情報を解決し、リクエストコンテキストに注入するミドルウェアを返す。
// ベアラートークンをCookieより優先する。
// 解決に失敗しても401は返さず、未認証のまま通す。
// 認可の判定は各リゾルバが独立して行う。
func NewAuthMiddleware(resolver ViewerResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := &Viewer{}

			// 1. Authorization: Bearer <token>
			if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
				token := strings.TrimPrefix(authz, "Bearer ")
				user, err := resolver.ResolveBearer(r.Context(), token)
				if err != nil {
					slog.Error("failed to resolve bearer token",
						slog.String("error", err.Error()),
					)
				} else {
					viewer.User = user
				}
			}

			// 2. セッションCookie（ベアラーで解決済みの場合はスキップ）
			if viewer.User == nil {
				if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
					user, err := resolver.ResolveSession(r.Context(), cookie.Value)
					if err != nil {
						slog.Error("failed to resolve session",
							slog.String("error", err.Error()),
						)
					} else if user != nil {
						viewer.User = user
						viewer.SessionID = cookie.Value
					}
				}
			}

			ctx := context.WithValue(r.Context(), viewerContextKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ViewerFromContext はリクエストコンテキストから認証情報を取得する。
// 認証ミドルウェアを通過していないコンテキストでは未認証のViewerを返す。
func ViewerFromContext(ctx context.Context) *Viewer {
	if viewer, ok := ctx.Value(viewerContextKey).(*Viewer); ok {
		return viewer
	}
	return &Viewer{}
}

// ContextWithViewer はコンテキストに認証情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithViewer(ctx context.Context, viewer *Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, viewer)
}
