// Package graph はGraphQLスキーマとリゾルバを提供する。
package graph

import (
	"context"

	"github.com/hitoshi/todograph/internal/model"
)

// scopeContextKey はコンテキストにScopeを格納するためのキー。
type scopeContextKey struct{}

// Scope はひとつのGraphQLリクエストの実行コンテキストを表す。
// 認証済みユーザーとセッション、およびレスポンスCookieを操作する
// コールバックを保持する。リゾルバはグローバル状態に依存せず、
// すべてここから読み取る。
type Scope struct {
	// Viewer は認証済みユーザー。未認証の場合nil。
	Viewer *model.User
	// SessionID はCookie認証されたセッションのID。ベアラー認証や未認証の場合は空。
	SessionID string
	// SetSessionCookie はセッションCookieをレスポンスに設定する。
	// HTTPハンドラーが注入する。テストでは検査用のスタブを渡す。
	SetSessionCookie func(sessionID string, maxAge int)
	// ClearSessionCookie はセッションCookieを失効させる。
	ClearSessionCookie func()
}

// WithScope はコンテキストにScopeを注入する。
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// ScopeFrom はコンテキストからScopeを取得する。
// 注入されていない場合は未認証の空Scopeを返す。
func ScopeFrom(ctx context.Context) *Scope {
	if scope, ok := ctx.Value(scopeContextKey{}).(*Scope); ok {
		return scope
	}
	return &Scope{}
}
