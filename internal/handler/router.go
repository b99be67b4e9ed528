package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"

	"github.com/hitoshi/todograph/internal/metrics"
	"github.com/hitoshi/todograph/internal/middleware"
)

// Pinger はデータベース到達性の確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// GraphQL
	Schema        graphql.Schema
	GraphQLConfig GraphQLHandlerConfig

	// ミドルウェア依存
	ViewerResolver    middleware.ViewerResolver
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// 運用
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler
	DB             Pinger
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Auth
//
// 認証ミドルウェアは未認証でも401を返さず通す。認可はリゾルバが判定する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewAuthMiddleware(deps.ViewerResolver))

	graphqlHandler := NewGraphQLHandler(deps.Schema, deps.GraphQLConfig, deps.Metrics)
	r.Post("/graphql", graphqlHandler.ServeHTTP)

	r.Get("/health", NewHealthHandler(deps.DB))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	return r
}

// NewHealthHandler はデータベース到達性を確認するヘルスチェックハンドラーを返す。
// 到達可能なら200、不可なら503を返す。
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
