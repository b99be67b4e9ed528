// Package handler はHTTPエンドポイントとルーティングを提供する。
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/hitoshi/todograph/internal/graph"
	"github.com/hitoshi/todograph/internal/metrics"
	"github.com/hitoshi/todograph/internal/middleware"
)

// graphqlRequest はGraphQLリクエストのJSONエンベロープ。
type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// GraphQLHandlerConfig はGraphQLハンドラーの設定。
type GraphQLHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
}

// GraphQLHandler は/graphqlエンドポイントを処理する。
// 認証ミドルウェアが解決したViewerからリクエストスコープを構築し、
// リゾルバがセッションCookieを操作できるようコールバックを注入する。
type GraphQLHandler struct {
	schema  graphql.Schema
	config  GraphQLHandlerConfig
	metrics metrics.MetricsCollector
}

// NewGraphQLHandler は新しいGraphQLHandlerを生成する。
func NewGraphQLHandler(schema graphql.Schema, config GraphQLHandlerConfig, collector metrics.MetricsCollector) *GraphQLHandler {
	return &GraphQLHandler{
		schema:  schema,
		config:  config,
		metrics: collector,
	}
}

// ServeHTTP はGraphQLリクエストを実行する。
// POSTのJSONエンベロープ {query, variables, operationName} のみ受け付ける。
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.recordHTTPStatus(http.StatusBadRequest)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		h.recordHTTPStatus(http.StatusBadRequest)
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	viewer := middleware.ViewerFromContext(r.Context())
	scope := &graph.Scope{
		Viewer:    viewer.User,
		SessionID: viewer.SessionID,
		SetSessionCookie: func(sessionID string, maxAge int) {
			http.SetCookie(w, &http.Cookie{
				Name:     middleware.SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				Domain:   h.config.CookieDomain,
				MaxAge:   maxAge,
				HttpOnly: true,
				Secure:   h.config.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		},
		ClearSessionCookie: func() {
			http.SetCookie(w, &http.Cookie{
				Name:     middleware.SessionCookieName,
				Value:    "",
				Path:     "/",
				Domain:   h.config.CookieDomain,
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   h.config.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		},
	}

	start := time.Now()
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        graph.WithScope(r.Context(), scope),
	})
	h.recordOperation(req.OperationName, result, time.Since(start))

	// GraphQLのエラーはレスポンスボディ内で表現する。HTTPステータスは200のまま。
	h.recordHTTPStatus(http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		// ヘッダー送信後のためステータスは変更できない
		return
	}
}

func (h *GraphQLHandler) recordOperation(name string, result *graphql.Result, duration time.Duration) {
	if h.metrics == nil {
		return
	}
	if name == "" {
		name = "unnamed"
	}
	outcome := metrics.OutcomeOK
	if len(result.Errors) > 0 {
		outcome = metrics.OutcomeError
	}
	h.metrics.RecordOperation(name, outcome)
	h.metrics.RecordOperationLatency(name, duration)
}

func (h *GraphQLHandler) recordHTTPStatus(code int) {
	if h.metrics != nil {
		h.metrics.RecordHTTPStatus(code)
	}
}
