package graph

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/hitoshi/todograph/internal/model"
)

// IdentityService は認証に関するユースケースのインターフェース。
// auth.Serviceの部分集合として定義する。
type IdentityService interface {
	Signup(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.Session, *model.User, error)
	TokenAuth(ctx context.Context, username, password string) (string, *model.User, error)
	VerifyToken(token string) (*model.TokenClaims, error)
	RefreshToken(token string) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

// DirectoryService はユーザー参照に関するユースケースのインターフェース。
type DirectoryService interface {
	Me(ctx context.Context, viewer *model.User) (*model.User, error)
	ListUsers(ctx context.Context, viewer *model.User) ([]*model.User, error)
}

// IdentityResolvers は認証・ユーザー参照のGraphQLフィールドを構築する。
type IdentityResolvers struct {
	identity  IdentityService
	directory DirectoryService
}

// NewIdentityResolvers は新しいIdentityResolversを生成する。
func NewIdentityResolvers(identity IdentityService, directory DirectoryService) *IdentityResolvers {
	return &IdentityResolvers{
		identity:  identity,
		directory: directory,
	}
}

// Queries は認証・ユーザー参照のクエリフィールドを返す。
func (r *IdentityResolvers) Queries() graphql.Fields {
	return graphql.Fields{
		"me": &graphql.Field{
			Type:        userType,
			Description: "認証済みユーザー自身。未認証の場合null。",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				scope := ScopeFrom(p.Context)
				user, err := r.directory.Me(p.Context, scope.Viewer)
				if err != nil {
					return nil, err
				}
				if user == nil {
					return nil, nil
				}
				return user, nil
			},
		},
		"users": &graphql.Field{
			Type:        graphql.NewList(userType),
			Description: "全ユーザー一覧。ADMINロールのみ。未認証の場合は空リスト。",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				scope := ScopeFrom(p.Context)
				return r.directory.ListUsers(p.Context, scope.Viewer)
			},
		},
	}
}

// Mutations は認証のミューテーションフィールドを返す。
func (r *IdentityResolvers) Mutations() graphql.Fields {
	return graphql.Fields{
		"signup": &graphql.Field{
			Type:        signupPayloadType,
			Description: "新規ユーザーを登録する。自動ログインはしない。",
			Args: graphql.FieldConfigArgument{
				"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				username, _ := p.Args["username"].(string)
				password, _ := p.Args["password"].(string)

				user, err := r.identity.Signup(p.Context, username, password)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"user": user}, nil
			},
		},
		"tokenAuth": &graphql.Field{
			Type:        tokenAuthPayloadType,
			Description: "資格情報を検証してアクセストークンを発行する。セッションは作成しない。",
			Args: graphql.FieldConfigArgument{
				"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				username, _ := p.Args["username"].(string)
				password, _ := p.Args["password"].(string)

				token, user, err := r.identity.TokenAuth(p.Context, username, password)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"token": token, "user": user}, nil
			},
		},
		"login": &graphql.Field{
			Type:        loginPayloadType,
			Description: "資格情報を検証し、セッションCookieとアクセストークンの両方を発行する。",
			Args: graphql.FieldConfigArgument{
				"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				username, _ := p.Args["username"].(string)
				password, _ := p.Args["password"].(string)

				token, session, user, err := r.identity.Login(p.Context, username, password)
				if err != nil {
					return nil, err
				}

				scope := ScopeFrom(p.Context)
				if scope.SetSessionCookie != nil {
					maxAge := int(time.Until(session.ExpiresAt).Seconds())
					scope.SetSessionCookie(session.ID, maxAge)
				}
				return map[string]interface{}{"token": token, "user": user}, nil
			},
		},
		"verifyToken": &graphql.Field{
			Type:        verifyTokenPayloadType,
			Description: "アクセストークンを検証し、ペイロードを返す。",
			Args: graphql.FieldConfigArgument{
				"token": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				token, _ := p.Args["token"].(string)

				claims, err := r.identity.VerifyToken(token)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"payload": claims}, nil
			},
		},
		"refreshToken": &graphql.Field{
			Type:        refreshTokenPayloadType,
			Description: "有効なアクセストークンから新しいトークンを再発行する。",
			Args: graphql.FieldConfigArgument{
				"token": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				token, _ := p.Args["token"].(string)

				refreshed, err := r.identity.RefreshToken(token)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"token": refreshed}, nil
			},
		},
		"logout": &graphql.Field{
			Type:        logoutPayloadType,
			Description: "セッションを破棄してCookieを失効させる。未認証の場合はok:falseを返す。",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				scope := ScopeFrom(p.Context)
				if scope.Viewer == nil {
					return map[string]interface{}{"ok": false}, nil
				}

				// ベアラー認証のみの場合はセッション行がない。Logoutは空IDを無視する。
				if err := r.identity.Logout(p.Context, scope.SessionID); err != nil {
					return nil, err
				}
				if scope.ClearSessionCookie != nil {
					scope.ClearSessionCookie()
				}
				return map[string]interface{}{"ok": true}, nil
			},
		},
	}
}
