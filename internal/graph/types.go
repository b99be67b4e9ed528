package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/hitoshi/todograph/internal/model"
)

// userType はUser型のGraphQL表現。パスワードハッシュ等の内部フィールドは公開しない。
var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if u, ok := p.Source.(*model.User); ok {
					return u.ID, nil
				}
				return nil, nil
			},
		},
		"username": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if u, ok := p.Source.(*model.User); ok {
					return u.Username, nil
				}
				return nil, nil
			},
		},
		"role": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if u, ok := p.Source.(*model.User); ok {
					return u.Role, nil
				}
				return nil, nil
			},
		},
	},
})

// todoType はTodo型のGraphQL表現。
var todoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Todo",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if t, ok := p.Source.(*model.Todo); ok {
					return t.ID, nil
				}
				return nil, nil
			},
		},
		"title": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if t, ok := p.Source.(*model.Todo); ok {
					return t.Title, nil
				}
				return nil, nil
			},
		},
		"completed": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if t, ok := p.Source.(*model.Todo); ok {
					return t.Completed, nil
				}
				return nil, nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.DateTime),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if t, ok := p.Source.(*model.Todo); ok {
					return t.CreatedAt, nil
				}
				return nil, nil
			},
		},
	},
})

// tokenPayloadType は検証済みトークンのペイロード表現。
var tokenPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TokenPayload",
	Fields: graphql.Fields{
		"userId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c, ok := p.Source.(*model.TokenClaims); ok {
					return c.UserID, nil
				}
				return nil, nil
			},
		},
		"username": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c, ok := p.Source.(*model.TokenClaims); ok {
					return c.Username, nil
				}
				return nil, nil
			},
		},
		"exp": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c, ok := p.Source.(*model.TokenClaims); ok {
					return int(c.ExpiresAt.UTC().Truncate(time.Second).Unix()), nil
				}
				return nil, nil
			},
		},
	},
})

// ミューテーションの戻り値はmapソースのペイロードオブジェクトで包む。

var signupPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SignupPayload",
	Fields: graphql.Fields{
		"user": &graphql.Field{Type: userType},
	},
})

var tokenAuthPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TokenAuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":  &graphql.Field{Type: userType},
	},
})

var loginPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LoginPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":  &graphql.Field{Type: userType},
	},
})

var verifyTokenPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VerifyTokenPayload",
	Fields: graphql.Fields{
		"payload": &graphql.Field{Type: tokenPayloadType},
	},
})

var refreshTokenPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RefreshTokenPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var logoutPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LogoutPayload",
	Fields: graphql.Fields{
		"ok": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var createTodoPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateTodoPayload",
	Fields: graphql.Fields{
		"todo": &graphql.Field{Type: todoType},
	},
})

var updateTodoPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UpdateTodoPayload",
	Fields: graphql.Fields{
		"todo": &graphql.Field{Type: todoType},
	},
})

var toggleTodoPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ToggleTodoPayload",
	Fields: graphql.Fields{
		"todo": &graphql.Field{Type: todoType},
	},
})

var deleteTodoPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DeleteTodoPayload",
	Fields: graphql.Fields{
		"ok": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})
