package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/hitoshi/todograph/internal/model"
)

// TodoService はTodo操作に関するユースケースのインターフェース。
// todo.Serviceの部分集合として定義する。
type TodoService interface {
	ListMine(ctx context.Context, viewer *model.User) ([]*model.Todo, error)
	Create(ctx context.Context, viewer *model.User, title string) (*model.Todo, error)
	Update(ctx context.Context, viewer *model.User, id string, title *string, completed *bool) (*model.Todo, error)
	Toggle(ctx context.Context, viewer *model.User, id string) (*model.Todo, error)
	Delete(ctx context.Context, viewer *model.User, id string) error
}

// TodoResolvers はTodo操作のGraphQLフィールドを構築する。
type TodoResolvers struct {
	todos TodoService
}

// NewTodoResolvers は新しいTodoResolversを生成する。
func NewTodoResolvers(todos TodoService) *TodoResolvers {
	return &TodoResolvers{todos: todos}
}

// Queries はTodo参照のクエリフィールドを返す。
func (r *TodoResolvers) Queries() graphql.Fields {
	return graphql.Fields{
		"myTodos": &graphql.Field{
			Type:        graphql.NewList(todoType),
			Description: "認証済みユーザー自身のTodo一覧（作成日時順）。未認証の場合は空リスト。",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				scope := ScopeFrom(p.Context)
				return r.todos.ListMine(p.Context, scope.Viewer)
			},
		},
	}
}

// Mutations はTodo操作のミューテーションフィールドを返す。
func (r *TodoResolvers) Mutations() graphql.Fields {
	return graphql.Fields{
		"createTodo": &graphql.Field{
			Type:        createTodoPayloadType,
			Description: "新しいTodoを作成する。タイトルはサニタイズされる。",
			Args: graphql.FieldConfigArgument{
				"title": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				title, _ := p.Args["title"].(string)

				scope := ScopeFrom(p.Context)
				created, err := r.todos.Create(p.Context, scope.Viewer, title)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"todo": created}, nil
			},
		},
		"updateTodo": &graphql.Field{
			Type:        updateTodoPayloadType,
			Description: "自身のTodoのタイトル・完了状態を更新する。省略したフィールドは変更しない。",
			Args: graphql.FieldConfigArgument{
				"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"title":     &graphql.ArgumentConfig{Type: graphql.String},
				"completed": &graphql.ArgumentConfig{Type: graphql.Boolean},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)

				var title *string
				if v, ok := p.Args["title"].(string); ok {
					title = &v
				}
				var completed *bool
				if v, ok := p.Args["completed"].(bool); ok {
					completed = &v
				}

				scope := ScopeFrom(p.Context)
				updated, err := r.todos.Update(p.Context, scope.Viewer, id, title, completed)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"todo": updated}, nil
			},
		},
		"toggleTodo": &graphql.Field{
			Type:        toggleTodoPayloadType,
			Description: "Todoの完了状態を反転する。所有者またはスーパーユーザーのみ。",
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)

				scope := ScopeFrom(p.Context)
				toggled, err := r.todos.Toggle(p.Context, scope.Viewer, id)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"todo": toggled}, nil
			},
		},
		"deleteTodo": &graphql.Field{
			Type:        deleteTodoPayloadType,
			Description: "自身のTodoを削除する。",
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)

				scope := ScopeFrom(p.Context)
				if err := r.todos.Delete(p.Context, scope.Viewer, id); err != nil {
					return nil, err
				}
				return map[string]interface{}{"ok": true}, nil
			},
		},
	}
}
