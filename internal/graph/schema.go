package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/hitoshi/todograph/internal/model"
)

// FieldSet はスキーマに登録されるクエリ・ミューテーションの集合。
// リゾルバグループごとにひとつ実装し、NewSchemaで明示的に合成する。
type FieldSet interface {
	Queries() graphql.Fields
	Mutations() graphql.Fields
}

// NewSchema はリゾルバグループを合成してGraphQLスキーマを構築する。
// フィールド名の衝突は構築時にエラーとして検出する。
// 登録される全リゾルバは業務エラー以外を汎用の内部エラーに変換するようラップされる。
func NewSchema(sets ...FieldSet) (graphql.Schema, error) {
	queries := graphql.Fields{}
	mutations := graphql.Fields{}

	for _, set := range sets {
		for name, field := range set.Queries() {
			if _, exists := queries[name]; exists {
				return graphql.Schema{}, fmt.Errorf("duplicate query field: %s", name)
			}
			queries[name] = maskInternalErrors(name, field)
		}
		for name, field := range set.Mutations() {
			if _, exists := mutations[name]; exists {
				return graphql.Schema{}, fmt.Errorf("duplicate mutation field: %s", name)
			}
			mutations[name] = maskInternalErrors(name, field)
		}
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queries,
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutations,
		}),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build schema: %w", err)
	}
	return schema, nil
}

// maskInternalErrors は業務エラー（*model.APIError）以外のリゾルバエラーを
// 汎用の内部エラーに変換するラッパーを返す。
// 元のエラーは全文をログに残し、ドライバーメッセージや接続先などの
// 内部情報をクライアントに返さない。
// ラップ済みの業務エラーはAPIErrorそのものに正規化して返す。
// エラー拡張の付与が型アサーションで行われるため、ラップのまま返すと
// コードが失われる。
func maskInternalErrors(name string, field *graphql.Field) *graphql.Field {
	resolve := field.Resolve
	if resolve == nil {
		return field
	}

	wrapped := *field
	wrapped.Resolve = func(p graphql.ResolveParams) (interface{}, error) {
		result, err := resolve(p)
		if err != nil {
			var apiErr *model.APIError
			if errors.As(err, &apiErr) {
				return result, apiErr
			}
			slog.Error("operation failed",
				slog.String("operation", name),
				slog.String("error", err.Error()),
			)
			return nil, model.NewInternalError()
		}
		return result, err
	}
	return &wrapped
}
