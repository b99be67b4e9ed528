// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/todograph/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// username一意制約に違反した場合はALREADY_EXISTSエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// ListAll は全ユーザーを返す。並び順はストレージ既定（未指定）。
	ListAll(ctx context.Context) ([]*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// TodoRepository はTodoデータの永続化インターフェース。
// 所有者スコープの読み書きと、toggle用の非スコープ検索を区別して提供する。
type TodoRepository interface {
	// Create はTodoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// FindByID は所有者を問わず指定IDのTodoを取得する。見つからない場合はnilを返す。
	// toggleTodoの存在確認専用。
	FindByID(ctx context.Context, id string) (*model.Todo, error)

	// FindByIDAndOwner は指定IDかつ指定所有者のTodoを取得する。
	// 他ユーザー所有のTodoは存在しないものとして扱い、nilを返す。
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Todo, error)

	// ListByOwner は指定所有者の全Todoをcreated_at昇順で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)

	// Update はTodoのtitleとcompletedを上書き更新する。
	Update(ctx context.Context, todo *model.Todo) error

	// DeleteByIDAndOwner は指定IDかつ指定所有者のTodoを削除する。
	// 該当行がない場合はTODO_NOT_FOUNDエラーを返す。
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error
}
