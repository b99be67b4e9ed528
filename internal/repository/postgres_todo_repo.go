package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/todograph/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したTodoリポジトリ。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// Create はTodoを作成する。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, owner_id, title, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		todo.ID, todo.OwnerID, todo.Title, todo.Completed, todo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindByID は所有者を問わず指定IDのTodoを取得する。見つからない場合はnilを返す。
// toggleTodoの存在確認はこちらを使う（所有者スコープではない）。
func (r *PostgresTodoRepo) FindByID(ctx context.Context, id string) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, completed, created_at
		 FROM todos WHERE id = $1`,
		id,
	).Scan(&todo.ID, &todo.OwnerID, &todo.Title, &todo.Completed, &todo.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo by ID: %w", err)
	}

	return todo, nil
}

// FindByIDAndOwner は指定IDかつ指定所有者のTodoを取得する。
// 他ユーザー所有のTodoは存在しないものとして扱い、nilを返す。
func (r *PostgresTodoRepo) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, completed, created_at
		 FROM todos WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&todo.ID, &todo.OwnerID, &todo.Title, &todo.Completed, &todo.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo by ID and owner: %w", err)
	}

	return todo, nil
}

// ListByOwner は指定所有者の全Todoをcreated_at昇順で返す。
func (r *PostgresTodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, completed, created_at
		 FROM todos WHERE owner_id = $1
		 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*model.Todo{}
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(&todo.ID, &todo.OwnerID, &todo.Title, &todo.Completed, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// Update はTodoのtitleとcompletedを上書き更新する。
func (r *PostgresTodoRepo) Update(ctx context.Context, todo *model.Todo) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = $1, completed = $2 WHERE id = $3`,
		todo.Title, todo.Completed, todo.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewTodoNotFoundError()
	}
	return nil
}

// DeleteByIDAndOwner は指定IDかつ指定所有者のTodoを削除する。
// 該当行がない場合（不存在・他ユーザー所有・削除済み）はTODO_NOT_FOUNDエラーを返す。
func (r *PostgresTodoRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewTodoNotFoundError()
	}
	return nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
