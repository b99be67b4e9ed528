// Package todo はTodoのCRUDとトグルのドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/todograph/internal/model"
	"github.com/hitoshi/todograph/internal/repository"
)

// TitleSanitizer はタイトルのサニタイズインターフェース。
// security.TitleSanitizerServiceの部分集合として定義する。
type TitleSanitizer interface {
	Sanitize(rawTitle string) string
}

// Service はTodo管理のサービス層。
// 全操作で所有者分離を強制する。例外はToggleの存在確認のみで、
// そこでは所有者を問わない検索の後に所有者/スーパーユーザー判定を行う。
type Service struct {
	todoRepo  repository.TodoRepository
	sanitizer TitleSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(todoRepo repository.TodoRepository, sanitizer TitleSanitizer) *Service {
	return &Service{
		todoRepo:  todoRepo,
		sanitizer: sanitizer,
	}
}

// ListMine は呼び出し元が所有する全Todoを返す。
// 未認証の場合は空リストを返す（エラーにしない）。
func (s *Service) ListMine(ctx context.Context, viewer *model.User) ([]*model.Todo, error) {
	if viewer == nil {
		return []*model.Todo{}, nil
	}

	todos, err := s.todoRepo.ListByOwner(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Create は呼び出し元を所有者とするTodoを作成する。
// 未認証の場合はAUTHENTICATION_REQUIREDエラーを返す。
func (s *Service) Create(ctx context.Context, viewer *model.User, title string) (*model.Todo, error) {
	if viewer == nil {
		return nil, model.NewAuthenticationRequiredError()
	}

	todo := &model.Todo{
		ID:        uuid.New().String(),
		OwnerID:   viewer.ID,
		Title:     s.sanitizer.Sanitize(title),
		Completed: false,
		CreatedAt: time.Now(),
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	slog.Info("todo created",
		slog.String("todo_id", todo.ID),
		slog.String("owner_id", viewer.ID),
	)

	return todo, nil
}

// Update は指定Todoのtitle/completedを部分更新する。
// nilの引数は変更しない。
// 検索は所有者スコープであり、他ユーザー所有のTodoは
// 存在しないものとしてTODO_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, viewer *model.User, id string, title *string, completed *bool) (*model.Todo, error) {
	if viewer == nil {
		return nil, model.NewAuthenticationRequiredError()
	}

	todo, err := s.todoRepo.FindByIDAndOwner(ctx, id, viewer.ID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError()
	}

	if title != nil {
		todo.Title = s.sanitizer.Sanitize(*title)
	}
	if completed != nil {
		todo.Completed = *completed
	}

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// Toggle は指定Todoのcompletedを反転する。
// 存在確認は所有者スコープではない（update/deleteとは意図的に非対称）。
// 検索後、所有者でもスーパーユーザーでもない呼び出し元には
// NOT_PERMITTEDを返す。未認証の呼び出し元も同様にNOT_PERMITTEDになる。
func (s *Service) Toggle(ctx context.Context, viewer *model.User, id string) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError()
	}

	if viewer == nil || (todo.OwnerID != viewer.ID && !viewer.IsSuperuser) {
		return nil, model.NewNotPermittedError()
	}

	todo.Completed = !todo.Completed
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// Delete は指定Todoを完全に削除する。
// 検索は所有者スコープであり、他ユーザー所有・不存在・削除済みは
// いずれも同一のTODO_NOT_FOUNDになる。
func (s *Service) Delete(ctx context.Context, viewer *model.User, id string) error {
	if viewer == nil {
		return model.NewAuthenticationRequiredError()
	}

	if err := s.todoRepo.DeleteByIDAndOwner(ctx, id, viewer.ID); err != nil {
		return err
	}

	slog.Info("todo deleted",
		slog.String("todo_id", id),
		slog.String("owner_id", viewer.ID),
	)

	return nil
}
