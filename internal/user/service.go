// Package user はユーザー一覧・本人情報のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/todograph/internal/model"
	"github.com/hitoshi/todograph/internal/repository"
)

// Service はユーザー参照系のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Me は呼び出し元ユーザーを返す。未認証の場合はnilを返す（エラーにしない）。
func (s *Service) Me(ctx context.Context, viewer *model.User) (*model.User, error) {
	return viewer, nil
}

// ListUsers は全登録ユーザーを返す。
// 未認証の場合は空リストを返す（エラーにしない）。
// 認証済みでもADMINロールでない場合はNOT_PERMITTEDエラーを返す。
// ロール判定はIsSuperuserフラグとは独立で、スーパーユーザーでも
// ADMINロールがなければ閲覧できない。
func (s *Service) ListUsers(ctx context.Context, viewer *model.User) ([]*model.User, error) {
	if viewer == nil {
		return []*model.User{}, nil
	}
	if !viewer.IsAdmin() {
		return nil, model.NewNotPermittedError()
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	slog.Info("admin listed users",
		slog.String("admin_id", viewer.ID),
		slog.Int("count", len(users)),
	)

	return users, nil
}
