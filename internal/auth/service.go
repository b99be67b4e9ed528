// Package auth は登録・ログイン・トークン・セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/todograph/internal/model"
	"github.com/hitoshi/todograph/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      *TokenManager
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokens *TokenManager,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		config:      config,
	}
}

// Signup は新規ユーザーを登録する。
// ユーザー名が登録済みの場合はALREADY_EXISTSエラーを返す。
// ロールは空文字列（非管理者）で初期化され、自動ログインは行わない。
func (s *Service) Signup(ctx context.Context, username, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, model.NewAlreadyExistsError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         "",
		CreatedAt:    time.Now(),
	}

	// 事前チェックと挿入の間の競合は一意制約が拾い、
	// リポジトリが同じALREADY_EXISTSエラーを返す。
	if err := s.userRepo.Create(ctx, user); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// authenticate はユーザー名とパスワードを検証し、該当ユーザーを返す。
// ユーザー不在とパスワード不一致は区別せずINVALID_CREDENTIALSを返す。
func (s *Service) authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	return user, nil
}

// Login は認証情報を検証し、アクセストークンとサーバーサイドセッションを発行する。
func (s *Service) Login(ctx context.Context, username, password string) (string, *model.Session, *model.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", nil, nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return "", nil, nil, err
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, session, user, nil
}

// TokenAuth は認証情報を検証し、アクセストークンのみを発行する。
// セッションは作成しない（ベアラートークン専用フロー）。
func (s *Service) TokenAuth(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

// VerifyToken は発行済みトークンを再検証し、そのペイロードを返す。
func (s *Service) VerifyToken(token string) (*model.TokenClaims, error) {
	return s.tokens.Verify(token)
}

// RefreshToken は有効期限内のトークンから新しいトークンを再発行する。
func (s *Service) RefreshToken(token string) (string, error) {
	return s.tokens.Refresh(token)
}

// Logout は指定セッションをサーバーサイドで破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// ResolveBearer はベアラートークンからユーザーを解決する。
// トークン不正・ユーザー不在の場合はnilを返す（エラーは内部障害のみ）。
func (s *Service) ResolveBearer(ctx context.Context, token string) (*model.User, error) {
	payload, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, payload.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ResolveSession はセッションIDからユーザーを解決する。
// セッション不在・期限切れの場合はnilを返す（エラーは内部障害のみ）。
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
