package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/todograph/internal/model"
)

// Claims はアクセストークンのJWTクレームを表す。
// 標準クレームにユーザーIDとユーザー名を加えたもの。
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenManager はHS256署名のアクセストークンの発行・検証・更新を行う。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager はTokenManagerを生成する。
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue は指定ユーザーのアクセストークンを発行する。
func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、そのペイロードを返す。
// 署名不正・期限切れ・形式不正はINVALID_CREDENTIALSエラーになる。
func (m *TokenManager) Verify(tokenString string) (*model.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.NewInvalidCredentialsError()
	}

	return &model.TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh は有効期限内のトークンから新しい有効期限のトークンを再発行する。
// 期限切れトークンの更新は拒否される。
func (m *TokenManager) Refresh(tokenString string) (string, error) {
	payload, err := m.Verify(tokenString)
	if err != nil {
		return "", err
	}

	return m.Issue(&model.User{ID: payload.UserID, Username: payload.Username})
}
