// Package model はドメインモデルを定義する。
package model

import "time"

// RoleAdmin は全ユーザー一覧の閲覧を許可するロール文字列。
// 大文字小文字を区別して厳密に比較する。
const RoleAdmin = "ADMIN"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptによる一方向ハッシュであり、平文パスワードは保持しない。
// RoleとIsSuperuserは独立した権限軸として扱う（統合しない）。
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	IsSuperuser  bool
	CreatedAt    time.Time
}

// IsAdmin はユーザーがADMINロールを持つかを返す。
// IsSuperuserフラグとは独立した判定である。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenClaims は検証済みアクセストークンのペイロードを表す。
type TokenClaims struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}
