// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TitleSanitizerService はTodoタイトルをサニタイズし、
// 格納型XSSなどのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリの厳格ポリシーで全タグを除去する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TitleSanitizerService はタイトルのサニタイズ機能のインターフェースを定義する。
// Todoの保存前（作成・タイトル更新）に使用される。
type TitleSanitizerService interface {
	// Sanitize はタイトルから全HTMLタグを除去したプレーンテキストを返す。
	// 前後の空白は削除される。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawTitle string) string
}

// titleSanitizer はTitleSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type titleSanitizer struct {
	policy *bluemonday.Policy
}

// NewTitleSanitizer はTitleSanitizerServiceの新しいインスタンスを生成する。
// タイトルはプレーンテキストとして扱うため、タグを一切許可しない
// StrictPolicyを使用する。
func NewTitleSanitizer() *titleSanitizer {
	return &titleSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はタイトルから全HTMLタグを除去したプレーンテキストを返す。
// bluemondayはエンティティをエスケープして出力するため、
// プレーンテキストとして保存できるようアンエスケープして返す。
func (s *titleSanitizer) Sanitize(rawTitle string) string {
	cleaned := s.policy.Sanitize(rawTitle)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// compile-time interface check
var _ TitleSanitizerService = (*titleSanitizer)(nil)
