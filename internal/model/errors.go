// Package model はドメインモデルを定義する。
package model

// APIError は統一エラーフォーマットを表す。
// GraphQLレスポンスのerrors配列にmessageとして載り、
// コード・カテゴリ・対処方法はerror extensionsとして公開される。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, todo
	Action   string // クライアント向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return e.Message
}

// Extensions はGraphQLのerror extensionsとして公開する情報を返す。
func (e *APIError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":     e.Code,
		"category": e.Category,
		"action":   e.Action,
	}
}

// 定義済みエラーコード
const (
	ErrCodeAlreadyExists          = "ALREADY_EXISTS"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	ErrCodeTodoNotFound           = "TODO_NOT_FOUND"
	ErrCodeNotPermitted           = "NOT_PERMITTED"
	ErrCodeInternal               = "INTERNAL_ERROR"
)

// NewAlreadyExistsError は登録済みユーザー名での再登録エラーを生成する。
func NewAlreadyExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyExists,
		Message:  "Username already exists",
		Category: "auth",
		Action:   "Choose a different username.",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// ユーザー不在とパスワード不一致は区別せず同一のエラーを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Please enter valid credentials",
		Category: "auth",
		Action:   "Check your username and password.",
	}
}

// NewAuthenticationRequiredError は未認証での保護操作エラーを生成する。
func NewAuthenticationRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthenticationRequired,
		Message:  "Authentication required",
		Category: "auth",
		Action:   "Log in and try again.",
	}
}

// NewTodoNotFoundError はTodo未検出エラーを生成する。
// updateTodo/deleteTodoでは他ユーザー所有のTodoも「存在しない」として扱う。
func NewTodoNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeTodoNotFound,
		Message:  "Todo not found",
		Category: "todo",
		Action:   "Check the todo ID.",
	}
}

// NewNotPermittedError は権限不足エラーを生成する。
func NewNotPermittedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotPermitted,
		Message:  "Not permitted",
		Category: "auth",
		Action:   "This operation requires additional privileges.",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
		Action:   "Try again later.",
	}
}
