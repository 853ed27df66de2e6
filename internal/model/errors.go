// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"net/http"
)

// ErrorKind はドメインエラーの分類を表す。
type ErrorKind string

// 定義済みエラー分類
const (
	KindValidation             ErrorKind = "validation"
	KindAuthenticationRequired ErrorKind = "authentication_required"
	KindAuthorizationDenied    ErrorKind = "authorization_denied"
	KindNotFound               ErrorKind = "not_found"
	KindMethodNotAllowed       ErrorKind = "method_not_allowed"
	KindConflict               ErrorKind = "conflict"
	KindBadRequest             ErrorKind = "bad_request"
	KindRateLimited            ErrorKind = "rate_limited"
	KindInternal               ErrorKind = "internal"
)

// 固定メッセージ
const (
	MsgInvalidInput      = "Invalid input"
	MsgNotAuthenticated  = "Not authenticated!"
	MsgNotAuthorized     = "Not authorized!"
	MsgPostNotFound      = "No post found!"
	MsgUserNotFound      = "User not found"
	MsgPasswordIncorrect = "Password is incorrect"
	MsgUserExists        = "User exists already!"
	MsgInvalidUser       = "Invalid user."
	MsgInvalidBody       = "Invalid request body"
	MsgRouteNotFound     = "Not found"
	MsgMethodNotAllowed  = "Method not allowed"
	MsgTooManyRequests   = "Too many requests"
	MsgInternal          = "An error occurred"
)

// FieldError は1件の入力検証違反を表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError はクライアントへ返却可能な業務エラーを表す。
// StatusCode と Data はエラーレスポンス生成時にそのまま使われる。
type DomainError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Data       []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *DomainError) Error() string {
	return e.Message
}

// AsDomainError はエラーチェーンからDomainErrorを取り出す。
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind はエラーが指定分類のDomainErrorかどうかを判定する。
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsDomainError(err)
	return ok && de.Kind == kind
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(fields []FieldError) *DomainError {
	return &DomainError{
		Kind:       KindValidation,
		Message:    MsgInvalidInput,
		StatusCode: http.StatusUnprocessableEntity,
		Data:       fields,
	}
}

// NewAuthenticationError は認証エラーを生成する。
func NewAuthenticationError(message string) *DomainError {
	return &DomainError{
		Kind:       KindAuthenticationRequired,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotAuthenticatedError は未認証アクセスのエラーを生成する。
func NewNotAuthenticatedError() *DomainError {
	return NewAuthenticationError(MsgNotAuthenticated)
}

// NewNotAuthorizedError は所有者以外による操作のエラーを生成する。
func NewNotAuthorizedError() *DomainError {
	return &DomainError{
		Kind:       KindAuthorizationDenied,
		Message:    MsgNotAuthorized,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError(message string) *DomainError {
	return &DomainError{
		Kind:       KindNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewMethodNotAllowedError はルートが対応していないHTTPメソッドのエラーを生成する。
func NewMethodNotAllowedError() *DomainError {
	return &DomainError{
		Kind:       KindMethodNotAllowed,
		Message:    MsgMethodNotAllowed,
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// NewConflictError は一意制約に抵触する登録のエラーを生成する。
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Kind:       KindConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewBadRequestError はリクエスト形式不正のエラーを生成する。
func NewBadRequestError(message string) *DomainError {
	return &DomainError{
		Kind:       KindBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *DomainError {
	return &DomainError{
		Kind:       KindRateLimited,
		Message:    MsgTooManyRequests,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInternalError は内部エラーを生成する。詳細はクライアントに返さない。
func NewInternalError() *DomainError {
	return &DomainError{
		Kind:       KindInternal,
		Message:    MsgInternal,
		StatusCode: http.StatusInternalServerError,
	}
}
