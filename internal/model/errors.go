package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError はAPI呼び出し失敗を表す統一エラーフォーマット。
// 通信失敗時はStatus=0、HTTPエラー時はHTTPステータスを保持する。
type APIError struct {
	Status           int               // HTTPステータス。通信失敗時は0
	Message          string            // 表示用メッセージ
	ValidationErrors map[string]string // フィールド単位のエラー。なければnil
	Payload          json.RawMessage   // パース済みのレスポンスボディ。パース失敗時はnil
	Cause            error             // 通信失敗の原因。HTTPエラー時はnil
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// Unwrap は通信失敗の原因を返す。
func (e *APIError) Unwrap() error {
	return e.Cause
}

// 定義済みメッセージ
const (
	MsgNetworkError  = "Network error. Please try again."
	MsgRequestFailed = "Request failed"
)

// NewNetworkError は通信失敗エラーを生成する。causeは原因となったエラーで、nilでもよい。
func NewNetworkError(cause error) *APIError {
	return &APIError{
		Status:  0,
		Message: MsgNetworkError,
		Cause:   cause,
	}
}

// IsNetwork は通信失敗かどうかを返す。
func (e *APIError) IsNetwork() bool {
	return e.Status == 0
}

// IsUnauthorized は認証失敗(401)かどうかを返す。
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsForbidden は権限不足(403)かどうかを返す。
func (e *APIError) IsForbidden() bool {
	return e.Status == http.StatusForbidden
}

// IsValidation はフィールド単位のエラーを伴う4xxかどうかを返す。
func (e *APIError) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500 && len(e.ValidationErrors) > 0
}

// AsAPIError はerrからAPIErrorを取り出す。該当しない場合はnilを返す。
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
