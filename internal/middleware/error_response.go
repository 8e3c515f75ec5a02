package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// MsgInternalError は想定外のエラー時にクライアントへ返すメッセージ。
const MsgInternalError = "An unexpected error occurred. Please contact support with the referenceId."

// ErrorBody はAPIエラーレスポンスの統一フォーマット。
// errorにはステータス名（BAD_REQUEST等）、errorsにはフィールド単位のエラーを格納する。
type ErrorBody struct {
	ReferenceID string            `json:"referenceId"`
	Timestamp   string            `json:"timestamp"`
	Status      int               `json:"status"`
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// WriteError は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// fieldErrorsはバリデーションエラーがない場合nilでよい。
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string, fieldErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorBody{
		ReferenceID: ReferenceIDFromContext(r.Context()),
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Status:      status,
		Error:       StatusName(status),
		Message:     message,
		Path:        r.URL.Path,
		Errors:      fieldErrors,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントにはreferenceIdで照会を促す。
func WriteInternalServerError(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusInternalServerError, MsgInternalError, nil)
}

// StatusName はHTTPステータスを "NOT_FOUND" 形式の名前にする。
func StatusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
