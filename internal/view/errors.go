package view

import (
	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/security"
)

var sanitizer security.TextSanitizer = security.NewTextSanitizer()

func sanitize(s string) string {
	return sanitizer.Sanitize(s)
}

// ErrorOutcome はAPIエラーに対する画面の反応。
// Logoutがtrueの場合、呼び出し元はセッションを破棄してログイン画面へ遷移する。
type ErrorOutcome struct {
	Logout  bool
	Message string
}

// HandleError はエラーを画面の反応に変換する。
// 401はどの画面でも強制ログアウトとする。
// それ以外はエラーのメッセージ、fallback、"Something went wrong" の順に採用する。
func HandleError(err error, fallback string) ErrorOutcome {
	if err == nil {
		return ErrorOutcome{}
	}

	var message string
	if apiErr := model.AsAPIError(err); apiErr != nil {
		if apiErr.IsUnauthorized() {
			return ErrorOutcome{Logout: true}
		}
		message = apiErr.Message
	} else {
		message = err.Error()
	}

	message = sanitize(message)
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = MsgSomethingWentWrong
	}
	return ErrorOutcome{Message: message}
}
