package view

import "strings"

// 入力値の最小文字数
const (
	MinFullNameLength = 3
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// FieldErrors は登録フォームのフィールド単位のエラー。空文字列はエラーなし。
type FieldErrors struct {
	FullName string
	Username string
	Password string
}

// Empty はエラーが1つもないかを返す。
func (e FieldErrors) Empty() bool {
	return e.FullName == "" && e.Username == "" && e.Password == ""
}

// ValidateRegistration は登録フォームの入力を検証する。値は前後の空白を除いて評価する。
func ValidateRegistration(fullName, username, password string) FieldErrors {
	var errs FieldErrors
	if runeLen(strings.TrimSpace(fullName)) < MinFullNameLength {
		errs.FullName = "Full name must be at least 3 characters."
	}
	if runeLen(strings.TrimSpace(username)) < MinUsernameLength {
		errs.Username = "Username must be at least 3 characters."
	}
	if runeLen(strings.TrimSpace(password)) < MinPasswordLength {
		errs.Password = "Password must be at least 6 characters."
	}
	return errs
}

// ValidateLogin はログインフォームの入力を検証し、エラーメッセージを返す。問題なければ空文字列。
func ValidateLogin(username, password string) string {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return MsgLoginRequired
	}
	return ""
}

// MergeServerErrors はサーバーが返したフィールドエラーで表示内容を置き換える。
// serverがnilの場合はlocalをそのまま返す。サーバー側にないフィールドは空になる。
func MergeServerErrors(local FieldErrors, server map[string]string) FieldErrors {
	if server == nil {
		return local
	}
	return FieldErrors{
		FullName: sanitize(server["fullName"]),
		Username: sanitize(server["username"]),
		Password: sanitize(server["password"]),
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}
