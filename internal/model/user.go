// Package model はドメインモデルを定義する。
package model

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleEmployee は一般従業員ロール。
	RoleEmployee Role = "EMPLOYEE"
	// RoleAdmin は管理者ロール。全従業員の勤怠を閲覧できる。
	RoleAdmin Role = "ADMIN"
)

// DefaultTokenType はトークン種別が省略された場合の既定値。
const DefaultTokenType = "Bearer"

// User はセッションに保存する最小限のユーザープロファイル。
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin は管理者ロールかどうかを返す。
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthResponse はログイン・登録APIの成功レスポンス。
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
}

// Session はクライアント側で保持する認証状態。
// 同時に有効なSessionは1つだけ。
type Session struct {
	AccessToken string
	TokenType   string
	User        *User
}

// LoginRequest はログインAPIのリクエストボディ。
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest はユーザー登録APIのリクエストボディ。
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}
