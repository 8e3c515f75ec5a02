package session

import (
	"context"

	"github.com/hitoshi/atency/internal/model"
)

// View は遷移先の画面を表す。
type View string

const (
	// ViewLogin はログイン画面。
	ViewLogin View = "login"
	// ViewRegister はユーザー登録画面。
	ViewRegister View = "register"
	// ViewDashboard は認証済みユーザーの既定画面。
	ViewDashboard View = "dashboard"
	// ViewAttendance は出退勤打刻画面。
	ViewAttendance View = "attendance"
	// ViewHistory は勤怠履歴画面。
	ViewHistory View = "history"
	// ViewAdmin は管理者画面。
	ViewAdmin View = "admin"
)

// Navigator は画面遷移を実行する。
// ブラウザでのlocation変更に相当し、呼び出しは同期的に完了する。
type Navigator interface {
	Navigate(view View)
}

// NavigatorFunc は関数をNavigatorとして扱うためのアダプタ。
type NavigatorFunc func(view View)

// Navigate はf(view)を呼び出す。
func (f NavigatorFunc) Navigate(view View) {
	f(view)
}

// Guard はページ表示前の認証・ロール検証を行う。
// 副作用は画面遷移のみ。
type Guard struct {
	repo *Repository
	nav  Navigator
}

// NewGuard はGuardを生成する。
func NewGuard(repo *Repository, nav Navigator) *Guard {
	return &Guard{repo: repo, nav: nav}
}

// RequireAuth は認証済みかを検証する。
// 未認証の場合はログイン画面へ遷移してfalseを返す。
// requiredRoleが指定され、保存ユーザーのロールが異なる場合はダッシュボードへ遷移してfalseを返す。
func (g *Guard) RequireAuth(ctx context.Context, requiredRole model.Role) bool {
	if !g.repo.IsAuthenticated(ctx) {
		g.nav.Navigate(ViewLogin)
		return false
	}

	if requiredRole != "" {
		user := g.repo.User(ctx)
		if user == nil || user.Role != requiredRole {
			g.nav.Navigate(ViewDashboard)
			return false
		}
	}

	return true
}

// RedirectIfAuthenticated は認証済みの場合にダッシュボードへ遷移してtrueを返す。
// ログイン・登録画面から認証済みユーザーを遠ざけるために使用する。
func (g *Guard) RedirectIfAuthenticated(ctx context.Context) bool {
	if g.repo.IsAuthenticated(ctx) {
		g.nav.Navigate(ViewDashboard)
		return true
	}
	return false
}

// Logout はセッションを破棄してログイン画面へ遷移する。
func (g *Guard) Logout(ctx context.Context) error {
	err := g.repo.ClearSession(ctx)
	g.nav.Navigate(ViewLogin)
	return err
}

// LandingView はロールに応じたログイン後の遷移先を返す。
func LandingView(role model.Role) View {
	if role == model.RoleAdmin {
		return ViewAdmin
	}
	return ViewDashboard
}
