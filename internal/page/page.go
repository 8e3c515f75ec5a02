// Package page は画面ごとの処理（認証ガード、API呼び出し、ビューモデル生成）を提供する。
// 画面遷移はsession.Navigatorに委譲し、APIエラーは共通のハンドラーで処理する。
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/view"
)

// API はページが利用するバックエンド操作。*api.Clientが実装する。
type API interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	MySummary(ctx context.Context) (*model.AttendanceSummary, error)
	MyRecords(ctx context.Context) ([]model.AttendanceRecord, error)
	CheckIn(ctx context.Context) (*model.AttendanceRecord, error)
	CheckOut(ctx context.Context) (*model.AttendanceRecord, error)
	AllAttendance(ctx context.Context) ([]model.AttendanceRecord, error)
	AttendanceByUser(ctx context.Context, userID int64) ([]model.AttendanceRecord, error)
}

// Page は画面のメタデータ。
type Page struct {
	Name         session.View
	AuthRequired bool
	Role         model.Role // 空の場合はロール不問
}

// pages は既知の画面一覧。
var pages = map[session.View]Page{
	session.ViewLogin:      {Name: session.ViewLogin},
	session.ViewRegister:   {Name: session.ViewRegister},
	session.ViewDashboard:  {Name: session.ViewDashboard, AuthRequired: true},
	session.ViewAttendance: {Name: session.ViewAttendance, AuthRequired: true},
	session.ViewHistory:    {Name: session.ViewHistory, AuthRequired: true},
	session.ViewAdmin:      {Name: session.ViewAdmin, AuthRequired: true, Role: model.RoleAdmin},
}

// Lookup は画面名からメタデータを返す。
func Lookup(name string) (Page, bool) {
	p, ok := pages[session.View(name)]
	return p, ok
}

// ErrRedirected はガードにより別画面へ遷移したことを示す。
var ErrRedirected = errors.New("redirected to another page")

// MsgSessionExpired は401による強制ログアウト時の表示。
const MsgSessionExpired = "Your session has expired. Please log in again."

// Failure は画面に表示するエラー。
type Failure struct {
	Message   string
	Fields    view.FieldErrors
	LoggedOut bool  // 401により強制ログアウトした
	Err       error // 原因
}

// Error はerrorインターフェースを実装する。
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap は原因のエラーを返す。
func (f *Failure) Unwrap() error {
	return f.Err
}

// Tone は通知の種類。
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneInfo    Tone = "info"
)

// Notice は処理完了時の通知（トースト相当）。
type Notice struct {
	Message string
	Tone    Tone
}

// Controller は全画面の処理を束ねる。
type Controller struct {
	api      API
	sessions *session.Repository
	guard    *session.Guard
	nav      session.Navigator
	logger   *slog.Logger
	now      func() time.Time
}

// NewController はControllerを生成する。
func NewController(api API, sessions *session.Repository, nav session.Navigator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:      api,
		sessions: sessions,
		guard:    session.NewGuard(sessions, nav),
		nav:      nav,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock は当日判定に使う時計を差し替える。
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// Enter は画面に入る前のガードを実行する。
// 認証必須の画面では未認証・ロール不一致で遷移してErrRedirectedを返す。
// ログイン・登録画面では認証済みならダッシュボードへ遷移してErrRedirectedを返す。
func (c *Controller) Enter(ctx context.Context, name session.View) error {
	p, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	if p.AuthRequired {
		if !c.guard.RequireAuth(ctx, p.Role) {
			return ErrRedirected
		}
		return nil
	}

	if c.guard.RedirectIfAuthenticated(ctx) {
		return ErrRedirected
	}
	return nil
}

// Logout はセッションを破棄してログイン画面へ遷移する。
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.guard.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser は保存済みのユーザーを返す。未認証の場合はnil。
func (c *Controller) CurrentUser(ctx context.Context) *model.User {
	if !c.sessions.IsAuthenticated(ctx) {
		return nil
	}
	return c.sessions.User(ctx)
}

// today は当日の日付文字列を返す。
func (c *Controller) today() string {
	return view.Today(c.now())
}

// fail はAPIエラーを共通の方針で処理する。
// 401はどの画面でもセッションを破棄してログイン画面へ遷移する。
func (c *Controller) fail(ctx context.Context, err error, fallback string) error {
	out := view.HandleError(err, fallback)
	if out.Logout {
		c.logger.Info("session rejected by server, logging out")
		if lerr := c.guard.Logout(ctx); lerr != nil {
			c.logger.Error("failed to clear session", slog.String("error", lerr.Error()))
		}
		return &Failure{Message: MsgSessionExpired, LoggedOut: true, Err: err}
	}
	return &Failure{Message: out.Message, Err: err}
}
