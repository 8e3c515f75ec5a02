package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hitoshi/atency/internal/api"
	"github.com/hitoshi/atency/internal/config"
	"github.com/hitoshi/atency/internal/database"
	"github.com/hitoshi/atency/internal/metrics"
	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/page"
	"github.com/hitoshi/atency/internal/preference"
	"github.com/hitoshi/atency/internal/render"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/storage"
	"github.com/hitoshi/atency/internal/view"
	"github.com/prometheus/client_golang/prometheus"
)

// compile-time interface checks
var (
	_ page.API             = (*api.Client)(nil)
	_ api.AuthHeaderSource = (*session.Repository)(nil)
)

// viewHints は遷移先の画面ごとに次に実行するコマンドの案内。
var viewHints = map[session.View]string{
	session.ViewLogin:      "Sign in with: atency login -u NAME -p PASS",
	session.ViewRegister:   "Create an account with: atency register --name N -u U -p P",
	session.ViewDashboard:  "Open your dashboard with: atency dashboard",
	session.ViewAttendance: "Check today's status with: atency attendance",
	session.ViewHistory:    "Browse your records with: atency history",
	session.ViewAdmin:      "Open the admin view with: atency admin",
}

// cli はクライアント系コマンドの実行に必要な依存関係を束ねる。
type cli struct {
	streams  Streams
	logger   *slog.Logger
	sessions *session.Repository
	prefs    *preference.Repository
	ctl      *page.Controller
	registry *prometheus.Registry
	color    bool
	input    *bufio.Reader
	now      func() time.Time
}

// openClient は状態保存先を準備し、クライアントを組み立てる。
// 返されるcloseFnで状態DBを閉じる。
func openClient(cfg *config.Config, s Streams, logger *slog.Logger) (*cli, func(), error) {
	if err := prepareState(cfg.StateURL); err != nil {
		return nil, nil, err
	}

	db, _, err := database.Open(cfg.StateURL)
	if err != nil {
		return nil, nil, err
	}

	c := newCLI(cfg, storage.NewSQLStore(db), &http.Client{}, s, logger)

	closeFn := func() {
		if cfg.MetricsFile != "" {
			if err := c.writeMetrics(cfg.MetricsFile); err != nil {
				logger.Warn("failed to write client metrics", slog.String("error", err.Error()))
			}
		}
		if err := db.Close(); err != nil {
			logger.Warn("failed to close state database", slog.String("error", err.Error()))
		}
	}
	return c, closeFn, nil
}

// newCLI は保存先とHTTPクライアントからcliを生成する。
func newCLI(cfg *config.Config, store storage.Store, httpClient *http.Client, s Streams, logger *slog.Logger) *cli {
	c := &cli{
		streams:  s,
		logger:   logger,
		color:    isTerminal(s.Out) && os.Getenv("NO_COLOR") == "",
		registry: prometheus.NewRegistry(),
		now:      time.Now,
	}
	if s.In != nil {
		c.input = bufio.NewReader(s.In)
	}

	c.sessions = session.NewRepository(store, logger)
	c.prefs = preference.NewRepository(store, model.Theme(cfg.ThemeDefault), logger)

	client := api.NewClient(httpClient, cfg.APIBaseURL, c.sessions, logger).
		WithMetrics(metrics.NewCollector(c.registry))
	c.ctl = page.NewController(client, c.sessions, session.NavigatorFunc(c.navigate), logger)
	return c
}

// writeMetrics はこのプロセスで記録したクライアントメトリクスを
// Prometheusテキスト形式でpathに書き出す（node_exporterのtextfile collector向け）。
func (c *cli) writeMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// navigate は画面遷移を次のコマンドの案内として表示する。
func (c *cli) navigate(v session.View) {
	if hint, ok := viewHints[v]; ok {
		fmt.Fprintln(c.streams.Err, hint)
	}
}

// renderer は現在のテーマでRendererを生成する。
func (c *cli) renderer(ctx context.Context) *render.Renderer {
	return render.NewRenderer(c.streams.Out, c.prefs.Theme(ctx), c.color)
}

// execute はクライアント系のコマンドを実行する。
func (c *cli) execute(ctx context.Context, cmd Command, args []string) error {
	var err error
	switch cmd {
	case CommandLogin:
		err = c.login(ctx, args)
	case CommandRegister:
		err = c.register(ctx, args)
	case CommandLogout:
		err = c.logout(ctx)
	case CommandWhoami:
		c.whoami(ctx)
	case CommandDashboard:
		err = c.dashboard(ctx)
	case CommandAttendance:
		err = c.attendance(ctx)
	case CommandCheckIn:
		err = c.punch(ctx, args, "check-in")
	case CommandCheckOut:
		err = c.punch(ctx, args, "check-out")
	case CommandHistory:
		err = c.history(ctx, args)
	case CommandAdmin:
		err = c.admin(ctx, args)
	case CommandTheme:
		err = c.theme(ctx, args)
	default:
		return fmt.Errorf("unsupported command %q", cmd)
	}
	return c.report(ctx, err)
}

// report は画面向けのエラーを表示し、ErrCommandFailedに置き換える。
// ガードによる遷移は案内を表示済みのため同様に扱う。
func (c *cli) report(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return nil
	}
	var f *page.Failure
	if errors.As(err, &f) {
		c.renderer(ctx).Failure(f)
		return ErrCommandFailed
	}
	if errors.Is(err, page.ErrRedirected) {
		return ErrCommandFailed
	}
	return err
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("atency "+name, flag.ContinueOnError)
	fs.SetOutput(c.streams.Err)
	return fs
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := c.flags("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.ctl.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	r := c.renderer(ctx)
	r.Notice(res.Notice)
	r.User(&res.User)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := c.flags("register")
	fullName := fs.String("name", "", "full name")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.ctl.Register(ctx, *fullName, *username, *password)
	if err != nil {
		return err
	}
	r := c.renderer(ctx)
	r.Notice(res.Notice)
	r.User(&res.User)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.ctl.Logout(ctx); err != nil {
		return err
	}
	c.renderer(ctx).Notice(page.Notice{Message: "Signed out.", Tone: page.ToneInfo})
	return nil
}

// whoami は保存済みのユーザーとアクセストークンのクレームを表示する。
// トークンがJWTとして読めない場合はユーザーのみを表示する。
func (c *cli) whoami(ctx context.Context) {
	r := c.renderer(ctx)
	user := c.ctl.CurrentUser(ctx)
	r.User(user)
	if user == nil {
		return
	}

	claims, err := c.sessions.Claims(ctx)
	if err != nil {
		c.logger.Debug("access token claims unavailable", slog.String("error", err.Error()))
		return
	}
	r.Claims(claims, c.now())
}

func (c *cli) dashboard(ctx context.Context) error {
	v, err := c.ctl.Dashboard(ctx)
	if err != nil {
		return err
	}
	c.renderer(ctx).Dashboard(v)
	return nil
}

func (c *cli) attendance(ctx context.Context) error {
	state, err := c.ctl.Attendance(ctx)
	if err != nil {
		return err
	}
	c.renderer(ctx).Attendance(state)
	return nil
}

// punch は打刻ボタンの有効状態を確認し、確認プロンプトの後に打刻する。
// 無効な操作は画面のボタンと同様に実行しない。
func (c *cli) punch(ctx context.Context, args []string, action string) error {
	fs := c.flags(action)
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state, err := c.ctl.Attendance(ctx)
	if err != nil {
		return err
	}

	enabled, call := state.Status.CheckInEnabled, c.ctl.CheckIn
	if action == "check-out" {
		enabled, call = state.Status.CheckOutEnabled, c.ctl.CheckOut
	}

	r := c.renderer(ctx)
	if !enabled {
		r.Attendance(state)
		return &page.Failure{Message: fmt.Sprintf("%s is not available right now.", capitalize(action))}
	}

	if !*yes && !c.confirm(fmt.Sprintf("Confirm %s? [y/N] ", action)) {
		r.Notice(page.Notice{Message: "Cancelled.", Tone: page.ToneInfo})
		return nil
	}

	res, err := call(ctx)
	if err != nil {
		return err
	}
	r.Notice(res.Notice)
	r.Attendance(res.State)
	return nil
}

// confirm は確認プロンプトを表示し、yまたはyesの入力でtrueを返す。
func (c *cli) confirm(prompt string) bool {
	fmt.Fprint(c.streams.Out, prompt)
	if c.input == nil {
		return false
	}
	line, err := c.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (c *cli) history(ctx context.Context, args []string) error {
	fs := c.flags("history")
	query := fs.String("q", "", "filter by date or worked hours")
	status := fs.String("status", view.StatusFilterAll, "ALL, PRESENT or ABSENT")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !validStatusFilter(*status) {
		return fmt.Errorf("invalid --status %q (want ALL, PRESENT or ABSENT)", *status)
	}

	v, err := c.ctl.History(ctx, view.HistoryFilter{Query: *query, Status: *status})
	if err != nil {
		return err
	}
	c.renderer(ctx).History(v)
	return nil
}

func validStatusFilter(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", view.StatusFilterAll, string(model.StatusPresent), string(model.StatusAbsent):
		return true
	}
	return false
}

func (c *cli) admin(ctx context.Context, args []string) error {
	fs := c.flags("admin")
	userID := fs.Int64("user", 0, "show one employee's records")
	export := fs.String("export", "", "write the records to an .xlsx file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := c.renderer(ctx)
	var rows []view.Row
	if *userID > 0 {
		res, err := c.ctl.AdminUser(ctx, *userID)
		if err != nil {
			return err
		}
		r.Notice(res.Notice)
		r.Rows(res.Rows, true)
		rows = res.Rows
	} else {
		res, err := c.ctl.Admin(ctx)
		if err != nil {
			return err
		}
		r.Admin(&res.View)
		rows = res.View.Rows
	}

	if *export == "" {
		return nil
	}
	if err := exportRows(*export, rows); err != nil {
		return err
	}
	r.Notice(page.Notice{Message: "Exported " + *export, Tone: page.ToneSuccess})
	return nil
}

// exportRows は表示行をxlsxファイルに書き出す。
func exportRows(path string, rows []view.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := render.WriteXLSX(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

func (c *cli) theme(ctx context.Context, args []string) error {
	var (
		theme model.Theme
		err   error
	)
	switch {
	case len(args) == 0:
		theme = c.prefs.Theme(ctx)
	case args[0] == "toggle":
		theme, err = c.prefs.ToggleTheme(ctx)
	default:
		theme = model.Theme(args[0])
		err = c.prefs.SetTheme(ctx, theme)
	}
	if err != nil {
		return err
	}
	c.renderer(ctx).Notice(page.Notice{Message: "Theme: " + string(theme), Tone: page.ToneInfo})
	return nil
}

// isTerminal は出力先が端末かどうかを返す。
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
