// Package render はビューモデルを端末向けのテキストとXLSXファイルに出力する。
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/page"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/view"
)

// ANSIエスケープシーケンス
const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

// palette はテーマごとの配色。
var palette = map[model.Theme]map[view.Tone]string{
	model.ThemeLight: {
		view.TonePresent: "\x1b[32m",
		view.ToneAbsent:  "\x1b[31m",
		view.TonePending: "\x1b[33m",
	},
	model.ThemeDark: {
		view.TonePresent: "\x1b[92m",
		view.ToneAbsent:  "\x1b[91m",
		view.TonePending: "\x1b[93m",
	},
}

// Renderer はビューモデルをテキストで書き出す。
// Colorがfalseの場合はエスケープシーケンスを出力しない。
type Renderer struct {
	w     io.Writer
	theme model.Theme
	color bool
}

// NewRenderer はRendererを生成する。
func NewRenderer(w io.Writer, theme model.Theme, color bool) *Renderer {
	if !theme.Valid() {
		theme = model.ThemeLight
	}
	return &Renderer{w: w, theme: theme, color: color}
}

func (r *Renderer) paint(tone view.Tone, s string) string {
	if !r.color {
		return s
	}
	code, ok := palette[r.theme][tone]
	if !ok {
		return s
	}
	return code + s + ansiReset
}

func (r *Renderer) heading(s string) {
	if r.color {
		fmt.Fprintf(r.w, "%s%s%s\n", ansiBold, s, ansiReset)
		return
	}
	fmt.Fprintln(r.w, s)
}

// Notice は通知を1行で出力する。
func (r *Renderer) Notice(n page.Notice) {
	if n.Message == "" {
		return
	}
	tone := view.TonePresent
	if n.Tone == page.ToneError {
		tone = view.ToneAbsent
	}
	fmt.Fprintln(r.w, r.paint(tone, n.Message))
}

// Failure はエラーと、あればフィールドごとのエラーを出力する。
func (r *Renderer) Failure(f *page.Failure) {
	fmt.Fprintln(r.w, r.paint(view.ToneAbsent, "Error: "+f.Message))
	fields := []struct{ name, msg string }{
		{"fullName", f.Fields.FullName},
		{"username", f.Fields.Username},
		{"password", f.Fields.Password},
	}
	for _, fe := range fields {
		if fe.msg != "" {
			fmt.Fprintf(r.w, "  %s: %s\n", fe.name, fe.msg)
		}
	}
}

// User は利用者の概要を出力する。
func (r *Renderer) User(u *model.User) {
	if u == nil {
		fmt.Fprintln(r.w, "Not signed in.")
		return
	}
	fmt.Fprintf(r.w, "[%s] %s (%s)\n", view.Initials(u.Username), u.Username, u.Role)
}

// ClaimsTimeLayout はトークンの発行・期限時刻の表示形式。
const ClaimsTimeLayout = "2006-01-02 15:04:05"

// Claims はアクセストークンのクレームを出力する。期限切れの場合はその旨を付記する。
func (r *Renderer) Claims(c *session.TokenClaims, now time.Time) {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Subject\t%s\n", orDash(c.Subject))
	fmt.Fprintf(tw, "Role\t%s\n", orDash(c.Role))
	if !c.IssuedAt.IsZero() {
		fmt.Fprintf(tw, "Issued\t%s\n", c.IssuedAt.In(now.Location()).Format(ClaimsTimeLayout))
	}
	switch {
	case c.ExpiresAt.IsZero():
		fmt.Fprintln(tw, "Expires\tnever")
	case c.Expired(now):
		fmt.Fprintf(tw, "Expires\t%s\t%s\n", c.ExpiresAt.In(now.Location()).Format(ClaimsTimeLayout), r.paint(view.ToneAbsent, "(expired)"))
	default:
		fmt.Fprintf(tw, "Expires\t%s\t(in %s)\n", c.ExpiresAt.In(now.Location()).Format(ClaimsTimeLayout), c.ExpiresAt.Sub(now).Round(time.Second))
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return view.Placeholder
	}
	return s
}

// Dashboard はダッシュボードを出力する。
func (r *Renderer) Dashboard(v *view.DashboardView) {
	r.heading("Summary")
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total worked hours\t%s\n", v.TotalHours)
	fmt.Fprintf(tw, "Present days\t%d\n", v.PresentDays)
	fmt.Fprintf(tw, "Absent days\t%d\n", v.AbsentDays)
	tw.Flush()

	fmt.Fprintln(r.w)
	r.heading("This week")
	if len(v.Weekly) == 0 {
		fmt.Fprintln(r.w, "No weekly data. Your week will appear after your first check-in.")
		return
	}
	tw = tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	for _, item := range v.Weekly {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Date, progressBar(item.Progress), r.paint(item.Tone, string(item.Status)))
	}
	tw.Flush()
}

// progressBar は割合を10段階のバーにする。
func progressBar(percent int) string {
	filled := percent / 10
	if filled < 1 {
		filled = 1
	}
	if filled > 10 {
		filled = 10
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

// Attendance は当日の打刻状態を出力する。
func (r *Renderer) Attendance(s *page.AttendanceState) {
	r.heading("Today " + view.FormatDate(s.Today))
	fmt.Fprintf(r.w, "%s  %s\n", r.paint(s.Status.Tone, s.Status.Badge), s.Status.Text)
	fmt.Fprintf(r.w, "check-in: %s  check-out: %s\n", availability(s.Status.CheckInEnabled), availability(s.Status.CheckOutEnabled))
}

func availability(enabled bool) string {
	if enabled {
		return "available"
	}
	return "unavailable"
}

// History は履歴表を出力する。
func (r *Renderer) History(v *view.HistoryView) {
	if v.Empty {
		fmt.Fprintln(r.w, "No attendance records found.")
		return
	}
	r.Rows(v.Rows, false)
}

// Admin は管理者画面を出力する。
func (r *Renderer) Admin(v *view.AdminView) {
	r.heading("Overview")
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Employees\t%d\n", v.TotalEmployees)
	fmt.Fprintf(tw, "Present today\t%d\n", v.TodayPresent)
	fmt.Fprintf(tw, "Total records\t%d\n", v.TotalRecords)
	tw.Flush()

	fmt.Fprintln(r.w)
	r.heading("Employees")
	if len(v.Employees) == 0 {
		fmt.Fprintln(r.w, "No employees yet. Employees will appear after attendance is logged.")
	} else {
		tw = tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tRECORDS")
		for _, e := range v.Employees {
			fmt.Fprintf(tw, "%d\t%s\t@%s\t%d record(s)\n", e.UserID, e.DisplayName, e.Username, e.RecordCount)
		}
		tw.Flush()
	}

	fmt.Fprintln(r.w)
	r.heading("Attendance")
	if v.Empty {
		fmt.Fprintln(r.w, "No attendance records found.")
		return
	}
	r.Rows(v.Rows, true)
}

// Rows は勤怠表を出力する。withEmployeeがtrueの場合は従業員列を含める。
func (r *Renderer) Rows(rows []view.Row, withEmployee bool) {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	header := []string{"DATE", "CHECK-IN", "CHECK-OUT", "HOURS", "STATUS"}
	if withEmployee {
		header = append([]string{"EMPLOYEE"}, header...)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cols := []string{row.Date, row.CheckIn, row.CheckOut, row.WorkedHours, r.paint(row.Tone, string(row.Status))}
		if withEmployee {
			cols = append([]string{row.Employee}, cols...)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	tw.Flush()
}
