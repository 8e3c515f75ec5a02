package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/page"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/view"
)

func TestRenderer_Rows(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, model.ThemeLight, false)

	r.Rows([]view.Row{
		{Employee: "Alice", Date: "Jan 6, 2024", CheckIn: "09:00", CheckOut: "--", WorkedHours: "--", Status: model.StatusPresent, Tone: view.TonePresent},
	}, true)

	out := buf.String()
	for _, want := range []string{"EMPLOYEE", "DATE", "Alice", "Jan 6, 2024", "09:00", "PRESENT"} {
		if !strings.Contains(out, want) {
			t.Errorf("出力に %q が含まれていない:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color=false ではエスケープシーケンスを出力しないべき")
	}
}

func TestRenderer_ColorByTheme(t *testing.T) {
	rows := []view.Row{{Status: model.StatusAbsent, Tone: view.ToneAbsent}}

	var light, dark bytes.Buffer
	NewRenderer(&light, model.ThemeLight, true).Rows(rows, false)
	NewRenderer(&dark, model.ThemeDark, true).Rows(rows, false)

	if !strings.Contains(light.String(), "\x1b[31mABSENT") {
		t.Errorf("light の配色が使われていない: %q", light.String())
	}
	if !strings.Contains(dark.String(), "\x1b[91mABSENT") {
		t.Errorf("dark の配色が使われていない: %q", dark.String())
	}
}

func TestRenderer_Dashboard(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, model.ThemeLight, false)

	r.Dashboard(&view.DashboardView{TotalHours: "0h"})
	if !strings.Contains(buf.String(), "No weekly data") {
		t.Errorf("空の週間データの案内がない:\n%s", buf.String())
	}

	buf.Reset()
	r.Dashboard(&view.DashboardView{
		TotalHours: "08:00", PresentDays: 1,
		Weekly: []view.WeeklyItem{{Date: "Jan 6, 2024", Status: model.StatusPresent, Tone: view.TonePresent, Progress: 100}},
	})
	if !strings.Contains(buf.String(), "[##########]") || !strings.Contains(buf.String(), "08:00") {
		t.Errorf("出力 =\n%s", buf.String())
	}
}

func TestProgressBar(t *testing.T) {
	tests := map[int]string{
		100: "[##########]",
		12:  "[#.........]",
		0:   "[#.........]",
		250: "[##########]",
	}
	for in, want := range tests {
		if got := progressBar(in); got != want {
			t.Errorf("progressBar(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderer_Attendance(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, model.ThemeDark, false)

	r.Attendance(&page.AttendanceState{
		Today:  "2024-01-06",
		Status: view.AttendanceStatus(nil),
	})

	out := buf.String()
	for _, want := range []string{"Jan 6, 2024", "Not checked in yet", "check-in: available", "check-out: unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("出力に %q が含まれていない:\n%s", want, out)
		}
	}
}

func TestRenderer_Failure(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, model.ThemeLight, false)

	r.Failure(&page.Failure{
		Message: "Registration failed.",
		Fields:  view.FieldErrors{Username: "Username already exists"},
	})

	out := buf.String()
	if !strings.Contains(out, "Error: Registration failed.") || !strings.Contains(out, "username: Username already exists") {
		t.Errorf("出力 =\n%s", out)
	}
	if strings.Contains(out, "fullName") {
		t.Error("空のフィールドエラーは出力しないべき")
	}
}

func TestRenderer_AdminEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, model.ThemeLight, false).Admin(&view.AdminView{Empty: true})

	out := buf.String()
	if !strings.Contains(out, "No employees yet") || !strings.Contains(out, "No attendance records found.") {
		t.Errorf("出力 =\n%s", out)
	}
}

func TestRenderer_User(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, model.ThemeLight, false)

	r.User(nil)
	r.User(&model.User{Username: "alice", Role: model.RoleAdmin})

	out := buf.String()
	if !strings.Contains(out, "Not signed in.") || !strings.Contains(out, "[A] alice (ADMIN)") {
		t.Errorf("出力 =\n%s", out)
	}
}

func TestRenderer_Claims(t *testing.T) {
	issued := time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)
	claims := &session.TokenClaims{
		Subject:   "admin",
		Role:      "ADMIN",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(time.Hour),
	}

	tests := []struct {
		name    string
		claims  *session.TokenClaims
		now     time.Time
		want    []string
		notWant string
	}{
		{
			name:    "有効期限内",
			claims:  claims,
			now:     issued.Add(15 * time.Minute),
			want:    []string{"Subject", "admin", "ADMIN", "2024-01-06 09:00:00", "2024-01-06 10:00:00", "(in 45m0s)"},
			notWant: "(expired)",
		},
		{
			name:   "期限切れ",
			claims: claims,
			now:    issued.Add(2 * time.Hour),
			want:   []string{"2024-01-06 10:00:00", "(expired)"},
		},
		{
			name:    "期限なし",
			claims:  &session.TokenClaims{Subject: "bob"},
			now:     issued,
			want:    []string{"bob", "Role", "--", "never"},
			notWant: "Issued",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewRenderer(&buf, model.ThemeLight, false).Claims(tt.claims, tt.now)
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("出力に %q が含まれていない:\n%s", want, out)
				}
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("出力に %q が含まれるべきでない:\n%s", tt.notWant, out)
			}
		})
	}
}
