package view

import (
	"testing"

	"github.com/hitoshi/atency/internal/model"
)

func TestTodayRecord(t *testing.T) {
	records := []model.AttendanceRecord{
		{ID: 1, Date: "2024-01-05"},
		{ID: 2, Date: "2024-01-06"},
		{ID: 3, Date: "2024-01-06"},
	}

	got := TodayRecord(records, "2024-01-06")
	if got == nil || got.ID != 2 {
		t.Errorf("TodayRecord = %+v, want ID 2", got)
	}
	if TodayRecord(records, "2024-01-07") != nil {
		t.Error("一致しない日付では nil を返すべき")
	}
	if TodayRecord(nil, "2024-01-06") != nil {
		t.Error("空の記録では nil を返すべき")
	}
	if TodayRecord(records, "2024-1-6") != nil {
		t.Error("完全一致のみを扱うべき")
	}
}

func TestAttendanceStatus(t *testing.T) {
	in := strPtr("09:00:12")
	out := strPtr("17:45:00")

	tests := []struct {
		name   string
		record *model.AttendanceRecord
		want   AttendanceView
	}{
		{
			name:   "記録なし",
			record: nil,
			want:   AttendanceView{Badge: "Absent", Text: "Not checked in yet", CheckInEnabled: true},
		},
		{
			name:   "欠勤",
			record: &model.AttendanceRecord{Status: model.StatusAbsent},
			want:   AttendanceView{Badge: "Absent", Text: "Marked absent today", Tone: ToneAbsent},
		},
		{
			name:   "欠勤は打刻があっても操作不可",
			record: &model.AttendanceRecord{Status: model.StatusAbsent, CheckInTime: in},
			want:   AttendanceView{Badge: "Absent", Text: "Marked absent today", Tone: ToneAbsent},
		},
		{
			name:   "出勤済み",
			record: &model.AttendanceRecord{Status: model.StatusPresent, CheckInTime: in},
			want:   AttendanceView{Badge: "Present", Text: "Checked in at 09:00", Tone: TonePresent, CheckOutEnabled: true},
		},
		{
			name:   "退勤済み",
			record: &model.AttendanceRecord{Status: model.StatusPresent, CheckInTime: in, CheckOutTime: out},
			want:   AttendanceView{Badge: "Present", Text: "Checked out at 17:45", Tone: TonePresent},
		},
		{
			name:   "打刻なしの記録",
			record: &model.AttendanceRecord{Status: model.StatusPresent},
			want:   AttendanceView{Badge: "Pending", Text: "Attendance pending", Tone: TonePending, CheckInEnabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttendanceStatus(tt.record); got != tt.want {
				t.Errorf("AttendanceStatus = %+v, want %+v", got, tt.want)
			}
		})
	}
}
