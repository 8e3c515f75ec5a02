package view

import "github.com/hitoshi/atency/internal/model"

// Tone はステータス表示の色分け。
type Tone string

const (
	ToneNone    Tone = ""
	TonePresent Tone = "present"
	ToneAbsent  Tone = "absent"
	TonePending Tone = "pending"
)

// AttendanceView は当日の打刻状態の表示と、出勤・退勤操作の可否。
type AttendanceView struct {
	Badge           string
	Text            string
	Tone            Tone
	CheckInEnabled  bool
	CheckOutEnabled bool
}

// TodayRecord は日付がtodayと完全一致する最初の記録を返す。なければnil。
func TodayRecord(records []model.AttendanceRecord, today string) *model.AttendanceRecord {
	for i := range records {
		if records[i].Date == today {
			return &records[i]
		}
	}
	return nil
}

// AttendanceStatus は当日の記録から表示状態を導出する。
// 欠勤の日は出勤・退勤ともに操作できない。
func AttendanceStatus(record *model.AttendanceRecord) AttendanceView {
	switch {
	case record == nil:
		return AttendanceView{
			Badge:          "Absent",
			Text:           "Not checked in yet",
			Tone:           ToneNone,
			CheckInEnabled: true,
		}
	case record.Status == model.StatusAbsent:
		return AttendanceView{
			Badge: "Absent",
			Text:  "Marked absent today",
			Tone:  ToneAbsent,
		}
	case record.HasCheckIn() && !record.HasCheckOut():
		return AttendanceView{
			Badge:           "Present",
			Text:            "Checked in at " + FormatTime(record.CheckInTime),
			Tone:            TonePresent,
			CheckOutEnabled: true,
		}
	case record.HasCheckOut():
		return AttendanceView{
			Badge: "Present",
			Text:  "Checked out at " + FormatTime(record.CheckOutTime),
			Tone:  TonePresent,
		}
	default:
		return AttendanceView{
			Badge:          "Pending",
			Text:           "Attendance pending",
			Tone:           TonePending,
			CheckInEnabled: true,
		}
	}
}
