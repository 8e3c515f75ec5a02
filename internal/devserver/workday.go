package devserver

import (
	"fmt"
	"time"
)

// workingDays は勤務日の曜日（土曜から水曜）。
var workingDays = map[time.Weekday]bool{
	time.Saturday:  true,
	time.Sunday:    true,
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
}

// IsWorkingDay は指定日が勤務日かどうかを返す。
func IsWorkingDay(t time.Time) bool {
	return workingDays[t.Weekday()]
}

// PreviousWorkingDay は指定日より前の直近の勤務日を返す。
func PreviousWorkingDay(t time.Time) time.Time {
	cursor := t.AddDate(0, 0, -1)
	for !IsWorkingDay(cursor) {
		cursor = cursor.AddDate(0, 0, -1)
	}
	return cursor
}

// dateOf は時刻の暦日を "2006-01-02" 形式で返す。
func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatDuration は経過時間を "HH:MM" 形式にする。分未満は切り捨てる。
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
