package model

// AttendanceStatus は1日分の勤怠状態を表す。
type AttendanceStatus string

const (
	// StatusPresent は出勤。
	StatusPresent AttendanceStatus = "PRESENT"
	// StatusAbsent は欠勤。
	StatusAbsent AttendanceStatus = "ABSENT"
)

// AttendanceRecord はバックエンドが管理する1ユーザー1日分の勤怠記録。
// クライアントはこの値を加工せずに表示する。
// 時刻フィールドはバックエンドの文字列表現（HH:MM:SS等）をそのまま保持する。
type AttendanceRecord struct {
	ID           int64            `json:"id,omitempty"`
	UserID       int64            `json:"userId,omitempty"`
	Username     string           `json:"username,omitempty"`
	FullName     string           `json:"fullName,omitempty"`
	Date         string           `json:"date"`
	CheckInTime  *string          `json:"checkInTime"`
	CheckOutTime *string          `json:"checkOutTime"`
	WorkedHours  string           `json:"workedHours,omitempty"`
	Status       AttendanceStatus `json:"status,omitempty"`
}

// HasCheckIn は出勤打刻済みかどうかを返す。
func (r *AttendanceRecord) HasCheckIn() bool {
	return r != nil && r.CheckInTime != nil && *r.CheckInTime != ""
}

// HasCheckOut は退勤打刻済みかどうかを返す。
func (r *AttendanceRecord) HasCheckOut() bool {
	return r != nil && r.CheckOutTime != nil && *r.CheckOutTime != ""
}

// AttendanceSummary は本人の勤怠集計。
type AttendanceSummary struct {
	TotalWorkedHours string `json:"totalWorkedHours"`
	PresentDays      int64  `json:"presentDays"`
	AbsentDays       int64  `json:"absentDays"`
}

// Theme はUIテーマの設定値。
type Theme string

const (
	// ThemeLight はライトテーマ。
	ThemeLight Theme = "light"
	// ThemeDark はダークテーマ。
	ThemeDark Theme = "dark"
)

// Valid は既知のテーマかどうかを返す。
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
