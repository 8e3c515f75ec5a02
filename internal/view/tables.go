package view

import (
	"slices"
	"strings"

	"github.com/hitoshi/atency/internal/model"
)

// Row は勤怠表の1行分の表示値。
type Row struct {
	Employee    string
	Date        string
	CheckIn     string
	CheckOut    string
	WorkedHours string
	Status      model.AttendanceStatus
	Tone        Tone
}

// Rows は記録を表示行に変換する。ステータスが空の記録はPRESENTとして表示する。
func Rows(records []model.AttendanceRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		status := displayStatus(r.Status)
		rows = append(rows, Row{
			Employee:    employeeName(r),
			Date:        FormatDate(r.Date),
			CheckIn:     FormatTime(r.CheckInTime),
			CheckOut:    FormatTime(r.CheckOutTime),
			WorkedHours: orPlaceholder(r.WorkedHours),
			Status:      status,
			Tone:        statusTone(status),
		})
	}
	return rows
}

func displayStatus(s model.AttendanceStatus) model.AttendanceStatus {
	if s == "" {
		return model.StatusPresent
	}
	return s
}

func statusTone(s model.AttendanceStatus) Tone {
	if s == model.StatusAbsent {
		return ToneAbsent
	}
	return TonePresent
}

func employeeName(r model.AttendanceRecord) string {
	if r.FullName != "" {
		return sanitize(r.FullName)
	}
	if r.Username != "" {
		return sanitize(r.Username)
	}
	return Placeholder
}

// WeeklyItem は週間ストリップの1日分。
type WeeklyItem struct {
	Date     string
	Status   model.AttendanceStatus
	Tone     Tone
	Progress int // 進捗バーの割合（%）
}

// DashboardView はダッシュボードの表示内容。
type DashboardView struct {
	TotalHours  string
	PresentDays int64
	AbsentDays  int64
	Weekly      []WeeklyItem
}

// weeklyDays は週間ストリップに表示する日数。
const weeklyDays = 7

// Dashboard は集計と記録からダッシュボードを組み立てる。
// 週間ストリップは日付昇順で直近7件。
func Dashboard(summary *model.AttendanceSummary, records []model.AttendanceRecord) DashboardView {
	v := DashboardView{TotalHours: "0h"}
	if summary != nil {
		if summary.TotalWorkedHours != "" {
			v.TotalHours = summary.TotalWorkedHours
		}
		v.PresentDays = summary.PresentDays
		v.AbsentDays = summary.AbsentDays
	}

	sorted := sortedByDate(records, false)
	if len(sorted) > weeklyDays {
		sorted = sorted[len(sorted)-weeklyDays:]
	}
	v.Weekly = make([]WeeklyItem, 0, len(sorted))
	for _, r := range sorted {
		status := displayStatus(r.Status)
		progress := 12
		if status == model.StatusPresent {
			progress = 100
		}
		v.Weekly = append(v.Weekly, WeeklyItem{
			Date:     FormatDate(r.Date),
			Status:   status,
			Tone:     statusTone(status),
			Progress: progress,
		})
	}
	return v
}

// StatusFilterAll は履歴のステータス絞り込みなし。
const StatusFilterAll = "ALL"

// HistoryFilter は履歴の絞り込み条件。
type HistoryFilter struct {
	Query  string // 日付または勤務時間の部分一致（大文字小文字を区別しない）
	Status string // ALL, PRESENT, ABSENT。空はALL
}

// HistoryView は履歴画面の表示内容。
type HistoryView struct {
	Rows  []Row
	Empty bool
}

// History は記録を日付降順に並べ、条件で絞り込む。
func History(records []model.AttendanceRecord, filter HistoryFilter) HistoryView {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	status := strings.ToUpper(strings.TrimSpace(filter.Status))

	var matched []model.AttendanceRecord
	for _, r := range sortedByDate(records, true) {
		matchesQuery := strings.Contains(r.Date, query) ||
			strings.Contains(strings.ToLower(r.WorkedHours), query)
		matchesStatus := status == "" || status == StatusFilterAll || string(r.Status) == status
		if matchesQuery && matchesStatus {
			matched = append(matched, r)
		}
	}

	rows := Rows(matched)
	return HistoryView{Rows: rows, Empty: len(rows) == 0}
}

// EmployeeGroup は管理者画面の従業員1人分の要約。
type EmployeeGroup struct {
	UserID      int64
	Username    string
	FullName    string
	DisplayName string
	RecordCount int
}

// AdminView は管理者画面の表示内容。
type AdminView struct {
	TotalEmployees int
	TodayPresent   int
	TotalRecords   int
	Employees      []EmployeeGroup
	Rows           []Row
	Empty          bool
}

// Admin は全従業員の記録から管理者画面を組み立てる。
// 従業員はuserIdでまとめ、初出順に並べる。
func Admin(records []model.AttendanceRecord, today string) AdminView {
	v := AdminView{TotalRecords: len(records)}

	index := make(map[int64]int)
	for _, r := range records {
		if r.Date == today && r.Status == model.StatusPresent {
			v.TodayPresent++
		}
		i, ok := index[r.UserID]
		if !ok {
			display := r.FullName
			if display == "" {
				display = r.Username
			}
			index[r.UserID] = len(v.Employees)
			v.Employees = append(v.Employees, EmployeeGroup{
				UserID:      r.UserID,
				Username:    sanitize(r.Username),
				FullName:    sanitize(r.FullName),
				DisplayName: sanitize(display),
			})
			i = index[r.UserID]
		}
		v.Employees[i].RecordCount++
	}
	v.TotalEmployees = len(v.Employees)

	v.Rows = Rows(records)
	v.Empty = len(v.Rows) == 0
	return v
}

// sortedByDate は記録のコピーを日付順に安定ソートして返す。
func sortedByDate(records []model.AttendanceRecord, desc bool) []model.AttendanceRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.AttendanceRecord) int {
		if desc {
			return strings.Compare(b.Date, a.Date)
		}
		return strings.Compare(a.Date, b.Date)
	})
	return sorted
}
