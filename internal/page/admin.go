package page

import (
	"context"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/view"
)

// AdminResult は管理者画面の結果。Recordsはエクスポート用の元データ。
type AdminResult struct {
	View    view.AdminView
	Records []model.AttendanceRecord
}

// Admin は全従業員の記録から管理者画面を組み立てる。
func (c *Controller) Admin(ctx context.Context) (*AdminResult, error) {
	if err := c.Enter(ctx, session.ViewAdmin); err != nil {
		return nil, err
	}

	records, err := c.api.AllAttendance(ctx)
	if err != nil {
		return nil, c.fail(ctx, err, view.MsgAdminFailed)
	}

	return &AdminResult{
		View:    view.Admin(records, c.today()),
		Records: records,
	}, nil
}

// EmployeeResult は従業員1人分の勤怠の結果。
type EmployeeResult struct {
	UserID  int64
	Rows    []view.Row
	Records []model.AttendanceRecord
	Notice  Notice
}

// AdminUser は指定従業員の勤怠を取得する（管理者画面のドリルダウン）。
func (c *Controller) AdminUser(ctx context.Context, userID int64) (*EmployeeResult, error) {
	if err := c.Enter(ctx, session.ViewAdmin); err != nil {
		return nil, err
	}

	records, err := c.api.AttendanceByUser(ctx, userID)
	if err != nil {
		return nil, c.fail(ctx, err, view.MsgEmployeeFailed)
	}

	return &EmployeeResult{
		UserID:  userID,
		Rows:    view.Rows(records),
		Records: records,
		Notice:  Notice{Message: view.MsgEmployeeUpdated, Tone: ToneSuccess},
	}, nil
}
