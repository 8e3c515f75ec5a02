package page

import (
	"context"
	"sync"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/view"
)

// Dashboard は集計と記録を並行に取得し、両方そろってからダッシュボードを組み立てる。
func (c *Controller) Dashboard(ctx context.Context) (*view.DashboardView, error) {
	if err := c.Enter(ctx, session.ViewDashboard); err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		summary    *model.AttendanceSummary
		records    []model.AttendanceRecord
		summaryErr error
		recordsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryErr = c.api.MySummary(ctx)
	}()
	go func() {
		defer wg.Done()
		records, recordsErr = c.api.MyRecords(ctx)
	}()
	wg.Wait()

	if summaryErr != nil {
		return nil, c.fail(ctx, summaryErr, view.MsgDashboardFailed)
	}
	if recordsErr != nil {
		return nil, c.fail(ctx, recordsErr, view.MsgDashboardFailed)
	}

	v := view.Dashboard(summary, records)
	return &v, nil
}

// AttendanceState は打刻画面の状態。
type AttendanceState struct {
	Today  string
	Record *model.AttendanceRecord
	Status view.AttendanceView
}

// Attendance は本人の記録から当日の打刻状態を返す。
func (c *Controller) Attendance(ctx context.Context) (*AttendanceState, error) {
	if err := c.Enter(ctx, session.ViewAttendance); err != nil {
		return nil, err
	}
	return c.refreshAttendance(ctx)
}

func (c *Controller) refreshAttendance(ctx context.Context) (*AttendanceState, error) {
	records, err := c.api.MyRecords(ctx)
	if err != nil {
		return nil, c.fail(ctx, err, view.MsgAttendanceFailed)
	}

	today := c.today()
	record := view.TodayRecord(records, today)
	return &AttendanceState{
		Today:  today,
		Record: record,
		Status: view.AttendanceStatus(record),
	}, nil
}

// ActionResult は打刻操作の結果。
type ActionResult struct {
	Notice Notice
	State  *AttendanceState
}

// CheckIn は出勤を打刻し、打刻状態を再取得する。
func (c *Controller) CheckIn(ctx context.Context) (*ActionResult, error) {
	return c.punch(ctx, c.api.CheckIn, view.MsgCheckInRecorded, view.MsgCheckInFailed)
}

// CheckOut は退勤を打刻し、打刻状態を再取得する。
func (c *Controller) CheckOut(ctx context.Context) (*ActionResult, error) {
	return c.punch(ctx, c.api.CheckOut, view.MsgCheckOutRecorded, view.MsgCheckOutFailed)
}

func (c *Controller) punch(
	ctx context.Context,
	call func(context.Context) (*model.AttendanceRecord, error),
	success, fallback string,
) (*ActionResult, error) {
	if err := c.Enter(ctx, session.ViewAttendance); err != nil {
		return nil, err
	}

	if _, err := call(ctx); err != nil {
		return nil, c.fail(ctx, err, fallback)
	}

	state, err := c.refreshAttendance(ctx)
	if err != nil {
		return nil, err
	}
	return &ActionResult{
		Notice: Notice{Message: success, Tone: ToneSuccess},
		State:  state,
	}, nil
}

// History は本人の記録を日付降順に並べ、条件で絞り込んだ履歴を返す。
func (c *Controller) History(ctx context.Context, filter view.HistoryFilter) (*view.HistoryView, error) {
	if err := c.Enter(ctx, session.ViewHistory); err != nil {
		return nil, err
	}

	records, err := c.api.MyRecords(ctx)
	if err != nil {
		return nil, c.fail(ctx, err, view.MsgHistoryFailed)
	}

	v := view.History(records, filter)
	return &v, nil
}
