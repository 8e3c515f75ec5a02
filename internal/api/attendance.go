package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hitoshi/atency/internal/model"
)

// emptyBody は打刻APIに送る空オブジェクト。
var emptyBody = map[string]any{}

// Login はユーザー名とパスワードで認証する。未認証で呼び出す。
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	raw, err := c.do(ctx, "login", "/auth/login", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return decodeResult[*model.AuthResponse]("login", raw)
}

// Register は従業員ユーザーを登録する。
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	raw, err := c.do(ctx, "register", "/auth/register", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return decodeResult[*model.AuthResponse]("register", raw)
}

// MySummary は本人の勤怠集計を取得する。
func (c *Client) MySummary(ctx context.Context) (*model.AttendanceSummary, error) {
	raw, err := c.do(ctx, "my_summary", "/attendance/my-summary", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeResult[*model.AttendanceSummary]("my-summary", raw)
}

// MyRecords は本人の勤怠記録を取得する。
func (c *Client) MyRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	raw, err := c.do(ctx, "my_records", "/attendance/my-records", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeResult[[]model.AttendanceRecord]("my-records", raw)
}

// CheckIn は当日の出勤を打刻する。
func (c *Client) CheckIn(ctx context.Context) (*model.AttendanceRecord, error) {
	raw, err := c.do(ctx, "check_in", "/attendance/check-in", RequestOptions{Method: http.MethodPost, Body: emptyBody})
	if err != nil {
		return nil, err
	}
	return decodeResult[*model.AttendanceRecord]("check-in", raw)
}

// CheckOut は当日の退勤を打刻する。
func (c *Client) CheckOut(ctx context.Context) (*model.AttendanceRecord, error) {
	raw, err := c.do(ctx, "check_out", "/attendance/check-out", RequestOptions{Method: http.MethodPost, Body: emptyBody})
	if err != nil {
		return nil, err
	}
	return decodeResult[*model.AttendanceRecord]("check-out", raw)
}

// AllAttendance は全従業員の勤怠記録を取得する。管理者のみ。
func (c *Client) AllAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	raw, err := c.do(ctx, "all_attendance", "/admin/attendance/all", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeResult[[]model.AttendanceRecord]("admin attendance", raw)
}

// AttendanceByUser は指定ユーザーの勤怠記録を取得する。管理者のみ。
func (c *Client) AttendanceByUser(ctx context.Context, userID int64) ([]model.AttendanceRecord, error) {
	path := "/admin/attendance/" + strconv.FormatInt(userID, 10)
	raw, err := c.do(ctx, "attendance_by_user", path, RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeResult[[]model.AttendanceRecord]("admin attendance by user", raw)
}

// decodeResult はresultを型付きで読む。resultがない場合はゼロ値を返す。
func decodeResult[T any](name string, raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	return v, nil
}
