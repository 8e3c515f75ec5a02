package devserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/atency/internal/metrics"
	"github.com/hitoshi/atency/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// 業務エラーのメッセージ
const (
	MsgValidationFailed     = "Validation failed"
	MsgUsernameExists       = "Username already exists"
	MsgInvalidCredentials   = "Invalid username or password."
	MsgUserNotFound         = "User not found"
	MsgCheckInNotWorkingDay = "Check-in is allowed only on working days"
	MsgAlreadyCheckedIn     = "You have already checked in today"
	MsgCheckOutNotWorkday   = "Check-out is allowed only on working days"
	MsgCheckInRequired      = "Check-in is required before check-out"
	MsgAlreadyCheckedOut    = "You have already checked out today"
	MsgCheckOutBeforeIn     = "Check-out time must be after check-in time"
)

// timeLayout は打刻時刻の文字列表現。
const timeLayout = "15:04:05"

// Error はHTTPステータスを伴う業務エラー。
type Error struct {
	Status int
	Msg    string
	Fields map[string]string
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Msg)
}

func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Msg: msg}
}

// Service は認証と勤怠の業務ルールを実装する。
type Service struct {
	store      *Store
	tokens     *TokenIssuer
	metrics    metrics.ServerMetrics
	logger     *slog.Logger
	now        func() time.Time
	bcryptCost int

	// 打刻は読み取りと更新を1操作として直列化する
	punchMu sync.Mutex
}

// NewService は新しいServiceを生成する。
func NewService(store *Store, tokens *TokenIssuer, m metrics.ServerMetrics, logger *slog.Logger, now func() time.Time, bcryptCost int) *Service {
	if now == nil {
		now = time.Now
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      store,
		tokens:     tokens,
		metrics:    m,
		logger:     logger,
		now:        now,
		bcryptCost: bcryptCost,
	}
}

// Seed は管理者ユーザー admin/12345 を未登録の場合に作成する。
func (s *Service) Seed() error {
	if _, ok := s.store.AccountByUsername("admin"); ok {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("12345"), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	_, err = s.store.AddAccount(account{
		Username:     "admin",
		FullName:     "Admin User",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil && !errors.Is(err, ErrUsernameTaken) {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	s.logger.Info("seeded admin account", slog.String("username", "admin"))
	return nil
}

// Register は従業員ユーザーを登録してトークンを発行する。
func (s *Service) Register(req model.RegisterRequest) (*model.AuthResponse, error) {
	fields := map[string]string{}
	checkSize(fields, "fullName", req.FullName, 3, 100)
	checkSize(fields, "username", req.Username, 3, 50)
	checkSize(fields, "password", req.Password, 6, 0)
	if len(fields) > 0 {
		return nil, &Error{Status: http.StatusBadRequest, Msg: MsgValidationFailed, Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct, err := s.store.AddAccount(account{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         model.RoleEmployee,
	})
	if errors.Is(err, ErrUsernameTaken) {
		return nil, badRequest(MsgUsernameExists)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.recordEvent("register")
	return s.authResponse(acct)
}

// Login は資格情報を検証してトークンを発行する。
func (s *Service) Login(req model.LoginRequest) (*model.AuthResponse, error) {
	fields := map[string]string{}
	checkSize(fields, "username", req.Username, 0, 0)
	checkSize(fields, "password", req.Password, 0, 0)
	if len(fields) > 0 {
		return nil, &Error{Status: http.StatusBadRequest, Msg: MsgValidationFailed, Fields: fields}
	}

	acct, ok := s.store.AccountByUsername(req.Username)
	if !ok || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)) != nil {
		if s.metrics != nil {
			s.metrics.RecordAuthFailure("bad_credentials")
		}
		return nil, &Error{Status: http.StatusUnauthorized, Msg: MsgInvalidCredentials}
	}

	s.recordEvent("login")
	return s.authResponse(acct)
}

func (s *Service) authResponse(acct account) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(acct.Username, acct.Role)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{
		AccessToken: token,
		TokenType:   model.DefaultTokenType,
		Username:    acct.Username,
		Role:        acct.Role,
	}, nil
}

// CheckIn は当日の出勤を打刻する。
func (s *Service) CheckIn(username string) (*model.AttendanceRecord, error) {
	acct, err := s.account(username)
	if err != nil {
		return nil, err
	}

	s.punchMu.Lock()
	defer s.punchMu.Unlock()

	now := s.now()
	if !IsWorkingDay(now) {
		return nil, badRequest(MsgCheckInNotWorkingDay)
	}

	rec, ok := s.store.Attendance(acct.ID, dateOf(now))
	if !ok {
		rec = attendance{UserID: acct.ID, Date: dateOf(now)}
	}
	if rec.CheckIn != nil {
		return nil, badRequest(MsgAlreadyCheckedIn)
	}

	rec.CheckIn = &now
	rec.Status = model.StatusPresent
	saved := s.store.SaveAttendance(rec)

	s.recordEvent("check_in")
	return toRecord(saved, nil), nil
}

// CheckOut は当日の退勤を打刻し、勤務時間を確定する。
func (s *Service) CheckOut(username string) (*model.AttendanceRecord, error) {
	acct, err := s.account(username)
	if err != nil {
		return nil, err
	}

	s.punchMu.Lock()
	defer s.punchMu.Unlock()

	now := s.now()
	if !IsWorkingDay(now) {
		return nil, badRequest(MsgCheckOutNotWorkday)
	}

	rec, ok := s.store.Attendance(acct.ID, dateOf(now))
	if !ok || rec.CheckIn == nil {
		return nil, badRequest(MsgCheckInRequired)
	}
	if rec.CheckOut != nil {
		return nil, badRequest(MsgAlreadyCheckedOut)
	}
	if now.Before(*rec.CheckIn) {
		return nil, badRequest(MsgCheckOutBeforeIn)
	}

	rec.CheckOut = &now
	rec.Worked = now.Sub(*rec.CheckIn)
	rec.Status = model.StatusPresent
	saved := s.store.SaveAttendance(rec)

	s.recordEvent("check_out")
	return toRecord(saved, nil), nil
}

// MyRecords は本人の勤怠記録を日付の新しい順で返す。
func (s *Service) MyRecords(username string) ([]model.AttendanceRecord, error) {
	acct, err := s.account(username)
	if err != nil {
		return nil, err
	}
	return toRecords(s.store.AttendanceByUser(acct.ID), nil), nil
}

// MySummary は本人の出勤日数・欠勤日数・総勤務時間を集計する。
// 勤務時間は出勤日の分だけを合計する。
func (s *Service) MySummary(username string) (*model.AttendanceSummary, error) {
	acct, err := s.account(username)
	if err != nil {
		return nil, err
	}

	summary := &model.AttendanceSummary{}
	var total time.Duration
	for _, r := range s.store.AttendanceByUser(acct.ID) {
		switch r.Status {
		case model.StatusPresent:
			summary.PresentDays++
			total += r.Worked
		case model.StatusAbsent:
			summary.AbsentDays++
		}
	}
	summary.TotalWorkedHours = formatDuration(total)
	return summary, nil
}

// AllRecords は全ユーザーの勤怠記録をユーザー情報付きで返す。
func (s *Service) AllRecords() []model.AttendanceRecord {
	return toRecords(s.store.AllAttendance(), s.store)
}

// RecordsByUser は指定ユーザーの勤怠記録をユーザー情報付きで返す。
func (s *Service) RecordsByUser(userID int64) ([]model.AttendanceRecord, error) {
	if _, ok := s.store.AccountByID(userID); !ok {
		return nil, &Error{Status: http.StatusNotFound, Msg: MsgUserNotFound}
	}
	return toRecords(s.store.AttendanceByUser(userID), s.store), nil
}

// MarkAbsent は指定日に記録のない全ユーザーを欠勤として記録し、件数を返す。
// 勤務日でない場合は何もしない。冪等。
func (s *Service) MarkAbsent(day time.Time) int {
	if !IsWorkingDay(day) {
		return 0
	}
	date := dateOf(day)
	marked := 0
	for _, acct := range s.store.Accounts() {
		if s.store.InsertAttendanceIfAbsent(attendance{
			UserID: acct.ID,
			Date:   date,
			Status: model.StatusAbsent,
		}) {
			marked++
		}
	}
	if s.metrics != nil && marked > 0 {
		s.metrics.RecordAbsencesMarked(marked)
	}
	return marked
}

func (s *Service) account(username string) (account, error) {
	acct, ok := s.store.AccountByUsername(username)
	if !ok {
		return account{}, &Error{Status: http.StatusNotFound, Msg: MsgUserNotFound}
	}
	return acct, nil
}

func (s *Service) recordEvent(kind string) {
	if s.metrics != nil {
		s.metrics.RecordAttendanceEvent(kind)
	}
}

// checkSize は空白のみの値を拒否し、lo/hi（hiが0なら上限なし）で文字数を検証する。
func checkSize(fields map[string]string, name, value string, lo, hi int) {
	if strings.TrimSpace(value) == "" {
		fields[name] = "must not be blank"
		return
	}
	n := utf8.RuneCountInString(value)
	switch {
	case hi > 0 && (n < lo || n > hi):
		fields[name] = fmt.Sprintf("size must be between %d and %d", lo, hi)
	case n < lo:
		fields[name] = fmt.Sprintf("size must be at least %d", lo)
	}
}

// toRecord は勤怠記録をAPIの表現に変換する。storeを渡した場合はユーザー情報を含める。
func toRecord(r attendance, store *Store) *model.AttendanceRecord {
	out := &model.AttendanceRecord{
		ID:          r.ID,
		Date:        r.Date,
		WorkedHours: formatDuration(r.Worked),
		Status:      r.Status,
	}
	if r.CheckIn != nil {
		v := r.CheckIn.Format(timeLayout)
		out.CheckInTime = &v
	}
	if r.CheckOut != nil {
		v := r.CheckOut.Format(timeLayout)
		out.CheckOutTime = &v
	}
	if store != nil {
		if acct, ok := store.AccountByID(r.UserID); ok {
			out.UserID = acct.ID
			out.Username = acct.Username
			out.FullName = acct.FullName
		}
	}
	return out
}

func toRecords(rows []attendance, store *Store) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, *toRecord(r, store))
	}
	return out
}
