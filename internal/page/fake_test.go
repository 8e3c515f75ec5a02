package page

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/storage"
)

// fakeAPI はAPIのテスト用実装。関数フィールドが未設定の操作はゼロ値を返す。
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	login            func(model.LoginRequest) (*model.AuthResponse, error)
	register         func(model.RegisterRequest) (*model.AuthResponse, error)
	mySummary        func() (*model.AttendanceSummary, error)
	myRecords        func() ([]model.AttendanceRecord, error)
	checkIn          func() (*model.AttendanceRecord, error)
	checkOut         func() (*model.AttendanceRecord, error)
	allAttendance    func() ([]model.AttendanceRecord, error)
	attendanceByUser func(int64) ([]model.AttendanceRecord, error)
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(_ context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	f.record("login")
	if f.login == nil {
		return nil, nil
	}
	return f.login(req)
}

func (f *fakeAPI) Register(_ context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	f.record("register")
	if f.register == nil {
		return nil, nil
	}
	return f.register(req)
}

func (f *fakeAPI) MySummary(context.Context) (*model.AttendanceSummary, error) {
	f.record("my-summary")
	if f.mySummary == nil {
		return &model.AttendanceSummary{}, nil
	}
	return f.mySummary()
}

func (f *fakeAPI) MyRecords(context.Context) ([]model.AttendanceRecord, error) {
	f.record("my-records")
	if f.myRecords == nil {
		return nil, nil
	}
	return f.myRecords()
}

func (f *fakeAPI) CheckIn(context.Context) (*model.AttendanceRecord, error) {
	f.record("check-in")
	if f.checkIn == nil {
		return &model.AttendanceRecord{}, nil
	}
	return f.checkIn()
}

func (f *fakeAPI) CheckOut(context.Context) (*model.AttendanceRecord, error) {
	f.record("check-out")
	if f.checkOut == nil {
		return &model.AttendanceRecord{}, nil
	}
	return f.checkOut()
}

func (f *fakeAPI) AllAttendance(context.Context) ([]model.AttendanceRecord, error) {
	f.record("all")
	if f.allAttendance == nil {
		return nil, nil
	}
	return f.allAttendance()
}

func (f *fakeAPI) AttendanceByUser(_ context.Context, userID int64) ([]model.AttendanceRecord, error) {
	f.record("by-user")
	if f.attendanceByUser == nil {
		return nil, nil
	}
	return f.attendanceByUser(userID)
}

var _ API = (*fakeAPI)(nil)

// recordingNavigator は遷移先を記録する。
type recordingNavigator struct {
	views []session.View
}

func (n *recordingNavigator) Navigate(v session.View) {
	n.views = append(n.views, v)
}

func (n *recordingNavigator) last() session.View {
	if len(n.views) == 0 {
		return ""
	}
	return n.views[len(n.views)-1]
}

// fixedNow はテストの「今日」。
var fixedNow = time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)

const fixedToday = "2024-01-06"

type testEnv struct {
	ctl      *Controller
	api      *fakeAPI
	sessions *session.Repository
	nav      *recordingNavigator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := &fakeAPI{}
	sessions := session.NewRepository(storage.NewMemoryStore(), nil)
	nav := &recordingNavigator{}
	ctl := NewController(fake, sessions, nav, nil).WithClock(func() time.Time { return fixedNow })
	return &testEnv{ctl: ctl, api: fake, sessions: sessions, nav: nav}
}

// signIn はテスト用にセッションを保存する。
func (e *testEnv) signIn(t *testing.T, role model.Role) {
	t.Helper()
	err := e.sessions.SetSession(context.Background(), &model.AuthResponse{
		AccessToken: "token", TokenType: "Bearer", Username: "alice", Role: role,
	})
	if err != nil {
		t.Fatalf("SetSession がエラーを返した: %v", err)
	}
}

func strPtr(s string) *string { return &s }
