package devserver

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/hitoshi/atency/internal/model"
)

// ErrUsernameTaken はユーザー名が登録済みであることを示す。
var ErrUsernameTaken = errors.New("username already exists")

// account は登録済みユーザー。
type account struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash []byte
	Role         model.Role
}

// attendance は1ユーザー1日分の勤怠記録。
type attendance struct {
	ID       int64
	UserID   int64
	Date     string
	CheckIn  *time.Time
	CheckOut *time.Time
	Worked   time.Duration
	Status   model.AttendanceStatus
}

// Store はユーザーと勤怠記録をメモリ上に保持する。
// 返す値はすべてコピーで、呼び出し側が変更しても内部状態には影響しない。
type Store struct {
	mu         sync.RWMutex
	accounts   map[int64]*account
	byUsername map[string]int64
	records    map[int64]*attendance
	nextUserID int64
	nextRecID  int64
}

// NewStore は空のStoreを生成する。
func NewStore() *Store {
	return &Store{
		accounts:   make(map[int64]*account),
		byUsername: make(map[string]int64),
		records:    make(map[int64]*attendance),
	}
}

// AddAccount はユーザーを登録してIDを採番する。
// ユーザー名が重複する場合はErrUsernameTakenを返す。
func (s *Store) AddAccount(a account) (account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[a.Username]; exists {
		return account{}, ErrUsernameTaken
	}
	s.nextUserID++
	a.ID = s.nextUserID
	s.accounts[a.ID] = &a
	s.byUsername[a.Username] = a.ID
	return a, nil
}

// AccountByUsername はユーザー名でユーザーを検索する。
func (s *Store) AccountByUsername(username string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return account{}, false
	}
	return *s.accounts[id], true
}

// AccountByID はIDでユーザーを検索する。
func (s *Store) AccountByID(id int64) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return account{}, false
	}
	return *a, true
}

// Accounts は全ユーザーをID順で返す。
func (s *Store) Accounts() []account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b account) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Attendance は指定ユーザー・日付の勤怠記録を返す。
func (s *Store) Attendance(userID int64, date string) (attendance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.UserID == userID && r.Date == date {
			return *r, true
		}
	}
	return attendance{}, false
}

// SaveAttendance は勤怠記録を保存する。IDが0の場合は新規に採番する。
func (s *Store) SaveAttendance(r attendance) attendance {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		s.nextRecID++
		r.ID = s.nextRecID
	}
	s.records[r.ID] = &r
	return r
}

// InsertAttendanceIfAbsent は同じユーザー・日付の記録がない場合に限り保存する。
// 保存した場合はtrueを返す。
func (s *Store) InsertAttendanceIfAbsent(r attendance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.UserID == r.UserID && existing.Date == r.Date {
			return false
		}
	}
	s.nextRecID++
	r.ID = s.nextRecID
	s.records[r.ID] = &r
	return true
}

// AttendanceByUser は指定ユーザーの勤怠記録を日付の新しい順で返す。
func (s *Store) AttendanceByUser(userID int64) []attendance {
	return s.attendanceWhere(func(r *attendance) bool { return r.UserID == userID })
}

// AllAttendance は全ユーザーの勤怠記録を日付の新しい順で返す。
func (s *Store) AllAttendance() []attendance {
	return s.attendanceWhere(func(*attendance) bool { return true })
}

func (s *Store) attendanceWhere(match func(*attendance) bool) []attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]attendance, 0)
	for _, r := range s.records {
		if match(r) {
			out = append(out, *r)
		}
	}
	// 同一日付はID降順で安定させる
	slices.SortFunc(out, func(a, b attendance) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
