package devserver

import (
	"errors"
	"testing"

	"github.com/hitoshi/atency/internal/model"
)

func TestStore_AddAccount(t *testing.T) {
	s := NewStore()

	a, err := s.AddAccount(account{Username: "alice", Role: model.RoleEmployee})
	if err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if a.ID != 1 {
		t.Errorf("ID = %d, want 1", a.ID)
	}

	if _, err := s.AddAccount(account{Username: "alice"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("重複時は ErrUsernameTaken を返すべき: %v", err)
	}

	b, _ := s.AddAccount(account{Username: "bob"})
	if b.ID != 2 {
		t.Errorf("ID = %d, want 2", b.ID)
	}

	got, ok := s.AccountByID(2)
	if !ok || got.Username != "bob" {
		t.Errorf("AccountByID(2) = %+v, %v", got, ok)
	}
	if _, ok := s.AccountByUsername("carol"); ok {
		t.Error("未登録ユーザーが見つかった")
	}
	if accts := s.Accounts(); len(accts) != 2 || accts[0].Username != "alice" {
		t.Errorf("Accounts = %+v", accts)
	}
}

func TestStore_AttendanceOrdering(t *testing.T) {
	s := NewStore()
	s.SaveAttendance(attendance{UserID: 1, Date: "2024-01-06"})
	s.SaveAttendance(attendance{UserID: 2, Date: "2024-01-08"})
	s.SaveAttendance(attendance{UserID: 1, Date: "2024-01-07"})
	s.SaveAttendance(attendance{UserID: 2, Date: "2024-01-06"})

	all := s.AllAttendance()
	wantDates := []string{"2024-01-08", "2024-01-07", "2024-01-06", "2024-01-06"}
	for i, want := range wantDates {
		if all[i].Date != want {
			t.Errorf("all[%d].Date = %s, want %s", i, all[i].Date, want)
		}
	}
	// 同一日付は後から作成したものが先
	if all[2].UserID != 2 {
		t.Errorf("同一日付はID降順であるべき: %+v", all[2:])
	}

	mine := s.AttendanceByUser(1)
	if len(mine) != 2 || mine[0].Date != "2024-01-07" {
		t.Errorf("AttendanceByUser(1) = %+v", mine)
	}
}

func TestStore_SaveAttendanceUpdatesExisting(t *testing.T) {
	s := NewStore()
	saved := s.SaveAttendance(attendance{UserID: 1, Date: "2024-01-06", Status: model.StatusPresent})
	saved.Status = model.StatusAbsent
	s.SaveAttendance(saved)

	got, ok := s.Attendance(1, "2024-01-06")
	if !ok || got.Status != model.StatusAbsent || got.ID != saved.ID {
		t.Errorf("Attendance = %+v, %v", got, ok)
	}
	if n := len(s.AllAttendance()); n != 1 {
		t.Errorf("件数 = %d, want 1", n)
	}
}

func TestStore_InsertAttendanceIfAbsent(t *testing.T) {
	s := NewStore()
	if !s.InsertAttendanceIfAbsent(attendance{UserID: 1, Date: "2024-01-06"}) {
		t.Fatal("初回は保存されるべき")
	}
	if s.InsertAttendanceIfAbsent(attendance{UserID: 1, Date: "2024-01-06"}) {
		t.Error("同一ユーザー・日付は保存されないべき")
	}
	if !s.InsertAttendanceIfAbsent(attendance{UserID: 2, Date: "2024-01-06"}) {
		t.Error("別ユーザーは保存されるべき")
	}
}
