package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/atency/internal/model"
)

func TestAbsenceJob_RunMarksPreviousDay(t *testing.T) {
	// 日曜 00:05 に実行すると土曜分を記録する
	clock := newTestClock(time.Date(2024, 1, 7, 0, 5, 0, 0, time.Local))
	svc, store := newTestService(t, clock)
	registerUser(t, svc, "alice")

	var buf bytes.Buffer
	job := NewAbsenceJob(svc, slog.New(slog.NewJSONHandler(&buf, nil)), clock.Now)

	if got := job.Run(context.Background()); got != 1 {
		t.Fatalf("Run = %d, want 1", got)
	}

	alice, _ := store.AccountByUsername("alice")
	rec, ok := store.Attendance(alice.ID, "2024-01-06")
	if !ok || rec.Status != model.StatusAbsent {
		t.Errorf("土曜の記録 = %+v, %v", rec, ok)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}
	if entry["date"] != "2024-01-06" || entry["marked_count"] != float64(1) {
		t.Errorf("log = %v", entry)
	}
}

func TestAbsenceJob_SkipsNonWorkingDay(t *testing.T) {
	// 金曜 00:05 に実行すると前日は木曜（休日）
	clock := newTestClock(time.Date(2024, 1, 5, 0, 5, 0, 0, time.Local))
	svc, store := newTestService(t, clock)
	registerUser(t, svc, "alice")

	job := NewAbsenceJob(svc, discardLogger(), clock.Now)
	if got := job.Run(context.Background()); got != 0 {
		t.Errorf("Run = %d, want 0", got)
	}
	if n := len(store.AllAttendance()); n != 0 {
		t.Errorf("記録数 = %d, want 0", n)
	}
}

func TestAbsenceJob_NextRun(t *testing.T) {
	job := NewAbsenceJob(nil, discardLogger(), nil)

	tests := []struct {
		from time.Time
		want time.Time
	}{
		{time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 6, 0, 5, 0, 0, time.UTC)},
		{time.Date(2024, 1, 6, 0, 5, 0, 0, time.UTC), time.Date(2024, 1, 7, 0, 5, 0, 0, time.UTC)},
		{time.Date(2024, 1, 6, 13, 0, 0, 0, time.UTC), time.Date(2024, 1, 7, 0, 5, 0, 0, time.UTC)},
		{time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 5, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := job.NextRun(tt.from); !got.Equal(tt.want) {
			t.Errorf("NextRun(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestAbsenceJob_StartStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t, newTestClock(saturdayMorning))
	job := NewAbsenceJob(svc, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start がキャンセル後に終了しない")
	}
}
