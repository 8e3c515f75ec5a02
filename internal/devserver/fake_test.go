package devserver

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// testClock は任意の時刻を返す時計。
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// 2024-01-06 は土曜日（勤務日）、2024-01-04 は木曜日（休日）。
var (
	saturdayMorning = time.Date(2024, 1, 6, 9, 0, 0, 0, time.Local)
	thursdayMorning = time.Date(2024, 1, 4, 9, 0, 0, 0, time.Local)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestService(t *testing.T, clock *testClock) (*Service, *Store) {
	t.Helper()
	store := NewStore()
	tokens := NewTokenIssuer("test-secret", time.Hour, clock.Now)
	return NewService(store, tokens, nil, discardLogger(), clock.Now, bcrypt.MinCost), store
}
