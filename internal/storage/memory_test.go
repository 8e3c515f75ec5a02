package storage

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStore_ImplementsInterface(t *testing.T) {
	var _ Store = (*MemoryStore)(nil)
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, _ := s.Get(ctx, "atency_token"); ok {
		t.Fatal("空のストアで値が返されるべきではない")
	}

	if err := s.Set(ctx, "atency_token", "abc"); err != nil {
		t.Fatalf("Set がエラーを返した: %v", err)
	}

	v, ok, err := s.Get(ctx, "atency_token")
	if err != nil {
		t.Fatalf("Get がエラーを返した: %v", err)
	}
	if !ok || v != "abc" {
		t.Errorf("Get = (%q, %v), want (%q, true)", v, ok, "abc")
	}
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Set(ctx, "k", "first")
	_ = s.Set(ctx, "k", "second")

	v, _, _ := s.Get(ctx, "k")
	if v != "second" {
		t.Errorf("後勝ちで上書きされるべき: got %q", v)
	}
}

func TestMemoryStore_DeleteMultipleAndMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Set(ctx, "a", "1")
	_ = s.Set(ctx, "b", "2")
	_ = s.Set(ctx, "c", "3")

	if err := s.Delete(ctx, "a", "b", "missing"); err != nil {
		t.Fatalf("Delete がエラーを返した: %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, ok, _ := s.Get(ctx, "c"); !ok {
		t.Error("削除対象外のキーは残るべき")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _, _ = s.Get(ctx, "k")
		}()
	}
	wg.Wait()
}
