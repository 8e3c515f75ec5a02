package session

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/storage"
)

func newTestRepository(t *testing.T) (*Repository, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewRepository(store, nil), store
}

func validAuth() *model.AuthResponse {
	return &model.AuthResponse{
		AccessToken: "token-123",
		TokenType:   "Bearer",
		Username:    "alice",
		Role:        model.RoleAdmin,
	}
}

func TestRepository_SetSession_ThenIsAuthenticated(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	if err := repo.SetSession(ctx, validAuth()); err != nil {
		t.Fatalf("SetSession がエラーを返した: %v", err)
	}
	if !repo.IsAuthenticated(ctx) {
		t.Error("SetSession 後は IsAuthenticated が true であるべき")
	}
}

func TestRepository_ClearSession_ThenNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	_ = repo.SetSession(ctx, validAuth())
	if err := repo.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession がエラーを返した: %v", err)
	}
	if repo.IsAuthenticated(ctx) {
		t.Error("ClearSession 後は IsAuthenticated が false であるべき")
	}
	if repo.User(ctx) != nil {
		t.Error("ClearSession 後は User が nil であるべき")
	}
	if store.Len() != 0 {
		t.Errorf("全キーが削除されるべき: 残り %d 件", store.Len())
	}

	// 冪等
	if err := repo.ClearSession(ctx); err != nil {
		t.Fatalf("2回目の ClearSession がエラーを返した: %v", err)
	}
	if repo.IsAuthenticated(ctx) {
		t.Error("2回目の ClearSession 後も未認証であるべき")
	}
}

func TestRepository_ClearSession_KeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	_ = store.Set(ctx, "atency_theme", "dark")
	_ = repo.SetSession(ctx, validAuth())
	_ = repo.ClearSession(ctx)

	if v, ok, _ := store.Get(ctx, "atency_theme"); !ok || v != "dark" {
		t.Error("テーマ設定はセッション破棄の影響を受けないべき")
	}
}

func TestRepository_GetUser_AfterSetSession(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	_ = repo.SetSession(ctx, validAuth())

	user := repo.User(ctx)
	if user == nil {
		t.Fatal("User が nil を返した")
	}
	if user.Username != "alice" || user.Role != model.RoleAdmin {
		t.Errorf("User = %+v, want {alice ADMIN}", *user)
	}
}

func TestRepository_SetSession_NilIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	if err := repo.SetSession(ctx, nil); err != nil {
		t.Fatalf("nil の SetSession がエラーを返した: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("nil の SetSession は何も保存しないべき: %d 件", store.Len())
	}
}

func TestRepository_SetSession_DefaultsTokenType(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	auth := validAuth()
	auth.TokenType = ""
	_ = repo.SetSession(ctx, auth)

	if got := repo.TokenType(ctx); got != "Bearer" {
		t.Errorf("TokenType = %q, want %q", got, "Bearer")
	}
}

func TestRepository_TokenType_DefaultsWhenMissing(t *testing.T) {
	repo, _ := newTestRepository(t)
	if got := repo.TokenType(context.Background()); got != "Bearer" {
		t.Errorf("TokenType = %q, want %q", got, "Bearer")
	}
}

func TestRepository_User_UndecodableReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	_ = store.Set(ctx, UserKey, "{not json")
	if repo.User(ctx) != nil {
		t.Error("デコードできない値では nil を返すべき")
	}
}

func TestRepository_AuthHeader(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	if h, ok := repo.AuthHeader(ctx); ok || h != "" {
		t.Errorf("未認証の AuthHeader = (%q, %v), want (\"\", false)", h, ok)
	}

	auth := validAuth()
	auth.TokenType = "Token"
	_ = repo.SetSession(ctx, auth)

	h, ok := repo.AuthHeader(ctx)
	if !ok || h != "Token token-123" {
		t.Errorf("AuthHeader = (%q, %v), want (%q, true)", h, ok, "Token token-123")
	}
}

func TestRepository_AuthHeaderAbsentExactlyWhenTokenAbsent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(s *storage.MemoryStore)
	}{
		{"空", func(s *storage.MemoryStore) {}},
		{"トークンのみ", func(s *storage.MemoryStore) { _ = s.Set(ctx, TokenKey, "t") }},
		{"空トークン", func(s *storage.MemoryStore) { _ = s.Set(ctx, TokenKey, "") }},
		{"種別のみ", func(s *storage.MemoryStore) { _ = s.Set(ctx, TokenTypeKey, "Bearer") }},
		{"ユーザーのみ", func(s *storage.MemoryStore) { _ = s.Set(ctx, UserKey, `{"username":"a","role":"EMPLOYEE"}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store := newTestRepository(t)
			tt.setup(store)

			_, tokenOK := repo.Token(ctx)
			_, headerOK := repo.AuthHeader(ctx)
			if tokenOK != headerOK {
				t.Errorf("Token ok = %v, AuthHeader ok = %v: 一致するべき", tokenOK, headerOK)
			}
		})
	}
}

func TestRepository_Session(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	if repo.Session(ctx) != nil {
		t.Error("未認証では Session が nil であるべき")
	}

	_ = repo.SetSession(ctx, validAuth())
	s := repo.Session(ctx)
	if s == nil {
		t.Fatal("Session が nil を返した")
	}
	if s.AccessToken != "token-123" || s.TokenType != "Bearer" || s.User == nil || s.User.Username != "alice" {
		t.Errorf("Session = %+v", s)
	}
}

// failingStore は読み取りが常に失敗するストア。
type failingStore struct {
	storage.MemoryStore
}

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk I/O error")
}

func TestRepository_ReadFailureTreatedAsAbsent(t *testing.T) {
	repo := NewRepository(&failingStore{}, nil)
	ctx := context.Background()

	if repo.IsAuthenticated(ctx) {
		t.Error("読み取り失敗時は未認証として扱うべき")
	}
	if repo.User(ctx) != nil {
		t.Error("読み取り失敗時は User が nil であるべき")
	}
	if repo.TokenType(ctx) != "Bearer" {
		t.Error("読み取り失敗時は既定のトークン種別を返すべき")
	}
}
