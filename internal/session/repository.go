// Package session はクライアント側の認証セッション（アクセストークンとユーザープロファイル）の
// 保存・取得と、ページ表示前の認証ガードを提供する。
package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/storage"
)

// 保存キー
const (
	TokenKey     = "atency_token"
	TokenTypeKey = "atency_token_type"
	UserKey      = "atency_user"
)

// Repository はセッション情報の永続化を担う。
// 保存先は注入されたstorage.Storeで、テストではMemoryStoreに差し替える。
type Repository struct {
	store  storage.Store
	logger *slog.Logger
}

// NewRepository はRepositoryを生成する。
func NewRepository(store storage.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// SetSession は認証レスポンスからトークン・トークン種別・ユーザー情報を保存する。
// authがnilの場合は何もしない。トークン種別が空の場合は"Bearer"を保存する。
func (r *Repository) SetSession(ctx context.Context, auth *model.AuthResponse) error {
	if auth == nil {
		return nil
	}

	tokenType := auth.TokenType
	if tokenType == "" {
		tokenType = model.DefaultTokenType
	}

	user, err := json.Marshal(model.User{Username: auth.Username, Role: auth.Role})
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, TokenKey, auth.AccessToken); err != nil {
		return err
	}
	if err := r.store.Set(ctx, TokenTypeKey, tokenType); err != nil {
		return err
	}
	return r.store.Set(ctx, UserKey, string(user))
}

// ClearSession はセッション情報をすべて削除する。冪等。
func (r *Repository) ClearSession(ctx context.Context) error {
	return r.store.Delete(ctx, TokenKey, TokenTypeKey, UserKey)
}

// Token はアクセストークンを返す。未保存または空の場合はok=false。
func (r *Repository) Token(ctx context.Context) (string, bool) {
	token, ok := r.read(ctx, TokenKey)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// TokenType はトークン種別を返す。未保存の場合は"Bearer"。
func (r *Repository) TokenType(ctx context.Context) string {
	tokenType, ok := r.read(ctx, TokenTypeKey)
	if !ok || tokenType == "" {
		return model.DefaultTokenType
	}
	return tokenType
}

// User は保存されたユーザー情報を返す。
// 未保存、または値がデコードできない場合はnilを返す（エラーにはしない）。
func (r *Repository) User(ctx context.Context) *model.User {
	raw, ok := r.read(ctx, UserKey)
	if !ok {
		return nil
	}

	var user *model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		r.logger.Debug("stored user could not be decoded", slog.String("error", err.Error()))
		return nil
	}
	return user
}

// IsAuthenticated はトークンが保存されているかどうかを返す。
func (r *Repository) IsAuthenticated(ctx context.Context) bool {
	_, ok := r.Token(ctx)
	return ok
}

// AuthHeader はAuthorizationヘッダー値 "{tokenType} {token}" を返す。
// 未認証の場合はok=false。
func (r *Repository) AuthHeader(ctx context.Context) (string, bool) {
	token, ok := r.Token(ctx)
	if !ok {
		return "", false
	}
	return r.TokenType(ctx) + " " + token, true
}

// Session は現在のセッションを返す。未認証の場合はnil。
func (r *Repository) Session(ctx context.Context) *model.Session {
	token, ok := r.Token(ctx)
	if !ok {
		return nil
	}
	return &model.Session{
		AccessToken: token,
		TokenType:   r.TokenType(ctx),
		User:        r.User(ctx),
	}
}

// read はストアから値を読む。読み取り失敗は未保存として扱い、ログに残す。
func (r *Repository) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("failed to read session state",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	return v, ok
}
