// Package preference はセッションとは独立したクライアント設定（UIテーマ）を保存する。
package preference

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/storage"
)

// ThemeKey はテーマ設定の保存キー。
const ThemeKey = "atency_theme"

// Repository はテーマ設定の永続化を担う。
// セッション破棄の影響を受けない。
type Repository struct {
	store        storage.Store
	defaultTheme model.Theme
	logger       *slog.Logger
}

// NewRepository はRepositoryを生成する。
// defaultThemeが不正な値の場合はlightを既定値とする。
func NewRepository(store storage.Store, defaultTheme model.Theme, logger *slog.Logger) *Repository {
	if !defaultTheme.Valid() {
		defaultTheme = model.ThemeLight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, defaultTheme: defaultTheme, logger: logger}
}

// Theme は保存済みのテーマを返す。未保存または不正な値の場合は既定値を返す。
func (r *Repository) Theme(ctx context.Context) model.Theme {
	v, ok, err := r.store.Get(ctx, ThemeKey)
	if err != nil {
		r.logger.Warn("failed to read theme preference", slog.String("error", err.Error()))
		return r.defaultTheme
	}
	if !ok {
		return r.defaultTheme
	}
	theme := model.Theme(v)
	if !theme.Valid() {
		return r.defaultTheme
	}
	return theme
}

// SetTheme はテーマを保存する。
func (r *Repository) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q (want light or dark)", theme)
	}
	if err := r.store.Set(ctx, ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// ToggleTheme はlightとdarkを切り替えて保存し、新しいテーマを返す。
func (r *Repository) ToggleTheme(ctx context.Context) (model.Theme, error) {
	next := model.ThemeDark
	if r.Theme(ctx) == model.ThemeDark {
		next = model.ThemeLight
	}
	if err := r.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
