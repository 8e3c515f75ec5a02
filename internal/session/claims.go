package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken はトークンが保存されていないことを示す。
var ErrNoToken = errors.New("no access token stored")

// TokenClaims はアクセストークンから読み取った表示用の情報。
// 署名は検証しない（検証はバックエンドの責務）。
type TokenClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired は指定時刻で有効期限切れかどうかを返す。期限がない場合はfalse。
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Claims は保存されたアクセストークンのクレームを署名検証なしで読み取る。
// IsAuthenticatedの判定には影響しない。
func (r *Repository) Claims(ctx context.Context) (*TokenClaims, error) {
	token, ok := r.Token(ctx)
	if !ok {
		return nil, ErrNoToken
	}
	return ParseClaims(token)
}

// ParseClaims はJWTのクレームを署名検証なしで読み取る。
func ParseClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
