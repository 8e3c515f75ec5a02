package devserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/atency/internal/middleware"
	"github.com/hitoshi/atency/internal/model"
)

// ErrUnknownAccount はトークンの主体が存在しないことを示す。
var ErrUnknownAccount = errors.New("token subject does not exist")

// accessClaims はアクセストークンのクレーム。
type accessClaims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer はHS256署名のアクセストークンを発行・検証する。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer は新しいTokenIssuerを生成する。nowがnilの場合はtime.Nowを使う。
func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue はユーザー名をsubject、ロールをroleクレームに持つトークンを発行する。
func (t *TokenIssuer) Issue(username string, role model.Role) (string, error) {
	now := t.now()
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse はトークンの署名と有効期限を検証してクレームを返す。
func (t *TokenIssuer) Parse(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("failed to verify access token: empty subject")
	}
	return claims, nil
}

// accountVerifier はトークンを検証し、主体が現存するユーザーであることを確認する。
// ロールはトークンではなく保存済みのユーザーから取得する。
type accountVerifier struct {
	tokens *TokenIssuer
	store  *Store
}

var _ middleware.TokenVerifier = (*accountVerifier)(nil)

// Verify はmiddleware.TokenVerifierを実装する。
func (v *accountVerifier) Verify(token string) (*middleware.Principal, error) {
	claims, err := v.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	acct, ok := v.store.AccountByUsername(claims.Subject)
	if !ok {
		return nil, ErrUnknownAccount
	}
	return &middleware.Principal{Username: acct.Username, Role: acct.Role}, nil
}
