// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/hitoshi/atency/internal/metrics"
	"github.com/hitoshi/atency/internal/model"
)

// 認証関連のエラーメッセージ
const (
	MsgAuthenticationFailed = "Authentication failed."
	MsgAccessDenied         = "You do not have permission to perform this action."
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var principalContextKey = contextKey("principal")

// ErrNoPrincipal はコンテキストに認証済みユーザーがないことを示す。
var ErrNoPrincipal = errors.New("principal not found in context")

// Principal は検証済みトークンから得た認証済みユーザー。
type Principal struct {
	Username string
	Role     model.Role
}

// TokenVerifier はアクセストークンを検証してPrincipalを返す。
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// NewBearerAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// Principalをリクエストコンテキストに注入するミドルウェアを返す。
// トークンがない、または検証に失敗した場合は401を返す。metricsはnilでもよい。
func NewBearerAuthMiddleware(verifier TokenVerifier, m metrics.ServerMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				recordAuthFailure(m, "missing_token")
				WriteError(w, r, http.StatusUnauthorized, MsgAuthenticationFailed, nil)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				recordAuthFailure(m, "invalid_token")
				WriteError(w, r, http.StatusUnauthorized, MsgAuthenticationFailed, nil)
				return
			}

			setRequestUser(r.Context(), principal.Username)
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole は認証済みユーザーのロールがrolesのいずれかであることを要求するミドルウェアを返す。
// NewBearerAuthMiddlewareの後に配置する。
func RequireRole(roles ...model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := PrincipalFromContext(r.Context())
			if err != nil {
				WriteError(w, r, http.StatusUnauthorized, MsgAuthenticationFailed, nil)
				return
			}
			if !slices.Contains(roles, principal.Role) {
				WriteError(w, r, http.StatusForbidden, MsgAccessDenied, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext はリクエストコンテキストから認証済みユーザーを取得する。
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// ContextWithPrincipal はコンテキストに認証済みユーザーを注入する。
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// bearerToken は "Bearer <token>" 形式のヘッダー値からトークンを取り出す。
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func recordAuthFailure(m metrics.ServerMetrics, reason string) {
	if m != nil {
		m.RecordAuthFailure(reason)
	}
}
