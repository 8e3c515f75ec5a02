package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ReferenceIDHeader はリクエストの追跡IDを受け渡すヘッダー。
const ReferenceIDHeader = "X-Reference-Id"

var referenceIDContextKey = contextKey("reference_id")

// NewReferenceIDMiddleware はリクエストごとに追跡IDを決定し、
// レスポンスヘッダーとリクエストコンテキストに設定するミドルウェアを返す。
// リクエストにX-Reference-Idがあればその値を引き継ぎ、なければUUIDを生成する。
func NewReferenceIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ReferenceIDHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(ReferenceIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ContextWithReferenceID(r.Context(), id)))
		})
	}
}

// ReferenceIDFromContext はコンテキストの追跡IDを返す。
// 未設定の場合は新しいUUIDを返す。
func ReferenceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(referenceIDContextKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// ContextWithReferenceID はコンテキストに追跡IDを注入する。
func ContextWithReferenceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, referenceIDContextKey, id)
}
