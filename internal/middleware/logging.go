package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/atency/internal/metrics"
)

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// requestInfo は後段のミドルウェアがログ用に埋める情報。
type requestInfo struct {
	user string
}

var requestInfoContextKey = contextKey("request_info")

// setRequestUser は認証済みユーザー名をリクエストログに記録する。
func setRequestUser(ctx context.Context, username string) {
	if info, ok := ctx.Value(requestInfoContextKey).(*requestInfo); ok {
		info.user = username
	}
}

// sensitiveParams は値をログに出さないクエリパラメータ名の部分文字列。
var sensitiveParams = []string{
	"password", "pass", "pwd", "token", "authorization", "auth",
	"secret", "jwt", "apikey", "api_key", "api-key",
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはreference_id、method、path、params、user、status、duration_msを含む。
// 未認証リクエストのuserは "anonymous" となる。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			info := &requestInfo{user: "anonymous"}
			ctx := context.WithValue(r.Context(), requestInfoContextKey, info)
			if p, err := PrincipalFromContext(ctx); err == nil {
				info.user = p.Username
			}

			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			// slogのログレベルをステータスコードに応じて変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http_request",
				slog.String("reference_id", ReferenceIDFromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("params", formatParams(r.URL.Query())),
				slog.String("user", info.user),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			)
		})
	}
}

// formatParams はクエリパラメータをキー順に連結する。機密パラメータの値はREDACTEDに置き換える。
// パラメータがない場合は "-" を返す。
func formatParams(values url.Values) string {
	if len(values) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := strings.Join(values[k], ",")
		switch {
		case isSensitiveParam(k):
			v = "REDACTED"
		case v == "":
			v = "-"
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, "&")
}

func isSensitiveParam(key string) bool {
	lowered := strings.ToLower(key)
	for _, s := range sensitiveParams {
		if strings.Contains(lowered, s) {
			return true
		}
	}
	return false
}

// NewMetricsMiddleware はリクエスト数とレイテンシをルートパターン単位で記録するミドルウェアを返す。
// chiのルーティング後に確定するパターンを使うため、ルーターのUseで登録する。
func NewMetricsMiddleware(m metrics.ServerMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.RecordHTTPRequest(r.Method, route, rec.statusCode, time.Since(start))
		})
	}
}
