package devserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/atency/internal/metrics"
	"github.com/hitoshi/atency/internal/middleware"
	"github.com/hitoshi/atency/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Handler           *Handler
	Verifier          middleware.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string
	Metrics           metrics.ServerMetrics
	Gatherer          prometheus.Gatherer
	Logger            *slog.Logger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	ReferenceID → Logging → Recovery → CORS → SecurityHeaders → Metrics
//
// /api/auth/* は認証不要でレート制限のみ、/api/attendance/* は従業員または管理者、
// /api/admin/* は管理者のみ。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewReferenceIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	h := deps.Handler
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証不要のルート ---
	r.Route("/api/auth", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewBearerAuthMiddleware(deps.Verifier, deps.Metrics))

		r.Route("/api/attendance", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleEmployee, model.RoleAdmin))
			r.Post("/check-in", h.CheckIn)
			r.Post("/check-out", h.CheckOut)
			r.Get("/my-records", h.MyRecords)
			r.Get("/my-summary", h.MySummary)
		})

		r.Route("/api/admin/attendance", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Get("/all", h.AllAttendance)
			r.Get("/{userId}", h.AttendanceByUser)
		})
	})

	return r
}
