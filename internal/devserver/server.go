// Package devserver は勤怠APIのインメモリ実装を提供する。
// クライアントの開発・結合テスト用で、データはプロセス終了とともに失われる。
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/atency/internal/metrics"
	"github.com/hitoshi/atency/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Config は開発用バックエンドの設定。
type Config struct {
	Port              string
	JWTSecret         string
	JWTTTL            time.Duration
	Seed              bool
	CORSAllowedOrigin string
	AuthRatePerMinute int
	BcryptCost        int              // 0の場合はbcrypt.DefaultCost
	Now               func() time.Time // nilの場合はtime.Now
}

// Server は開発用バックエンド一式。
type Server struct {
	cfg     Config
	logger  *slog.Logger
	service *Service
	job     *AbsenceJob
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New は依存関係をワイヤリングしてServerを生成する。
// regにはメトリクスを登録するレジストリを渡す。
func New(cfg Config, logger *slog.Logger, reg *prometheus.Registry) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	collector := metrics.NewCollector(reg)
	store := NewStore()
	tokens := NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, cfg.Now)
	service := NewService(store, tokens, collector, logger, cfg.Now, cfg.BcryptCost)

	if cfg.Seed {
		if err := service.Seed(); err != nil {
			return nil, err
		}
	}

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(cfg.AuthRatePerMinute), logger)

	router := NewRouter(&RouterDeps{
		Handler:           NewHandler(service, logger),
		Verifier:          &accountVerifier{tokens: tokens, store: store},
		RateLimiter:       limiter,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Metrics:           collector,
		Gatherer:          reg,
		Logger:            logger,
	})

	return &Server{
		cfg:     cfg,
		logger:  logger,
		service: service,
		job:     NewAbsenceJob(service, logger, cfg.Now),
		limiter: limiter,
		handler: router,
	}, nil
}

// Handler はルーティング済みのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Service は業務ロジックを返す。
func (s *Server) Service() *Service {
	return s.service
}

// Close はバックグラウンド処理を停止する。
func (s *Server) Close() {
	s.limiter.Stop()
}

// Run はHTTPサーバーと欠勤記録ジョブを起動し、ctxがキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	server := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	jobCtx, cancelJob := context.WithCancel(ctx)
	defer cancelJob()
	go s.job.Start(jobCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dev server listen failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dev server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev server shutdown failed: %w", err)
	}

	s.logger.Info("dev server stopped gracefully")
	return nil
}
