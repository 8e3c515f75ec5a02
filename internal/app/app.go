// Package app はCLIのエントリーポイントと依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hitoshi/atency/internal/config"
	"github.com/hitoshi/atency/internal/database"
	"github.com/hitoshi/atency/internal/devserver"
	"github.com/hitoshi/atency/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrCommandFailed はコマンドの失敗がすでに画面に表示済みであることを示す。
// 呼び出し元は終了コードのみを設定すればよい。
var ErrCommandFailed = errors.New("command failed")

// Streams はCLIの入出力先。
type Streams struct {
	In  io.Reader
	Out io.Writer // コマンド出力
	Err io.Writer // ログとエラー出力
}

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたレベルで再設定する
	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))

	return cfg, nil
}

// Run はCLIのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応する処理を実行する。
// argsにはos.Args[1:]を渡す。
func Run(ctx context.Context, s Streams, args []string) error {
	cmd, rest := ParseCommand(args)

	if cmd == CommandHelp {
		if len(args) > 0 {
			if _, known := commands[args[0]]; !known {
				fmt.Fprint(s.Err, usage)
				return fmt.Errorf("unknown command %q", args[0])
			}
		}
		fmt.Fprint(s.Out, usage)
		return nil
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("DEVSERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(ctx, port)
	}

	cfg, err := Init(s.Err)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Debug("starting command",
		slog.String("command", string(cmd)),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandDevServer:
		return runDevServer(ctx, cfg)
	}

	cli, closeFn, err := openClient(cfg, s, slog.Default())
	if err != nil {
		return err
	}
	defer closeFn()

	return cli.execute(ctx, cmd, rest)
}

// runDevServer は開発用バックエンドを起動する。
// ctxがキャンセルされる（SIGINT/SIGTERM）とグレースフルシャットダウンを行う。
func runDevServer(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateDevServer(); err != nil {
		return err
	}

	srv, err := devserver.New(devserver.Config{
		Port:              cfg.DevServerPort,
		JWTSecret:         cfg.DevServerJWTSecret,
		JWTTTL:            cfg.DevServerJWTTTL,
		Seed:              cfg.DevServerSeed,
		CORSAllowedOrigin: cfg.DevServerCORSOrigin,
		AuthRatePerMinute: cfg.DevServerAuthRate,
	}, slog.Default(), prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to create dev server: %w", err)
	}

	return srv.Run(ctx)
}

// runMigrate はクライアント状態DBのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running state migrations",
		slog.String("state_url", maskStateURL(cfg.StateURL)),
	)

	if err := prepareState(cfg.StateURL); err != nil {
		return err
	}

	slog.Info("state migrations completed successfully")
	return nil
}

// prepareState は状態保存先を開けることを確認し、マイグレーションを適用する。
// SQLiteの場合は親ディレクトリもここで作成される。
func prepareState(stateURL string) error {
	db, _, err := database.Open(stateURL)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close state database: %w", err)
	}

	if err := database.RunMigrations(stateURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(ctx context.Context, port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskStateURL は状態保存先URLの認証情報をマスクする。SQLiteのパスはそのまま返す。
func maskStateURL(url string) string {
	driver, _, err := database.ParseURL(url)
	if err != nil {
		return "***"
	}
	if driver == database.DriverSQLite {
		return url
	}
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
