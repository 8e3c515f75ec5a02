package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// API
	APIBaseURL string

	// Client state
	StateURL     string
	ThemeDefault string

	// Logging
	LogLevel string

	// Metrics
	MetricsFile string // 空でなければ終了時にクライアントメトリクスを書き出す

	// Dev server
	DevServerPort       string
	DevServerJWTSecret  string
	DevServerJWTTTL     time.Duration
	DevServerSeed       bool
	DevServerCORSOrigin string
	DevServerAuthRate   int // 認証エンドポイントのレート（req/min/client）
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（既存の環境変数は上書きしない）。
// 値が不正な場合はエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.APIBaseURL = strings.TrimRight(getEnvString("ATENCY_API_BASE_URL", "http://localhost:8080"), "/")
	if err := validateBaseURL(cfg.APIBaseURL); err != nil {
		return nil, err
	}

	cfg.StateURL = getEnvString("ATENCY_STATE_URL", defaultStateURL())

	cfg.ThemeDefault = getEnvString("ATENCY_THEME_DEFAULT", "light")
	if cfg.ThemeDefault != "light" && cfg.ThemeDefault != "dark" {
		return nil, fmt.Errorf("ATENCY_THEME_DEFAULT must be light or dark: %q", cfg.ThemeDefault)
	}

	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	cfg.MetricsFile = os.Getenv("ATENCY_METRICS_FILE")

	cfg.DevServerPort = getEnvString("DEVSERVER_PORT", "8080")
	cfg.DevServerJWTSecret = os.Getenv("DEVSERVER_JWT_SECRET")
	cfg.DevServerJWTTTL = getEnvDuration("DEVSERVER_JWT_TTL", 24*time.Hour)
	cfg.DevServerSeed = getEnvBool("DEVSERVER_SEED", true)
	cfg.DevServerCORSOrigin = getEnvString("DEVSERVER_CORS_ORIGIN", "http://localhost:3000")
	cfg.DevServerAuthRate = getEnvInt("DEVSERVER_AUTH_RATE", 30)

	return cfg, nil
}

// ValidateDevServer は開発用バックエンドの起動に必要な設定を検証する。
func (c *Config) ValidateDevServer() error {
	var missing []string
	if c.DevServerJWTSecret == "" {
		missing = append(missing, "DEVSERVER_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}
	if c.DevServerJWTTTL <= 0 {
		return fmt.Errorf("DEVSERVER_JWT_TTL must be positive: %v", c.DevServerJWTTTL)
	}
	return nil
}

// validateBaseURL はAPIのベースURLがhttp/httpsの絶対URLであることを検証する。
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid ATENCY_API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid ATENCY_API_BASE_URL scheme: %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid ATENCY_API_BASE_URL host: %q", raw)
	}
	return nil
}

// defaultStateURL はホームディレクトリ配下のSQLiteファイルを指すURLを返す。
func defaultStateURL() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "sqlite3://atency-state.db"
	}
	return "sqlite3://" + filepath.Join(home, ".atency", "state.db")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
