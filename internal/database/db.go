package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver は状態保存先のデータベース種別を表す。
type Driver string

const (
	// DriverSQLite はローカルファイルのSQLite。CLIの既定の保存先。
	DriverSQLite Driver = "sqlite3"
	// DriverPostgres は共有端末向けのPostgreSQL。
	DriverPostgres Driver = "postgres"
)

// ParseURL は状態保存先URLからドライバとdatabase/sql用のDSNを取り出す。
// 対応形式: "sqlite3://<path>"、"postgres://..."、"postgresql://..."。
func ParseURL(databaseURL string) (Driver, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite3://"):
		path := strings.TrimPrefix(databaseURL, "sqlite3://")
		if path == "" {
			return "", "", fmt.Errorf("empty sqlite3 path in URL: %q", databaseURL)
		}
		return DriverSQLite, path, nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres, databaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme: %q", databaseURL)
	}
}

// Open は状態保存先URLに対応するデータベース接続を開く。
// SQLiteの場合は親ディレクトリを作成する。
// sql.Openは接続を試行しないため、実際の接続確認にはdb.Ping()を使用すること。
func Open(databaseURL string) (*sql.DB, Driver, error) {
	driver, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	if driver == DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, "", fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLiteは単一ライター。CLIからの逐次アクセスのみを想定する。
		db.SetMaxOpenConns(1)
	}

	return db, driver, nil
}
