package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore はclient_stateテーブルを使用したStore実装。
// SQLiteとPostgreSQLの両方で同じSQLが動作する。
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore はSQLStoreを生成する。
// テーブルはdatabase.RunMigrationsで作成済みであること。
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Get は指定キーの値を取得する。見つからない場合はok=falseを返す。
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_state WHERE key = $1`,
		key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get client state: %w", err)
	}

	return value, true, nil
}

// Set は指定キーに値をUPSERTする。
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_state (key, value, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set client state: %w", err)
	}
	return nil
}

// Delete は指定キーを削除する。複数キーは同一トランザクションで削除する。
func (s *SQLStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM client_state WHERE key = $1`, key); err != nil {
			return fmt.Errorf("failed to delete client state: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Store = (*SQLStore)(nil)
