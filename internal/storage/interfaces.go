// Package storage はクライアント状態を保存するキーバリューストアを提供する。
// ブラウザのlocalStorageに相当する永続層で、SessionリポジトリとPreferenceリポジトリから利用する。
package storage

import "context"

// Store は文字列キーと文字列値の永続化インターフェース。
type Store interface {
	// Get は指定キーの値を取得する。存在しない場合はok=falseを返す。
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set は指定キーに値を保存する。既存の値は上書きする（後勝ち）。
	Set(ctx context.Context, key, value string) error

	// Delete は指定キーを削除する。存在しないキーは無視する。
	Delete(ctx context.Context, keys ...string) error
}
