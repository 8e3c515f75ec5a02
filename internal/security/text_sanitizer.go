// Package security はサーバーから受け取った文字列を端末に表示する前の無害化を提供する。
//
// TextSanitizer はbluemondayのStrictPolicyで全タグを除去し、
// エスケープされた実体参照を元の文字へ戻したプレーンテキストを返す。
// エラーメッセージや氏名など、バックエンドが返す任意の文字列に適用する。
package security

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は表示用テキストの無害化機能のインターフェース。
type TextSanitizer interface {
	// Sanitize はタグと制御文字を除去したプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。ポリシーはスレッドセーフ。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はタグと制御文字を除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(s.policy.Sanitize(raw))
	// 端末のエスケープシーケンスとして解釈されうる制御文字を落とす
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// compile-time interface check
var _ TextSanitizer = (*textSanitizer)(nil)
