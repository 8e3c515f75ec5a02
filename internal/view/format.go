package view

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Placeholder は値がない項目の表示。
const Placeholder = "--"

// DateLayout はバックエンドの日付形式。
const DateLayout = "2006-01-02"

// Today は指定時刻の暦日をDateLayout形式で返す。
// nowのロケーションのまま判定する（UTCに変換しない）。バックエンドは記録の日付を
// サーバーのローカル日付で付けるため、同じタイムゾーンの端末では深夜でも当日の記録と一致する。
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// FormatDate は "2024-01-06" を "Jan 6, 2024" 形式にする。
// 空の場合はPlaceholder、解釈できない場合は元の値を返す。
func FormatDate(value string) string {
	if value == "" {
		return Placeholder
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return value
	}
	return t.Format("Jan 2, 2006")
}

// FormatTime は "09:05:30" のような時刻文字列を先頭5文字（HH:MM）に切り詰める。
// nilまたは空の場合はPlaceholderを返す。
func FormatTime(value *string) string {
	if value == nil || *value == "" {
		return Placeholder
	}
	if len(*value) >= 5 {
		return (*value)[:5]
	}
	return *value
}

// Initials は空白区切りの先頭2語の頭文字を大文字で返す。
func Initials(name string) string {
	parts := strings.Split(name, " ")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	var b strings.Builder
	for _, p := range parts {
		if r, _ := utf8.DecodeRuneInString(p); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
