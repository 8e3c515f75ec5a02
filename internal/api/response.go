package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hitoshi/atency/internal/model"
)

// Response はHTTPレスポンスのデコード結果。OkかErrのいずれか。
type Response interface {
	response()
}

// Ok は2xxレスポンス。Resultはエンベロープのresultフィールド、なければボディ全体。
// ボディがJSONでない場合はnil。
type Ok struct {
	Result json.RawMessage
}

// Err は2xx以外のレスポンス。
type Err struct {
	Status           int
	Message          string
	ValidationErrors map[string]string
	Payload          json.RawMessage
}

func (Ok) response()  {}
func (Err) response() {}

// APIError はErrを呼び出し元へ返すエラー値に変換する。
func (e Err) APIError() *model.APIError {
	return &model.APIError{
		Status:           e.Status,
		Message:          e.Message,
		ValidationErrors: e.ValidationErrors,
		Payload:          e.Payload,
	}
}

// Decode はステータス・ステータステキスト・ボディからResponseを組み立てる。
//
// 失敗時のメッセージは result.message（resultがなければ message）、
// ステータステキスト、"Request failed" の順に採用する。
// フィールドエラーは validationErrors、なければ errors を採用する。
func Decode(status int, statusText string, body []byte) Response {
	payload := parsePayload(body)

	if status >= 200 && status < 300 {
		return Ok{Result: unwrapResult(payload)}
	}

	container := errorContainer(payload)

	message := stringField(container, "message")
	if message == "" {
		message = statusText
	}
	if message == "" {
		message = model.MsgRequestFailed
	}

	validationErrors := stringMapField(container, "validationErrors")
	if validationErrors == nil {
		validationErrors = stringMapField(container, "errors")
	}

	return Err{
		Status:           status,
		Message:          message,
		ValidationErrors: validationErrors,
		Payload:          payload,
	}
}

// parsePayload はボディがJSONとして妥当な場合のみ返す。空・不正・nullはnil。
func parsePayload(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) || isNull(trimmed) {
		return nil
	}
	return json.RawMessage(trimmed)
}

// unwrapResult はエンベロープのresultを取り出す。resultがnullまたは存在しない場合はpayloadを返す。
func unwrapResult(payload json.RawMessage) json.RawMessage {
	obj, ok := asObject(payload)
	if !ok {
		return payload
	}
	result, ok := obj["result"]
	if !ok || isNull(result) {
		return payload
	}
	return result
}

// errorContainer はエラー情報を読む対象のオブジェクトを返す。
// resultが真値ならresultを、そうでなければpayloadを対象とする。
func errorContainer(payload json.RawMessage) map[string]json.RawMessage {
	obj, ok := asObject(payload)
	if !ok {
		return nil
	}
	if result, ok := obj["result"]; ok && truthy(result) {
		inner, _ := asObject(result)
		return inner
	}
	return obj
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// stringMapField はオブジェクト値を文字列マップとして読む。文字列以外の値はJSON表現のまま格納する。
func stringMapField(obj map[string]json.RawMessage, key string) map[string]string {
	inner, ok := asObject(obj[key])
	if !ok {
		return nil
	}
	out := make(map[string]string, len(inner))
	for k, v := range inner {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		out[k] = string(v)
	}
	return out
}

func isNull(raw []byte) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// truthy はJSON値が偽値（null, false, 0, ""）でないかを返す。
func truthy(raw json.RawMessage) bool {
	switch v := strings.TrimSpace(string(raw)); v {
	case "", "null", "false", `""`:
		return false
	default:
		var n float64
		if err := json.Unmarshal([]byte(v), &n); err == nil {
			return n != 0
		}
		return true
	}
}
