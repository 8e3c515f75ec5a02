// Package api は勤怠バックエンドのREST APIクライアントを提供する。
// 認証ヘッダーの付与、エラーの正規化、resultエンベロープの展開を一箇所で行う。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/atency/internal/metrics"
	"github.com/hitoshi/atency/internal/model"
)

// basePath はAPIのベースパス。
const basePath = "/api"

// AuthHeaderSource はAuthorizationヘッダー値の供給元。
// session.Repositoryが実装する。
type AuthHeaderSource interface {
	AuthHeader(ctx context.Context) (string, bool)
}

// RequestOptions はRequestのオプション。
type RequestOptions struct {
	Method  string            // 省略時はGET
	Body    any               // nil以外はJSONとして送信する
	Headers map[string]string // Content-Typeの後に上書きマージする
}

// Client は勤怠バックエンドのAPIクライアント。
// リトライ・タイムアウト・キャッシュは行わない。1回の呼び出しは1往復。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	auth       AuthHeaderSource
	metrics    metrics.ClientMetrics
}

// NewClient はClientの新しいインスタンスを生成する。
// authがnilの場合はAuthorizationヘッダーを付与しない。
func NewClient(httpClient *http.Client, baseURL string, auth AuthHeaderSource, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		auth:       auth,
	}
}

// WithMetrics はリクエスト結果を記録するメトリクスを設定する。
func (c *Client) WithMetrics(m metrics.ClientMetrics) *Client {
	c.metrics = m
	return c
}

// Request はAPIを呼び出し、成功時はresult（なければボディ全体）を返す。
// 失敗時は*model.APIErrorを返す。通信失敗はStatus=0。
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	return c.do(ctx, "request", path, opts)
}

func (c *Client) do(ctx context.Context, operation, path string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if c.auth != nil {
		if header, ok := c.auth.AuthHeader(ctx); ok {
			req.Header.Set("Authorization", header)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(operation, 0, time.Since(start))
		c.logger.Error("api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, model.NewNetworkError(err)
	}
	defer resp.Body.Close()

	// 読み取り失敗はJSONパース失敗と同様にペイロードなしとして扱う
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		raw = nil
	}
	duration := time.Since(start)
	c.record(operation, resp.StatusCode, duration)

	switch r := Decode(resp.StatusCode, statusText(resp), raw).(type) {
	case Ok:
		c.logger.Debug("api request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", duration),
		)
		return r.Result, nil
	case Err:
		c.logger.Warn("api request returned error status",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", r.Status),
			slog.String("message", r.Message),
			slog.Duration("duration", duration),
		)
		return nil, r.APIError()
	default:
		return nil, fmt.Errorf("unexpected response type %T", r)
	}
}

func (c *Client) record(operation string, status int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordClientRequest(operation, status, d)
	}
}

// statusText はレスポンスのステータス行から理由句を取り出す。
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
