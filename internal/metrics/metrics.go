// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics はAPIクライアントから利用するメトリクス記録インターフェース。
// statusCodeは通信失敗時に0となる。
type ClientMetrics interface {
	RecordClientRequest(operation string, statusCode int, duration time.Duration)
}

// ServerMetrics は開発用バックエンドから利用するメトリクス記録インターフェース。
type ServerMetrics interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordAttendanceEvent(kind string)
	RecordAbsencesMarked(count int)
	RecordAuthFailure(reason string)
}

// MetricsCollector はクライアントとサーバーの両方のメトリクスを記録する。
type MetricsCollector interface {
	ClientMetrics
	ServerMetrics
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	clientRequests *prometheus.CounterVec
	clientLatency  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpLatency    prometheus.Histogram
	events         *prometheus.CounterVec
	absences       prometheus.Counter
	authFailures   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		clientRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atency_client_requests_total",
			Help: "APIクライアントのリクエスト数（操作・ステータスコード別）",
		}, []string{"operation", "status_code"}),
		clientLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atency_client_request_latency_seconds",
			Help:    "APIクライアントのリクエストレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atency_http_requests_total",
			Help: "開発用バックエンドが処理したHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atency_http_request_latency_seconds",
			Help:    "開発用バックエンドのリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atency_attendance_events_total",
			Help: "業務イベント数（登録・ログイン・出勤・退勤）",
		}, []string{"kind"}),
		absences: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atency_absences_marked_total",
			Help: "欠勤ジョブが記録した欠勤数",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atency_auth_failures_total",
			Help: "認証・認可の失敗数（理由別）",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.clientRequests,
		c.clientLatency,
		c.httpRequests,
		c.httpLatency,
		c.events,
		c.absences,
		c.authFailures,
	)

	return c
}

// RecordClientRequest はAPIクライアントのリクエスト結果を記録する。
func (c *Collector) RecordClientRequest(operation string, statusCode int, duration time.Duration) {
	c.clientRequests.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	c.clientLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest はバックエンドが処理したリクエストを記録する。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordAttendanceEvent は登録・ログイン・出勤・退勤のイベントを種類別に数える。
func (c *Collector) RecordAttendanceEvent(kind string) {
	c.events.WithLabelValues(kind).Inc()
}

// RecordAbsencesMarked は欠勤ジョブが記録した件数を加算する。
func (c *Collector) RecordAbsencesMarked(count int) {
	c.absences.Add(float64(count))
}

// RecordAuthFailure は認証失敗を記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
