// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordListing(sort string, rankedTotal int, duration time.Duration)
	RecordValidationFailure(fieldCount int)
	RecordEventCreated(deviceID int64)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	listingRequests    *prometheus.CounterVec
	listingRankedTotal prometheus.Histogram
	listingLatency     prometheus.Histogram
	validationFailures prometheus.Counter
	eventsCreated      *prometheus.CounterVec
	httpStatus         *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		listingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventman_listing_requests_total",
			Help: "並び替えモード別のイベント一覧取得数",
		}, []string{"sort"}),
		listingRankedTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventman_listing_ranked_total",
			Help:    "ページ切り出し前のランキング済み件数",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		listingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventman_listing_latency_seconds",
			Help:    "イベント一覧取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventman_validation_failures_total",
			Help: "バリデーション違反フィールドの合計数",
		}),
		eventsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventman_events_created_total",
			Help: "デバイス別のイベント作成数",
		}, []string{"device_id"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.listingRequests,
		c.listingRankedTotal,
		c.listingLatency,
		c.validationFailures,
		c.eventsCreated,
		c.httpStatus,
	)

	return c
}

// RecordListing はイベント一覧取得を記録する。
func (c *Collector) RecordListing(sort string, rankedTotal int, duration time.Duration) {
	c.listingRequests.WithLabelValues(sort).Inc()
	c.listingRankedTotal.Observe(float64(rankedTotal))
	c.listingLatency.Observe(duration.Seconds())
}

// RecordValidationFailure はバリデーション違反フィールド数を記録する。
func (c *Collector) RecordValidationFailure(fieldCount int) {
	c.validationFailures.Add(float64(fieldCount))
}

// RecordEventCreated はイベント作成を記録する。
func (c *Collector) RecordEventCreated(deviceID int64) {
	c.eventsCreated.WithLabelValues(strconv.FormatInt(deviceID, 10)).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
