package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 認証結果のラベル値。
const (
	outcomeExempt          = "exempt"
	outcomeAccepted        = "accepted"
	outcomeRejectedMissing = "rejected_missing"
	outcomeRejectedInvalid = "rejected_invalid"
)

// Metrics はGatewayのPrometheusメトリクス。
// サーバーごとにレジストリを持つため、同一プロセスで複数生成しても衝突しない。
type Metrics struct {
	// registry はメトリクスの登録先。
	registry *prometheus.Registry
	// authOutcomes は認証結果ごとのリクエスト数。
	authOutcomes *prometheus.CounterVec
	// upstreamErrors は下流サービスへの転送失敗数。
	upstreamErrors *prometheus.CounterVec
	// requestDuration はルートごとの処理時間。
	requestDuration *prometheus.HistogramVec
}

// NewMetrics は新しいMetricsを生成し、レジストリに登録する。
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "auth_requests_total",
			Help:      "Number of requests seen by the authenticator, by outcome.",
		}, []string{"outcome"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "upstream_errors_total",
			Help:      "Number of requests that could not be forwarded, by upstream.",
		}, []string{"upstream"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
	m.registry.MustRegister(
		m.authOutcomes,
		m.upstreamErrors,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler は /metrics 用のHTTPハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// observeAuth は認証結果を記録する。
func (m *Metrics) observeAuth(outcome string) {
	m.authOutcomes.WithLabelValues(outcome).Inc()
}

// observeUpstreamError は転送失敗を記録する。
func (m *Metrics) observeUpstreamError(upstream string) {
	m.upstreamErrors.WithLabelValues(upstream).Inc()
}

// instrument はルートごとの処理時間を記録するGinミドルウェアを返す。
// ラベルにはリクエストパスではなくルート定義を使う。
func (m *Metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
