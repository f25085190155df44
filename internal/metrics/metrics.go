// Package metrics는 캔들 조회와 지표 계산 실행의 Prometheus 메트릭을 제공합니다
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics는 애플리케이션의 Prometheus 메트릭을 보관합니다.
// nil *Metrics도 사용할 수 있으며 아무것도 기록하지 않습니다.
type Metrics struct {
	registry *prometheus.Registry

	// 조회 메트릭
	FetchRequests  *prometheus.CounterVec
	FetchPages     prometheus.Counter
	FetchRetries   prometheus.Counter
	FetchFailures  *prometheus.CounterVec
	FetchLatency   prometheus.Histogram
	RowsSkipped    prometheus.Counter
	CandlesFetched prometheus.Gauge

	// 파이프라인 메트릭
	PipelineRuns     *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	LastClose        prometheus.Gauge
	LastEMA          prometheus.Gauge
	LastSMAClose     prometheus.Gauge
}

// NewMetrics는 전용 레지스트리에 등록된 Metrics를 생성합니다
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trendwatch"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FetchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Total number of candle page requests by result",
		}, []string{"result"}),
		FetchPages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "pages_total",
			Help:      "Total number of accepted candle pages",
		}),
		FetchRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "retries_total",
			Help:      "Total number of retried page requests",
		}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "failures_total",
			Help:      "Total number of failed series fetches by error kind",
		}, []string{"kind"}),
		FetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "request_duration_seconds",
			Help:      "Candle page request latency",
			Buckets:   prometheus.DefBuckets,
		}),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "rows_skipped_total",
			Help:      "Total number of malformed OHLCV rows skipped",
		}),
		CandlesFetched: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "candles_last_run",
			Help:      "Number of candles returned by the last successful fetch",
		}),

		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by result",
		}, []string{"result"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline run duration",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastClose: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indicator",
			Name:      "last_close",
			Help:      "Close price of the most recent candle",
		}),
		LastEMA: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indicator",
			Name:      "last_ema",
			Help:      "Most recent EMA value",
		}),
		LastSMAClose: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indicator",
			Name:      "last_sma_close",
			Help:      "Most recent close SMA value",
		}),
	}
}

// Handler는 메트릭을 노출하는 HTTP 핸들러를 반환합니다
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest는 페이지 요청 하나와 응답 시간을 기록합니다
func (m *Metrics) ObserveRequest(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchRequests.WithLabelValues(result).Inc()
	m.FetchLatency.Observe(d.Seconds())
}

// IncPages는 받아들인 페이지 수를 늘립니다
func (m *Metrics) IncPages() {
	if m == nil {
		return
	}
	m.FetchPages.Inc()
}

// IncRetries는 재시도한 요청 수를 늘립니다
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.FetchRetries.Inc()
}

// AddSkipped는 건너뛴 잘못된 블록 수를 더합니다
func (m *Metrics) AddSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsSkipped.Add(float64(n))
}

// ObserveFetch는 시리즈 조회 전체의 결과를 기록합니다
func (m *Metrics) ObserveFetch(candles int, kind string) {
	if m == nil {
		return
	}
	if kind != "" {
		m.FetchFailures.WithLabelValues(kind).Inc()
		return
	}
	m.CandlesFetched.Set(float64(candles))
}

// ObserveRun은 파이프라인 실행 결과를 기록합니다
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PipelineRuns.WithLabelValues(result).Inc()
	m.PipelineDuration.Observe(d.Seconds())
}

// SetLatest는 최근 종가, EMA, 종가 SMA 값을 기록합니다
func (m *Metrics) SetLatest(closePrice, ema, smaClose float64) {
	if m == nil {
		return
	}
	m.LastClose.Set(closePrice)
	m.LastEMA.Set(ema)
	m.LastSMAClose.Set(smaClose)
}
