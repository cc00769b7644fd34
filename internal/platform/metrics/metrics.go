package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics は境界層が記録する Prometheus メトリクスをまとめます。
// インスタンスごとに専用のレジストリを持ちます。
type Metrics struct {
	registry         *prometheus.Registry
	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	EmployeesCreated prometheus.Counter
}

// New は Metrics を生成し、専用レジストリへ登録します。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "employee_requests_total",
			Help: "Total number of employee operations by transport, operation and outcome",
		}, []string{"transport", "operation", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_request_duration_seconds",
			Help:    "Duration of employee operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"transport", "operation"}),
		EmployeesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "employee_created_total",
			Help: "Total number of employees created",
		}),
	}
}

// ObserveRequest は 1 回の操作の結果と所要時間を記録します。
// outcome は "ok" または失敗種別名です。
func (m *Metrics) ObserveRequest(transport, operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(transport, operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(transport, operation).Observe(time.Since(start).Seconds())
}

// IncrementEmployeesCreated は社員作成の成功を 1 件記録します。
func (m *Metrics) IncrementEmployeesCreated() {
	if m == nil {
		return
	}
	m.EmployeesCreated.Inc()
}

// Handler はレジストリの内容を公開する HTTP ハンドラを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
