// Package metrics holds the service's Prometheus collectors on a private registry.
//
// Метрики:
//   - http_request_duration_seconds{method,route,status} - histogram
//   - http_requests_inflight - gauge
//   - http_request_errors_total{method,route,status} - counter (4xx/5xx)
//   - login_attempts_total{outcome} - counter
//   - token_rejections_total{reason} - counter
//   - authz_decisions_total{rule,decision} - counter
//
// Все методы безопасно вызывать на nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы попытки входа
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginError       = "error"
	LoginRateLimited = "rate_limited"
)

// Metrics - набор коллекторов сервиса
type Metrics struct {
	registry        *prometheus.Registry
	reqDuration     *prometheus.HistogramVec
	reqInflight     prometheus.Gauge
	reqErrors       *prometheus.CounterVec
	loginAttempts   *prometheus.CounterVec
	tokenRejections *prometheus.CounterVec
	authzDecisions  *prometheus.CounterVec
}

// New создает коллекторы с заданным namespace и регистрирует их
// вместе с go/process коллекторами в собственном реестре.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Число запросов, завершившихся ошибкой (4xx/5xx).",
		}, []string{"method", "route", "status"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Попытки входа по исходу.",
		}, []string{"outcome"}),
		tokenRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rejections_total",
			Help:      "Отклоненные bearer токены по причине.",
		}, []string{"reason"}),
		authzDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Решения авторизации по правилу и результату.",
		}, []string{"rule", "decision"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.reqDuration,
		m.reqInflight,
		m.reqErrors,
		m.loginAttempts,
		m.tokenRejections,
		m.authzDecisions,
	)

	return m
}

// Registry возвращает реестр (для тестов и дополнительных коллекторов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus exposition
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RequestStarted увеличивает inflight gauge
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.reqInflight.Inc()
}

// RequestFinished записывает длительность и статус завершенного запроса
func (m *Metrics) RequestFinished(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.reqInflight.Dec()

	code := strconv.Itoa(status)
	m.reqDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	if status >= 400 {
		m.reqErrors.WithLabelValues(method, route, code).Inc()
	}
}

// LoginAttempt учитывает исход попытки входа
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// TokenRejected учитывает отклоненный токен
func (m *Metrics) TokenRejected(reason string) {
	if m == nil {
		return
	}
	m.tokenRejections.WithLabelValues(reason).Inc()
}

// AuthzDecision учитывает решение авторизации
func (m *Metrics) AuthzDecision(rule, decision string) {
	if m == nil {
		return
	}
	m.authzDecisions.WithLabelValues(rule, decision).Inc()
}
