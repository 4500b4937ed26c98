// metrics.go — Prometheus HTTP метрики для Rename Service.
// Регистрирует метрики: rb_http_requests_total, rb_http_request_duration_seconds.
// Бизнес-метрики (rb_records_total, rb_operations_total и др.) экспортируются
// отсюда и обновляются из сервисного слоя и store.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rb_http_requests_total",
			Help: "Общее количество HTTP-запросов к Rename Service",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rb_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Rename Service в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес-метрики (экспортируются для обновления из сервисного слоя)
var (
	// RecordsTotal — текущее количество записей в коллекции (gauge).
	RecordsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rb_records_total",
			Help: "Текущее количество записей конвейера по статусам",
		},
		[]string{"status"},
	)

	// OperationsTotal — общее количество операций над записями.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rb_operations_total",
			Help: "Общее количество операций над записями",
		},
		[]string{"operation", "result"},
	)

	// NamingFallbackTotal — количество откатов к шаблонному именованию
	// после отказа или таймаута анализатора содержимого.
	NamingFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rb_naming_fallback_total",
		Help: "Общее количество откатов именования к шаблонной стратегии",
	})

	// ConversionsTotal — количество конвертаций по парам форматов.
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rb_conversions_total",
			Help: "Общее количество конвертаций файлов",
		},
		[]string{"source", "target", "result"},
	)

	// ExportsTotal — количество экспортов по режимам.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rb_exports_total",
			Help: "Общее количество экспортов",
		},
		[]string{"mode", "result"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем UUID на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет UUID-сегмент пути на {id} для предотвращения
// взрывного роста кардинальности метрик.
// /api/v1/records/a1b2c3d4-.../rename → /api/v1/records/{id}/rename
func normalizePath(path string) string {
	const prefix = "/api/v1/records/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}

	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return path
	}

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 1 {
		return prefix + "{id}"
	}
	return prefix + "{id}/" + parts[1]
}
