// Package metrics — Prometheus-метрики сервера MyVault.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "myvault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "myvault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "myvault",
			Subsystem: "files",
			Name:      "uploads_total",
			Help:      "Total file uploads",
		},
		[]string{"folder", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "myvault",
			Subsystem: "files",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"folder"},
	)

	// StorageOpsTotal считает операции хранилищ (repo, blob) по результату.
	StorageOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "myvault",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total storage operations",
		},
		[]string{"backend", "operation", "status"},
	)
)

// RecordRequest учитывает HTTP-запрос.
func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

// RecordUpload учитывает загрузку файла; байты считаются только для успешных.
func RecordUpload(folder, status string, bytes int64) {
	UploadsTotal.WithLabelValues(folder, status).Inc()
	if status == StatusSuccess {
		UploadBytesTotal.WithLabelValues(folder).Add(float64(bytes))
	}
}

// RecordStorageOp учитывает операцию хранилища.
func RecordStorageOp(backend, op string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	StorageOpsTotal.WithLabelValues(backend, op, status).Inc()
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Handler — эндпоинт /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
