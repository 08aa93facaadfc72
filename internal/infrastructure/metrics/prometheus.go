// Package metrics agrupa las métricas Prometheus del servicio en un registry propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de una notificación.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// Metrics métricas de la API. Registry privado: NewMetrics puede llamarse varias veces (tests)
// sin pánicos por colectores duplicados.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	notifications    *prometheus.CounterVec
	submittedHours   prometheus.Counter
	submittedEntries prometheus.Counter
}

// NewMetrics crea el registry y registra todas las métricas.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timesheet_http_requests_total",
				Help: "Total de requests HTTP por ruta y status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "timesheet_http_request_duration_seconds",
				Help:    "Duración de requests HTTP por ruta.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timesheet_notifications_total",
				Help: "Correos enviados por tipo y resultado.",
			},
			[]string{"kind", "outcome"},
		),
		submittedHours: factory.NewCounter(prometheus.CounterOpts{
			Name: "timesheet_submitted_hours_total",
			Help: "Horas submetidas.",
		}),
		submittedEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "timesheet_submitted_entries_total",
			Help: "Lanzamientos submetidos.",
		}),
	}
}

// ObserveHTTP registra una request terminada. route es el patrón de la ruta, no el path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveNotification registra el resultado de un envío de correo.
func (m *Metrics) ObserveNotification(kind string, err error) {
	outcome := OutcomeSent
	if err != nil {
		outcome = OutcomeFailed
	}
	m.notifications.WithLabelValues(kind, outcome).Inc()
}

// ObserveSubmission implementa timesheet.SubmissionRecorder.
func (m *Metrics) ObserveSubmission(totalHours float64, count int) {
	m.submittedHours.Add(totalHours)
	m.submittedEntries.Add(float64(count))
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
