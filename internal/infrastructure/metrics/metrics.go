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

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	applicationsCreated prometheus.Counter
	statusTransitions   *prometheus.CounterVec
	documentsUploaded   *prometheus.CounterVec
	documentsVerified   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		applicationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_applications_created_total",
			Help: "Loan applications submitted",
		}),
		statusTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_status_transitions_total",
				Help: "Application status changes",
			},
			[]string{"from", "to"},
		),
		documentsUploaded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_uploaded_total",
				Help: "Accepted document uploads",
			},
			[]string{"document_type"},
		),
		documentsVerified: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_verifications_total",
				Help: "Document review decisions",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ApplicationCreated() { m.applicationsCreated.Inc() }

func (m *Metrics) StatusChanged(from, to string) { m.statusTransitions.WithLabelValues(from, to).Inc() }

func (m *Metrics) DocumentUploaded(docType string) { m.documentsUploaded.WithLabelValues(docType).Inc() }

func (m *Metrics) DocumentVerified(status string) { m.documentsVerified.WithLabelValues(status).Inc() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
