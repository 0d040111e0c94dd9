package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the engine.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	publicationsDerived prometheus.Counter
	productsSynced      prometheus.Counter
	visibilityWrites    prometheus.Counter
	auditMismatches     prometheus.Counter
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "venuecast_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "venuecast_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	publications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "venuecast_publications_derived_total",
		Help: "Product publications derived by routing creation and sync.",
	})
	synced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "venuecast_products_synced_total",
		Help: "Products imported by catalog sync batches.",
	})
	visWrites := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "venuecast_visibility_writes_total",
		Help: "Visibility override records written.",
	})
	mismatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "venuecast_publication_audit_mismatches_total",
		Help: "Disagreements between the publication cache and recomputation.",
	})
	registry.MustRegister(requests, duration, publications, synced, visWrites, mismatches)
	return &Metrics{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:       requests,
		requestDuration:     duration,
		publicationsDerived: publications,
		productsSynced:      synced,
		visibilityWrites:    visWrites,
		auditMismatches:     mismatches,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for each HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// AddPublicationsDerived counts freshly derived publications.
func (m *Metrics) AddPublicationsDerived(n int) {
	if m != nil && n > 0 {
		m.publicationsDerived.Add(float64(n))
	}
}

// AddProductsSynced counts imported products.
func (m *Metrics) AddProductsSynced(n int) {
	if m != nil && n > 0 {
		m.productsSynced.Add(float64(n))
	}
}

// AddVisibilityWrites counts override upserts.
func (m *Metrics) AddVisibilityWrites(n int) {
	if m != nil && n > 0 {
		m.visibilityWrites.Add(float64(n))
	}
}

// AddAuditMismatches counts cache/recompute disagreements.
func (m *Metrics) AddAuditMismatches(n int) {
	if m != nil && n > 0 {
		m.auditMismatches.Add(float64(n))
	}
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
