// Package metrics exposes billing counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
)

const namespace = "gst_billing"

var _ billing.Metrics = (*Prometheus)(nil)

// Prometheus implements billing.Metrics on its own registry so tests can
// build as many as they need.
type Prometheus struct {
	registry *prometheus.Registry

	invoicesCreated *prometheus.CounterVec
	invoiceValue    *prometheus.CounterVec
	invoicesDeleted prometheus.Counter
	numberConflicts prometheus.Counter
	cacheLookups    *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewPrometheus registers the billing collectors plus the Go runtime and
// process collectors.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "invoices_created_total",
			Help: "Invoices saved, by invoice type.",
		}, []string{"type"}),
		invoiceValue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "invoice_grand_total_rupees",
			Help: "Sum of grand totals billed, by invoice type.",
		}, []string{"type"}),
		invoicesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "invoices_deleted_total",
			Help: "Invoices deleted.",
		}),
		numberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "invoice_number_conflicts_total",
			Help: "Invoice number collisions retried on create.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "invoice_cache_lookups_total",
			Help: "Invoice cache lookups, by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests, by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency, by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.invoicesCreated, p.invoiceValue, p.invoicesDeleted,
		p.numberConflicts, p.cacheLookups, p.httpRequests, p.httpDuration,
	)
	return p
}

func (p *Prometheus) InvoiceCreated(invoiceType string, grandTotal decimal.Decimal) {
	p.invoicesCreated.WithLabelValues(invoiceType).Inc()
	p.invoiceValue.WithLabelValues(invoiceType).Add(grandTotal.InexactFloat64())
}

func (p *Prometheus) InvoiceDeleted() { p.invoicesDeleted.Inc() }

func (p *Prometheus) NumberConflict() { p.numberConflicts.Inc() }

func (p *Prometheus) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one served HTTP request.
func (p *Prometheus) ObserveRequest(route, method, status string, seconds float64) {
	p.httpRequests.WithLabelValues(route, method, status).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }
