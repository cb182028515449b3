// Package metrics exposes prometheus counters for the order pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the service counters and owns their registry.
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated   *prometheus.CounterVec
	Checkouts       *prometheus.CounterVec
	CodesIssued     *prometheus.CounterVec
	Reconciliations *prometheus.CounterVec
	PairDivergences prometheus.Counter
}

// New builds the metric set on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundmart_orders_created_total",
			Help: "Orders opened, by transaction kind.",
		}, []string{"kind"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundmart_checkouts_total",
			Help: "Checkout attempts, by result.",
		}, []string{"result"}),
		CodesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundmart_codes_issued_total",
			Help: "One-time codes issued, by purpose.",
		}, []string{"purpose"}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundmart_reconciliations_total",
			Help: "Status reconciliation outcomes.",
		}, []string{"outcome"}),
		PairDivergences: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fundmart_pair_divergences_total",
			Help: "Pair intents flagged divergent.",
		}),
	}

	registry.MustRegister(
		m.OrdersCreated,
		m.Checkouts,
		m.CodesIssued,
		m.Reconciliations,
		m.PairDivergences,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
