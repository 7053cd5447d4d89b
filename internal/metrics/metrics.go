// Package metrics exposes training progress as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blackjackga/internal/ga"
)

// Metrics holds the trainer's collectors on a private registry
type Metrics struct {
	registry    *prometheus.Registry
	generations prometheus.Counter
	agents      prometheus.Counter
	cost        *prometheus.GaugeVec
}

// New registers the trainer's collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blackjackga_generations_total",
			Help: "Generations evaluated.",
		}),
		agents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blackjackga_agents_evaluated_total",
			Help: "Agents scored by the cost function.",
		}),
		cost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blackjackga_cost",
			Help: "Cost of the latest generation.",
		}, []string{"stat"}),
	}
	m.registry.MustRegister(m.generations, m.agents, m.cost)
	return m
}

// Observe records one generation's cost summary
func (m *Metrics) Observe(stats ga.CostStats) {
	m.generations.Inc()
	m.agents.Add(float64(stats.Count))
	m.cost.With(prometheus.Labels{"stat": "min"}).Set(stats.Min)
	m.cost.With(prometheus.Labels{"stat": "mean"}).Set(stats.Mean)
	m.cost.With(prometheus.Labels{"stat": "max"}).Set(stats.Max)
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
