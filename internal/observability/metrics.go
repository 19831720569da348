// Package observability exposes engine activity as Prometheus metrics.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the draw metrics and implements engine.Observer.
type Collector struct {
	gatherer prometheus.Gatherer

	Draws        *prometheus.CounterVec
	PoolSize     *prometheus.GaugeVec
	Resets       *prometheus.CounterVec
	SaveFailures *prometheus.CounterVec
}

// NewCollector registers the draw metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	draws, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balancedraw_draws_total",
		Help: "Total number of successful draws, labeled by engine ID.",
	}, []string{"engine"}), "balancedraw_draws_total")
	if err != nil {
		return nil, err
	}

	pool, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "balancedraw_pool_size",
		Help: "Candidate pool size after the most recent draw.",
	}, []string{"engine"}), "balancedraw_pool_size")
	if err != nil {
		return nil, err
	}

	resets, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balancedraw_resets_total",
		Help: "Total number of draw count resets, including circuit-breaker resets.",
	}, []string{"engine"}), "balancedraw_resets_total")
	if err != nil {
		return nil, err
	}

	saveFailures, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balancedraw_save_failures_total",
		Help: "Total number of auto-save failures swallowed by draws.",
	}, []string{"engine"}), "balancedraw_save_failures_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Draws:        draws,
		PoolSize:     pool,
		Resets:       resets,
		SaveFailures: saveFailures,
	}, nil
}

func (c *Collector) ObserveDraw(engineID string, poolSize int) {
	if c == nil {
		return
	}
	c.Draws.WithLabelValues(engineID).Inc()
	c.PoolSize.WithLabelValues(engineID).Set(float64(poolSize))
}

func (c *Collector) ObserveReset(engineID string) {
	if c == nil {
		return
	}
	c.Resets.WithLabelValues(engineID).Inc()
}

func (c *Collector) ObserveSaveFailure(engineID string) {
	if c == nil {
		return
	}
	c.SaveFailures.WithLabelValues(engineID).Inc()
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for node_exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
