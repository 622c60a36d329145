// Package metrics exports the activity of HyperRAM controllers as
// Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/hyperram/hyperram"
	"github.com/sarchlab/hyperram/sim"
)

// A Collector is a hook that updates Prometheus metrics. All the metrics
// live in the collector's own registry.
type Collector struct {
	registry *prometheus.Registry

	transactions *prometheus.CounterVec
	beats        *prometheus.CounterVec
	aborts       *prometheus.CounterVec
	stateCycles  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	cycle        *prometheus.GaugeVec
}

// NewCollector creates a collector and registers its metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hyperram_transactions_total",
				Help: "Number of chip-select periods completed",
			},
			[]string{"component", "kind"},
		),
		beats: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hyperram_beats_total",
				Help: "Number of words acknowledged on the host bus",
			},
			[]string{"component", "kind"},
		),
		aborts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hyperram_aborts_total",
				Help: "Number of transactions cut short",
			},
			[]string{"component", "reason"},
		),
		stateCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hyperram_state_cycles_total",
				Help: "Number of cycles spent in each sequencer state",
			},
			[]string{"component", "state"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hyperram_transaction_cycles",
				Help:    "Cycles from chip select to the return to IDLE",
				Buckets: prometheus.LinearBuckets(24, 4, 12),
			},
			[]string{"component", "kind"},
		),
		cycle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hyperram_cycle",
				Help: "Last cycle reported by the controller",
			},
			[]string{"component"},
		),
	}

	c.registry.MustRegister(
		c.transactions,
		c.beats,
		c.aborts,
		c.stateCycles,
		c.duration,
		c.cycle,
	)

	return c
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Func updates the metrics from a hook context.
func (c *Collector) Func(ctx sim.HookCtx) {
	comp := ""
	if n, ok := ctx.Domain.(sim.Named); ok {
		comp = n.Name()
	}

	switch ctx.Pos {
	case hyperram.HookPosCycle:
		d := ctx.Item.(hyperram.Debug)
		c.stateCycles.WithLabelValues(comp, d.State.String()).Inc()

		if cycle, ok := ctx.Detail.(uint64); ok {
			c.cycle.WithLabelValues(comp).Set(float64(cycle))
		}
	case hyperram.HookPosBeat:
		b := ctx.Item.(hyperram.Beat)
		c.beats.WithLabelValues(comp, kind(b.Write)).Inc()
	case hyperram.HookPosAbort:
		t := ctx.Item.(*hyperram.Transaction)
		c.aborts.WithLabelValues(comp, t.Abort.String()).Inc()
	case hyperram.HookPosTransactionEnd:
		t := ctx.Item.(*hyperram.Transaction)
		c.transactions.WithLabelValues(comp, kind(t.Write)).Inc()
		c.duration.WithLabelValues(comp, kind(t.Write)).
			Observe(float64(t.EndCycle - t.StartCycle))
	}
}

func kind(write bool) string {
	if write {
		return "write"
	}

	return "read"
}
