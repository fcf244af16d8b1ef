// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package deltasync

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "juju_gui"

// Collector is a prometheus.Collector that collects metrics about the
// delta sync worker.
type Collector struct {
	deltas     *prometheus.CounterVec
	failures   prometheus.Counter
	batches    prometheus.Counter
	reconnects prometheus.Counter
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		deltas: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "deltasync",
				Name:      "deltas_total",
				Help:      "The number of deltas applied by kind and action.",
			}, []string{"kind", "action"},
		),
		failures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "deltasync",
				Name:      "delta_failures_total",
				Help:      "The number of deltas that could not be applied.",
			},
		),
		batches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "deltasync",
				Name:      "batches_total",
				Help:      "The number of batches received from the watcher.",
			},
		),
		reconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "deltasync",
				Name:      "reconnects_total",
				Help:      "The number of times the model was rebuilt after a watcher failure.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.deltas.Describe(ch)
	c.failures.Describe(ch)
	c.batches.Describe(ch)
	c.reconnects.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.deltas.Collect(ch)
	c.failures.Collect(ch)
	c.batches.Collect(ch)
	c.reconnects.Collect(ch)
}
