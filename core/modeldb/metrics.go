// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "juju_gui"

var (
	entitiesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "modeldb", "entities"),
		"The number of entities in the model database by kind.",
		[]string{"kind"}, nil,
	)
	pendingDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "modeldb", "pending_relations"),
		"The number of relations waiting for an application.",
		nil, nil,
	)
)

// Collector is a prometheus.Collector that reports the size of the
// database collections.
type Collector struct {
	db *DB
}

// NewMetricsCollector returns a new Collector for db.
func NewMetricsCollector(db *DB) *Collector {
	return &Collector{db: db}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- entitiesDesc
	ch <- pendingDesc
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counts := c.db.Counts()
	for kind, n := range map[Kind]int{
		KindApplication: counts.Applications,
		KindUnit:        counts.Units,
		KindMachine:     counts.Machines,
		KindRelation:    counts.Relations,
	} {
		ch <- prometheus.MustNewConstMetric(entitiesDesc, prometheus.GaugeValue, float64(n), string(kind))
	}
	ch <- prometheus.MustNewConstMetric(pendingDesc, prometheus.GaugeValue, float64(counts.Pending))
}
