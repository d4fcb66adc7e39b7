// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cycle outcomes used as metric labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeBusError = "bus_error"
)

// Metrics holds the bridge counters
type Metrics struct {
	Cycles     *prometheus.CounterVec
	BusStatus  *prometheus.CounterVec
	BusLatency prometheus.Histogram
	WriteFails prometheus.Counter
}

// NewMetrics creates the bridge metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maxbridge_command_cycles_total",
				Help: "Command cycles by outcome",
			},
			[]string{"outcome"},
		),
		BusStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maxbridge_bus_transactions_total",
				Help: "I2C transactions by completion status",
			},
			[]string{"status"},
		),
		BusLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "maxbridge_bus_transaction_seconds",
				Help:    "Duration of I2C transactions",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
		WriteFails: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "maxbridge_report_write_failures_total",
				Help: "Reports that could not be written to the host link",
			},
		),
	}
	reg.MustRegister(m.Cycles, m.BusStatus, m.BusLatency, m.WriteFails)
	return m
}
