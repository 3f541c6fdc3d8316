// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes Prometheus collectors for the register.
// A nil *Metrics records nothing.
type Metrics struct {
	sales     *prometheus.CounterVec
	amounts   prometheus.Histogram
	openCarts prometheus.Gauge
}

// NewMetrics registers the register collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quinca_pos_sales_total",
			Help: "Settled sales by status",
		}, []string{"status"}),
		amounts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quinca_pos_sale_amount",
			Help:    "Grand total of settled sales, tax included",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		openCarts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quinca_pos_open_carts",
			Help: "Carts currently open on the register",
		}),
	}
	registerer.MustRegister(metrics.sales, metrics.amounts, metrics.openCarts)
	return metrics
}

func (metrics *Metrics) settled(sale *Sale) {
	if metrics == nil {
		return
	}
	metrics.sales.WithLabelValues(string(sale.Status)).Inc()
	metrics.amounts.Observe(sale.GrandTotal.InexactFloat64())
}

func (metrics *Metrics) cartOpened() {
	if metrics == nil {
		return
	}
	metrics.openCarts.Inc()
}

func (metrics *Metrics) cartClosed() {
	if metrics == nil {
		return
	}
	metrics.openCarts.Dec()
}
