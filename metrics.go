package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	cycles         prometheus.Counter
	parseFailures  prometheus.Counter
	boostsDetected prometheus.Counter
	alertsSent     *prometheus.CounterVec
	consecFailures prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boostwatch_cycles_total", Help: "capture-and-analyze cycles run"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boostwatch_parse_failures_total", Help: "cycles that produced no boost percentage"}),
		boostsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boostwatch_boosts_detected_total", Help: "new-boost transitions"}),
		alertsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boostwatch_alerts_sent_total", Help: "alerts handed to the notifier"}, []string{"kind"}),
		consecFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boostwatch_consecutive_parse_failures", Help: "current consecutive failure count"}),
	}
	prometheus.MustRegister(m.cycles, m.parseFailures, m.boostsDetected, m.alertsSent, m.consecFailures)
	return m
}
