package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/granthours/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records allocation runs in Prometheus collectors.
type PromSink struct {
	runs       *prometheus.CounterVec
	rounds     prometheus.Histogram
	warnings   *prometheus.CounterVec
	hours      *prometheus.GaugeVec
	duration   prometheus.Histogram
	rejections *prometheus.CounterVec
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_runs_total",
		Help: "Total number of allocation runs",
	}, []string{"mode", "balanced"}))
	if err != nil {
		return nil, err
	}
	rounds, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_repair_rounds",
		Help:    "Repair rounds used per exact-80 run",
		Buckets: prometheus.LinearBuckets(0, 2, 11),
	}))
	if err != nil {
		return nil, err
	}
	warnings, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_warnings_total",
		Help: "Verification warnings by kind",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	hours, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "allocation_hours_total",
		Help: "Hours allocated to each grant by the latest run",
	}, []string{"grant"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_duration_seconds",
		Help:    "Wall time of an allocation run",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}))
	if err != nil {
		return nil, err
	}
	rejections, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_rejections_total",
		Help: "Requests rejected by validation",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}
	return &PromSink{
		runs:       runs,
		rounds:     rounds,
		warnings:   warnings,
		hours:      hours,
		duration:   duration,
		rejections: rejections,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return c, err
		}
		existing, ok := are.ExistingCollector.(C)
		if !ok {
			return c, err
		}
		return existing, nil
	}
	return c, nil
}

// RecordAllocation updates every collector from one run.
func (s *PromSink) RecordAllocation(ev coremetrics.AllocationEvent) error {
	s.runs.WithLabelValues(ev.Mode, strconv.FormatBool(ev.Balanced())).Inc()
	if ev.Mode == "exact" {
		s.rounds.Observe(float64(ev.RepairRound))
	}
	for kind, n := range ev.Warnings {
		if n > 0 {
			s.warnings.WithLabelValues(kind).Add(float64(n))
		}
	}
	for _, g := range ev.Grants {
		s.hours.WithLabelValues(g.Grant).Set(g.Allocated)
	}
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordRejection counts a request refused before allocation.
func (s *PromSink) RecordRejection(reason string) error {
	s.rejections.WithLabelValues(reason).Inc()
	return nil
}
