package metrics

import "time"

// AllocationEvent describes one completed allocation run.
type AllocationEvent struct {
	RunID       string
	Mode        string
	Grants      []GrantUsage
	Allocated   float64
	Maximum     float64
	RepairRound int
	Converged   bool
	Warnings    map[string]int
	Duration    time.Duration
	Time        time.Time
}

// GrantUsage is the per-grant part of an AllocationEvent.
type GrantUsage struct {
	Grant     string
	Allocated float64
	Maximum   float64
}

// Balanced reports whether the run finished without warnings.
func (e AllocationEvent) Balanced() bool {
	for _, n := range e.Warnings {
		if n > 0 {
			return false
		}
	}
	return true
}

// MetricsSink records allocation runs for observability purposes.
type MetricsSink interface {
	RecordAllocation(ev AllocationEvent) error
}

// RejectionRecorder is implemented by sinks able to count requests rejected
// by validation.
type RejectionRecorder interface {
	RecordRejection(reason string) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAllocation(AllocationEvent) error { return nil }
func (NopSink) RecordRejection(string) error           { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocation forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordAllocation(ev AllocationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAllocation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRejection forwards to sinks implementing RejectionRecorder.
func (m *MultiSink) RecordRejection(reason string) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RejectionRecorder); ok {
			if err := rec.RecordRejection(reason); err != nil {
				return err
			}
		}
	}
	return nil
}
