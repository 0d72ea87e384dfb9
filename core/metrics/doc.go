// Package metrics defines the sink interface used to observe allocation runs.
// Sinks such as PromSink and InfluxSink live in infra/metrics and register
// themselves by name; NewMetricsSink builds one from configuration and wraps
// several in a MultiSink.
package metrics
