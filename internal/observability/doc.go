// Package observability provides structured logging, the chaos event
// timeline, Prometheus metrics, and optional OpenTelemetry tracing for the
// harness. Everything here is ambient: the chaos engine behaves the same with
// all of it disabled, it just becomes harder to see what the experiments did.
package observability
