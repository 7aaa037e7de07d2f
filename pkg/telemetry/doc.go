// Package telemetry groups the observability packages of proxyforge.
//
// # Components
//
//   - logging: Structured slog logging with contact redaction
//   - metrics: Prometheus metrics written as a node_exporter textfile
//   - tracing: OpenTelemetry spans per generation stage, exported over OTLP
//
// The generator wires all three into every run. Each is optional: a nil
// logger discards, a tracer without endpoint is a noop and metrics are only
// persisted when a textfile path is given.
package telemetry
