// Package tracing is a thin wrapper around OpenTelemetry so the engine can
// record per-phase spans (load, scan, reconcile, execute) without the rest
// of the code base depending on the otel API surface. Tracing is opt-in:
// until Init or InitWithExporter succeeds, spans are no-ops.
package tracing
