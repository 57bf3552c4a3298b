// Package observability groups the diagnostics stack of the tagger:
//
//   - logging: slog JSON logger configured from LOG_LEVEL
//   - metrics: Prometheus counters and histograms for feeds, LLM calls and runs
//   - tracing: OpenTelemetry tracer used by the pipeline
//
// Progress lines meant for the operator are not logs; the pipeline writes
// them to stdout directly. Logs go to stderr.
package observability
