// Package tracing exposes the OpenTelemetry tracer used by the pipeline.
// No exporter is configured here; the global provider decides where spans go.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for spans created by the tagger.
const TracerName = "news-tag-app"

// GetTracer returns the tracer from the current global provider.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.run")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
