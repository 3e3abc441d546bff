package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "apartmentiq-workers"

// EnableTracing installs a global tracer provider exporting to the Jaeger
// collector at endpoint. An empty endpoint leaves the no-op provider in place.
func (o *Observability) EnableTracing(serviceName, endpoint string, sampleRatio float64) error {
	if endpoint == "" {
		return nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return fmt.Errorf("create jaeger exporter: %w", err)
	}

	tp := NewTracerProvider(exporter, serviceName, sampleRatio)
	otel.SetTracerProvider(tp)
	o.tracerProvider = tp
	return nil
}

// NewTracerProvider builds a batching provider sampling sampleRatio of new
// traces and following the parent decision otherwise.
func NewTracerProvider(exporter sdktrace.SpanExporter, serviceName string, sampleRatio float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
}

// StartSpan starts a span on the global tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}
