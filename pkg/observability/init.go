package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	// Writer receives exported spans as JSON. Nil disables tracing.
	Writer io.Writer
	// PrettyPrint indents exported spans
	PrettyPrint bool
}

// DefaultTracingConfig returns a configuration with tracing disabled
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "idbridge",
		ServiceVersion: "dev",
	}
}

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs a global tracer provider exporting to config.Writer. With no
// writer the global no-op provider stays in place and Init returns a no-op
// shutdown. Spans are exported synchronously: the process exits right after
// one operation.
func Init(config TracingConfig) (ShutdownFunc, error) {
	if config.Writer == nil {
		return noopShutdown, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("service.version", config.ServiceVersion),
	)

	opts := []stdouttrace.Option{stdouttrace.WithWriter(config.Writer)}
	if config.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
