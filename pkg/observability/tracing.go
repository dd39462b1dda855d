// Package observability provides tracing for idbridge connector operations
package observability

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/metrics"
)

const instrumentationName = "github.com/ajitpratap0/idbridge"

// Tracer returns the tracer of the current global provider
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// ConnectorTracer provides connector-specific tracing utilities
type ConnectorTracer struct {
	system string
}

// NewConnectorTracer creates a new connector tracer
func NewConnectorTracer(system string) *ConnectorTracer {
	return &ConnectorTracer{system: system}
}

// StartSpan starts a connector-specific span named "<system>.<operation>"
func (ct *ConnectorTracer) StartSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, fmt.Sprintf("%s.%s", ct.system, operation),
		trace.WithAttributes(
			attribute.String("connector.system", ct.system),
			attribute.String("connector.operation", operation),
		),
	)
}

// Trace runs fn inside a span and records the operation metrics. The span is
// marked as failed when fn returns an error; API errors also carry the backend code.
func (ct *ConnectorTracer) Trace(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := ct.StartSpan(ctx, operation)
	defer span.End()

	timer := metrics.NewTimer(ct.system, operation)
	err := fn(ctx)
	timer.ObserveResult(err)

	RecordError(span, err)
	return err
}

// RecordError sets the span status from err. A nil err marks the span Ok.
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if code := errors.CodeOf(err); code != 0 {
		span.SetAttributes(attribute.Int("backend.code", code))
	}
}

// InjectHeaders writes the span context of ctx into outbound request headers
func InjectHeaders(ctx context.Context, header http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}
