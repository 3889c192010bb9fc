// Package trace sets up OpenTelemetry tracing. Disabled by default;
// enabled it exports either to an OTLP gRPC collector or, for local
// debugging, pretty-printed to a writer (never stdout, the TUI owns
// that).
package trace

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/gitlanes/internal/log"
)

const tracerName = "gitlanes"

// Options configures tracing.
type Options struct {
	// Endpoint is an OTLP gRPC collector address. Empty means export to
	// DebugWriter instead.
	Endpoint string
	// DebugWriter receives pretty-printed spans when no endpoint is
	// set. io.Discard when nil.
	DebugWriter io.Writer
}

// Init installs a global tracer provider tagged with a fresh session
// id. The returned shutdown must run before exit to flush spans.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	var exporter tracesdk.SpanExporter
	var err error

	if opts.Endpoint != "" {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(opts.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
	} else {
		w := opts.DebugWriter
		if w == nil {
			w = io.Discard
		}
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
	}

	sessionID := uuid.New().String()
	res := resource.NewSchemaless(
		attribute.String("service.name", "gitlanes"),
		attribute.String("session.id", sessionID),
	)

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	log.Info(log.CatTrace, "Tracing initialized", "session", sessionID, "endpoint", opts.Endpoint)

	return provider.Shutdown, nil
}

// Tracer returns the application tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Start opens a span on the application tracer.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}
