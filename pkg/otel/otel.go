// Package otel wires up OpenTelemetry tracing for the matching engine. It
// uses the stdout span exporter rather than a live OTLP collector: this
// repo has no collector deployment story, and a stdout exporter is enough
// to prove the tracing contract (span names, attributes) without one.
package otel

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName identifies the matching engine in emitted spans.
const ServiceName = "matchengine"

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	initOnce       sync.Once
)

// Config controls whether and where spans are written. With Enabled false
// no exporter is installed and Writer is ignored; with Enabled true every
// finished span is written to Writer.
type Config struct {
	Writer  io.Writer
	Enabled bool
}

// Init sets up the global tracer provider. It returns a shutdown function
// that must be called before process exit to flush pending spans.
func Init(cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled {
		tracer = otel.Tracer(ServiceName)
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(cfg.Writer),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		return nil, err
	}

	resource, err := sdkresource.New(context.Background(),
		sdkresource.WithAttributes(semconv.ServiceName(ServiceName)),
	)
	if err != nil {
		resource = sdkresource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
	)
	otel.SetTracerProvider(tp)

	initOnce.Do(func() {
		tracerProvider = tp
		tracer = tp.Tracer(ServiceName)
	})

	return tp.Shutdown, nil
}

// Tracer returns the package-level tracer, initializing a no-op one via
// the global provider if Init was never called (tests do this).
func Tracer() trace.Tracer {
	if tracer == nil {
		return otel.Tracer(ServiceName)
	}
	return tracer
}

// ResetForTesting clears package state between test runs.
func ResetForTesting() {
	tracer = nil
	tracerProvider = nil
	initOnce = sync.Once{}
}
