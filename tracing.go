package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// setupTracing installs a tracer provider for the client's HTTP spans. Only
// "stdout" is supported; spans go to stderr so command output stays clean.
// The interactive UI cannot share the terminal, so tracing is skipped there.
func setupTracing(mode string, interactive bool) (func(context.Context) error, error) {
	switch mode {
	case "", "off", "none":
		return nil, nil
	case "stdout":
	default:
		return nil, fmt.Errorf("unsupported OMS_TRACING %q", mode)
	}
	if interactive {
		logger.Warn("tracing is not available in the interactive client")
		return nil, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("oms"),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
