//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//
//

// Package telemetry wires optional OpenTelemetry tracing. When no collector
// endpoint is configured, tracing stays a no-op.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/layoutparse/layoutparse"

// Span attribute keys.
const (
	KeyFilePath  = "layoutparse.file.path"
	KeyFilePages = "layoutparse.file.pages"
	KeyMode      = "layoutparse.mode"
	KeyRunID     = "layoutparse.run.id"
	KeyRequestID = "layoutparse.request.id"
)

// Setup installs a global tracer provider exporting to the given OTLP/HTTP
// endpoint, and returns a shutdown function flushing pending spans. An empty
// endpoint leaves the default no-op provider in place.
func Setup(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "layoutparse"),
		)),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// Tracer returns the tracer used across the pipeline.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
