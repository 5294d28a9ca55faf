// Package otel configures OpenTelemetry tracing for storefront processes.
package otel

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	envEndpoint = "STOREFRONT_OTEL_ENDPOINT"
	envEnabled  = "STOREFRONT_OTEL_ENABLED"
	envSampling = "STOREFRONT_OTEL_SAMPLE_RATIO"
)

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when STOREFRONT_OTEL_ENDPOINT is empty or
// STOREFRONT_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and the global provider is left untouched. Components obtain tracers through
// the global provider, so spans are dropped cheaply when tracing is off.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(envEnabled), "false") {
		return noop, nil
	}

	endpoint := strings.TrimSpace(os.Getenv(envEndpoint))
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(os.Getenv(envSampling))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// sampler honours a parent decision and otherwise samples by ratio.
// Unparseable or out-of-range ratios sample everything.
func sampler(raw string) sdktrace.Sampler {
	ratio, ok := parseRatio(raw)
	if !ok {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

func parseRatio(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if ratio < 0 || ratio > 1 {
		return 0, false
	}
	return ratio, true
}
