// Package otel installs the OpenTelemetry trace and metric providers used by
// the command.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/louisbranch/rendezvous/internal/platform/config"
)

// StdoutEndpoint selects the stdout exporters instead of OTLP.
const StdoutEndpoint = "stdout"

type settings struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// Setup initialises OpenTelemetry for the given service.
//
// Telemetry is opt-in: when RENDEZVOUS_OTEL_ENDPOINT is empty or
// RENDEZVOUS_OTEL_ENABLED is false, Setup returns a no-op shutdown function
// and no global provider is registered. An http(s) endpoint is the base URL
// of an OTLP collector: traces go to <endpoint>/v1/traces and metrics to
// <endpoint>/v1/metrics. The endpoint "stdout" writes both to w instead.
//
// The returned shutdown function flushes pending data and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string, w io.Writer) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var s settings
	if err := config.ParseEnv(&s); err != nil {
		return noop, err
	}
	if !s.Enabled || s.Endpoint == "" {
		return noop, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	if s.Endpoint == StdoutEndpoint {
		if w == nil {
			w = io.Discard
		}
		return setupStdout(res, w)
	}
	return setupOTLP(ctx, res, s.Endpoint)
}

func setupOTLP(ctx context.Context, res *resource.Resource, endpoint string) (func(context.Context) error, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse otel endpoint: %w", err)
	}
	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(base.JoinPath("v1", "traces").String()),
	)
	if err != nil {
		return nil, err
	}
	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(base.JoinPath("v1", "metrics").String()),
	)
	if err != nil {
		return nil, err
	}
	return register(res, traceExporter, metricExporter), nil
}

func setupStdout(res *resource.Resource, w io.Writer) (func(context.Context) error, error) {
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, err
	}
	return register(res, traceExporter, metricExporter), nil
}

// register installs global trace and meter providers backed by the exporters.
func register(res *resource.Resource, spans sdktrace.SpanExporter, metrics sdkmetric.Exporter) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spans),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics)),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
}
