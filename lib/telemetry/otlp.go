package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// endpoint selects grpc when set, falling back to http otherwise.
type endpoint struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (e endpoint) grpc() bool { return e.GrpcEndpoint != "" }

func (e endpoint) url() string {
	if e.grpc() {
		return e.GrpcEndpoint
	}
	return e.HttpEndpoint
}

type exporterConfig struct {
	Otlp struct {
		Traces  endpoint `json:"traces"`
		Metrics endpoint `json:"metrics"`
	} `json:"otlp"`
}

const exporterDialTimeout = time.Second * 3

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, res *resource.Resource, cfg exporterConfig) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	ep := cfg.Otlp.Traces
	var exporter trace.SpanExporter
	var err error
	if ep.grpc() {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(ep.GrpcEndpoint),
			otlptracegrpc.WithHeaders(ep.Headers),
		)
	} else {
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(ep.HttpEndpoint),
			otlptracehttp.WithHeaders(ep.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("trace exporter ready", "grpc", ep.grpc(), "endpoint", ep.url())

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	), nil
}

func newMetricProvider(ctx context.Context, res *resource.Resource, cfg exporterConfig) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	ep := cfg.Otlp.Metrics
	var exporter metric.Exporter
	var err error
	if ep.grpc() {
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpointURL(ep.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(ep.Headers),
		)
	} else {
		exporter, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpointURL(ep.HttpEndpoint),
			otlpmetrichttp.WithHeaders(ep.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("metric exporter ready", "grpc", ep.grpc(), "endpoint", ep.url())

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(res),
	), nil
}
