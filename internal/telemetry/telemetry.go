// Package telemetry wires OpenTelemetry tracing and metrics exporters.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Options configura a exportação de telemetria
type Options struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint do coletor OTLP/HTTP; vazio usa o padrão do SDK
	Endpoint string
	// Enabled desliga os exporters; spans continuam sendo criados sem destino
	Enabled bool
}

// Provider agrupa os providers de trace e métricas
type Provider struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// Setup inicializa tracing e métricas e registra os providers globais
func Setup(ctx context.Context, opts Options) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if opts.Enabled {
		traceExporter, err := otlptracehttp.New(ctx, traceExporterOptions(opts.Endpoint)...)
		if err != nil {
			return nil, err
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExporter))

		metricExporter, err := otlpmetrichttp.New(ctx, metricExporterOptions(opts.Endpoint)...)
		if err != nil {
			return nil, err
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}

	p := &Provider{
		tp: sdktrace.NewTracerProvider(traceOpts...),
		mp: sdkmetric.NewMeterProvider(metricOpts...),
	}
	otel.SetTracerProvider(p.tp)
	otel.SetMeterProvider(p.mp)
	return p, nil
}

// Tracer retorna um tracer nomeado do provider configurado
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// Shutdown descarrega e encerra os exporters
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}

func traceExporterOptions(endpoint string) []otlptracehttp.Option {
	if endpoint == "" {
		return []otlptracehttp.Option{otlptracehttp.WithInsecure()}
	}
	return []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	}
}

func metricExporterOptions(endpoint string) []otlpmetrichttp.Option {
	if endpoint == "" {
		return []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
	}
	return []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	}
}
