// Package telemetry поднимает провайдеры трассировки и метрик витрины.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/RoGogDBD/timberyard/internal/config"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// Providers - запущенные провайдеры и обработчик /metrics.
type Providers struct {
	metrics   http.Handler
	shutdowns []shutdownFunc
	log       *zap.Logger
}

// MetricsHandler отдает метрики Prometheus. При выключенных метриках - nil.
func (p *Providers) MetricsHandler() http.Handler {
	if p == nil {
		return nil
	}
	return p.metrics
}

// Shutdown сбрасывает буферы и останавливает провайдеры в обратном порядке.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var joined error
	for i := len(p.shutdowns) - 1; i >= 0; i-- {
		s := p.shutdowns[i]
		if err := s.fn(ctx); err != nil {
			joined = errors.Join(joined, fmt.Errorf("shutdown %s: %w", s.name, err))
		}
	}
	if joined == nil && len(p.shutdowns) > 0 {
		p.log.Info("telemetry stopped")
	}
	return joined
}

// Init настраивает глобальные провайдеры otel по конфигурации.
func Init(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*Providers, error) {
	p := &Providers{log: log}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.TracesEnabled && !cfg.MetricsEnabled {
		log.Info("telemetry disabled")
		return p, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	if cfg.TracesEnabled {
		tp, err := newTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		p.shutdowns = append(p.shutdowns, shutdownFunc{name: "tracer", fn: tp.Shutdown})
		log.Info("tracing enabled",
			zap.String("endpoint", cfg.OTLPEndpoint),
			zap.Float64("sample_ratio", cfg.TraceSampleRatio),
		)
	}

	if cfg.MetricsEnabled {
		mp, handler, err := newMeterProvider(res)
		if err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
		otel.SetMeterProvider(mp)
		p.metrics = handler
		p.shutdowns = append(p.shutdowns, shutdownFunc{name: "meter", fn: mp.Shutdown})
		log.Info("metrics enabled", zap.String("path", cfg.MetricsPath))
	}

	return p, nil
}

func newTracerProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRatio))),
	), nil
}

// newMeterProvider использует отдельный реестр, чтобы на /metrics попадали
// только метрики витрины.
func newMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prom.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}
