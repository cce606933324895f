package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xbst/lib/infra"
)

type MetricsExporterType string

const (
	NoneMetricsExporter       MetricsExporterType = "none"
	ConsoleMetricsExporter    MetricsExporterType = "console"
	PrometheusMetricsExporter MetricsExporterType = "prometheus"
)

func ParseMetricsExporterType(typ string) (MetricsExporterType, error) {
	switch t := MetricsExporterType(strings.ToLower(strings.TrimSpace(typ))); t {
	case NoneMetricsExporter, ConsoleMetricsExporter, PrometheusMetricsExporter:
		return t, nil
	case "":
		return NoneMetricsExporter, nil
	default:
	}
	return NoneMetricsExporter, infra.NewErrorStack("[observability] unknown metrics exporter " + typ)
}

type ShutdownCallback func(ctx context.Context) error

func nopShutdown(context.Context) error { return nil }

// InitMetricsExporter installs the global meter provider for the exporter type.
// The returned callback flushes and releases the provider.
func InitMetricsExporter(typ MetricsExporterType, interval time.Duration) (ShutdownCallback, error) {
	switch typ {
	case ConsoleMetricsExporter:
		if interval <= 0 {
			interval = 10 * time.Second
		}
		return newConsoleMetricsExporter(interval, interval/2, stdoutmetric.WithPrettyPrint())
	case PrometheusMetricsExporter:
		return newPrometheusMetricsExporter()
	case NoneMetricsExporter:
		return nopShutdown, nil
	default:
	}
	return nil, infra.NewErrorStack("[observability] unknown metrics exporter " + string(typ))
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownCallback, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter() (ShutdownCallback, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
