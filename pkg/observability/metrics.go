package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Gatherer defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// InitMetrics initializes the OpenTelemetry meter provider on top of the
// Prometheus registry and installs it globally. The returned handler serves
// both otel instruments and the promauto collectors registered in the same
// registry.
func InitMetrics(cfg MetricsConfig) (*metric.MeterProvider, http.Handler, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName))),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})

	return provider, handler, nil
}
