package metrics

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type BridgeMetrics struct {
	*HostMetrics
	*ExecutorMetrics
	*TransferMetrics
}

// NewBridgeMetrics creates every bridge metric tagged with the relayer
// environment, id and version.
func NewBridgeMetrics(ctx context.Context, meter metric.Meter, env, relayerID, version string) (*BridgeMetrics, error) {
	attrs := []attribute.KeyValue{
		attribute.String("env", env),
		attribute.String("relayerid", relayerID),
		attribute.String("version", version),
	}

	hostMetrics, err := NewHostMetrics(ctx, meter, metric.WithAttributes(attrs...))
	if err != nil {
		return nil, err
	}
	executorMetrics, err := NewExecutorMetrics(ctx, meter, attrs)
	if err != nil {
		return nil, err
	}
	transferMetrics, err := NewTransferMetrics(ctx, meter, attrs)
	if err != nil {
		return nil, err
	}

	return &BridgeMetrics{
		HostMetrics:     hostMetrics,
		ExecutorMetrics: executorMetrics,
		TransferMetrics: transferMetrics,
	}, nil
}

// InitMetricProvider creates a meter provider exporting to the OTLP collector
// at collectorURL. Without a collector, measurements are kept in process and
// never exported.
func InitMetricProvider(ctx context.Context, collectorURL string) (*sdkmetric.MeterProvider, error) {
	if collectorURL == "" {
		return sdkmetric.NewMeterProvider(), nil
	}

	u, err := url.Parse(collectorURL)
	if err != nil {
		return nil, fmt.Errorf("invalid collector url %s: %w", collectorURL, err)
	}
	options := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(u.Host),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if u.Scheme != "https" {
		options = append(options, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, options...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}
