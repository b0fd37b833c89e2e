package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

type HostMetrics struct {
	startTimeGauge metric.Int64ObservableGauge
	uptimeCounter  metric.Float64ObservableCounter
	registration   metric.Registration
}

// NewHostMetrics registers the start time and uptime of the bridge process.
func NewHostMetrics(ctx context.Context, meter metric.Meter, opts metric.MeasurementOption) (*HostMetrics, error) {
	start := time.Now()
	startTimeGauge, err := meter.Int64ObservableGauge(
		"bridge.StartTimeSeconds",
		metric.WithDescription("Start time of the bridge relayer"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	uptimeCounter, err := meter.Float64ObservableCounter(
		"bridge.UptimeSeconds",
		metric.WithDescription("Seconds since the bridge relayer started"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	registration, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveInt64(startTimeGauge, start.Unix(), opts)
		o.ObserveFloat64(uptimeCounter, time.Since(start).Seconds(), opts)
		return nil
	}, startTimeGauge, uptimeCounter)
	if err != nil {
		return nil, err
	}

	return &HostMetrics{
		startTimeGauge: startTimeGauge,
		uptimeCounter:  uptimeCounter,
		registration:   registration,
	}, nil
}

// Unregister stops reporting host metrics.
func (m *HostMetrics) Unregister() error {
	return m.registration.Unregister()
}
