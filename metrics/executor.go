package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sprintertech/atomic-bridge/bridge"
)

type ExecutorMetrics struct {
	attrs []attribute.KeyValue

	submissionCounter     metric.Int64Counter
	confirmationHistogram metric.Float64Histogram
}

// NewExecutorMetrics initializes metrics related to transaction submission
func NewExecutorMetrics(ctx context.Context, meter metric.Meter, attrs []attribute.KeyValue) (*ExecutorMetrics, error) {
	submissionCounter, err := meter.Int64Counter(
		"bridge.Submissions",
		metric.WithDescription("Number of transaction submissions by chain, operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	confirmationHistogram, err := meter.Float64Histogram(
		"bridge.ConfirmationTime",
		metric.WithDescription("Seconds between submitting a transaction and reaching the confirmation depth"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ExecutorMetrics{
		attrs:                 attrs,
		submissionCounter:     submissionCounter,
		confirmationHistogram: confirmationHistogram,
	}, nil
}

func (m *ExecutorMetrics) TrackSubmission(chain string, op bridge.Operation, status string) {
	m.submissionCounter.Add(
		context.Background(),
		1,
		m.with(
			attribute.String("chain", chain),
			attribute.String("operation", string(op)),
			attribute.String("status", status),
		),
	)
}

func (m *ExecutorMetrics) TrackConfirmationTime(chain string, op bridge.Operation, duration time.Duration) {
	m.confirmationHistogram.Record(
		context.Background(),
		duration.Seconds(),
		m.with(
			attribute.String("chain", chain),
			attribute.String("operation", string(op)),
		),
	)
}

func (m *ExecutorMetrics) with(extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(m.attrs)+len(extra))
	attrs = append(attrs, m.attrs...)
	return metric.WithAttributes(append(attrs, extra...)...)
}
