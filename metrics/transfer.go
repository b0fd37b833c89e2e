package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	TRANSFER_TTL = time.Hour * 48
)

type TransferMetrics struct {
	attrs []attribute.KeyValue

	actionCounter     metric.Int64Counter
	transferHistogram metric.Float64Histogram
	startTimeCache    *ttlcache.Cache[string, time.Time]

	heightLock         sync.RWMutex
	indexedHeights     map[string]int64
	indexedHeightGauge metric.Int64ObservableGauge
}

// NewTransferMetrics initializes metrics related to indexing and reconciling
// transfers
func NewTransferMetrics(ctx context.Context, meter metric.Meter, attrs []attribute.KeyValue) (*TransferMetrics, error) {
	m := &TransferMetrics{
		attrs:          attrs,
		indexedHeights: make(map[string]int64),
		startTimeCache: ttlcache.New(
			ttlcache.WithTTL[string, time.Time](TRANSFER_TTL),
		),
	}

	var err error
	m.actionCounter, err = meter.Int64Counter(
		"bridge.Actions",
		metric.WithDescription("Number of reconciler actions by route, action and outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.transferHistogram, err = meter.Float64Histogram(
		"bridge.TransferTime",
		metric.WithDescription("Seconds between locking a transfer and completing it on the initiator chain"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.indexedHeightGauge, err = meter.Int64ObservableGauge(
		"bridge.IndexedHeight",
		metric.WithDescription("Latest height indexed per chain"),
		metric.WithInt64Callback(func(ctx context.Context, result metric.Int64Observer) error {
			m.heightLock.RLock()
			defer m.heightLock.RUnlock()

			for chain, height := range m.indexedHeights {
				result.Observe(height, m.with(attribute.String("chain", chain)))
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	go m.startTimeCache.Start()
	go func() {
		<-ctx.Done()
		m.startTimeCache.Stop()
	}()
	return m, nil
}

func (m *TransferMetrics) TrackIndexedHeight(chain string, height uint64) {
	m.heightLock.Lock()
	defer m.heightLock.Unlock()

	// nolint:gosec
	m.indexedHeights[chain] = int64(height)
}

func (m *TransferMetrics) TrackAction(route string, action string, status string) {
	m.actionCounter.Add(
		context.Background(),
		1,
		m.with(
			attribute.String("route", route),
			attribute.String("action", action),
			attribute.String("status", status),
		),
	)
}

// StartTransfer starts the transfer timer EndTransfer records.
func (m *TransferMetrics) StartTransfer(transferID string) {
	m.startTimeCache.Set(transferID, time.Now(), ttlcache.DefaultTTL)
}

func (m *TransferMetrics) EndTransfer(route string, transferID string) {
	startTime := m.startTimeCache.Get(transferID)
	if startTime == nil {
		log.Debug().Msgf("Transfer start time with ID %s not found", transferID)
		return
	}
	m.startTimeCache.Delete(transferID)

	m.transferHistogram.Record(
		context.Background(),
		time.Since(startTime.Value()).Seconds(),
		m.with(attribute.String("route", route)),
	)
}

func (m *TransferMetrics) with(extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(m.attrs)+len(extra))
	attrs = append(attrs, m.attrs...)
	return metric.WithAttributes(append(attrs, extra...)...)
}
