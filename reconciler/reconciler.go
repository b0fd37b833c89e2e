// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/indexer"
)

const KNOWN_STATE_TTL = time.Hour * 24

type Store interface {
	Events(ctx context.Context, id bridge.TransferID) ([]*bridge.Event, error)
	OpenTransfers(ctx context.Context) ([]bridge.TransferID, error)
	RecordCompletion(ctx context.Context, completion indexer.Completion) error
	RecordLock(ctx context.Context, lock indexer.LockRecord) error
}

type Metrics interface {
	TrackAction(route string, action string, status string)
	StartTransfer(transferID string)
	EndTransfer(route string, transferID string)
}

type Config struct {
	Interval    time.Duration
	MaxParallel int
	AutoRefund  bool
}

// Reconciler folds indexed events into transfer states and drives the
// protocol action each state advance requires on the other chain.
type Reconciler struct {
	store   Store
	routes  []Route
	metrics Metrics
	cfg     Config

	known *ttlcache.Cache[string, bridge.State]
}

func NewReconciler(store Store, routes []Route, metrics Metrics, cfg Config) *Reconciler {
	known := ttlcache.New(
		ttlcache.WithTTL[string, bridge.State](KNOWN_STATE_TTL),
	)
	go known.Start()

	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 1
	}
	return &Reconciler{
		store:   store,
		routes:  routes,
		metrics: metrics,
		cfg:     cfg,
		known:   known,
	}
}

// Run reconciles every open transfer on each tick and the transfers named by
// notifications as they arrive.
func (r *Reconciler) Run(ctx context.Context, notifications <-chan []bridge.TransferID) error {
	defer r.known.Stop()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.reconcileOpen(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.reconcileOpen(ctx)
		case ids := <-notifications:
			r.ReconcileAll(ctx, ids)
		}
	}
}

func (r *Reconciler) reconcileOpen(ctx context.Context) {
	ids, err := r.store.OpenTransfers(ctx)
	if err != nil {
		log.Warn().Err(err).Msgf("Unable to fetch open transfers")
		return
	}
	r.ReconcileAll(ctx, ids)
}

// ReconcileAll reconciles ids in parallel.
func (r *Reconciler) ReconcileAll(ctx context.Context, ids []bridge.TransferID) {
	p := pool.New().WithMaxGoroutines(r.cfg.MaxParallel)
	for _, id := range ids {
		p.Go(func() {
			err := r.Reconcile(ctx, id)
			if err != nil {
				log.Warn().Err(err).Msgf("Unable to reconcile transfer %s", id)
			}
		})
	}
	p.Wait()
}

// Statuses returns the folded status of id on every route it belongs to
// together with its indexed events.
func (r *Reconciler) Statuses(ctx context.Context, id bridge.TransferID) ([]Status, []*bridge.Event, error) {
	events, err := r.store.Events(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	statuses := make([]Status, 0)
	for _, route := range r.routes {
		status, ok := route.Fold(events)
		if ok {
			statuses = append(statuses, status)
		}
	}
	return statuses, events, nil
}

// Reconcile takes the actions the current state of id requires.
func (r *Reconciler) Reconcile(ctx context.Context, id bridge.TransferID) error {
	events, err := r.store.Events(ctx, id)
	if err != nil {
		return err
	}

	var errs error
	for _, route := range r.routes {
		status, ok := route.Fold(events)
		if !ok {
			continue
		}
		r.observe(status)
		if status.Initiator.Terminal() && (status.Counterparty == bridge.StateUnknown || status.Counterparty.Terminal()) {
			continue
		}

		errs = errors.Join(errs, r.reconcileRoute(ctx, route, status))
	}
	return errs
}

func (r *Reconciler) reconcileRoute(ctx context.Context, route Route, status Status) error {
	initiatorNow, err := route.Initiator.Now(ctx)
	if err != nil {
		return err
	}
	counterpartyNow, err := route.Counterparty.Now(ctx)
	if err != nil {
		return err
	}

	for _, action := range Decide(status, initiatorNow, counterpartyNow, r.cfg.AutoRefund) {
		l := log.With().Str("route", status.Route).Str("action", string(action)).Logger()
		l.Info().Msgf("Reconciling transfer %s in state %s", status.TransferID, status.State)

		err := r.act(ctx, route, status, action)
		if err != nil {
			r.trackAction(status, action, "failed")
			return fmt.Errorf("%s of transfer %s failed: %w", action, status.TransferID, err)
		}
		r.trackAction(status, action, "success")
	}
	return nil
}

func (r *Reconciler) act(ctx context.Context, route Route, status Status, action Action) error {
	id := status.TransferID
	switch action {
	case ActionLock:
		return r.lock(ctx, route, status)
	case ActionComplete:
		err := r.store.RecordCompletion(ctx, indexer.Completion{
			TransferID: id,
			PreImage:   status.PreImage,
			Timestamp:  time.Now(),
		})
		if err != nil {
			return err
		}
		return route.Initiator.Initiator().CompleteBridgeTransfer(ctx, id, status.PreImage)
	case ActionAbort:
		return route.Counterparty.Counterparty().AbortBridgeTransfer(ctx, id)
	case ActionRefund:
		return route.Initiator.Initiator().RefundBridgeTransfer(ctx, id)
	default:
		return fmt.Errorf("unknown action %s", action)
	}
}

func (r *Reconciler) lock(ctx context.Context, route Route, status Status) error {
	initiated := status.Initiated
	details, err := route.Initiator.Initiator().GetBridgeTransferDetails(ctx, status.TransferID)
	if err != nil {
		return err
	}
	if details == nil || details.State != bridge.StateInitialized || details.HashLock != initiated.HashLock {
		return fmt.Errorf("%w: initiator details of %s do not match the indexed transfer", bridge.ErrInvalidTransition, status.TransferID)
	}

	amount, err := route.Assets.Convert(initiated.Amount)
	if err != nil {
		return err
	}
	err = route.Counterparty.Counterparty().LockBridgeTransfer(
		ctx,
		status.TransferID,
		initiated.HashLock,
		initiated.TimeLock,
		initiated.Initiator,
		initiated.Recipient,
		amount,
	)
	if err != nil {
		return err
	}

	return r.store.RecordLock(ctx, indexer.LockRecord{
		TransferID: status.TransferID,
		HashLock:   initiated.HashLock,
		Initiator:  initiated.Initiator,
		Recipient:  initiated.Recipient,
		Amount:     amount,
	})
}

// observe logs each state advance of a transfer once.
func (r *Reconciler) observe(status Status) {
	key := fmt.Sprintf("%s/%s", status.Route, status.TransferID)
	previous := r.known.Get(key)
	if previous != nil && previous.Value() == status.State {
		return
	}

	log.Info().Str("route", status.Route).Msgf(
		"Transfer %s is %s (initiator %s, counterparty %s)",
		status.TransferID, status.State, status.Initiator, status.Counterparty,
	)
	r.known.Set(key, status.State, ttlcache.DefaultTTL)
}

func (r *Reconciler) trackAction(status Status, action Action, result string) {
	if r.metrics == nil {
		return
	}
	r.metrics.TrackAction(status.Route, string(action), result)
	if result != "success" {
		return
	}
	switch action {
	case ActionLock:
		r.metrics.StartTransfer(status.TransferID.Hex())
	case ActionComplete:
		r.metrics.EndTransfer(status.Route, status.TransferID.Hex())
	}
}
