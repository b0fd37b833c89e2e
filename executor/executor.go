// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/cache"
	"github.com/sprintertech/atomic-bridge/signer"
)

type Metrics interface {
	TrackSubmission(chain string, op bridge.Operation, status string)
	TrackConfirmationTime(chain string, op bridge.Operation, duration time.Duration)
}

type Config struct {
	Confirmations       uint64
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
	MaxRetries          uint64
	InitialBackoff      time.Duration
	MaxBackoff          time.Duration
}

// Executor encodes, signs, submits and confirms contract calls for one
// chain. Every chain adapter shares it; only argument construction and
// encoding differ between chains.
type Executor struct {
	chain       string
	backend     Backend
	signer      signer.Signer
	submissions *cache.SubmissionCache
	metrics     Metrics
	cfg         Config

	flights singleflight.Group
	log     zerolog.Logger
}

func NewExecutor(
	chain string,
	backend Backend,
	signer signer.Signer,
	submissions *cache.SubmissionCache,
	metrics Metrics,
	cfg Config,
) *Executor {
	return &Executor{
		chain:       chain,
		backend:     backend,
		signer:      signer,
		submissions: submissions,
		metrics:     metrics,
		cfg:         cfg,
		log:         log.With().Str("chain", chain).Logger(),
	}
}

// Execute submits call and blocks until it is confirmed at the configured
// depth. Concurrent calls with the same key share a single submission and
// result; a call whose key was already confirmed returns the recorded
// receipt without submitting again. While a submission for the key is
// pending it is awaited instead of being sent again with a new nonce.
func (e *Executor) Execute(ctx context.Context, call *Call) (*Receipt, error) {
	// the shared submission outlives a single caller giving up
	flightCtx := context.WithoutCancel(ctx)
	ch := e.flights.DoChan(e.key(call), func() (interface{}, error) {
		return e.execute(flightCtx, call)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Receipt), nil
	}
}

func (e *Executor) execute(ctx context.Context, call *Call) (*Receipt, error) {
	key := e.key(call)
	l := e.log.With().Str("key", call.Key).Logger()

	pending := ""
	submission, err := e.submissions.Submission(key)
	if err == nil {
		if submission.Confirmed {
			l.Debug().Msgf("Submission %s already confirmed", submission.TxHash)
			return &Receipt{TxHash: submission.TxHash, Height: submission.Height, AlreadyApplied: true}, nil
		}
		pending = submission.TxHash
	}

	recheck := pending != ""
	var receipt *Receipt
	op := func() error {
		if pending != "" {
			r, err := e.await(ctx, call, pending, l)
			if err == nil {
				receipt = r
				return nil
			}
			if !errors.Is(err, ErrTransactionDropped) {
				return retryable(err)
			}
			pending = ""
		}

		if recheck {
			applied, err := e.applied(ctx, call)
			if err != nil {
				return err
			}
			if applied {
				l.Info().Msgf("%s already applied on chain", call.Operation)
				e.submissions.Confirm(key, "", 0)
				receipt = &Receipt{AlreadyApplied: true}
				return nil
			}
		}
		recheck = true

		txHash, err := e.submit(ctx, call, l)
		if err != nil {
			return retryable(err)
		}
		pending = txHash

		r, err := e.await(ctx, call, txHash, l)
		if err != nil {
			if errors.Is(err, ErrTransactionDropped) {
				pending = ""
			}
			return retryable(err)
		}
		receipt = r
		return nil
	}

	err = backoff.RetryNotify(op, e.backoff(ctx), func(err error, d time.Duration) {
		l.Warn().Err(err).Msgf("Retrying %s in %s", call.Operation, d)
	})
	if err != nil {
		e.trackSubmission(call, "failed")
		return nil, err
	}

	if receipt.AlreadyApplied {
		e.trackSubmission(call, "applied")
	} else {
		e.trackSubmission(call, "confirmed")
	}
	return receipt, nil
}

// submit prepares, signs and sends call once and records the transaction as
// pending.
func (e *Executor) submit(ctx context.Context, call *Call, l zerolog.Logger) (string, error) {
	attempt := uuid.NewString()
	l = l.With().Str("attempt", attempt).Logger()

	tx, err := e.backend.Prepare(ctx, call)
	if err != nil {
		return "", &Error{Stage: StagePrepare, Key: call.Key, Err: err}
	}

	sig, err := e.signer.Sign(ctx, tx.Digest())
	if err != nil {
		return "", &Error{Stage: StageSign, Key: call.Key, Err: err}
	}

	txHash, err := e.backend.Submit(ctx, tx, sig)
	if err != nil {
		return "", &Error{Stage: StageSubmit, Key: call.Key, Err: err}
	}
	e.submissions.Pending(e.key(call), txHash)
	l.Info().Msgf("Submitted %s transaction %s", call.Operation, txHash)
	return txHash, nil
}

// await waits for the confirmation of a pending transaction. A revert or a
// confirmation timeout re-queries chain state first, the operation may have
// been applied by an earlier submission. It returns ErrTransactionDropped
// only when the node no longer knows an unconfirmed transaction, every other
// timeout keeps the transaction pending.
func (e *Executor) await(ctx context.Context, call *Call, txHash string, l zerolog.Logger) (*Receipt, error) {
	key := e.key(call)
	start := time.Now()

	receipt, err := e.waitForConfirmations(ctx, call, txHash)
	if err == nil {
		if e.metrics != nil {
			e.metrics.TrackConfirmationTime(e.chain, call.Operation, time.Since(start))
		}
		e.submissions.Confirm(key, txHash, receipt.Height)
		return receipt, nil
	}

	applied, aErr := e.applied(ctx, call)
	if aErr != nil {
		return nil, &Error{Stage: StageConfirm, Key: call.Key, Err: aErr}
	}
	if applied {
		l.Info().Msgf("Transaction %s not confirmed but %s is applied on chain", txHash, call.Operation)
		e.submissions.Confirm(key, txHash, 0)
		return &Receipt{TxHash: txHash, AlreadyApplied: true}, nil
	}

	var onChainErr *bridge.OnChainError
	if errors.As(err, &onChainErr) {
		e.submissions.Forget(key)
		return nil, &Error{Stage: StageConfirm, Key: call.Key, Err: err}
	}

	known, kErr := e.backend.Known(ctx, txHash)
	if kErr == nil && !known {
		l.Warn().Msgf("Transaction %s was dropped by the node", txHash)
		e.submissions.Forget(key)
		return nil, &Error{Stage: StageConfirm, Key: call.Key, Err: ErrTransactionDropped}
	}
	return nil, &Error{Stage: StageConfirm, Key: call.Key, Err: err}
}

func retryable(err error) error {
	if isPermanent(err) {
		return backoff.Permanent(err)
	}
	return err
}

// key scopes a submission key to the executor's chain.
func (e *Executor) key(call *Call) string {
	return fmt.Sprintf("%s/%s", e.chain, call.Key)
}

func (e *Executor) applied(ctx context.Context, call *Call) (bool, error) {
	if call.Applied == nil {
		return false, nil
	}
	return call.Applied(ctx)
}

func (e *Executor) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if e.cfg.InitialBackoff != 0 {
		b.InitialInterval = e.cfg.InitialBackoff
	}
	if e.cfg.MaxBackoff != 0 {
		b.MaxInterval = e.cfg.MaxBackoff
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, e.cfg.MaxRetries), ctx)
}

func (e *Executor) trackSubmission(call *Call, status string) {
	if e.metrics == nil {
		return
	}
	e.metrics.TrackSubmission(e.chain, call.Operation, status)
}
