// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package executor

import (
	"context"
	"time"

	"github.com/sprintertech/atomic-bridge/bridge"
)

// waitForConfirmations blocks until the transaction has the configured
// number of confirmations or the confirmation timeout passes.
func (e *Executor) waitForConfirmations(ctx context.Context, call *Call, txHash string) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ConfirmationTimeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil, ErrConfirmationTimeout
		default:
		}

		receipt, err := e.backend.Receipt(ctx, txHash)
		if err != nil {
			e.log.Warn().Msgf("Error fetching receipt for %s: %v", txHash, err)
			sleep(ctx, e.cfg.PollInterval)
			continue
		}
		if receipt == nil {
			sleep(ctx, e.cfg.PollInterval)
			continue
		}
		if receipt.Failed {
			return receipt, &bridge.OnChainError{Reason: receipt.Reason}
		}

		head, err := e.backend.LatestHeight(ctx)
		if err != nil {
			e.log.Warn().Msgf("Error fetching latest height: %v", err)
			sleep(ctx, e.cfg.PollInterval)
			continue
		}

		if head >= receipt.Height && head-receipt.Height >= e.cfg.Confirmations {
			return receipt, nil
		}

		e.log.Debug().Msgf("Waiting for %s %s at height %d, head %d", call.Operation, txHash, receipt.Height, head)
		sleep(ctx, e.cfg.PollInterval)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
