// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chains

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/executor"
)

type Executor interface {
	Execute(ctx context.Context, call *executor.Call) (*executor.Receipt, error)
}

type DetailsFunc func(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error)

type NowFunc func(ctx context.Context) (uint64, error)

// Apply prechecks call against the current on-chain state of transfer id
// and executes it. Every operation on a terminal transfer fails. Every
// failure is returned as a *bridge.RoleError.
func Apply(
	ctx context.Context,
	log zerolog.Logger,
	exec Executor,
	now NowFunc,
	details DetailsFunc,
	side bridge.Side,
	id bridge.TransferID,
	preImage bridge.PreImage,
	call *executor.Call,
) error {
	current, err := details(ctx, id)
	if err != nil {
		return bridge.NewRoleError(call.Operation, err)
	}
	chainTime, err := now(ctx)
	if err != nil {
		return bridge.NewRoleError(call.Operation, err)
	}

	err = bridge.Precheck(side, call.Operation, current, chainTime, preImage)
	if errors.Is(err, bridge.ErrAlreadyApplied) {
		log.Debug().Msgf("%s of transfer %s already applied", call.Operation, id)
		return nil
	}
	if err != nil {
		return bridge.NewRoleError(call.Operation, err)
	}

	target, err := call.Operation.Target(side)
	if err != nil {
		return bridge.NewRoleError(call.Operation, err)
	}
	call.Applied = func(ctx context.Context) (bool, error) {
		d, err := details(ctx, id)
		if err != nil {
			return false, err
		}
		return d != nil && d.State == target, nil
	}

	_, err = exec.Execute(ctx, call)
	if err != nil {
		return bridge.NewRoleError(call.Operation, err)
	}
	log.Info().Msgf("Applied %s of transfer %s", call.Operation, id)
	return nil
}

// ExistingLock reports whether transfer id is already locked with hashLock.
// A terminal transfer or a lock under a different hash lock cannot be locked.
func ExistingLock(existing *bridge.TransferDetails, id bridge.TransferID, hashLock bridge.HashLock) (bool, error) {
	if existing == nil || existing.State == bridge.StateUnknown {
		return false, nil
	}
	if err := bridge.CheckTransition(bridge.SideCounterparty, existing.State, bridge.OpLock); !errors.Is(err, bridge.ErrAlreadyApplied) {
		if err == nil {
			err = fmt.Errorf("%w: transfer %s is %s", bridge.ErrInvalidTransition, id, existing.State)
		}
		return false, err
	}
	if existing.HashLock != hashLock {
		return false, fmt.Errorf("%w: transfer %s is locked with a different hash lock", bridge.ErrInvalidTransition, id)
	}
	return true, nil
}

// LockedApplied is the Applied re-query of a lock.
func LockedApplied(details DetailsFunc, id bridge.TransferID) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		d, err := details(ctx, id)
		return d != nil, err
	}
}

func PreImage32(preImage bridge.PreImage) ([32]byte, error) {
	var out [32]byte
	if len(preImage) != len(out) {
		return out, &bridge.ConversionFailedError{Field: "pre_image", Err: fmt.Errorf("expected 32 bytes, got %d", len(preImage))}
	}
	copy(out[:], preImage)
	return out, nil
}

func CheckAsset(chain string, expected bridge.AssetType, amount bridge.Amount) error {
	if amount.Asset != expected {
		return &bridge.ConversionFailedError{Field: "asset", Err: fmt.Errorf("chain %s bridges %s, got %s", chain, expected, amount.Asset)}
	}
	return nil
}
