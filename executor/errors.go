// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package executor

import (
	"errors"
	"fmt"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/signer"
)

var (
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmations")
	ErrTransactionDropped  = errors.New("transaction dropped by the node")
)

type Stage string

const (
	StagePrepare Stage = "prepare"
	StageSign    Stage = "sign"
	StageSubmit  Stage = "submit"
	StageConfirm Stage = "confirm"
)

type Error struct {
	Stage Stage
	Key   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Stage, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// isPermanent reports whether retrying err can not succeed.
func isPermanent(err error) bool {
	var onChainErr *bridge.OnChainError
	var conversionErr *bridge.ConversionFailedError
	var signerErr *signer.Error
	switch {
	case errors.As(err, &onChainErr), errors.As(err, &conversionErr):
		return true
	case errors.Is(err, bridge.ErrSerialization):
		return true
	case errors.As(err, &signerErr):
		return !signer.IsRetryable(err)
	default:
		return false
	}
}
