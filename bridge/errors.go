// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrSerialization         = errors.New("serialization error")
	ErrCall                  = errors.New("call error")
	ErrInvalidResponseLength = errors.New("invalid response length")
	ErrFunctionView          = errors.New("function view error")

	ErrInitiateTransfer = errors.New("failed to initiate bridge transfer")
	ErrLockTransfer     = errors.New("failed to lock bridge transfer")
	ErrCompleteTransfer = errors.New("failed to complete bridge transfer")
	ErrRefundTransfer   = errors.New("failed to refund bridge transfer")
	ErrAbortTransfer    = errors.New("failed to abort bridge transfer")

	ErrTransferNotFound   = errors.New("bridge transfer not found")
	ErrTransferTerminal   = errors.New("bridge transfer is in a terminal state")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrAlreadyApplied     = errors.New("operation already applied")
	ErrPreImageMismatch   = errors.New("pre image does not match hash lock")
	ErrTimeLockExpired    = errors.New("time lock expired")
	ErrTimeLockNotExpired = errors.New("time lock not expired")
)

type ConversionFailedError struct {
	Field string
	Err   error
}

func (e *ConversionFailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to convert %s", e.Field)
	}
	return fmt.Sprintf("failed to convert %s: %s", e.Field, e.Err)
}

func (e *ConversionFailedError) Unwrap() error {
	return e.Err
}

// OnChainError is a revert or failed execution reported by the chain.
type OnChainError struct {
	Reason string
}

func (e *OnChainError) Error() string {
	return fmt.Sprintf("on-chain error: %s", e.Reason)
}

// RoleError is returned by role operations. It matches both the role
// sentinel (e.g. ErrLockTransfer) and the underlying cause with errors.Is.
type RoleError struct {
	Op   Operation
	Kind error
	Err  error
}

func NewRoleError(op Operation, err error) *RoleError {
	return &RoleError{
		Op:   op,
		Kind: op.Err(),
		Err:  err,
	}
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *RoleError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func errInvalidLength(l int) error {
	return fmt.Errorf("invalid length %d", l)
}
