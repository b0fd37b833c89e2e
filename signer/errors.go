// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package signer

import (
	"errors"
	"fmt"
)

type ErrorKind uint8

const (
	// Unauthorized failures are fatal and never retried.
	Unauthorized ErrorKind = iota + 1
	// Throttled requests may be retried after backing off.
	Throttled
	// Unavailable covers transient custody or transport failures.
	Unavailable
	// Invalid input or key material.
	Invalid
)

func (k ErrorKind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Throttled:
		return "throttled"
	case Unavailable:
		return "unavailable"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is a signer failure, kept distinct from chain call errors.
type Error struct {
	Kind ErrorKind
	Err  error
}

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("signer %s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a signer failure worth retrying.
func IsRetryable(err error) bool {
	var sErr *Error
	if !errors.As(err, &sErr) {
		return false
	}
	return sErr.Kind == Throttled || sErr.Kind == Unavailable
}
