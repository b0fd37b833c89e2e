// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import "fmt"

// Precheck validates op against the on-chain details of a transfer at chain
// time now, before anything is submitted. details is nil for an unknown
// transfer. preImage is only used for OpComplete.
func Precheck(side Side, op Operation, details *TransferDetails, now uint64, preImage PreImage) error {
	current := StateUnknown
	if details != nil {
		current = details.State
	}

	err := CheckTransition(side, current, op)
	if err != nil {
		return err
	}

	switch op {
	case OpComplete:
		if !details.HashLock.Matches(preImage) {
			return ErrPreImageMismatch
		}
		if side == SideCounterparty && details.TimeLock.Expired(now) {
			return fmt.Errorf("%w: at %d", ErrTimeLockExpired, details.TimeLock)
		}
	case OpRefund, OpAbort:
		if !details.TimeLock.Expired(now) {
			return fmt.Errorf("%w: expires at %d, now %d", ErrTimeLockNotExpired, details.TimeLock, now)
		}
	}
	return nil
}

// CheckNewLock validates the time lock of a transfer that is about to be
// initiated or locked.
func CheckNewLock(timeLock TimeLock, now uint64) error {
	if timeLock.Expired(now) {
		return fmt.Errorf("%w: at %d, now %d", ErrTimeLockExpired, timeLock, now)
	}
	return nil
}
