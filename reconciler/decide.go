// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package reconciler

import "github.com/sprintertech/atomic-bridge/bridge"

type Action string

const (
	ActionLock     Action = "lock"
	ActionComplete Action = "complete"
	ActionAbort    Action = "abort"
	ActionRefund   Action = "refund"
)

// Decide returns the protocol actions status requires at the given chain
// times, in the order they should be taken.
func Decide(status Status, initiatorNow uint64, counterpartyNow uint64, autoRefund bool) []Action {
	actions := make([]Action, 0)

	if status.Initiator == bridge.StateInitialized &&
		status.Counterparty == bridge.StateUnknown &&
		status.Initiated != nil &&
		!status.Initiated.TimeLock.Expired(initiatorNow) {
		actions = append(actions, ActionLock)
	}

	if status.Counterparty == bridge.StateCompleted &&
		status.Initiator == bridge.StateInitialized &&
		len(status.PreImage) > 0 {
		actions = append(actions, ActionComplete)
	}

	if status.Counterparty == bridge.StateLocked &&
		status.Locked != nil &&
		status.Locked.TimeLock.Expired(counterpartyNow) {
		actions = append(actions, ActionAbort)
	}

	if autoRefund &&
		status.Initiator == bridge.StateInitialized &&
		status.Counterparty != bridge.StateCompleted &&
		status.Initiated != nil &&
		status.Initiated.TimeLock.Expired(initiatorNow) {
		actions = append(actions, ActionRefund)
	}

	return actions
}
