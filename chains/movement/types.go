// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/sprintertech/atomic-bridge/bridge"
)

const (
	PendingTransaction = "pending_transaction"
	UserTransaction    = "user_transaction"
)

// U64 is a u64 the node encodes as a decimal string.
type U64 uint64

func (u *U64) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*u = U64(v)
	return nil
}

type LedgerInfo struct {
	ChainID         uint8
	LedgerVersion   uint64
	LedgerTimestamp uint64
	BlockHeight     uint64
}

// Event is a module event. Version is the ledger version of the
// transaction that emitted it.
type Event struct {
	Version        U64             `json:"version"`
	SequenceNumber U64             `json:"sequence_number"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
}

type Transaction struct {
	Type     string
	Hash     string
	Version  uint64
	Success  bool
	VMStatus string
	Events   []Event
}

var moveAbortPattern = regexp.MustCompile(`Move abort in [^:]+::[A-Za-z0-9_]+: (?:[A-Za-z0-9_]+\()?0x([0-9a-fA-F]+)`)

// APIError is an error reply of the node.
type APIError struct {
	Status      int    `json:"-"`
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VMErrorCode *int   `json:"vm_error_code,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("node returned %d: %s (%s)", e.Status, e.Message, e.ErrorCode)
}

func (e *APIError) Unwrap() error {
	return bridge.ErrCall
}

// AbortCode returns the abort code of a Move abort reported by the node.
func (e *APIError) AbortCode() (uint64, bool) {
	match := moveAbortPattern.FindStringSubmatch(e.Message)
	if match == nil {
		return 0, false
	}
	code, err := strconv.ParseUint(match[1], 16, 64)
	if err != nil {
		return 0, false
	}
	return code, true
}
