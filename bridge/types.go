// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// TransferID uniquely identifies a transfer on its originating chain and
// is reused unchanged on the destination chain.
type TransferID [32]byte

func ParseTransferID(s string) (TransferID, error) {
	var id TransferID
	b, err := decodeHex32(s)
	if err != nil {
		return id, &ConversionFailedError{Field: "bridge_transfer_id", Err: err}
	}
	copy(id[:], b)
	return id, nil
}

func TransferIDFromBytes(b []byte) (TransferID, error) {
	var id TransferID
	if len(b) != len(id) {
		return id, &ConversionFailedError{Field: "bridge_transfer_id", Err: fmt.Errorf("invalid length %d", len(b))}
	}
	copy(id[:], b)
	return id, nil
}

func (id TransferID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id TransferID) String() string {
	return id.Hex()
}

func (id TransferID) Bytes() []byte {
	return id[:]
}

// Address is an opaque chain-native account identifier. Addresses from
// different chains are never comparable without explicit decoding.
type Address []byte

func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a)
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) Equal(other Address) bool {
	return bytes.Equal(a, other)
}

func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, &ConversionFailedError{Field: "address", Err: err}
	}
	return Address(b), nil
}

// TimeLock is an absolute deadline in the host chain's native time unit.
type TimeLock uint64

// Expired reports whether the deadline has been reached at chain time now.
func (t TimeLock) Expired(now uint64) bool {
	return now >= uint64(t)
}

// TransferDetails is the on-chain view of a transfer as returned by
// get_details on either role.
type TransferDetails struct {
	Originator Address
	Recipient  Address
	Amount     Amount
	HashLock   HashLock
	TimeLock   TimeLock
	State      State
}

func decodeHex32(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	return b, nil
}
