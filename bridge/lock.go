// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// HashLock is the keccak256 digest of a transfer's PreImage.
type HashLock [32]byte

// PreImage is the secret whose digest equals the HashLock.
type PreImage []byte

// NewHashLock returns the lock committing to preImage.
func NewHashLock(preImage PreImage) HashLock {
	var h HashLock
	copy(h[:], crypto.Keccak256(preImage))
	return h
}

func ParseHashLock(s string) (HashLock, error) {
	var h HashLock
	b, err := decodeHex32(s)
	if err != nil {
		return h, &ConversionFailedError{Field: "hash_lock", Err: err}
	}
	copy(h[:], b)
	return h, nil
}

func HashLockFromBytes(b []byte) (HashLock, error) {
	var h HashLock
	if len(b) != len(h) {
		return h, &ConversionFailedError{Field: "hash_lock", Err: errInvalidLength(len(b))}
	}
	copy(h[:], b)
	return h, nil
}

// Matches compares the digest of preImage with the lock in constant time.
func (h HashLock) Matches(preImage PreImage) bool {
	digest := crypto.Keccak256(preImage)
	return subtle.ConstantTimeCompare(digest, h[:]) == 1
}

func (h HashLock) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h HashLock) String() string {
	return h.Hex()
}

func (h HashLock) Bytes() []byte {
	return h[:]
}

func (p PreImage) Hex() string {
	return "0x" + hex.EncodeToString(p)
}
