// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
)

// LocalSigner signs with an in-process secp256k1 key. Signing takes a read
// lock and rotation takes the write lock, so a rotation waits for in-flight
// signatures and blocks new ones until it finishes.
type LocalSigner struct {
	mu  sync.RWMutex
	key *ecdsa.PrivateKey
}

func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{key: key}
}

func NewLocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, NewError(Invalid, fmt.Errorf("invalid private key: %w", err))
	}
	return NewLocalSigner(key), nil
}

func GenerateLocalSigner() (*LocalSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return NewLocalSigner(key), nil
}

func (s *LocalSigner) Sign(ctx context.Context, digest []byte) (*Signature, error) {
	if len(digest) != crypto.DigestLength {
		return nil, NewError(Invalid, fmt.Errorf("invalid digest length %d", len(digest)))
	}
	if err := ctx.Err(); err != nil {
		return nil, NewError(Unavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, NewError(Invalid, err)
	}
	return SignatureFromBytes(sig)
}

func (s *LocalSigner) PublicKey(ctx context.Context) (*ecdsa.PublicKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &s.key.PublicKey, nil
}

// Rotate replaces the signing key.
func (s *LocalSigner) Rotate(key *ecdsa.PrivateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = key
}

// RotateWith holds the exclusive rotation window while fn derives the next
// key from the current one. The key is kept when fn fails.
func (s *LocalSigner) RotateWith(ctx context.Context, fn func(ctx context.Context, current *ecdsa.PrivateKey) (*ecdsa.PrivateKey, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(ctx, s.key)
	if err != nil {
		return err
	}
	s.key = next
	return nil
}
