// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package signer

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	secp256k1N     = crypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// Signer produces recoverable secp256k1 signatures over 32 byte digests.
// Implementations must be safe for concurrent use.
type Signer interface {
	Sign(ctx context.Context, digest []byte) (*Signature, error)
	PublicKey(ctx context.Context) (*ecdsa.PublicKey, error)
}

type Signature struct {
	R [32]byte
	S [32]byte
	// V is the recovery id (0 or 1).
	V byte
}

// SignatureFromBytes parses a 65 byte r || s || v signature.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != crypto.SignatureLength {
		return nil, fmt.Errorf("invalid signature length %d", len(b))
	}

	sig := &Signature{V: b[64]}
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:64])
	return sig, nil
}

// NewSignature builds a low-S signature from its components, flipping the
// recovery id when S had to be normalized.
func NewSignature(r, s *big.Int, v byte) *Signature {
	if s.Cmp(secp256k1HalfN) > 0 {
		s = new(big.Int).Sub(secp256k1N, s)
		v ^= 1
	}

	sig := &Signature{V: v}
	r.FillBytes(sig.R[:])
	s.FillBytes(sig.S[:])
	return sig
}

// Bytes returns the 65 byte r || s || v encoding.
func (s *Signature) Bytes() []byte {
	b := make([]byte, 0, crypto.SignatureLength)
	b = append(b, s.R[:]...)
	b = append(b, s.S[:]...)
	return append(b, s.V)
}

// Compact returns the 64 byte r || s encoding.
func (s *Signature) Compact() []byte {
	return s.Bytes()[:64]
}

// Verify checks that the signature over digest recovers to pub.
func (s *Signature) Verify(digest []byte, pub *ecdsa.PublicKey) bool {
	recovered, err := crypto.SigToPub(digest, s.Bytes())
	if err != nil {
		return false
	}
	return bytes.Equal(crypto.FromECDSAPub(recovered), crypto.FromECDSAPub(pub))
}

// Address returns the EVM address of signer.
func Address(ctx context.Context, signer Signer) ([]byte, error) {
	pub, err := signer.PublicKey(ctx)
	if err != nil {
		return nil, err
	}
	return crypto.PubkeyToAddress(*pub).Bytes(), nil
}
