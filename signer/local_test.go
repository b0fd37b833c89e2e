// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package signer_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sprintertech/atomic-bridge/signer"
	"github.com/stretchr/testify/suite"
)

type LocalSignerTestSuite struct {
	suite.Suite

	signer *signer.LocalSigner
	digest []byte
}

func TestRunLocalSignerTestSuite(t *testing.T) {
	suite.Run(t, new(LocalSignerTestSuite))
}

func (s *LocalSignerTestSuite) SetupTest() {
	var err error
	s.signer, err = signer.GenerateLocalSigner()
	s.Nil(err)
	s.digest = crypto.Keccak256([]byte("digest"))
}

func (s *LocalSignerTestSuite) Test_Sign_InvalidDigest() {
	_, err := s.signer.Sign(context.Background(), []byte{1, 2, 3})

	var sErr *signer.Error
	s.ErrorAs(err, &sErr)
	s.Equal(signer.Invalid, sErr.Kind)
	s.False(signer.IsRetryable(err))
}

func (s *LocalSignerTestSuite) Test_Sign_Recoverable() {
	sig, err := s.signer.Sign(context.Background(), s.digest)
	s.Nil(err)

	pub, err := s.signer.PublicKey(context.Background())
	s.Nil(err)
	s.True(sig.Verify(s.digest, pub))
	s.Len(sig.Bytes(), 65)
	s.Len(sig.Compact(), 64)
}

func (s *LocalSignerTestSuite) Test_NewLocalSignerFromHex_Invalid() {
	_, err := signer.NewLocalSignerFromHex("0xzz")

	s.NotNil(err)
}

func (s *LocalSignerTestSuite) Test_NewLocalSignerFromHex_Valid() {
	key, _ := crypto.GenerateKey()

	localSigner, err := signer.NewLocalSignerFromHex(hexutil.Encode(crypto.FromECDSA(key)))
	s.Nil(err)

	address, err := signer.Address(context.Background(), localSigner)
	s.Nil(err)
	s.Equal(crypto.PubkeyToAddress(key.PublicKey).Bytes(), address)
}

func (s *LocalSignerTestSuite) Test_RotateWith_BlocksSigning() {
	next, _ := crypto.GenerateKey()
	entered := make(chan struct{})
	release := make(chan struct{})
	rotated := make(chan error)

	go func() {
		rotated <- s.signer.RotateWith(context.Background(), func(ctx context.Context, current *ecdsa.PrivateKey) (*ecdsa.PrivateKey, error) {
			close(entered)
			<-release
			return next, nil
		})
	}()
	<-entered

	signed := make(chan *signer.Signature)
	go func() {
		sig, _ := s.signer.Sign(context.Background(), s.digest)
		signed <- sig
	}()

	select {
	case <-signed:
		s.Fail("signing completed during rotation")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	s.Nil(<-rotated)
	sig := <-signed
	s.True(sig.Verify(s.digest, &next.PublicKey))
}

func (s *LocalSignerTestSuite) Test_RotateWith_KeepsKeyOnError() {
	before, _ := s.signer.PublicKey(context.Background())

	err := s.signer.RotateWith(context.Background(), func(ctx context.Context, current *ecdsa.PrivateKey) (*ecdsa.PrivateKey, error) {
		return nil, errors.New("custody unavailable")
	})

	s.NotNil(err)
	after, _ := s.signer.PublicKey(context.Background())
	s.Equal(crypto.FromECDSAPub(before), crypto.FromECDSAPub(after))
}

func (s *LocalSignerTestSuite) Test_IsRetryable() {
	s.True(signer.IsRetryable(signer.NewError(signer.Throttled, errors.New("slow down"))))
	s.False(signer.IsRetryable(signer.NewError(signer.Unauthorized, errors.New("denied"))))
	s.False(signer.IsRetryable(errors.New("plain")))
}
