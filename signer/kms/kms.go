// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package kms

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/aws/smithy-go"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sprintertech/atomic-bridge/signer"
)

type Client interface {
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
}

// Cryptography describes the key a remote signer must hold.
type Cryptography struct {
	KeySpec          types.KeySpec
	KeyUsage         types.KeyUsageType
	SigningAlgorithm types.SigningAlgorithmSpec
}

var Secp256k1 = Cryptography{
	KeySpec:          types.KeySpecEccSecgP256k1,
	KeyUsage:         types.KeyUsageTypeSignVerify,
	SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
}

type ecdsaSignature struct {
	R, S *big.Int
}

type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// Signer signs digests with a key held in AWS KMS.
type Signer struct {
	client       Client
	keyID        string
	cryptography Cryptography
	limiter      *rate.Limiter

	publicKey *ecdsa.PublicKey
	pubBytes  []byte
}

// NewClient loads the default AWS credential chain for region.
func NewClient(ctx context.Context, region string) (*kms.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return kms.NewFromConfig(cfg), nil
}

// NewSigner fetches the public key of keyID and verifies that the remote key
// matches cryptography. A nil limiter disables request pacing.
func NewSigner(
	ctx context.Context,
	client Client,
	keyID string,
	cryptography Cryptography,
	limiter *rate.Limiter,
) (*Signer, error) {
	s := &Signer{
		client:       client,
		keyID:        keyID,
		cryptography: cryptography,
		limiter:      limiter,
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	out, err := client.GetPublicKey(ctx, &kms.GetPublicKeyInput{
		KeyId: aws.String(keyID),
	})
	if err != nil {
		return nil, classify(err)
	}

	if out.KeySpec != cryptography.KeySpec {
		return nil, signer.NewError(signer.Invalid, fmt.Errorf("key %s has spec %s, expected %s", keyID, out.KeySpec, cryptography.KeySpec))
	}
	if out.KeyUsage != cryptography.KeyUsage {
		return nil, signer.NewError(signer.Invalid, fmt.Errorf("key %s has usage %s, expected %s", keyID, out.KeyUsage, cryptography.KeyUsage))
	}
	if len(out.SigningAlgorithms) > 0 && !slices.Contains(out.SigningAlgorithms, cryptography.SigningAlgorithm) {
		return nil, signer.NewError(signer.Invalid, fmt.Errorf("key %s does not support %s", keyID, cryptography.SigningAlgorithm))
	}

	pub, err := parsePublicKey(out.PublicKey)
	if err != nil {
		return nil, signer.NewError(signer.Invalid, err)
	}
	s.publicKey = pub
	s.pubBytes = crypto.FromECDSAPub(pub)

	log.Info().Str("key", keyID).Msgf("Loaded KMS signer %s", crypto.PubkeyToAddress(*pub).Hex())
	return s, nil
}

func (s *Signer) PublicKey(ctx context.Context) (*ecdsa.PublicKey, error) {
	return s.publicKey, nil
}

func (s *Signer) Sign(ctx context.Context, digest []byte) (*signer.Signature, error) {
	if len(digest) != crypto.DigestLength {
		return nil, signer.NewError(signer.Invalid, fmt.Errorf("invalid digest length %d", len(digest)))
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	out, err := s.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(s.keyID),
		Message:          digest,
		MessageType:      types.MessageTypeDigest,
		SigningAlgorithm: s.cryptography.SigningAlgorithm,
	})
	if err != nil {
		return nil, classify(err)
	}

	var der ecdsaSignature
	rest, err := asn1.Unmarshal(out.Signature, &der)
	if err != nil {
		return nil, signer.NewError(signer.Invalid, fmt.Errorf("invalid DER signature: %w", err))
	}
	if len(rest) != 0 || der.R == nil || der.S == nil {
		return nil, signer.NewError(signer.Invalid, fmt.Errorf("invalid DER signature"))
	}

	return s.recover(digest, der.R, der.S)
}

// recover finds the recovery id for which the signature recovers to the
// key's public key.
func (s *Signer) recover(digest []byte, r, sValue *big.Int) (*signer.Signature, error) {
	for v := byte(0); v < 2; v++ {
		sig := signer.NewSignature(r, sValue, v)
		pub, err := crypto.Ecrecover(digest, sig.Bytes())
		if err != nil {
			continue
		}
		if bytes.Equal(pub, s.pubBytes) {
			return sig, nil
		}
	}
	return nil, signer.NewError(signer.Invalid, fmt.Errorf("signature does not recover to key %s", s.keyID))
}

func (s *Signer) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// no token frees up before the deadline
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return nil
}

func parsePublicKey(der []byte) (*ecdsa.PublicKey, error) {
	var info subjectPublicKeyInfo
	_, err := asn1.Unmarshal(der, &info)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return crypto.UnmarshalPubkey(info.PublicKey.Bytes)
}

// classify maps KMS API failures onto signer error kinds.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return signer.NewError(signer.Unavailable, err)
	}

	switch apiErr.ErrorCode() {
	case "AccessDeniedException", "UnrecognizedClientException", "InvalidSignatureException",
		"ExpiredTokenException", "DisabledException", "KMSInvalidStateException", "NotFoundException":
		return signer.NewError(signer.Unauthorized, err)
	case "ThrottlingException", "LimitExceededException", "TooManyRequestsException":
		return signer.NewError(signer.Throttled, err)
	case "InvalidKeyUsageException", "ValidationException", "IncorrectKeyException":
		return signer.NewError(signer.Invalid, err)
	default:
		return signer.NewError(signer.Unavailable, err)
	}
}
