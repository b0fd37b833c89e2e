// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	aptoscrypto "github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/signer"
)

const ADDRESS_LENGTH = 32

type AccountAddress [ADDRESS_LENGTH]byte

// ParseAccountAddress parses a hex address, short forms like 0x1 included.
func ParseAccountAddress(s string) (AccountAddress, error) {
	address := aptos.AccountAddress{}
	err := address.ParseStringRelaxed(s)
	if err != nil {
		return AccountAddress{}, &bridge.ConversionFailedError{Field: "address", Err: err}
	}
	return AccountAddress(address), nil
}

func (a AccountAddress) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a AccountAddress) sdk() aptos.AccountAddress {
	return aptos.AccountAddress(a)
}

// singleKey wraps an uncompressed secp256k1 key as a single key account key.
func singleKey(pub *ecdsa.PublicKey) (*aptoscrypto.AnyPublicKey, error) {
	key := &aptoscrypto.Secp256k1PublicKey{}
	err := key.FromBytes(crypto.FromECDSAPub(pub))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	anyKey, err := aptoscrypto.ToAnyPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	return anyKey, nil
}

// SingleKeyAddress derives the account address authenticated by a single
// secp256k1 key.
func SingleKeyAddress(pub *ecdsa.PublicKey) (AccountAddress, error) {
	key, err := singleKey(pub)
	if err != nil {
		return AccountAddress{}, err
	}
	address := aptos.AccountAddress{}
	address.FromAuthKey(key.AuthKey())
	return AccountAddress(address), nil
}

// EntryFunctionTransaction is an unsigned entry function call of sender.
type EntryFunctionTransaction struct {
	Sender         AccountAddress
	SequenceNumber uint64
	Module         AccountAddress
	ModuleName     string
	Function       string
	Args           [][]byte
	MaxGasAmount   uint64
	GasUnitPrice   uint64
	Expiration     uint64
	ChainID        uint8
}

func (t *EntryFunctionTransaction) Raw() *aptos.RawTransaction {
	return &aptos.RawTransaction{
		Sender:         t.Sender.sdk(),
		SequenceNumber: t.SequenceNumber,
		Payload: aptos.TransactionPayload{
			Payload: &aptos.EntryFunction{
				Module: aptos.ModuleId{
					Address: t.Module.sdk(),
					Name:    t.ModuleName,
				},
				Function: t.Function,
				ArgTypes: []aptos.TypeTag{},
				Args:     t.Args,
			},
		},
		MaxGasAmount:               t.MaxGasAmount,
		GasUnitPrice:               t.GasUnitPrice,
		ExpirationTimestampSeconds: t.Expiration,
		ChainId:                    t.ChainID,
	}
}

// SigningDigest is the 32 byte digest a secp256k1 single key signs for raw.
func SigningDigest(raw *aptos.RawTransaction) ([]byte, error) {
	message, err := raw.SigningMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	digest := sha3.Sum256(message)
	return digest[:], nil
}

// SignTransaction attaches a single secp256k1 key authenticator to raw.
func SignTransaction(raw *aptos.RawTransaction, pub *ecdsa.PublicKey, sig *signer.Signature) (*aptos.SignedTransaction, error) {
	key, err := singleKey(pub)
	if err != nil {
		return nil, err
	}
	signature := &aptoscrypto.Secp256k1Signature{}
	err = signature.FromBytes(sig.Compact())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}

	signed, err := raw.SignedTransactionWithAuthenticator(&aptoscrypto.AccountAuthenticator{
		Variant: aptoscrypto.AccountAuthenticatorSingleSender,
		Auth: &aptoscrypto.SingleKeyAuthenticator{
			PubKey: key,
			Sig: &aptoscrypto.AnySignature{
				Variant:   aptoscrypto.AnySignatureVariantSecp256k1,
				Signature: signature,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	return signed, nil
}

// EncodeArgs BCS encodes entry function arguments. Byte arguments are
// vector<u8>, addresses are fixed 32 byte account addresses.
func EncodeArgs(args []executor.Arg) ([][]byte, error) {
	out := make([][]byte, len(args))
	for i, arg := range args {
		ser := &bcs.Serializer{}
		switch arg.Kind {
		case executor.ArgU64:
			ser.U64(arg.U64)
		case executor.ArgBytes, executor.ArgHash32:
			ser.WriteBytes(arg.Bytes)
		case executor.ArgAddress:
			if len(arg.Bytes) != ADDRESS_LENGTH {
				return nil, &bridge.ConversionFailedError{Field: fmt.Sprintf("arg %d", i), Err: fmt.Errorf("invalid address length %d", len(arg.Bytes))}
			}
			ser.FixedBytes(arg.Bytes)
		default:
			return nil, &bridge.ConversionFailedError{Field: fmt.Sprintf("arg %d", i), Err: fmt.Errorf("unknown kind %d", arg.Kind)}
		}
		if err := ser.Error(); err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
		}
		out[i] = ser.ToBytes()
	}
	return out, nil
}
