// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/signer"
)

type Node interface {
	LedgerInfo(ctx context.Context) (*LedgerInfo, error)
	SequenceNumber(ctx context.Context, address AccountAddress) (uint64, error)
	View(ctx context.Context, payload *aptos.ViewPayload) ([]any, error)
	SubmitTransaction(ctx context.Context, signed *aptos.SignedTransaction) (string, error)
	TransactionByHash(ctx context.Context, hash string) (*Transaction, error)
	EventsByHandle(ctx context.Context, address AccountAddress, handle string, field string, start uint64, limit int) ([]Event, error)
	EventCount(ctx context.Context, address AccountAddress, handle string, field string) (uint64, error)
}

type PreparedTransaction struct {
	raw    *aptos.RawTransaction
	digest []byte
}

func (t *PreparedTransaction) Digest() []byte {
	return t.digest
}

// Backend builds entry function transactions signed with a single
// secp256k1 key.
type Backend struct {
	node         Node
	signer       signer.Signer
	sender       AccountAddress
	chainID      uint8
	maxGasAmount uint64
	gasUnitPrice uint64
	expiration   time.Duration

	sequenceLock sync.Mutex
	sequence     *uint64
}

func NewBackend(
	node Node,
	signer signer.Signer,
	sender AccountAddress,
	chainID uint8,
	maxGasAmount uint64,
	gasUnitPrice uint64,
	expiration time.Duration,
) *Backend {
	return &Backend{
		node:         node,
		signer:       signer,
		sender:       sender,
		chainID:      chainID,
		maxGasAmount: maxGasAmount,
		gasUnitPrice: gasUnitPrice,
		expiration:   expiration,
	}
}

func (b *Backend) Prepare(ctx context.Context, call *executor.Call) (executor.Transaction, error) {
	module, err := ParseAccountAddress(call.Contract)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	if !isIdentifier(call.Module) || !isIdentifier(call.Function) {
		return nil, fmt.Errorf("%w: invalid entry function %s::%s", bridge.ErrSerialization, call.Module, call.Function)
	}
	args, err := EncodeArgs(call.Args)
	if err != nil {
		return nil, err
	}

	info, err := b.node.LedgerInfo(ctx)
	if err != nil {
		return nil, err
	}
	sequence, err := b.nextSequence(ctx)
	if err != nil {
		return nil, err
	}

	raw := (&EntryFunctionTransaction{
		Sender:         b.sender,
		SequenceNumber: sequence,
		Module:         module,
		ModuleName:     call.Module,
		Function:       call.Function,
		Args:           args,
		MaxGasAmount:   b.maxGasAmount,
		GasUnitPrice:   b.gasUnitPrice,
		Expiration:     info.LedgerTimestamp/uint64(time.Second/time.Microsecond) + uint64(b.expiration.Seconds()),
		ChainID:        b.chainID,
	}).Raw()
	digest, err := SigningDigest(raw)
	if err != nil {
		return nil, err
	}
	return &PreparedTransaction{raw: raw, digest: digest}, nil
}

func (b *Backend) Submit(ctx context.Context, tx executor.Transaction, sig *signer.Signature) (string, error) {
	prepared, ok := tx.(*PreparedTransaction)
	if !ok {
		return "", fmt.Errorf("%w: unexpected transaction type %T", bridge.ErrSerialization, tx)
	}

	pub, err := b.signer.PublicKey(ctx)
	if err != nil {
		return "", err
	}
	signed, err := SignTransaction(prepared.raw, pub, sig)
	if err != nil {
		return "", err
	}

	hash, err := b.node.SubmitTransaction(ctx, signed)
	if err != nil {
		b.resetSequence()

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.VMErrorCode != nil && !strings.Contains(apiErr.Message, "SEQUENCE_NUMBER") {
			return "", &bridge.OnChainError{Reason: apiErr.Message}
		}
		return "", err
	}
	return hash, nil
}

func (b *Backend) Receipt(ctx context.Context, txHash string) (*executor.Receipt, error) {
	tx, err := b.node.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.Type == PendingTransaction {
		return nil, nil
	}

	r := &executor.Receipt{
		TxHash: txHash,
		Height: tx.Version,
		Raw:    tx,
	}
	if !tx.Success {
		r.Failed = true
		r.Reason = tx.VMStatus
	}
	return r, nil
}

func (b *Backend) Known(ctx context.Context, txHash string) (bool, error) {
	tx, err := b.node.TransactionByHash(ctx, txHash)
	if err != nil {
		return false, err
	}
	return tx != nil, nil
}

// LatestHeight returns the latest ledger version.
func (b *Backend) LatestHeight(ctx context.Context) (uint64, error) {
	info, err := b.node.LedgerInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.LedgerVersion, nil
}

func (b *Backend) nextSequence(ctx context.Context) (uint64, error) {
	b.sequenceLock.Lock()
	defer b.sequenceLock.Unlock()

	sequence, err := b.node.SequenceNumber(ctx, b.sender)
	if err != nil {
		return 0, err
	}
	if b.sequence != nil && *b.sequence > sequence {
		sequence = *b.sequence
	}

	next := sequence + 1
	b.sequence = &next
	return sequence, nil
}

func (b *Backend) resetSequence() {
	b.sequenceLock.Lock()
	defer b.sequenceLock.Unlock()

	b.sequence = nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
