// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/signer"
)

const (
	GAS_MULTIPLIER_NUMERATOR   = 12
	GAS_MULTIPLIER_DENOMINATOR = 10
)

type Transaction struct {
	tx     *types.Transaction
	signer types.Signer
}

func (t *Transaction) Digest() []byte {
	return t.signer.Hash(t.tx).Bytes()
}

// Backend builds EIP-1559 transactions for the bridge contracts.
type Backend struct {
	client    ChainClient
	signer    signer.Signer
	chainID   *big.Int
	txSigner  types.Signer
	contracts map[common.Address]abi.ABI
	gasLimit  uint64

	nonceLock sync.Mutex
	nonce     *uint64
}

func NewBackend(
	client ChainClient,
	signer signer.Signer,
	chainID *big.Int,
	contracts map[common.Address]abi.ABI,
	gasLimit uint64,
) *Backend {
	return &Backend{
		client:    client,
		signer:    signer,
		chainID:   chainID,
		txSigner:  types.LatestSignerForChainID(chainID),
		contracts: contracts,
		gasLimit:  gasLimit,
	}
}

func (b *Backend) Prepare(ctx context.Context, call *executor.Call) (executor.Transaction, error) {
	to := common.HexToAddress(call.Contract)
	contractABI, ok := b.contracts[to]
	if !ok {
		return nil, fmt.Errorf("%w: unknown contract %s", bridge.ErrSerialization, call.Contract)
	}

	args, err := abiArgs(call.Args)
	if err != nil {
		return nil, err
	}
	data, err := contractABI.Pack(call.Function, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}

	from, err := b.from(ctx)
	if err != nil {
		return nil, err
	}

	tip, err := b.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}
	head, err := b.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	value := new(big.Int).SetUint64(call.Value)
	gas, err := b.client.EstimateGas(ctx, ethereum.CallMsg{
		From:      from,
		To:        &to,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Value:     value,
		Data:      data,
	})
	if err != nil {
		if strings.Contains(err.Error(), "execution reverted") {
			return nil, &bridge.OnChainError{Reason: err.Error()}
		}
		return nil, err
	}
	gas = gas * GAS_MULTIPLIER_NUMERATOR / GAS_MULTIPLIER_DENOMINATOR
	if b.gasLimit != 0 && gas > b.gasLimit {
		gas = b.gasLimit
	}

	nonce, err := b.nextNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   b.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	return &Transaction{tx: tx, signer: b.txSigner}, nil
}

func (b *Backend) Submit(ctx context.Context, tx executor.Transaction, sig *signer.Signature) (string, error) {
	evmTx, ok := tx.(*Transaction)
	if !ok {
		return "", fmt.Errorf("%w: unexpected transaction type %T", bridge.ErrSerialization, tx)
	}

	signed, err := evmTx.tx.WithSignature(b.txSigner, sig.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}

	err = b.client.SendTransaction(ctx, signed)
	if err != nil && !strings.Contains(err.Error(), "already known") {
		b.resetNonce()
		return "", err
	}
	return signed.Hash().Hex(), nil
}

func (b *Backend) Receipt(ctx context.Context, txHash string) (*executor.Receipt, error) {
	receipt, err := b.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r := &executor.Receipt{
		TxHash: txHash,
		Height: receipt.BlockNumber.Uint64(),
		Raw:    receipt,
	}
	if receipt.Status == types.ReceiptStatusFailed {
		r.Failed = true
		r.Reason = fmt.Sprintf("transaction %s reverted", txHash)
	}
	return r, nil
}

func (b *Backend) Known(ctx context.Context, txHash string) (bool, error) {
	_, _, err := b.client.TransactionByHash(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) LatestHeight(ctx context.Context) (uint64, error) {
	return b.client.BlockNumber(ctx)
}

func (b *Backend) from(ctx context.Context) (common.Address, error) {
	pub, err := b.signer.PublicKey(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// nextNonce hands out consecutive nonces to concurrent submissions from the
// same account.
func (b *Backend) nextNonce(ctx context.Context, from common.Address) (uint64, error) {
	b.nonceLock.Lock()
	defer b.nonceLock.Unlock()

	pending, err := b.client.PendingNonceAt(ctx, from)
	if err != nil {
		return 0, err
	}
	if b.nonce != nil && *b.nonce > pending {
		pending = *b.nonce
	}

	next := pending + 1
	b.nonce = &next
	return pending, nil
}

func (b *Backend) resetNonce() {
	b.nonceLock.Lock()
	defer b.nonceLock.Unlock()

	b.nonce = nil
}

func abiArgs(args []executor.Arg) ([]interface{}, error) {
	out := make([]interface{}, len(args))
	for i, arg := range args {
		switch arg.Kind {
		case executor.ArgU64:
			out[i] = new(big.Int).SetUint64(arg.U64)
		case executor.ArgHash32:
			if len(arg.Bytes) != 32 {
				return nil, &bridge.ConversionFailedError{Field: fmt.Sprintf("arg %d", i), Err: fmt.Errorf("expected 32 bytes, got %d", len(arg.Bytes))}
			}
			out[i] = [32]byte(arg.Bytes)
		case executor.ArgAddress:
			if len(arg.Bytes) != common.AddressLength {
				return nil, &bridge.ConversionFailedError{Field: fmt.Sprintf("arg %d", i), Err: fmt.Errorf("invalid address length %d", len(arg.Bytes))}
			}
			out[i] = common.BytesToAddress(arg.Bytes)
		case executor.ArgBytes:
			out[i] = arg.Bytes
		default:
			return nil, &bridge.ConversionFailedError{Field: fmt.Sprintf("arg %d", i), Err: fmt.Errorf("unknown kind %d", arg.Kind)}
		}
	}
	return out, nil
}
