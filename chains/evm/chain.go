// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/contracts"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/signer"
)

type Executor interface {
	Execute(ctx context.Context, call *executor.Call) (*executor.Receipt, error)
}

// EVMChain is the chain adapter for EVM networks. It exposes the initiator
// and counterparty bridge contracts as role views.
type EVMChain struct {
	name         string
	client       ChainClient
	signer       signer.Signer
	executor     Executor
	initiator    *contracts.InitiatorContract
	counterparty *contracts.CounterpartyContract
	asset        bridge.AssetType

	log zerolog.Logger
}

func NewEVMChain(
	name string,
	client ChainClient,
	signer signer.Signer,
	executor Executor,
	initiator *contracts.InitiatorContract,
	counterparty *contracts.CounterpartyContract,
	asset bridge.AssetType,
) *EVMChain {
	return &EVMChain{
		name:         name,
		client:       client,
		signer:       signer,
		executor:     executor,
		initiator:    initiator,
		counterparty: counterparty,
		asset:        asset,
		log:          log.With().Str("chain", name).Logger(),
	}
}

func (c *EVMChain) Name() string {
	return c.name
}

func (c *EVMChain) Address(ctx context.Context) (bridge.Address, error) {
	address, err := signer.Address(ctx, c.signer)
	if err != nil {
		return nil, err
	}
	return bridge.Address(address), nil
}

// Now returns the timestamp of the latest block.
func (c *EVMChain) Now(ctx context.Context) (uint64, error) {
	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	return head.Time, nil
}

func (c *EVMChain) Initiator() bridge.InitiatorContract {
	return &initiatorRole{chain: c}
}

func (c *EVMChain) Counterparty() bridge.CounterpartyContract {
	return &counterpartyRole{chain: c}
}

func errNoContract(role string) error {
	return fmt.Errorf("%w: no %s contract configured", bridge.ErrFunctionView, role)
}

type initiatorRole struct {
	chain *EVMChain
}

func (r *initiatorRole) InitiateBridgeTransfer(
	ctx context.Context,
	initiator bridge.Address,
	recipient bridge.Address,
	hashLock bridge.HashLock,
	timeLock bridge.TimeLock,
	amount bridge.Amount,
) (bridge.TransferID, error) {
	c := r.chain
	fail := func(err error) (bridge.TransferID, error) {
		return bridge.TransferID{}, bridge.NewRoleError(bridge.OpInitiate, err)
	}

	if c.initiator == nil {
		return fail(errNoContract("initiator"))
	}
	if err := chains.CheckAsset(c.name, c.asset, amount); err != nil {
		return fail(err)
	}
	sender, err := c.Address(ctx)
	if err != nil {
		return fail(err)
	}
	if !sender.Equal(initiator) {
		return fail(&bridge.ConversionFailedError{Field: "initiator", Err: fmt.Errorf("%s is not the signing account %s", initiator, sender)})
	}
	recipient32, err := contracts.PadBytes32(recipient, "recipient")
	if err != nil {
		return fail(err)
	}
	now, err := c.Now(ctx)
	if err != nil {
		return fail(err)
	}
	if err := bridge.CheckNewLock(timeLock, now); err != nil {
		return fail(err)
	}

	from, err := c.client.BlockNumber(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", bridge.ErrCall, err))
	}
	originator := common.BytesToAddress(sender)
	find := func(ctx context.Context) (*bridge.TransferID, error) {
		return c.initiator.FindInitiated(ctx, c.client, from, originator, recipient32, hashLock, timeLock, amount.Value)
	}

	var found *bridge.TransferID
	call := c.initiator.InitiateCall(recipient32, hashLock, timeLock, amount)
	call.Applied = func(ctx context.Context) (bool, error) {
		id, err := find(ctx)
		if err != nil {
			return false, err
		}
		found = id
		return id != nil, nil
	}
	receipt, err := c.executor.Execute(ctx, call)
	if err != nil {
		return fail(err)
	}

	id, err := r.initiatedTransferID(ctx, receipt, found, find)
	if err != nil {
		return fail(err)
	}

	c.log.Info().Msgf("Initiated bridge transfer %s", id)
	return id, nil
}

// initiatedTransferID reads the id of an executed initiate call from its
// receipt, or from the matching log when the executor found the call
// already applied.
func (r *initiatorRole) initiatedTransferID(
	ctx context.Context,
	receipt *executor.Receipt,
	found *bridge.TransferID,
	find func(ctx context.Context) (*bridge.TransferID, error),
) (bridge.TransferID, error) {
	c := r.chain
	if found != nil {
		return *found, nil
	}

	ethReceipt, ok := receipt.Raw.(*types.Receipt)
	if !ok && receipt.TxHash != "" {
		var err error
		ethReceipt, err = c.client.TransactionReceipt(ctx, common.HexToHash(receipt.TxHash))
		if err != nil {
			return bridge.TransferID{}, fmt.Errorf("%w: %w", bridge.ErrCall, err)
		}
	}
	if ethReceipt != nil {
		return c.initiator.InitiatedTransferID(ethReceipt)
	}

	id, err := find(ctx)
	if err != nil {
		return bridge.TransferID{}, err
	}
	if id == nil {
		return bridge.TransferID{}, fmt.Errorf("%w: no BridgeTransferInitiated log found", bridge.ErrCall)
	}
	return *id, nil
}

func (r *initiatorRole) CompleteBridgeTransfer(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage) error {
	if r.chain.initiator == nil {
		return bridge.NewRoleError(bridge.OpComplete, errNoContract("initiator"))
	}
	p, err := chains.PreImage32(preImage)
	if err != nil {
		return bridge.NewRoleError(bridge.OpComplete, err)
	}
	return r.apply(ctx, id, preImage, r.chain.initiator.CompleteCall(id, p))
}

func (r *initiatorRole) RefundBridgeTransfer(ctx context.Context, id bridge.TransferID) error {
	if r.chain.initiator == nil {
		return bridge.NewRoleError(bridge.OpRefund, errNoContract("initiator"))
	}
	return r.apply(ctx, id, nil, r.chain.initiator.RefundCall(id))
}

func (r *initiatorRole) apply(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage, call *executor.Call) error {
	c := r.chain
	return chains.Apply(ctx, c.log, c.executor, c.Now, r.GetBridgeTransferDetails, bridge.SideInitiator, id, preImage, call)
}

func (r *initiatorRole) GetBridgeTransferDetails(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error) {
	if r.chain.initiator == nil {
		return nil, errNoContract("initiator")
	}
	return r.chain.initiator.BridgeTransfer(ctx, id)
}

type counterpartyRole struct {
	chain *EVMChain
}

func (r *counterpartyRole) LockBridgeTransfer(
	ctx context.Context,
	id bridge.TransferID,
	hashLock bridge.HashLock,
	timeLock bridge.TimeLock,
	initiator bridge.Address,
	recipient bridge.Address,
	amount bridge.Amount,
) error {
	c := r.chain
	fail := func(err error) error {
		return bridge.NewRoleError(bridge.OpLock, err)
	}

	if c.counterparty == nil {
		return fail(errNoContract("counterparty"))
	}
	if err := chains.CheckAsset(c.name, c.asset, amount); err != nil {
		return fail(err)
	}
	originator, err := contracts.PadBytes32(initiator, "initiator")
	if err != nil {
		return fail(err)
	}
	if len(recipient) != common.AddressLength {
		return fail(&bridge.ConversionFailedError{Field: "recipient", Err: fmt.Errorf("invalid address length %d", len(recipient))})
	}

	existing, err := r.GetBridgeTransferDetails(ctx, id)
	if err != nil {
		return fail(err)
	}
	locked, err := chains.ExistingLock(existing, id, hashLock)
	if err != nil {
		return fail(err)
	}
	if locked {
		c.log.Debug().Msgf("Transfer %s already locked", id)
		return nil
	}

	now, err := c.Now(ctx)
	if err != nil {
		return fail(err)
	}
	if err := bridge.CheckNewLock(timeLock, now); err != nil {
		return fail(err)
	}

	call := c.counterparty.LockCall(id, hashLock, timeLock, originator, common.BytesToAddress(recipient), amount)
	call.Applied = chains.LockedApplied(r.GetBridgeTransferDetails, id)
	_, err = c.executor.Execute(ctx, call)
	if err != nil {
		return fail(err)
	}

	c.log.Info().Msgf("Locked bridge transfer %s", id)
	return nil
}

func (r *counterpartyRole) CompleteBridgeTransfer(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage) error {
	if r.chain.counterparty == nil {
		return bridge.NewRoleError(bridge.OpComplete, errNoContract("counterparty"))
	}
	p, err := chains.PreImage32(preImage)
	if err != nil {
		return bridge.NewRoleError(bridge.OpComplete, err)
	}
	return r.apply(ctx, id, preImage, r.chain.counterparty.CompleteCall(id, p))
}

func (r *counterpartyRole) AbortBridgeTransfer(ctx context.Context, id bridge.TransferID) error {
	if r.chain.counterparty == nil {
		return bridge.NewRoleError(bridge.OpAbort, errNoContract("counterparty"))
	}
	return r.apply(ctx, id, nil, r.chain.counterparty.AbortCall(id))
}

func (r *counterpartyRole) apply(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage, call *executor.Call) error {
	c := r.chain
	return chains.Apply(ctx, c.log, c.executor, c.Now, r.GetBridgeTransferDetails, bridge.SideCounterparty, id, preImage, call)
}

func (r *counterpartyRole) GetBridgeTransferDetails(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error) {
	if r.chain.counterparty == nil {
		return nil, errNoContract("counterparty")
	}
	return r.chain.counterparty.BridgeTransfer(ctx, id)
}
