// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains"
	"github.com/sprintertech/atomic-bridge/executor"
)

const (
	INITIATED_EVENT        = "BridgeTransferInitiatedEvent"
	INITIATED_EVENTS_FIELD = "bridge_transfer_initiated_events"
	INITIATED_PAGE_SIZE    = 100
)

// MovementChain is the chain adapter for Movement networks. It exposes the
// initiator and counterparty bridge modules as role views.
type MovementChain struct {
	name         string
	node         Node
	sender       AccountAddress
	executor     chains.Executor
	initiator    *Module
	counterparty *Module
	asset        bridge.AssetType

	log zerolog.Logger
}

func NewMovementChain(
	name string,
	node Node,
	sender AccountAddress,
	executor chains.Executor,
	initiator *Module,
	counterparty *Module,
	asset bridge.AssetType,
) *MovementChain {
	return &MovementChain{
		name:         name,
		node:         node,
		sender:       sender,
		executor:     executor,
		initiator:    initiator,
		counterparty: counterparty,
		asset:        asset,
		log:          log.With().Str("chain", name).Logger(),
	}
}

func (c *MovementChain) Name() string {
	return c.name
}

func (c *MovementChain) Address(ctx context.Context) (bridge.Address, error) {
	return bridge.Address(c.sender[:]), nil
}

// Now returns the ledger timestamp in seconds.
func (c *MovementChain) Now(ctx context.Context) (uint64, error) {
	info, err := c.node.LedgerInfo(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(info.LedgerTimestamp) / uint64(time.Second/time.Microsecond), nil
}

func (c *MovementChain) Initiator() bridge.InitiatorContract {
	return &initiatorRole{chain: c}
}

func (c *MovementChain) Counterparty() bridge.CounterpartyContract {
	return &counterpartyRole{chain: c}
}

func (c *MovementChain) call(module *Module, op bridge.Operation, key [32]byte, function string, args ...executor.Arg) *executor.Call {
	return &executor.Call{
		Key:       executor.SubmissionKey(key, op),
		Operation: op,
		Contract:  module.Address.Hex(),
		Module:    module.Name,
		Function:  function,
		Args:      args,
	}
}

func errNoModule(name string) error {
	return fmt.Errorf("%w: no %s module configured", bridge.ErrFunctionView, name)
}

type initiatorRole struct {
	chain *MovementChain
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
		return fail(errNoModule(INITIATOR_MODULE))
	}
	if err := chains.CheckAsset(c.name, c.asset, amount); err != nil {
		return fail(err)
	}
	if !bridge.Address(c.sender[:]).Equal(initiator) {
		return fail(&bridge.ConversionFailedError{Field: "initiator", Err: fmt.Errorf("%s is not the signing account %s", initiator, c.sender.Hex())})
	}
	now, err := c.Now(ctx)
	if err != nil {
		return fail(err)
	}
	if err := bridge.CheckNewLock(timeLock, now); err != nil {
		return fail(err)
	}

	handle := c.initiator.EventsResource(INITIATOR_EVENTS)
	start, err := c.node.EventCount(ctx, c.initiator.Address, handle, INITIATED_EVENTS_FIELD)
	if err != nil {
		return fail(err)
	}
	find := func(ctx context.Context) (*bridge.TransferID, error) {
		return r.findInitiated(ctx, start, recipient, hashLock, timeLock, amount.Value)
	}

	var found *bridge.TransferID
	call := c.call(c.initiator, bridge.OpInitiate, hashLock, "initiate_bridge_transfer",
		executor.Bytes(recipient),
		executor.Bytes(hashLock[:]),
		executor.U64(uint64(timeLock)),
		executor.U64(amount.Value),
	)
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

// findInitiated pages the initiated events emitted from sequence number
// start for a transfer of the sender with exactly these parameters.
func (r *initiatorRole) findInitiated(
	ctx context.Context,
	start uint64,
	recipient bridge.Address,
	hashLock bridge.HashLock,
	timeLock bridge.TimeLock,
	amount uint64,
) (*bridge.TransferID, error) {
	c := r.chain
	handle := c.initiator.EventsResource(INITIATOR_EVENTS)
	for {
		page, err := c.node.EventsByHandle(ctx, c.initiator.Address, handle, INITIATED_EVENTS_FIELD, start, INITIATED_PAGE_SIZE)
		if err != nil {
			return nil, err
		}
		for _, e := range page {
			event, err := parseEventData(bridge.EventInitiated, c.asset, e)
			if err != nil {
				c.log.Warn().Err(err).Msgf("Skipping invalid initiated event %d", e.SequenceNumber)
				continue
			}
			if event.Initiator.Equal(bridge.Address(c.sender[:])) &&
				event.Recipient.Equal(recipient) &&
				event.HashLock == hashLock &&
				event.TimeLock == timeLock &&
				event.Amount.Value == amount {
				id := event.TransferID
				return &id, nil
			}
		}
		if len(page) < INITIATED_PAGE_SIZE {
			return nil, nil
		}
		start += uint64(len(page))
	}
}

// initiatedTransferID reads the id of an executed initiate call from the
// events of its transaction, or from the matching initiated event when the
// executor found the call already applied.
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

	tx, ok := receipt.Raw.(*Transaction)
	if !ok && receipt.TxHash != "" {
		var err error
		tx, err = c.node.TransactionByHash(ctx, receipt.TxHash)
		if err != nil {
			return bridge.TransferID{}, err
		}
		if tx == nil {
			return bridge.TransferID{}, fmt.Errorf("%w: transaction %s not found", bridge.ErrCall, receipt.TxHash)
		}
	}
	if tx != nil {
		return initiatedTransferID(tx)
	}

	id, err := find(ctx)
	if err != nil {
		return bridge.TransferID{}, err
	}
	if id == nil {
		return bridge.TransferID{}, fmt.Errorf("%w: no %s event found", bridge.ErrCall, INITIATED_EVENT)
	}
	return *id, nil
}

func (r *initiatorRole) CompleteBridgeTransfer(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage) error {
	if r.chain.initiator == nil {
		return bridge.NewRoleError(bridge.OpComplete, errNoModule(INITIATOR_MODULE))
	}
	call := r.chain.call(r.chain.initiator, bridge.OpComplete, id, "complete_bridge_transfer",
		executor.Bytes(id[:]),
		executor.Bytes(preImage),
	)
	return r.apply(ctx, id, preImage, call)
}

func (r *initiatorRole) RefundBridgeTransfer(ctx context.Context, id bridge.TransferID) error {
	if r.chain.initiator == nil {
		return bridge.NewRoleError(bridge.OpRefund, errNoModule(INITIATOR_MODULE))
	}
	call := r.chain.call(r.chain.initiator, bridge.OpRefund, id, "refund_bridge_transfer", executor.Bytes(id[:]))
	return r.apply(ctx, id, nil, call)
}

func (r *initiatorRole) apply(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage, call *executor.Call) error {
	c := r.chain
	return chains.Apply(ctx, c.log, c.executor, c.Now, r.GetBridgeTransferDetails, bridge.SideInitiator, id, preImage, call)
}

func (r *initiatorRole) GetBridgeTransferDetails(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error) {
	if r.chain.initiator == nil {
		return nil, errNoModule(INITIATOR_MODULE)
	}
	return r.chain.initiator.BridgeTransfer(ctx, r.chain.node, id)
}

type counterpartyRole struct {
	chain *MovementChain
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
		return fail(errNoModule(COUNTERPARTY_MODULE))
	}
	if err := chains.CheckAsset(c.name, c.asset, amount); err != nil {
		return fail(err)
	}
	if len(recipient) != ADDRESS_LENGTH {
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

	call := c.call(c.counterparty, bridge.OpLock, id, "lock_bridge_transfer",
		executor.Bytes(initiator),
		executor.Bytes(id[:]),
		executor.Bytes(hashLock[:]),
		executor.U64(uint64(timeLock)),
		executor.Address(recipient),
		executor.U64(amount.Value),
	)
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
		return bridge.NewRoleError(bridge.OpComplete, errNoModule(COUNTERPARTY_MODULE))
	}
	call := r.chain.call(r.chain.counterparty, bridge.OpComplete, id, "complete_bridge_transfer",
		executor.Bytes(id[:]),
		executor.Bytes(preImage),
	)
	return r.apply(ctx, id, preImage, call)
}

func (r *counterpartyRole) AbortBridgeTransfer(ctx context.Context, id bridge.TransferID) error {
	if r.chain.counterparty == nil {
		return bridge.NewRoleError(bridge.OpAbort, errNoModule(COUNTERPARTY_MODULE))
	}
	call := r.chain.call(r.chain.counterparty, bridge.OpAbort, id, "abort_bridge_transfer", executor.Bytes(id[:]))
	return r.apply(ctx, id, nil, call)
}

func (r *counterpartyRole) apply(ctx context.Context, id bridge.TransferID, preImage bridge.PreImage, call *executor.Call) error {
	c := r.chain
	return chains.Apply(ctx, c.log, c.executor, c.Now, r.GetBridgeTransferDetails, bridge.SideCounterparty, id, preImage, call)
}

func (r *counterpartyRole) GetBridgeTransferDetails(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error) {
	if r.chain.counterparty == nil {
		return nil, errNoModule(COUNTERPARTY_MODULE)
	}
	return r.chain.counterparty.BridgeTransfer(ctx, r.chain.node, id)
}

func initiatedTransferID(tx *Transaction) (bridge.TransferID, error) {
	for _, e := range tx.Events {
		if !strings.HasSuffix(e.Type, fmt.Sprintf("::%s::%s", INITIATOR_MODULE, INITIATED_EVENT)) {
			continue
		}

		var data struct {
			BridgeTransferID string `json:"bridge_transfer_id"`
		}
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return bridge.TransferID{}, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
		}
		return bridge.ParseTransferID(data.BridgeTransferID)
	}
	return bridge.TransferID{}, fmt.Errorf("%w: no %s event in %s", bridge.ErrSerialization, INITIATED_EVENT, tx.Hash)
}
