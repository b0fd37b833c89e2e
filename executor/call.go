// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package executor

import (
	"context"
	"fmt"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/signer"
)

type ArgKind uint8

const (
	ArgBytes ArgKind = iota + 1
	ArgU64
	ArgHash32
	ArgAddress
)

// Arg is a typed call argument. Each Backend encodes it into the chain's
// canonical form.
type Arg struct {
	Kind  ArgKind
	Bytes []byte
	U64   uint64
}

func Bytes(b []byte) Arg {
	return Arg{Kind: ArgBytes, Bytes: b}
}

func U64(v uint64) Arg {
	return Arg{Kind: ArgU64, U64: v}
}

func Hash32(h [32]byte) Arg {
	return Arg{Kind: ArgHash32, Bytes: h[:]}
}

func Address(a []byte) Arg {
	return Arg{Kind: ArgAddress, Bytes: a}
}

// Call is a single state-changing contract invocation.
type Call struct {
	// Key identifies the submission, see SubmissionKey.
	Key       string
	Operation bridge.Operation
	Contract  string
	// Module is the module name on chains that group entry functions in modules.
	Module   string
	Function string
	Args     []Arg
	// Value is the native amount attached to the call.
	Value uint64
	// Applied re-queries chain state and reports whether the effect of this
	// call is already visible. It may be nil.
	Applied func(ctx context.Context) (bool, error)
}

// SubmissionKey identifies an operation on a transfer. Submissions with the
// same key are deduplicated.
func SubmissionKey(id [32]byte, op bridge.Operation) string {
	return fmt.Sprintf("%s:%s", bridge.TransferID(id).Hex(), op)
}

// Transaction is an encoded, unsigned chain transaction.
type Transaction interface {
	// Digest is the 32 byte message the signer must sign.
	Digest() []byte
}

type Receipt struct {
	TxHash string
	Height uint64
	Failed bool
	Reason string
	// AlreadyApplied is set when no transaction was sent because the effect
	// was already on chain.
	AlreadyApplied bool
	// Raw is the chain-native receipt, when available.
	Raw interface{}
}

// Backend is the chain specific half of the executor.
type Backend interface {
	Prepare(ctx context.Context, call *Call) (Transaction, error)
	Submit(ctx context.Context, tx Transaction, sig *signer.Signature) (string, error)
	// Receipt returns nil without error while the transaction is not included.
	Receipt(ctx context.Context, txHash string) (*Receipt, error)
	// Known reports whether the node still knows txHash, pending or included.
	Known(ctx context.Context, txHash string) (bool, error)
	LatestHeight(ctx context.Context) (uint64, error)
}
