// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package transfer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sprintertech/atomic-bridge/app"
	"github.com/sprintertech/atomic-bridge/bridge"
)

var TransferCLI = &cobra.Command{
	Use:   "transfer",
	Short: "Drive a bridge transfer by hand",
}

var (
	initiateCMD = &cobra.Command{
		Use:   "initiate",
		Short: "Initiate a transfer on the initiator chain",
		RunE:  initiate,
	}
	completeCMD = &cobra.Command{
		Use:   "complete",
		Short: "Complete a transfer with its preimage",
		RunE:  complete,
	}
	refundCMD = &cobra.Command{
		Use:   "refund",
		Short: "Refund an expired transfer on the initiator chain",
		RunE:  refund,
	}
	abortCMD = &cobra.Command{
		Use:   "abort",
		Short: "Abort an expired lock on the counterparty chain",
		RunE:  abort,
	}
	detailsCMD = &cobra.Command{
		Use:   "details",
		Short: "Print the on-chain details of a transfer",
		RunE:  details,
	}
)

var (
	chainName  string
	role       string
	transferID string
	recipient  string
	amount     uint64
	preImage   string
	duration   uint64
)

const (
	RoleInitiator    = "initiator"
	RoleCounterparty = "counterparty"
)

func init() {
	TransferCLI.PersistentFlags().StringVar(&chainName, "chain", "", "name of the configured chain")
	_ = TransferCLI.MarkPersistentFlagRequired("chain")

	initiateCMD.Flags().StringVar(&recipient, "recipient", "", "hex encoded recipient on the counterparty chain")
	_ = initiateCMD.MarkFlagRequired("recipient")
	initiateCMD.Flags().Uint64Var(&amount, "amount", 0, "amount in the smallest unit of the chain asset")
	_ = initiateCMD.MarkFlagRequired("amount")
	initiateCMD.Flags().StringVar(&preImage, "preimage", "", "hex encoded preimage, random when empty")
	initiateCMD.Flags().Uint64Var(&duration, "duration", 3600, "seconds until the transfer can be refunded")

	for _, cmd := range []*cobra.Command{completeCMD, refundCMD, abortCMD, detailsCMD} {
		cmd.Flags().StringVar(&transferID, "transfer-id", "", "hex encoded transfer id")
		_ = cmd.MarkFlagRequired("transfer-id")
	}
	completeCMD.Flags().StringVar(&preImage, "preimage", "", "hex encoded preimage")
	_ = completeCMD.MarkFlagRequired("preimage")
	for _, cmd := range []*cobra.Command{completeCMD, detailsCMD} {
		cmd.Flags().StringVar(&role, "role", RoleInitiator, "role of the chain: initiator or counterparty")
	}

	TransferCLI.AddCommand(initiateCMD, completeCMD, refundCMD, abortCMD, detailsCMD)
}

func loadChain(ctx context.Context) (bridge.Chain, bridge.AssetType, func(), error) {
	configuration, err := app.LoadConfig(ctx)
	if err != nil {
		return nil, "", nil, err
	}
	app.ConfigureLogger(configuration.RelayerConfig.LogLevel, zerolog.ConsoleWriter{Out: os.Stderr})

	registry, err := app.NewRegistry(ctx, configuration, nil)
	if err != nil {
		return nil, "", nil, err
	}
	chain, err := registry.Chain(chainName)
	if err != nil {
		registry.Close()
		return nil, "", nil, err
	}
	return chain, registry.Assets[chainName], registry.Close, nil
}

func initiate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	chain, asset, closeChain, err := loadChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	to, err := bridge.ParseAddress(recipient)
	if err != nil {
		return err
	}
	secret, err := PreImageOrRandom(preImage)
	if err != nil {
		return err
	}
	initiator, err := chain.Address(ctx)
	if err != nil {
		return err
	}
	now, err := chain.Now(ctx)
	if err != nil {
		return err
	}

	id, err := chain.Initiator().InitiateBridgeTransfer(
		ctx,
		initiator,
		to,
		bridge.NewHashLock(secret),
		bridge.TimeLock(now+duration),
		bridge.NewAmount(asset, amount),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Transfer ID: %s\n", id)
	fmt.Printf("PreImage: %s\n", secret.Hex())
	fmt.Printf("TimeLock: %d\n", now+duration)
	return nil
}

func complete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := bridge.ParseTransferID(transferID)
	if err != nil {
		return err
	}
	secret, err := ParsePreImage(preImage)
	if err != nil {
		return err
	}
	r, err := ParseRole(role)
	if err != nil {
		return err
	}

	chain, _, closeChain, err := loadChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	if r == RoleCounterparty {
		err = chain.Counterparty().CompleteBridgeTransfer(ctx, id, secret)
	} else {
		err = chain.Initiator().CompleteBridgeTransfer(ctx, id, secret)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Completed transfer %s on %s\n", id, chainName)
	return nil
}

func refund(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := bridge.ParseTransferID(transferID)
	if err != nil {
		return err
	}

	chain, _, closeChain, err := loadChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	err = chain.Initiator().RefundBridgeTransfer(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Refunded transfer %s on %s\n", id, chainName)
	return nil
}

func abort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := bridge.ParseTransferID(transferID)
	if err != nil {
		return err
	}

	chain, _, closeChain, err := loadChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	err = chain.Counterparty().AbortBridgeTransfer(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Aborted transfer %s on %s\n", id, chainName)
	return nil
}

func details(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := bridge.ParseTransferID(transferID)
	if err != nil {
		return err
	}
	r, err := ParseRole(role)
	if err != nil {
		return err
	}

	chain, _, closeChain, err := loadChain(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	var d *bridge.TransferDetails
	if r == RoleCounterparty {
		d, err = chain.Counterparty().GetBridgeTransferDetails(ctx, id)
	} else {
		d, err = chain.Initiator().GetBridgeTransferDetails(ctx, id)
	}
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: %s", bridge.ErrTransferNotFound, id)
	}

	fmt.Print(FormatDetails(id, d))
	return nil
}

func ParseRole(s string) (string, error) {
	switch r := strings.ToLower(s); r {
	case RoleInitiator, RoleCounterparty:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %s", s)
	}
}

func ParsePreImage(s string) (bridge.PreImage, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, &bridge.ConversionFailedError{Field: "pre_image", Err: err}
	}
	if len(b) == 0 {
		return nil, &bridge.ConversionFailedError{Field: "pre_image", Err: fmt.Errorf("empty preimage")}
	}
	return bridge.PreImage(b), nil
}

// PreImageOrRandom parses s or generates a random 32 byte preimage when s is
// empty.
func PreImageOrRandom(s string) (bridge.PreImage, error) {
	if s != "" {
		return ParsePreImage(s)
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return bridge.PreImage(b), nil
}

func FormatDetails(id bridge.TransferID, d *bridge.TransferDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Transfer ID: %s\n", id)
	fmt.Fprintf(&sb, "State: %s\n", d.State)
	fmt.Fprintf(&sb, "Originator: %s\n", d.Originator)
	fmt.Fprintf(&sb, "Recipient: %s\n", d.Recipient)
	fmt.Fprintf(&sb, "Amount: %s\n", d.Amount)
	fmt.Fprintf(&sb, "HashLock: %s\n", d.HashLock)
	fmt.Fprintf(&sb, "TimeLock: %d\n", d.TimeLock)
	return sb.String()
}
