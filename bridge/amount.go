// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"fmt"
	"strings"
)

type AssetType string

const (
	AssetEth    AssetType = "eth"
	AssetWeth   AssetType = "weth"
	AssetMovETH AssetType = "moveth"
)

func ParseAssetType(s string) (AssetType, error) {
	switch a := AssetType(strings.ToLower(s)); a {
	case AssetEth, AssetWeth, AssetMovETH:
		return a, nil
	default:
		return "", &ConversionFailedError{Field: "asset", Err: fmt.Errorf("unknown asset %q", s)}
	}
}

// Amount is a non-negative quantity of a single asset.
type Amount struct {
	Asset AssetType
	Value uint64
}

func NewAmount(asset AssetType, value uint64) Amount {
	return Amount{Asset: asset, Value: value}
}

func (a Amount) String() string {
	return fmt.Sprintf("%d %s", a.Value, a.Asset)
}

func (a Amount) Add(other Amount) (Amount, error) {
	if err := a.sameAsset(other); err != nil {
		return Amount{}, err
	}
	sum := a.Value + other.Value
	if sum < a.Value {
		return Amount{}, &ConversionFailedError{Field: "amount", Err: fmt.Errorf("overflow")}
	}
	return Amount{Asset: a.Asset, Value: sum}, nil
}

func (a Amount) Sub(other Amount) (Amount, error) {
	if err := a.sameAsset(other); err != nil {
		return Amount{}, err
	}
	if other.Value > a.Value {
		return Amount{}, &ConversionFailedError{Field: "amount", Err: fmt.Errorf("underflow")}
	}
	return Amount{Asset: a.Asset, Value: a.Value - other.Value}, nil
}

// Cmp returns -1, 0 or 1 like big.Int.Cmp.
func (a Amount) Cmp(other Amount) (int, error) {
	if err := a.sameAsset(other); err != nil {
		return 0, err
	}
	switch {
	case a.Value < other.Value:
		return -1, nil
	case a.Value > other.Value:
		return 1, nil
	default:
		return 0, nil
	}
}

func (a Amount) sameAsset(other Amount) error {
	if a.Asset != other.Asset {
		return &ConversionFailedError{
			Field: "asset",
			Err:   fmt.Errorf("mixed assets %s and %s", a.Asset, other.Asset),
		}
	}
	return nil
}

// AssetPair maps an asset locked on the initiator chain to the asset
// released on the counterparty chain.
type AssetPair struct {
	Source      AssetType
	Destination AssetType
}

func (p AssetPair) Convert(amount Amount) (Amount, error) {
	if amount.Asset != p.Source {
		return Amount{}, &ConversionFailedError{
			Field: "amount",
			Err:   fmt.Errorf("expected %s, got %s", p.Source, amount.Asset),
		}
	}
	return Amount{Asset: p.Destination, Value: amount.Value}, nil
}
