// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fees

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Jeff-CCH/composable-router-go/router"
)

// NativeCalculator charges a fee on the aggregate native inflow of a batch.
// Its payload is the single 32-byte encoding of the inflow amount, produced
// by EncodeNativeAmount; there is no selector.
type NativeCalculator struct {
	calculatorBase
}

// NewNativeCalculator creates the per-router native asset calculator.
// Rates above the bps base are rejected.
func NewNativeCalculator(rateBps uint64, metadata [32]byte) (*NativeCalculator, error) {
	base, err := newCalculatorBase(rateBps, metadata)
	if err != nil {
		return nil, err
	}
	return &NativeCalculator{base}, nil
}

// EncodeNativeAmount encodes an aggregate native inflow as the payload
// consumed by a NativeCalculator.
func EncodeNativeAmount(amount *uint256.Int) []byte {
	b := amount.Bytes32()
	return b[:]
}

func (c *NativeCalculator) Fees(_ common.Address, data []byte) ([]router.Fee, error) {
	if len(data) != wordSize {
		return nil, errShortPayload
	}
	amount := new(uint256.Int).SetBytes(data)
	return []router.Fee{{
		Token:    router.NativeToken,
		Amount:   c.fee(amount),
		Metadata: c.metadata,
	}}, nil
}

func (c *NativeCalculator) DataWithFee(_ common.Address, data []byte) ([]byte, error) {
	if len(data) != wordSize {
		return nil, errShortPayload
	}
	amount := new(uint256.Int).SetBytes(data)
	return EncodeNativeAmount(new(uint256.Int).Sub(amount, c.fee(amount))), nil
}
