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
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/Jeff-CCH/composable-router-go/router"
)

// TransferSelector is the 4-byte selector of ERC20 transfer(address,uint256).
var TransferSelector = [4]byte(crypto.Keccak256([]byte("transfer(address,uint256)"))[:4])

// TransferCalculator charges a fee on ERC20 transfer payloads. The token is
// the call target itself; the amount is the second parameter word.
type TransferCalculator struct {
	calculatorBase
}

// NewTransferCalculator creates a calculator charging rateBps on transfers,
// tagging fees with metadata. Rates above the bps base are rejected.
func NewTransferCalculator(rateBps uint64, metadata [32]byte) (*TransferCalculator, error) {
	base, err := newCalculatorBase(rateBps, metadata)
	if err != nil {
		return nil, err
	}
	return &TransferCalculator{base}, nil
}

func (c *TransferCalculator) Fees(target common.Address, data []byte) ([]router.Fee, error) {
	amountWord, err := word(data, 1)
	if err != nil {
		return nil, err
	}
	amount := new(uint256.Int).SetBytes(amountWord)
	return []router.Fee{{
		Token:    target,
		Amount:   c.fee(amount),
		Metadata: c.metadata,
	}}, nil
}

func (c *TransferCalculator) DataWithFee(target common.Address, data []byte) ([]byte, error) {
	amountWord, err := word(data, 1)
	if err != nil {
		return nil, err
	}
	amount := new(uint256.Int).SetBytes(amountWord)
	adjusted := make([]byte, len(data))
	copy(adjusted, data)
	putWord(adjusted, 1, new(uint256.Int).Sub(amount, c.fee(amount)))
	return adjusted, nil
}
