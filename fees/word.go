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

// AmountField locates one (token, amount) pair inside a fixed parameter
// layout, by parameter word index.
type AmountField struct {
	TokenWord  int
	AmountWord int
}

// WordCalculator charges a fee on calls whose token addresses and amounts
// sit at fixed parameter words, which covers the deposit/borrow/repay style
// entry points of most lending integrations.
type WordCalculator struct {
	calculatorBase
	fields []AmountField
}

// NewWordCalculator creates a calculator for the given layout. Rates above
// the bps base are rejected.
func NewWordCalculator(rateBps uint64, metadata [32]byte, fields []AmountField) (*WordCalculator, error) {
	base, err := newCalculatorBase(rateBps, metadata)
	if err != nil {
		return nil, err
	}
	return &WordCalculator{calculatorBase: base, fields: fields}, nil
}

func (c *WordCalculator) Fees(_ common.Address, data []byte) ([]router.Fee, error) {
	result := make([]router.Fee, 0, len(c.fields))
	for _, field := range c.fields {
		tokenWord, err := word(data, field.TokenWord)
		if err != nil {
			return nil, err
		}
		amountWord, err := word(data, field.AmountWord)
		if err != nil {
			return nil, err
		}
		amount := new(uint256.Int).SetBytes(amountWord)
		result = append(result, router.Fee{
			Token:    common.BytesToAddress(tokenWord[wordSize-common.AddressLength:]),
			Amount:   c.fee(amount),
			Metadata: c.metadata,
		})
	}
	return result, nil
}

func (c *WordCalculator) DataWithFee(_ common.Address, data []byte) ([]byte, error) {
	adjusted := make([]byte, len(data))
	copy(adjusted, data)
	for _, field := range c.fields {
		amountWord, err := word(adjusted, field.AmountWord)
		if err != nil {
			return nil, err
		}
		amount := new(uint256.Int).SetBytes(amountWord)
		putWord(adjusted, field.AmountWord, new(uint256.Int).Sub(amount, c.fee(amount)))
	}
	return adjusted, nil
}
