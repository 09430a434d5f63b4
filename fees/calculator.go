// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fees provides the protocol fee calculators and the registry that
// binds them to (call selector, target) pairs. A calculator decodes exactly
// the parameter layout its bound call expects, computes a basis-point fee
// per extracted amount, and rewrites the payload with the amounts net of
// fees, byte-identical everywhere else.
package fees

import (
	"github.com/holiman/uint256"

	"github.com/Jeff-CCH/composable-router-go/router"
)

const (
	selectorSize = 4
	wordSize     = 32
)

const errShortPayload = router.ConstError("payload too short for fee layout")

// calculatorBase carries the rate and metadata tag shared by all
// calculators of one integration.
type calculatorBase struct {
	rateBps  uint64
	metadata [32]byte
}

// newCalculatorBase rejects rates above the bps base, which would make the
// net amount written back into payloads underflow.
func newCalculatorBase(rateBps uint64, metadata [32]byte) (calculatorBase, error) {
	if rateBps > router.BpsBase {
		return calculatorBase{}, router.ErrInvalidBps
	}
	return calculatorBase{rateBps: rateBps, metadata: metadata}, nil
}

// fee computes amount * rateBps / BpsBase, rounded down.
func (b calculatorBase) fee(amount *uint256.Int) *uint256.Int {
	f := new(uint256.Int).Mul(amount, uint256.NewInt(b.rateBps))
	return f.Div(f, uint256.NewInt(router.BpsBase))
}

// word returns the index-th 32-byte parameter word of a payload.
func word(data []byte, index int) ([]byte, error) {
	start := selectorSize + index*wordSize
	if index < 0 || start+wordSize > len(data) {
		return nil, errShortPayload
	}
	return data[start : start+wordSize], nil
}

// putWord overwrites the index-th parameter word. The payload length has
// been checked by a prior word call.
func putWord(data []byte, index int, value *uint256.Int) {
	b := value.Bytes32()
	copy(data[selectorSize+index*wordSize:], b[:])
}
