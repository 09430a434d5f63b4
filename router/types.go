// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package router

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// WrapMode controls wrapping of the native asset around a logic's call.
type WrapMode uint8

const (
	WrapNone    WrapMode = iota // no wrapping
	WrapBefore                  // wrap resolved native amounts before the call
	UnwrapAfter                 // unwrap the full wrapped balance after the call
)

func (m WrapMode) String() string {
	switch m {
	case WrapNone:
		return "none"
	case WrapBefore:
		return "wrap-before"
	case UnwrapAfter:
		return "unwrap-after"
	}
	return "unknown"
}

// Input declares one asset consumed by a logic and how its amount is
// resolved. A zero BalanceBps takes AmountOrOffset verbatim as the amount.
// A non-zero BalanceBps resolves the amount as a share of the agent's
// current balance, and AmountOrOffset is then the byte offset at which the
// resolved amount is patched into the call payload, or SkipOffset when no
// patch is wanted.
type Input struct {
	Token          common.Address
	BalanceBps     uint64
	AmountOrOffset *uint256.Int
}

// Logic is one external call plus its amount-resolution and safety
// metadata. It is consumed exactly once by an agent; the payload may be
// patched in place during execution.
type Logic struct {
	To        common.Address // call target
	Data      []byte         // call payload
	Inputs    []Input        // assets consumed by the call
	WrapMode  WrapMode
	ApproveTo common.Address // token spender, defaults to To when zero
	Callback  common.Address // address allowed to re-enter during the call, zero for none
}

// Fee is one protocol fee charged against an agent's balance. Metadata
// identifies the originating protocol or action for off-chain accounting.
type Fee struct {
	Token    common.Address
	Amount   *uint256.Int
	Metadata common.Hash
}

// Charged is the observable record emitted for every fee transferred to the
// fee collector.
type Charged struct {
	Token    common.Address
	Amount   *uint256.Int
	Metadata common.Hash
}

// LogicBatch is the unit over which a detached signature authorizes
// execution. It is immutable once hashed.
type LogicBatch struct {
	Logics   []Logic
	Fees     []Fee
	Referral common.Hash
	Deadline uint64
}

// Selector extracts the 4-byte call selector of a payload. Payloads shorter
// than a selector yield the zero selector.
func Selector(data []byte) [4]byte {
	var selector [4]byte
	copy(selector[:], data)
	return selector
}
