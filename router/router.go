// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package router defines the core types and interfaces of the composable
// router: instruction batches ("logics"), fees, the world-state boundary the
// execution agents run against, and the registry interface through which
// agents resolve fee calculators and the fee collector.
package router

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

//go:generate mockgen -source router.go -destination router_mock.go -package router

// NativeToken is the sentinel address representing the chain's native asset
// in inputs, fees, and balance queries.
var NativeToken = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// MaxApproval is the unlimited allowance granted once per (token, spender)
// pair by an agent.
var MaxApproval = new(uint256.Int).Not(uint256.NewInt(0))

// SkipOffset marks a proportional input whose resolved amount is not written
// back into the call payload.
var SkipOffset = new(uint256.Int).Lsh(uint256.NewInt(1), 255)

// BpsBase is the denominator of all basis-point arithmetic.
const BpsBase = 10_000

// Snapshot identifies a world-state checkpoint that can be restored to
// unwind a failed batch.
type Snapshot int

// CallParameters describes a single external call performed by an agent on
// behalf of its owner.
type CallParameters struct {
	Sender common.Address // the account the call is issued from
	Target common.Address // the account being called
	Value  *uint256.Int   // native value carried with the call, may be nil
	Input  []byte         // call payload, 4-byte selector plus ABI words
}

// WorldState is the boundary between the execution engine and the chain
// environment it operates on. Implementations provide token accounting,
// external calls, and snapshot/restore for batch atomicity. Calls performed
// through this interface may synchronously re-enter the issuing agent via
// its callback path.
type WorldState interface {
	// BalanceOf returns the balance of token held by account. The native
	// asset is queried with NativeToken.
	BalanceOf(token, account common.Address) *uint256.Int

	// Transfer moves amount of token from one account to another.
	Transfer(token, from, to common.Address, amount *uint256.Int) error

	// Approve sets the allowance of spender over owner's token balance.
	Approve(token, owner, spender common.Address, amount *uint256.Int) error

	// Call performs an external call. The returned error is the unmodified
	// downstream failure, if any.
	Call(parameters CallParameters) ([]byte, error)

	// CreateSnapshot checkpoints the current state.
	CreateSnapshot() Snapshot

	// RestoreSnapshot reverts all state changes made since the checkpoint
	// was taken.
	RestoreSnapshot(snapshot Snapshot)
}

// FeeCalculator computes the protocol fee carried by one call payload and
// produces the fee-adjusted payload. Implementations are pure functions of
// the payload; they must not hold or read mutable state.
type FeeCalculator interface {
	// Fees decodes the payload of a call to target and returns the fee
	// charged per token.
	Fees(target common.Address, data []byte) ([]Fee, error)

	// DataWithFee returns a copy of the payload in which every extracted
	// amount is replaced by the amount net of its fee. All other bytes are
	// preserved exactly.
	DataWithFee(target common.Address, data []byte) ([]byte, error)
}

// FeeRegistry is the view of the dispatcher consumed by agents: calculator
// lookup and the fee sink address.
type FeeRegistry interface {
	// FeeCalculator returns the calculator bound to the given call selector
	// and target, if any.
	FeeCalculator(selector [4]byte, target common.Address) (FeeCalculator, bool)

	// NativeFeeCalculator returns the calculator applied once per batch to
	// the aggregate native inflow, if any.
	NativeFeeCalculator() (FeeCalculator, bool)

	// FeeCollector returns the address charged fees are transferred to.
	FeeCollector() common.Address
}
