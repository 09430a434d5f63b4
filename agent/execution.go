// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package agent

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Jeff-CCH/composable-router-go/router"
)

// validateLogics rejects malformed batches before any state is touched:
// balance shares above the bps base and patch offsets that do not leave
// room for a 32-byte word inside the payload.
func validateLogics(logics []router.Logic) error {
	for i := range logics {
		logic := &logics[i]
		for j := range logic.Inputs {
			input := &logic.Inputs[j]
			if input.BalanceBps > router.BpsBase {
				return router.ErrInvalidBps
			}
			if input.BalanceBps == 0 || !needsPatch(input) {
				continue
			}
			if !input.AmountOrOffset.IsUint64() {
				return router.ErrInvalidOffset
			}
			// The subtraction form avoids overflowing offset+32.
			offset := input.AmountOrOffset.Uint64()
			if uint64(len(logic.Data)) < 32 || offset > uint64(len(logic.Data))-32 {
				return router.ErrInvalidOffset
			}
		}
	}
	return nil
}

func needsPatch(input *router.Input) bool {
	return input.AmountOrOffset != nil && !input.AmountOrOffset.Eq(router.SkipOffset)
}

func (a *Agent) runLogics(logics []router.Logic, charge bool) error {
	for i := range logics {
		if err := a.runLogic(&logics[i], charge); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) runLogic(logic *router.Logic, charge bool) error {
	callValue := new(uint256.Int)
	for i := range logic.Inputs {
		input := &logic.Inputs[i]
		amount := a.resolveInput(input, logic.Data)
		switch {
		case input.Token == router.NativeToken && logic.WrapMode == router.WrapBefore:
			if err := a.wrap(amount); err != nil {
				return err
			}
			if err := a.ensureApproval(a.wrappedNative, spender(logic), amount); err != nil {
				return err
			}
		case input.Token == router.NativeToken:
			callValue.Add(callValue, amount)
		default:
			if err := a.ensureApproval(input.Token, spender(logic), amount); err != nil {
				return err
			}
		}
	}

	if logic.Callback != (common.Address{}) {
		a.gate.arm(logic.Callback)
	}

	if _, err := a.world.Call(router.CallParameters{
		Sender: a.addr,
		Target: logic.To,
		Value:  callValue,
		Input:  logic.Data,
	}); err != nil {
		// Downstream failures abort the batch unmodified.
		return err
	}

	if logic.WrapMode == router.UnwrapAfter {
		if err := a.unwrapAll(); err != nil {
			return err
		}
	}

	// An instruction may arm the gate without its call ever re-entering.
	// Under a fee charge that is rejected; otherwise the slot is simply
	// cleared once the outer call has returned.
	if charge && a.gate.isArmed() {
		return router.ErrUnresetCallbackWithCharge
	}
	a.gate.disarm()
	return nil
}

// resolveInput turns an input into a concrete amount. Proportional inputs
// read the agent's current balance, take the floor of its bps share, and
// patch the amount into the payload unless the input opted out. Offsets
// have been bound-checked by validateLogics.
func (a *Agent) resolveInput(input *router.Input, data []byte) *uint256.Int {
	if input.BalanceBps == 0 {
		if input.AmountOrOffset == nil {
			return new(uint256.Int)
		}
		return input.AmountOrOffset
	}
	balance := a.world.BalanceOf(input.Token, a.addr)
	amount, _ := new(uint256.Int).MulDivOverflow(balance, uint256.NewInt(input.BalanceBps), uint256.NewInt(router.BpsBase))
	if needsPatch(input) {
		word := amount.Bytes32()
		copy(data[input.AmountOrOffset.Uint64():], word[:])
	}
	return amount
}

func spender(logic *router.Logic) common.Address {
	if logic.ApproveTo == (common.Address{}) {
		return logic.To
	}
	return logic.ApproveTo
}

// ensureApproval grants a one-time unlimited approval for (token, spender).
// Later batches touching the same pair never approve again.
func (a *Agent) ensureApproval(token, spender common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	key := approvalKey{token: token, spender: spender}
	if _, ok := a.approved[key]; ok {
		return nil
	}
	if err := a.world.Approve(token, a.addr, spender, router.MaxApproval); err != nil {
		return err
	}
	a.approved[key] = struct{}{}
	a.granted = append(a.granted, key)
	return nil
}

// wrap deposits amount of the native asset into its wrapped representation.
func (a *Agent) wrap(amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	_, err := a.world.Call(router.CallParameters{
		Sender: a.addr,
		Target: a.wrappedNative,
		Value:  amount,
		Input:  depositSelector,
	})
	return err
}

// unwrapAll withdraws the agent's entire wrapped balance back to native.
func (a *Agent) unwrapAll() error {
	balance := a.world.BalanceOf(a.wrappedNative, a.addr)
	if balance.IsZero() {
		return nil
	}
	word := balance.Bytes32()
	data := make([]byte, 0, len(withdrawSelector)+len(word))
	data = append(data, withdrawSelector...)
	data = append(data, word[:]...)
	_, err := a.world.Call(router.CallParameters{
		Sender: a.addr,
		Target: a.wrappedNative,
		Value:  new(uint256.Int),
		Input:  data,
	})
	return err
}

// chargeFees transfers every fee to the fee collector and reports the
// charges for off-chain accounting.
func (a *Agent) chargeFees(fees []router.Fee) ([]router.Charged, error) {
	if len(fees) == 0 {
		return nil, nil
	}
	collector := a.registry.FeeCollector()
	charged := make([]router.Charged, 0, len(fees))
	for i := range fees {
		fee := &fees[i]
		if fee.Amount == nil || fee.Amount.IsZero() {
			continue
		}
		if err := a.world.Transfer(fee.Token, a.addr, collector, fee.Amount); err != nil {
			return nil, err
		}
		charged = append(charged, router.Charged{
			Token:    fee.Token,
			Amount:   fee.Amount,
			Metadata: fee.Metadata,
		})
	}
	return charged, nil
}

// sweep returns the full remaining balance of each requested token to the
// owner, skipping zero balances.
func (a *Agent) sweep(tokens []common.Address) error {
	for _, token := range tokens {
		balance := a.world.BalanceOf(token, a.addr)
		if balance.IsZero() {
			continue
		}
		if err := a.world.Transfer(token, a.addr, a.owner, balance); err != nil {
			return err
		}
	}
	return nil
}
