// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package routertest provides an in-memory router.WorldState for tests:
// token and native balances, ERC20-style allowances, programmable call
// targets, and snapshot/restore. Call handlers may re-enter the agent under
// test, which is how the callback path is exercised.
package routertest

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/Jeff-CCH/composable-router-go/router"
)

var (
	depositSelector      = router.Selector(crypto.Keccak256([]byte("deposit()"))[:4])
	withdrawSelector     = router.Selector(crypto.Keccak256([]byte("withdraw(uint256)"))[:4])
	transferSelector     = router.Selector(crypto.Keccak256([]byte("transfer(address,uint256)"))[:4])
	transferFromSelector = router.Selector(crypto.Keccak256([]byte("transferFrom(address,address,uint256)"))[:4])
)

// Handler implements one call target. It runs against the world itself and
// may re-enter the caller.
type Handler func(world *World, parameters router.CallParameters) ([]byte, error)

type ledger struct {
	balances   map[common.Address]map[common.Address]*uint256.Int                    // token -> account
	allowances map[common.Address]map[common.Address]map[common.Address]*uint256.Int // token -> owner -> spender
}

// World is an in-memory WorldState.
type World struct {
	ledger
	handlers  map[common.Address]Handler
	snapshots []ledger
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		ledger: ledger{
			balances:   make(map[common.Address]map[common.Address]*uint256.Int),
			allowances: make(map[common.Address]map[common.Address]map[common.Address]*uint256.Int),
		},
		handlers: make(map[common.Address]Handler),
	}
}

// RegisterHandler installs the implementation of a call target.
func (w *World) RegisterHandler(target common.Address, handler Handler) {
	w.handlers[target] = handler
}

// RegisterWrappedNative installs a wrapped-native token at the given
// address: deposit() mints the carried value as wrapped balance, and
// withdraw(uint256) burns wrapped balance back into native.
func (w *World) RegisterWrappedNative(token common.Address) {
	w.RegisterHandler(token, func(world *World, parameters router.CallParameters) ([]byte, error) {
		switch router.Selector(parameters.Input) {
		case depositSelector:
			// The carried value has already been moved to the token account.
			world.credit(token, parameters.Sender, parameters.Value)
			return nil, nil
		case withdrawSelector:
			if len(parameters.Input) < 36 {
				return nil, fmt.Errorf("withdraw payload too short")
			}
			amount := new(uint256.Int).SetBytes(parameters.Input[4:36])
			if err := world.debit(token, parameters.Sender, amount); err != nil {
				return nil, err
			}
			return nil, world.Transfer(router.NativeToken, token, parameters.Sender, amount)
		}
		return nil, fmt.Errorf("unknown wrapped native call")
	})
}

// RegisterERC20 makes a token address callable: transfer(address,uint256)
// moves the caller's balance, transferFrom(address,address,uint256)
// consumes the caller's allowance.
func (w *World) RegisterERC20(token common.Address) {
	w.RegisterHandler(token, func(world *World, parameters router.CallParameters) ([]byte, error) {
		input := parameters.Input
		switch router.Selector(input) {
		case transferSelector:
			if len(input) < 68 {
				return nil, fmt.Errorf("transfer payload too short")
			}
			to := common.BytesToAddress(input[16:36])
			amount := new(uint256.Int).SetBytes(input[36:68])
			return nil, world.Transfer(token, parameters.Sender, to, amount)
		case transferFromSelector:
			if len(input) < 100 {
				return nil, fmt.Errorf("transferFrom payload too short")
			}
			from := common.BytesToAddress(input[16:36])
			to := common.BytesToAddress(input[48:68])
			amount := new(uint256.Int).SetBytes(input[68:100])
			return nil, world.TransferFrom(token, from, to, parameters.Sender, amount)
		}
		return nil, fmt.Errorf("unknown token call")
	})
}

// SetBalance installs a balance, creating the account as needed.
func (w *World) SetBalance(token, account common.Address, amount *uint256.Int) {
	w.accountBalances(token)[account] = new(uint256.Int).Set(amount)
}

func (w *World) BalanceOf(token, account common.Address) *uint256.Int {
	if balance, ok := w.accountBalances(token)[account]; ok {
		return new(uint256.Int).Set(balance)
	}
	return new(uint256.Int)
}

func (w *World) Transfer(token, from, to common.Address, amount *uint256.Int) error {
	if err := w.debit(token, from, amount); err != nil {
		return err
	}
	w.credit(token, to, amount)
	return nil
}

func (w *World) Approve(token, owner, spender common.Address, amount *uint256.Int) error {
	owners, ok := w.allowances[token]
	if !ok {
		owners = make(map[common.Address]map[common.Address]*uint256.Int)
		w.allowances[token] = owners
	}
	spenders, ok := owners[owner]
	if !ok {
		spenders = make(map[common.Address]*uint256.Int)
		owners[owner] = spenders
	}
	spenders[spender] = new(uint256.Int).Set(amount)
	return nil
}

// Allowance returns the remaining allowance of spender over owner's token.
func (w *World) Allowance(token, owner, spender common.Address) *uint256.Int {
	if spenders, ok := w.allowances[token][owner]; ok {
		if allowance, ok := spenders[spender]; ok {
			return new(uint256.Int).Set(allowance)
		}
	}
	return new(uint256.Int)
}

// TransferFrom moves tokens out of owner on behalf of spender, consuming
// allowance. Unlimited allowances are not decremented.
func (w *World) TransferFrom(token, owner, to, spender common.Address, amount *uint256.Int) error {
	allowance := w.Allowance(token, owner, spender)
	if allowance.Lt(amount) {
		return fmt.Errorf("allowance of %s over %s too low", spender, owner)
	}
	if !allowance.Eq(router.MaxApproval) {
		w.allowances[token][owner][spender] = allowance.Sub(allowance, amount)
	}
	return w.Transfer(token, owner, to, amount)
}

func (w *World) Call(parameters router.CallParameters) ([]byte, error) {
	if parameters.Value != nil && !parameters.Value.IsZero() {
		if err := w.Transfer(router.NativeToken, parameters.Sender, parameters.Target, parameters.Value); err != nil {
			return nil, err
		}
	}
	handler, ok := w.handlers[parameters.Target]
	if !ok {
		return nil, nil
	}
	return handler(w, parameters)
}

func (w *World) CreateSnapshot() router.Snapshot {
	w.snapshots = append(w.snapshots, w.ledger.clone())
	return router.Snapshot(len(w.snapshots) - 1)
}

func (w *World) RestoreSnapshot(snapshot router.Snapshot) {
	w.ledger = w.snapshots[snapshot].clone()
	w.snapshots = w.snapshots[:snapshot]
}

func (w *World) accountBalances(token common.Address) map[common.Address]*uint256.Int {
	accounts, ok := w.balances[token]
	if !ok {
		accounts = make(map[common.Address]*uint256.Int)
		w.balances[token] = accounts
	}
	return accounts
}

func (w *World) credit(token, account common.Address, amount *uint256.Int) {
	accounts := w.accountBalances(token)
	balance, ok := accounts[account]
	if !ok {
		balance = new(uint256.Int)
		accounts[account] = balance
	}
	balance.Add(balance, amount)
}

func (w *World) debit(token, account common.Address, amount *uint256.Int) error {
	balance := w.accountBalances(token)[account]
	if balance == nil || balance.Lt(amount) {
		return fmt.Errorf("insufficient %s balance of %s", token, account)
	}
	balance.Sub(balance, amount)
	return nil
}

func (l ledger) clone() ledger {
	balances := make(map[common.Address]map[common.Address]*uint256.Int, len(l.balances))
	for token, accounts := range l.balances {
		copied := make(map[common.Address]*uint256.Int, len(accounts))
		for account, balance := range accounts {
			copied[account] = new(uint256.Int).Set(balance)
		}
		balances[token] = copied
	}
	allowances := make(map[common.Address]map[common.Address]map[common.Address]*uint256.Int, len(l.allowances))
	for token, owners := range l.allowances {
		copiedOwners := make(map[common.Address]map[common.Address]*uint256.Int, len(owners))
		for owner, spenders := range owners {
			copiedSpenders := make(map[common.Address]*uint256.Int, len(spenders))
			for spender, allowance := range spenders {
				copiedSpenders[spender] = new(uint256.Int).Set(allowance)
			}
			copiedOwners[owner] = copiedSpenders
		}
		allowances[token] = copiedOwners
	}
	return ledger{balances: balances, allowances: allowances}
}
