// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package dispatcher implements the top-level router owning the agents and
// the fee-calculator registry. Every caller gets a dedicated agent, created
// lazily on first use, and the router is the only entity driving agents.
// Batches are serialized router-wide: unwinding a failed batch restores a
// snapshot of the whole world state, so two in-flight batches would revert
// each other's changes.
package dispatcher

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/Jeff-CCH/composable-router-go/agent"
	"github.com/Jeff-CCH/composable-router-go/fees"
	"github.com/Jeff-CCH/composable-router-go/router"
	"github.com/Jeff-CCH/composable-router-go/sighash"
)

// Config carries the deployment parameters of a router.
type Config struct {
	Address       common.Address // the router's own account
	WrappedNative common.Address // fungible representation of the native asset
	FeeCollector  common.Address // fee sink
	ChainID       uint64         // bound into the signature domain
	Now           func() uint64  // unix clock for deadline checks, defaults to time.Now
}

// Router dispatches instruction batches to per-owner agents.
type Router struct {
	world      router.WorldState
	addr       common.Address
	wrapped    common.Address
	registry   *fees.Registry
	authorizer *sighash.Authorizer
	now        func() uint64

	// execMu serializes batch execution across all agents. Snapshots span
	// the whole world state, so overlapping batches must not exist.
	execMu sync.Mutex

	mu      sync.Mutex
	agents  map[common.Address]*agent.Agent
	signers map[common.Address]struct{}
	paused  bool
}

// New creates a router operating on the given world state.
func New(world router.WorldState, config Config) (*Router, error) {
	authorizer, err := sighash.NewAuthorizer(sighash.Domain{
		Name:      "Composable Router",
		Version:   "1",
		ChainID:   config.ChainID,
		Verifying: config.Address,
	})
	if err != nil {
		return nil, err
	}
	now := config.Now
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Router{
		world:      world,
		addr:       config.Address,
		wrapped:    config.WrappedNative,
		registry:   fees.NewRegistry(config.FeeCollector),
		authorizer: authorizer,
		now:        now,
		agents:     make(map[common.Address]*agent.Agent),
		signers:    make(map[common.Address]struct{}),
	}, nil
}

// Address returns the router's account.
func (r *Router) Address() common.Address {
	return r.addr
}

// Registry exposes the fee-calculator registry for configuration.
func (r *Router) Registry() *fees.Registry {
	return r.registry
}

// Digest returns the signable digest of a batch under this router's domain.
func (r *Router) Digest(batch router.LogicBatch) common.Hash {
	return r.authorizer.Digest(batch)
}

// AddSigner registers an address whose batch signatures are accepted.
func (r *Router) AddSigner(signer common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signers[signer] = struct{}{}
}

// RemoveSigner withdraws a signer registration.
func (r *Router) RemoveSigner(signer common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.signers, signer)
}

// SetPaused toggles the router-wide execution switch.
func (r *Router) SetPaused(paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
}

// Agent returns the caller's agent, if one has been created.
func (r *Router) Agent(owner common.Address) (*agent.Agent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[owner]
	return a, ok
}

// Execute runs a batch on the caller's agent, forwarding value of the
// native asset to it first. A failed batch refunds the forwarded value.
func (r *Router) Execute(caller common.Address, logics []router.Logic, sweepTokens []common.Address, value *uint256.Int) error {
	a, err := r.agentFor(caller)
	if err != nil {
		return err
	}
	r.execMu.Lock()
	defer r.execMu.Unlock()
	if err := r.forwardValue(caller, a, value); err != nil {
		return err
	}
	if err := a.Execute(r.addr, logics, sweepTokens); err != nil {
		return r.refundValue(caller, a, value, err)
	}
	return nil
}

// ExecuteWithFee runs a batch with on-the-fly fee resolution: the native
// calculator is applied once to the forwarded value, per-logic calculators
// are looked up by (selector, target) and rewrite their payloads, and the
// collected fees are charged before execution.
func (r *Router) ExecuteWithFee(caller common.Address, logics []router.Logic, sweepTokens []common.Address, value *uint256.Int) ([]router.Charged, error) {
	a, err := r.agentFor(caller)
	if err != nil {
		return nil, err
	}
	adjusted, batchFees, err := r.resolveFees(logics, value)
	if err != nil {
		return nil, err
	}
	r.execMu.Lock()
	defer r.execMu.Unlock()
	if err := r.forwardValue(caller, a, value); err != nil {
		return nil, err
	}
	charged, err := a.ExecuteWithFee(r.addr, adjusted, batchFees, sweepTokens)
	if err != nil {
		return nil, r.refundValue(caller, a, value, err)
	}
	return charged, nil
}

// ExecuteWithSignerFee runs a batch whose fees were computed and signed by
// a registered signer. The signature is verified against the canonical
// batch digest and the deadline before anything moves.
func (r *Router) ExecuteWithSignerFee(caller common.Address, batch router.LogicBatch, signer common.Address, signature []byte, sweepTokens []common.Address, value *uint256.Int) ([]router.Charged, error) {
	r.mu.Lock()
	_, registered := r.signers[signer]
	r.mu.Unlock()
	if !registered {
		return nil, router.ErrInvalidSigner
	}
	if err := r.authorizer.Verify(batch, signature, signer, r.now()); err != nil {
		return nil, err
	}
	a, err := r.agentFor(caller)
	if err != nil {
		return nil, err
	}
	r.execMu.Lock()
	defer r.execMu.Unlock()
	if err := r.forwardValue(caller, a, value); err != nil {
		return nil, err
	}
	charged, err := a.ExecuteWithFee(r.addr, batch.Logics, batch.Fees, sweepTokens)
	if err != nil {
		return nil, r.refundValue(caller, a, value, err)
	}
	return charged, nil
}

// resolveFees applies the registered calculators to a batch, returning the
// rewritten logics and the fees to charge. The submitted logics are not
// modified.
func (r *Router) resolveFees(logics []router.Logic, value *uint256.Int) ([]router.Logic, []router.Fee, error) {
	adjusted := make([]router.Logic, len(logics))
	copy(adjusted, logics)
	var batchFees []router.Fee
	if calculator, ok := r.registry.NativeFeeCalculator(); ok && value != nil && !value.IsZero() {
		nativeFees, err := calculator.Fees(r.addr, fees.EncodeNativeAmount(value))
		if err != nil {
			return nil, nil, err
		}
		batchFees = append(batchFees, nativeFees...)
	}
	for i := range adjusted {
		logic := &adjusted[i]
		calculator, ok := r.registry.FeeCalculator(router.Selector(logic.Data), logic.To)
		if !ok {
			continue
		}
		logicFees, err := calculator.Fees(logic.To, logic.Data)
		if err != nil {
			return nil, nil, err
		}
		batchFees = append(batchFees, logicFees...)
		data, err := calculator.DataWithFee(logic.To, logic.Data)
		if err != nil {
			return nil, nil, err
		}
		logic.Data = data
	}
	return adjusted, batchFees, nil
}

// agentFor returns the caller's agent, creating and initializing it on
// first use.
func (r *Router) agentFor(owner common.Address) (*agent.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused {
		return nil, router.ErrPaused
	}
	a, ok := r.agents[owner]
	if !ok {
		a = agent.New(r.world, r.registry, agentAddress(r.addr, owner), r.addr, r.wrapped)
		if err := a.Initialize(owner); err != nil {
			return nil, err
		}
		r.agents[owner] = a
	}
	return a, nil
}

func (r *Router) forwardValue(caller common.Address, a *agent.Agent, value *uint256.Int) error {
	if value == nil || value.IsZero() {
		return nil
	}
	return r.world.Transfer(router.NativeToken, caller, a.Address(), value)
}

// refundValue returns the forwarded native value of a failed batch and
// surfaces the batch error. The agent has already unwound to its entry
// state, which includes the inflow; a refund failure strands the value on
// the agent and is reported alongside the batch error.
func (r *Router) refundValue(caller common.Address, a *agent.Agent, value *uint256.Int, batchErr error) error {
	if value == nil || value.IsZero() {
		return batchErr
	}
	if err := r.world.Transfer(router.NativeToken, a.Address(), caller, value); err != nil {
		return errors.Join(batchErr, fmt.Errorf("failed to refund forwarded value: %w", err))
	}
	return batchErr
}

// agentAddress derives the deterministic account of an owner's agent.
func agentAddress(routerAddr, owner common.Address) common.Address {
	return common.BytesToAddress(crypto.Keccak256(routerAddr.Bytes(), owner.Bytes())[12:])
}
